// Package airports holds the airport domain model along with the helpers that
// turn provider payloads into records and filter them for search.
package airports

// Airport is the domain record served to clients. IATACode is treated as the
// identity key even though the provider does not guarantee uniqueness.
type Airport struct {
	Name        string  `json:"name"`
	City        string  `json:"city"`
	Country     string  `json:"country"`
	IATACode    string  `json:"iataCode"`
	ICAOCode    *string `json:"icaoCode,omitempty"`
	CountryCode *string `json:"countryCode,omitempty"`
	Latitude    *string `json:"latitude,omitempty"`
	Longitude   *string `json:"longitude,omitempty"`
	Timezone    *string `json:"timezone,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	GMT         *string `json:"gmt,omitempty"`
	GeonameID   *string `json:"geonameId,omitempty"`
}

// ProviderAirport is a single airport as returned by the Aviationstack API.
type ProviderAirport struct {
	ID           string  `json:"id"`
	GMT          *string `json:"gmt"`
	AirportID    string  `json:"airport_id"`
	IATACode     string  `json:"iata_code"`
	CityIATACode string  `json:"city_iata_code"`
	ICAOCode     *string `json:"icao_code"`
	CountryISO2  *string `json:"country_iso2"`
	GeonameID    *string `json:"geoname_id"`
	Latitude     *string `json:"latitude"`
	Longitude    *string `json:"longitude"`
	AirportName  string  `json:"airport_name"`
	CountryName  *string `json:"country_name"`
	PhoneNumber  *string `json:"phone_number"`
	Timezone     *string `json:"timezone"`
}

// Pagination mirrors the provider's pagination envelope.
type Pagination struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
	Count  int `json:"count"`
	Total  int `json:"total"`
}

// ProviderResponse is the full body of a provider airports page.
type ProviderResponse struct {
	Pagination Pagination        `json:"pagination"`
	Data       []ProviderAirport `json:"data"`
}

// Page is a set of airports together with the total reported by its source.
type Page struct {
	Airports []Airport `json:"airports"`
	Total    int       `json:"total"`
}
