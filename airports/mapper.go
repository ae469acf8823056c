package airports

// UnknownCountry is used when the provider omits the country name.
const UnknownCountry = "Unknown"

// ToDomain converts provider payloads into domain records. Optional fields are
// passed through as-is; only a missing country name is defaulted.
func ToDomain(payloads []ProviderAirport) []Airport {
	result := make([]Airport, 0, len(payloads))
	for _, p := range payloads {
		country := UnknownCountry
		if p.CountryName != nil && *p.CountryName != "" {
			country = *p.CountryName
		}

		result = append(result, Airport{
			Name:        p.AirportName,
			City:        p.CityIATACode,
			Country:     country,
			IATACode:    p.IATACode,
			ICAOCode:    p.ICAOCode,
			CountryCode: p.CountryISO2,
			Latitude:    p.Latitude,
			Longitude:   p.Longitude,
			Timezone:    p.Timezone,
			PhoneNumber: p.PhoneNumber,
			GMT:         p.GMT,
			GeonameID:   p.GeonameID,
		})
	}
	return result
}
