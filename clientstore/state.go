package clientstore

import (
	"time"

	"github.com/jhonatancruzmail/SkyConnectExplorer/airports"
)

const (
	// DefaultTotalAirports is the total reported before the first load completes.
	DefaultTotalAirports = 6711
	// DefaultHistoryLimit caps the number of retained searches.
	DefaultHistoryLimit = 10
	// DefaultTTL is how long a persisted airport list stays valid.
	DefaultTTL = 24 * time.Hour

	persistVersion = 1
)

// HistoryEntry is a past search.
type HistoryEntry struct {
	Query     string    `json:"query"`
	Timestamp time.Time `json:"timestamp"`
}

// State is an immutable view of the store. FilteredAirports is always derived
// from AllAirports and SearchQuery.
type State struct {
	AllAirports            []airports.Airport
	FilteredAirports       []airports.Airport
	IsLoading              bool
	Err                    error
	SearchQuery            string
	TotalAirports          int
	AirportsCacheTimestamp *time.Time
	SearchHistory          []HistoryEntry
}

// persistedState is the subset written to storage. Derived and transient
// fields are never persisted.
type persistedState struct {
	Version                int                `json:"version"`
	AllAirports            []airports.Airport `json:"allAirports"`
	TotalAirports          int                `json:"totalAirports"`
	AirportsCacheTimestamp *time.Time         `json:"airportsCacheTimestamp"`
	SearchHistory          []HistoryEntry     `json:"searchHistory"`
}

func (s State) persisted() persistedState {
	return persistedState{
		Version:                persistVersion,
		AllAirports:            s.AllAirports,
		TotalAirports:          s.TotalAirports,
		AirportsCacheTimestamp: s.AirportsCacheTimestamp,
		SearchHistory:          s.SearchHistory,
	}
}

func (s State) clone() State {
	out := s
	out.SearchHistory = append([]HistoryEntry(nil), s.SearchHistory...)
	return out
}
