package airports

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed sample_airports.json
var sampleAirportsJSON []byte

// SampleProvider serves the bundled sample dataset used when the provider
// cannot be reached outside production.
type SampleProvider struct {
	raw []byte
}

// NewSampleProvider returns a provider backed by the embedded sample payload.
func NewSampleProvider() *SampleProvider {
	return &SampleProvider{raw: sampleAirportsJSON}
}

// NewSampleProviderFromBytes returns a provider that decodes raw instead of
// the embedded payload.
func NewSampleProviderFromBytes(raw []byte) *SampleProvider {
	return &SampleProvider{raw: raw}
}

// Load decodes the sample payload and maps it to domain records. Total is the
// pagination total declared by the payload.
func (p *SampleProvider) Load() (Page, error) {
	if len(p.raw) == 0 {
		return Page{}, fmt.Errorf("sample data is empty")
	}

	var resp ProviderResponse
	if err := json.Unmarshal(p.raw, &resp); err != nil {
		return Page{}, fmt.Errorf("failed to decode sample data: %w", err)
	}

	return Page{
		Airports: ToDomain(resp.Data),
		Total:    resp.Pagination.Total,
	}, nil
}
