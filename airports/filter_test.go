package airports

import (
	"testing"

	"github.com/go-test/deep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSet() []Airport {
	return []Airport{
		{Name: "El Prat", City: "Barcelona", Country: "Spain", IATACode: "BCN"},
		{Name: "Adolfo Suárez Madrid-Barajas", City: "Madrid", Country: "Spain", IATACode: "MAD"},
		{Name: "Benito Juárez International", City: "Ciudad de México", Country: "México", IATACode: "MEX"},
		{Name: "Guarulhos", City: "São Paulo", Country: "Brazil", IATACode: "GRU"},
		{Name: "Kastrup", City: "København", Country: "Denmark", IATACode: "CPH"},
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Madrid ", "madrid"},
		{"México", "mexico"},
		{"SÃO PAULO", "sao paulo"},
		{"København", "kobenhavn"},
		{"Straße", "strasse"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestFilter_BlankQueryReturnsInput(t *testing.T) {
	in := sampleSet()

	assert.Equal(t, in, Filter(in, ""))
	assert.Equal(t, in, Filter(in, "   \t"))
	// combining marks alone normalize to nothing
	assert.Equal(t, "", Normalize("\u0301"))
	assert.Equal(t, in, Filter(in, "\u0301"))
	assert.Equal(t, in, Filter(in, " \u0301\u0308 "))
}

func TestFilter_MatchesIATACode(t *testing.T) {
	in := []Airport{
		{Name: "El Prat", City: "Barcelona", Country: "Spain", IATACode: "BCN"},
		{Name: "Barajas", City: "Madrid", Country: "Spain", IATACode: "MAD"},
	}

	got := Filter(in, "BCN")
	if diff := deep.Equal(got, in[:1]); diff != nil {
		t.Error(diff)
	}
}

func TestFilter_CaseAndDiacriticInsensitive(t *testing.T) {
	in := sampleSet()

	got := Filter(in, "madrid")
	require.Len(t, got, 1)
	assert.Equal(t, "MAD", got[0].IATACode)

	got = Filter(in, "mexico")
	require.Len(t, got, 1)
	assert.Equal(t, "MEX", got[0].IATACode)

	got = Filter(in, "SAO")
	require.Len(t, got, 1)
	assert.Equal(t, "GRU", got[0].IATACode)

	got = Filter(in, "kobenhavn")
	require.Len(t, got, 1)
	assert.Equal(t, "CPH", got[0].IATACode)
}

func TestFilter_MatchesAnyField(t *testing.T) {
	in := sampleSet()

	got := Filter(in, "spain")
	require.Len(t, got, 2)
	assert.Equal(t, "BCN", got[0].IATACode)
	assert.Equal(t, "MAD", got[1].IATACode)

	got = Filter(in, "prat")
	require.Len(t, got, 1)
	assert.Equal(t, "BCN", got[0].IATACode)
}

func TestFilter_SubsetPreservesOrderAndIsIdempotent(t *testing.T) {
	in := sampleSet()

	for _, q := range []string{"a", "ar", "spain", "zzz", "M", "ó"} {
		got := Filter(in, q)

		// every result appears in the input, in the same relative order
		idx := 0
		for _, airport := range got {
			for idx < len(in) && in[idx].IATACode != airport.IATACode {
				idx++
			}
			require.Less(t, idx, len(in), "query %q produced out-of-order or foreign record", q)
			idx++
		}

		if diff := deep.Equal(Filter(got, q), got); diff != nil {
			t.Errorf("query %q not idempotent: %v", q, diff)
		}
	}
}

func TestFilter_NoMatch(t *testing.T) {
	got := Filter(sampleSet(), "tokyo")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFindByIATA(t *testing.T) {
	in := sampleSet()

	airport, ok := FindByIATA(in, "mad")
	require.True(t, ok)
	assert.Equal(t, "Madrid", airport.City)

	_, ok = FindByIATA(in, "JFK")
	assert.False(t, ok)

	_, ok = FindByIATA(in, " ")
	assert.False(t, ok)
}
