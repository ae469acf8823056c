package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhonatancruzmail/SkyConnectExplorer/airports"
	"github.com/jhonatancruzmail/SkyConnectExplorer/clientstore"
	"github.com/jhonatancruzmail/SkyConnectExplorer/pkg/cache"
)

type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) FetchAll(ctx context.Context) (airports.Page, error) {
	args := m.Called(ctx)
	return args.Get(0).(airports.Page), args.Error(1)
}

func strPtr(s string) *string { return &s }

func testPage() airports.Page {
	return airports.Page{
		Airports: []airports.Airport{
			{Name: "El Prat", City: "BCN", Country: "Spain", IATACode: "BCN", ICAOCode: strPtr("LEBL")},
			{Name: "Barajas", City: "MAD", Country: "Spain", IATACode: "MAD", ICAOCode: strPtr("LEMD"), Timezone: strPtr("Europe/Madrid")},
		},
		Total: 2,
	}
}

func newTestApp(fetcher clientstore.Fetcher) (*app, *bytes.Buffer) {
	out := &bytes.Buffer{}
	store := clientstore.New(fetcher, clientstore.WithStorage(cache.NewMemoryCache(), ""))
	return &app{store: store, out: out, pageSize: 12}, out
}

func TestSearch_FiltersAndRecordsHistory(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("FetchAll", mock.Anything).Return(testPage(), nil).Once()
	a, out := newTestApp(fetcher)

	require.NoError(t, a.run(context.Background(), []string{"search", "prat"}))

	assert.Contains(t, out.String(), "El Prat")
	assert.NotContains(t, out.String(), "Barajas")
	assert.Contains(t, out.String(), "Page 1 of 1")

	history := a.store.Snapshot().SearchHistory
	require.Len(t, history, 1)
	assert.Equal(t, "prat", history[0].Query)
}

func TestSearch_PaginatesFullList(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("FetchAll", mock.Anything).Return(testPage(), nil).Once()
	a, out := newTestApp(fetcher)

	require.NoError(t, a.run(context.Background(), []string{"search", "-page", "2", "-page-size", "1"}))

	assert.Contains(t, out.String(), "Barajas")
	assert.NotContains(t, out.String(), "El Prat")
	assert.Contains(t, out.String(), "Page 2 of 2")
	assert.Empty(t, a.store.Snapshot().SearchHistory)
}

func TestSearch_NoMatches(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("FetchAll", mock.Anything).Return(testPage(), nil).Once()
	a, out := newTestApp(fetcher)

	require.NoError(t, a.run(context.Background(), []string{"search", "zzz"}))
	assert.Contains(t, out.String(), `No airports match "zzz"`)
}

func TestSearch_LoadFailure(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("FetchAll", mock.Anything).Return(airports.Page{}, errors.New("connection refused")).Once()
	a, _ := newTestApp(fetcher)

	err := a.run(context.Background(), []string{"search"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Nil(t, a.store.Snapshot().Err)
}

func TestShow(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("FetchAll", mock.Anything).Return(testPage(), nil).Once()
	a, out := newTestApp(fetcher)

	require.NoError(t, a.run(context.Background(), []string{"show", "mad"}))
	assert.Contains(t, out.String(), "Barajas")
	assert.Contains(t, out.String(), "LEMD")
	assert.Contains(t, out.String(), "Europe/Madrid")

	err := a.run(context.Background(), []string{"show", "jfk"})
	assert.EqualError(t, err, "airport JFK not found")

	err = a.run(context.Background(), []string{"show"})
	assert.ErrorIs(t, err, errUsage)
	fetcher.AssertExpectations(t)
}

func TestHistory(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("FetchAll", mock.Anything).Return(testPage(), nil).Once()
	a, out := newTestApp(fetcher)

	require.NoError(t, a.run(context.Background(), []string{"history"}))
	assert.Contains(t, out.String(), "No recent searches.")

	require.NoError(t, a.run(context.Background(), []string{"search", "prat"}))
	require.NoError(t, a.run(context.Background(), []string{"search", "barajas"}))
	out.Reset()
	require.NoError(t, a.run(context.Background(), []string{"history"}))
	assert.Regexp(t, `(?s)barajas.*prat`, out.String())

	require.NoError(t, a.run(context.Background(), []string{"history", "-clear"}))
	assert.Empty(t, a.store.Snapshot().SearchHistory)
}

func TestRefresh_RefetchesValidCache(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("FetchAll", mock.Anything).Return(testPage(), nil).Twice()
	a, out := newTestApp(fetcher)

	require.NoError(t, a.run(context.Background(), []string{"search"}))
	require.NoError(t, a.run(context.Background(), []string{"refresh"}))

	assert.Contains(t, out.String(), "Loaded 2 airports (provider total 2).")
	fetcher.AssertNumberOfCalls(t, "FetchAll", 2)
}

func TestRun_Usage(t *testing.T) {
	a, out := newTestApp(new(MockFetcher))

	assert.ErrorIs(t, a.run(context.Background(), nil), errUsage)
	assert.ErrorIs(t, a.run(context.Background(), []string{"bogus"}), errUsage)
	assert.Contains(t, out.String(), "usage: skyconnect")
}

func TestReport(t *testing.T) {
	var stderr bytes.Buffer

	assert.Equal(t, 0, report(&stderr, nil))
	assert.Empty(t, stderr.String())

	assert.Equal(t, 2, report(&stderr, errUsage))
	assert.Equal(t, "skyconnect: invalid usage\n", stderr.String())

	stderr.Reset()
	a, _ := newTestApp(new(MockFetcher))
	err := a.run(context.Background(), []string{"show"})
	assert.Equal(t, 2, report(&stderr, err))
	assert.Equal(t, "skyconnect: invalid usage: show takes exactly one IATA code\n", stderr.String())

	stderr.Reset()
	assert.Equal(t, 1, report(&stderr, errors.New("airport JFK not found")))
	assert.Equal(t, "skyconnect: airport JFK not found\n", stderr.String())
}
