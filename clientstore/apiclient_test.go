package clientstore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIClient_FetchAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/airports", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"airports":[{"name":"El Prat","city":"Barcelona","country":"Spain","iataCode":"BCN","icaoCode":"LEBL"}],"total":6711}`))
	}))
	defer srv.Close()

	page, err := NewAPIClient(srv.URL+"/", time.Second).FetchAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6711, page.Total)
	require.Len(t, page.Airports, 1)
	assert.Equal(t, "BCN", page.Airports[0].IATACode)
	require.NotNil(t, page.Airports[0].ICAOCode)
	assert.Equal(t, "LEBL", *page.Airports[0].ICAOCode)
	assert.Nil(t, page.Airports[0].PhoneNumber)
}

func TestAPIClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Error al cargar aeropuertos"}`))
	}))
	defer srv.Close()

	_, err := NewAPIClient(srv.URL, time.Second).FetchAll(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "Error al cargar aeropuertos")
}

func TestAPIClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewAPIClient(url, time.Second).FetchAll(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnexpectedStatus)
}
