package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jhonatancruzmail/SkyConnectExplorer/airports"
	"github.com/jhonatancruzmail/SkyConnectExplorer/pkg/health"
	"github.com/jhonatancruzmail/SkyConnectExplorer/pkg/logger"
	"github.com/jhonatancruzmail/SkyConnectExplorer/pkg/middleware"
	"github.com/jhonatancruzmail/SkyConnectExplorer/servercache"
)

const (
	errLoadAirports    = "Error al cargar aeropuertos"
	errAirportNotFound = "Aeropuerto no encontrado"
)

// AirportService is the server cache as seen by the HTTP layer.
type AirportService interface {
	GetAirports(ctx context.Context) (airports.Page, error)
	Invalidate()
	State() servercache.State
}

// AirportsResponse is the body of GET /api/airports.
type AirportsResponse struct {
	Airports []airports.Airport `json:"airports"`
	Total    int                `json:"total"`
}

func loadPage(c *gin.Context, svc AirportService) (airports.Page, bool) {
	cacheStatus := "MISS"
	if svc.State() == servercache.StatePopulated {
		cacheStatus = "HIT"
	}

	page, err := svc.GetAirports(c.Request.Context())
	if err != nil {
		logger.WithContext(c.Request.Context()).Error(err, "Error in API route", "path", c.FullPath())
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errLoadAirports})
		return airports.Page{}, false
	}

	c.Header(middleware.CacheStatusHeader, cacheStatus)
	return page, true
}

// GetAirports returns every cached airport and the provider total.
func GetAirports(svc AirportService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, ok := loadPage(c, svc)
		if !ok {
			return
		}

		list := page.Airports
		if list == nil {
			list = []airports.Airport{}
		}
		c.JSON(http.StatusOK, AirportsResponse{Airports: list, Total: page.Total})
	}
}

// GetAirportByIATA returns a single airport for the detail view.
func GetAirportByIATA(svc AirportService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, ok := loadPage(c, svc)
		if !ok {
			return
		}

		airport, found := airports.FindByIATA(page.Airports, c.Param("iata"))
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": errAirportNotFound})
			return
		}
		c.JSON(http.StatusOK, airport)
	}
}

// InvalidateCache drops the in-memory snapshot so the next request reloads it.
func InvalidateCache(svc AirportService) gin.HandlerFunc {
	return func(c *gin.Context) {
		svc.Invalidate()
		c.JSON(http.StatusOK, gin.H{"status": "invalidated", "state": svc.State()})
	}
}

// Health reports dependency health; it answers 503 when any check is down.
func Health(checker *health.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		report := checker.CheckHealth(c.Request.Context())
		status := http.StatusOK
		if report.Status == health.StatusDown {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, report)
	}
}
