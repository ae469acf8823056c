package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jhonatancruzmail/SkyConnectExplorer/airports"
	"github.com/jhonatancruzmail/SkyConnectExplorer/clientstore"
)

type tools struct {
	store           *clientstore.Store
	defaultPageSize int
}

type searchResult struct {
	Query      string             `json:"query"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
	Total      int                `json:"total"`
	Airports   []airports.Airport `json:"airports"`
}

func (t *tools) register(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("search_airports",
		mcp.WithDescription("Search airports by name, city, country or IATA code. Matching ignores case and accents."),
		mcp.WithString("query",
			mcp.Description("Free-text search. Leave empty to page through every airport."),
		),
		mcp.WithNumber("page",
			mcp.Description("Page number starting at 1 (default 1)"),
		),
		mcp.WithNumber("page_size",
			mcp.Description(fmt.Sprintf("Airports per page (default %d)", t.defaultPageSize)),
		),
	), t.searchAirports)

	s.AddTool(mcp.NewTool("get_airport",
		mcp.WithDescription("Get the full record of one airport"),
		mcp.WithString("iata",
			mcp.Required(),
			mcp.Description("IATA airport code (e.g., MAD, JFK)"),
		),
	), t.getAirport)

	s.AddTool(mcp.NewTool("search_history",
		mcp.WithDescription("List recent airport searches, newest first"),
	), t.searchHistory)
}

func arguments(request mcp.CallToolRequest) (map[string]interface{}, bool) {
	if request.Params.Arguments == nil {
		return map[string]interface{}{}, true
	}
	argsMap, ok := request.Params.Arguments.(map[string]interface{})
	return argsMap, ok
}

func intArg(argsMap map[string]interface{}, name string, def int) int {
	v, ok := argsMap[name].(float64)
	if !ok || v == 0 {
		return def
	}
	return int(v)
}

// loaded ensures the store has airports, turning a failed load into an error message.
func (t *tools) loaded(ctx context.Context) *mcp.CallToolResult {
	t.store.LoadAllAirports(ctx)
	if err := t.store.Snapshot().Err; err != nil {
		t.store.ClearError()
		return mcp.NewToolResultError(fmt.Sprintf("Error loading airports: %v", err))
	}
	return nil
}

func (t *tools) searchAirports(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	argsMap, ok := arguments(request)
	if !ok {
		return mcp.NewToolResultError("Invalid arguments format"), nil
	}

	query, _ := argsMap["query"].(string)
	query = strings.TrimSpace(query)
	page := intArg(argsMap, "page", 1)
	pageSize := intArg(argsMap, "page_size", t.defaultPageSize)
	if page < 1 || pageSize < 1 {
		return mcp.NewToolResultError("page and page_size must be positive"), nil
	}

	if res := t.loaded(ctx); res != nil {
		return res, nil
	}

	t.store.SetSearchQuery(query)
	t.store.AddToSearchHistory(query)

	st := t.store.Snapshot()
	total := st.TotalAirports
	if query != "" {
		total = len(st.FilteredAirports)
	}

	return jsonResult(searchResult{
		Query:      query,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: t.store.TotalPages(pageSize),
		Total:      total,
		Airports:   t.store.AirportsForPage(page, pageSize),
	})
}

func (t *tools) getAirport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	argsMap, ok := arguments(request)
	if !ok {
		return mcp.NewToolResultError("Invalid arguments format"), nil
	}
	code, _ := argsMap["iata"].(string)
	code = strings.TrimSpace(code)
	if code == "" {
		return mcp.NewToolResultError("iata is required"), nil
	}

	if res := t.loaded(ctx); res != nil {
		return res, nil
	}

	airport, found := t.store.AirportByIATA(code)
	if !found {
		return mcp.NewToolResultError(fmt.Sprintf("Airport %s not found", strings.ToUpper(code))), nil
	}
	return jsonResult(airport)
}

func (t *tools) searchHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	history := t.store.Snapshot().SearchHistory
	if history == nil {
		history = []clientstore.HistoryEntry{}
	}
	return jsonResult(map[string]interface{}{"history": history})
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error marshaling response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}
