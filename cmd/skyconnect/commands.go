package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/jhonatancruzmail/SkyConnectExplorer/airports"
	"github.com/jhonatancruzmail/SkyConnectExplorer/clientstore"
)

const usage = `usage: skyconnect <command> [arguments]

commands:
  search [-page N] [-page-size N] [query]   list airports, optionally filtered
  show IATA                                 show one airport
  history [-clear]                          list recent searches
  refresh                                   discard the local cache and reload
`

var errUsage = errors.New("invalid usage")

// report prints err to w and returns the process exit code: 0 on success,
// 2 for usage errors and 1 for everything else.
func report(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	fmt.Fprintf(w, "skyconnect: %v\n", err)
	if errors.Is(err, errUsage) {
		return 2
	}
	return 1
}

type app struct {
	store    *clientstore.Store
	out      io.Writer
	pageSize int
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return errUsage
	}

	switch args[0] {
	case "search":
		return a.search(ctx, args[1:])
	case "show":
		return a.show(ctx, args[1:])
	case "history":
		return a.history(args[1:])
	case "refresh":
		return a.refresh(ctx)
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return nil
	default:
		fmt.Fprint(a.out, usage)
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

// load makes sure the store holds airports and surfaces a failed load.
func (a *app) load(ctx context.Context) error {
	a.store.LoadAllAirports(ctx)
	if err := a.store.Snapshot().Err; err != nil {
		a.store.ClearError()
		return fmt.Errorf("loading airports: %w", err)
	}
	return nil
}

func (a *app) search(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	fs.SetOutput(a.out)
	page := fs.Int("page", 1, "page number, starting at 1")
	pageSize := fs.Int("page-size", a.pageSize, "airports per page")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *page < 1 || *pageSize < 1 {
		return fmt.Errorf("%w: page and page-size must be positive", errUsage)
	}

	if err := a.load(ctx); err != nil {
		return err
	}

	query := strings.TrimSpace(strings.Join(fs.Args(), " "))
	a.store.SetSearchQuery(query)
	a.store.AddToSearchHistory(query)

	results := a.store.AirportsForPage(*page, *pageSize)
	totalPages := a.store.TotalPages(*pageSize)
	if len(results) == 0 {
		if query != "" {
			fmt.Fprintf(a.out, "No airports match %q.\n", query)
		} else {
			fmt.Fprintln(a.out, "No airports on this page.")
		}
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "IATA\tNAME\tCITY\tCOUNTRY")
	for _, airport := range results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", airport.IATACode, airport.Name, airport.City, airport.Country)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Page %d of %d\n", *page, totalPages)
	return nil
}

func (a *app) show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: show takes exactly one IATA code", errUsage)
	}
	if err := a.load(ctx); err != nil {
		return err
	}

	airport, ok := a.store.AirportByIATA(args[0])
	if !ok {
		return fmt.Errorf("airport %s not found", strings.ToUpper(args[0]))
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Name:\t%s\n", airport.Name)
	fmt.Fprintf(tw, "IATA:\t%s\n", airport.IATACode)
	fmt.Fprintf(tw, "City:\t%s\n", airport.City)
	fmt.Fprintf(tw, "Country:\t%s\n", airport.Country)
	for _, field := range detailFields(airport) {
		fmt.Fprintf(tw, "%s:\t%s\n", field.label, field.value)
	}
	return tw.Flush()
}

type detailField struct {
	label string
	value string
}

func detailFields(airport airports.Airport) []detailField {
	var fields []detailField
	add := func(label string, value *string) {
		if value != nil && *value != "" {
			fields = append(fields, detailField{label, *value})
		}
	}
	add("ICAO", airport.ICAOCode)
	add("Country code", airport.CountryCode)
	add("Latitude", airport.Latitude)
	add("Longitude", airport.Longitude)
	add("Timezone", airport.Timezone)
	add("GMT", airport.GMT)
	add("Phone", airport.PhoneNumber)
	add("GeoNames ID", airport.GeonameID)
	return fields
}

func (a *app) history(args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(a.out)
	clearAll := fs.Bool("clear", false, "remove all recorded searches")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if *clearAll {
		a.store.ClearSearchHistory()
		fmt.Fprintln(a.out, "Search history cleared.")
		return nil
	}

	entries := a.store.Snapshot().SearchHistory
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No recent searches.")
		return nil
	}
	for _, entry := range entries {
		fmt.Fprintf(a.out, "%s  %s\n", entry.Timestamp.Local().Format(time.DateTime), entry.Query)
	}
	return nil
}

func (a *app) refresh(ctx context.Context) error {
	a.store.Purge()
	if err := a.load(ctx); err != nil {
		return err
	}
	st := a.store.Snapshot()
	fmt.Fprintf(a.out, "Loaded %d airports (provider total %d).\n", len(st.AllAirports), st.TotalAirports)
	return nil
}
