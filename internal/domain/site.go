package domain

import (
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

//go:embed sites.csv
var embeddedSitesCSV string

// Region is the alert/forecast capability set a site belongs to, resolved
// once at load time from the country field. Provider selection branches on
// these capabilities, never on country strings.
type Region int

const (
	// RegionOther has no alert capability; accumulation comes from the
	// daily-forecast provider only.
	RegionOther Region = iota
	// RegionUS uses NWS point alerts and the NWS gridpoint forecast.
	RegionUS
	// RegionCanada uses a per-site ECCC bulletin feed when one is configured.
	RegionCanada
)

func (r Region) String() string {
	switch r {
	case RegionUS:
		return "us"
	case RegionCanada:
		return "canada"
	default:
		return "other"
	}
}

// HasPointAlerts reports whether the region supports alerts-by-coordinate.
func (r Region) HasPointAlerts() bool { return r == RegionUS }

// HasGridForecast reports whether the region is covered by the gridpoint
// time-series forecast.
func (r Region) HasGridForecast() bool { return r == RegionUS }

// ResolveRegion maps a free-form country label to its capability set.
func ResolveRegion(country string) Region {
	switch strings.ToLower(strings.TrimSpace(country)) {
	case "united states", "usa", "us":
		return RegionUS
	case "canada", "ca":
		return RegionCanada
	default:
		return RegionOther
	}
}

// Site is one monitored location. Immutable once loaded; owned by the
// evaluation loop for the duration of one run.
type Site struct {
	Name         string
	Country      string
	Status       string
	Lat          float64
	Lon          float64
	Code         string
	Application  string
	BusinessUnit string
	Address      string
	// FeedURL is the optional ECCC bulletin feed for Canadian sites.
	FeedURL string

	Region Region
}

// siteColumns is the required CSV header, in order.
var siteColumns = []string{
	"site_name", "country", "status", "lat", "lon",
	"site_code", "application", "business_unit", "address", "feed_url",
}

// LoadSites parses a site list CSV. The header must match siteColumns.
// Rows with unparseable coordinates are rejected; a malformed site list is a
// startup error, not something to degrade around.
func LoadSites(r io.Reader) ([]Site, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read site list header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, name := range siteColumns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("site list missing column %q", name)
		}
	}

	field := func(row []string, name string) string {
		return strings.TrimSpace(row[col[name]])
	}

	var sites []Site
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read site list: %w", err)
		}
		line++

		lat, err := strconv.ParseFloat(field(row, "lat"), 64)
		if err != nil {
			return nil, fmt.Errorf("site list line %d: bad lat: %w", line, err)
		}
		lon, err := strconv.ParseFloat(field(row, "lon"), 64)
		if err != nil {
			return nil, fmt.Errorf("site list line %d: bad lon: %w", line, err)
		}

		country := field(row, "country")
		sites = append(sites, Site{
			Name:         field(row, "site_name"),
			Country:      country,
			Status:       field(row, "status"),
			Lat:          lat,
			Lon:          lon,
			Code:         field(row, "site_code"),
			Application:  field(row, "application"),
			BusinessUnit: field(row, "business_unit"),
			Address:      field(row, "address"),
			FeedURL:      field(row, "feed_url"),
			Region:       ResolveRegion(country),
		})
	}

	if len(sites) == 0 {
		return nil, fmt.Errorf("site list contains no sites")
	}
	return sites, nil
}

// DefaultSites returns the embedded site list.
func DefaultSites() ([]Site, error) {
	return LoadSites(strings.NewReader(embeddedSitesCSV))
}
