// Package catalog holds the static commodity price catalog: baseline
// prices, trend classifications, known markets, and units. The catalog
// is loaded once at startup and read-only thereafter.
package catalog

import (
	"encoding/json"
	"log"
	"os"
	"sort"

	"github.com/agrisage/mandiwatch/pkg/models"
)

// Defaults applied when a commodity is absent from the catalog.
const (
	DefaultBaseline = 2000.0
	DefaultUnit     = "quintal"
)

// Entry is the catalog record for one commodity.
// Field names match the on-disk prices.json schema.
type Entry struct {
	Baseline float64      `json:"current_price"` // reference price, > 0
	Trend    models.Trend `json:"trend"`
	Markets  []string     `json:"markets"` // priority order; may be empty
	Unit     string       `json:"unit"`
}

// Catalog is an immutable commodity → Entry table.
type Catalog struct {
	entries map[string]Entry
	names   []string // sorted, defines the canonical commodity order
}

// New builds a catalog from an entries map, dropping invalid records.
func New(entries map[string]Entry) *Catalog {
	c := &Catalog{entries: make(map[string]Entry, len(entries))}
	for name, e := range entries {
		if name == "" || e.Baseline <= 0 {
			log.Printf("catalog: skipping invalid entry %q (baseline %.2f)", name, e.Baseline)
			continue
		}
		if !e.Trend.Valid() {
			e.Trend = models.TrendStable
		}
		if e.Unit == "" {
			e.Unit = DefaultUnit
		}
		c.entries[name] = e
		c.names = append(c.names, name)
	}
	sort.Strings(c.names)
	return c
}

// Load reads the catalog from a JSON file. A missing or malformed file
// is logged and yields an empty catalog; the service keeps running with
// every commodity treated as unknown.
func Load(path string) *Catalog {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("catalog: cannot read %s: %v (using empty catalog)", path, err)
		return New(nil)
	}

	var entries map[string]Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("catalog: cannot parse %s: %v (using empty catalog)", path, err)
		return New(nil)
	}

	return New(entries)
}

// Entry returns the catalog record for a commodity.
func (c *Catalog) Entry(commodity string) (Entry, bool) {
	e, ok := c.entries[commodity]
	return e, ok
}

// EntryOrDefault returns the catalog record, or a default entry anchored
// at the caller's state when the commodity is unknown.
func (c *Catalog) EntryOrDefault(commodity, state string) Entry {
	if e, ok := c.entries[commodity]; ok {
		return e
	}
	return Entry{
		Baseline: DefaultBaseline,
		Trend:    models.TrendStable,
		Markets:  []string{state},
		Unit:     DefaultUnit,
	}
}

// Commodities returns all commodity names in canonical (sorted) order.
func (c *Catalog) Commodities() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int { return len(c.entries) }
