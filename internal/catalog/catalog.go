// Package catalog loads capacitor specification tables. Tables use
// datasheet units (µF, Ω, µA/V, %/°C); Entry.Profile converts to SI.
package catalog

import (
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/multierr"

	"github.com/san-kum/capsim/internal/capacitor"
)

//go:embed capacitors.csv
var builtin string

// Columns in table order.
var Columns = []string{"Type", "Capacitance (µF)", "ESR (Ω)", "Leakage (µA/V)", "TempCoeff (%/°C)"}

// Entry is one table row in datasheet units.
type Entry struct {
	Type        string
	Capacitance float64 // µF
	ESR         float64 // Ω
	Leakage     float64 // µA/V
	TempCoeff   float64 // %/°C
}

// Profile converts the entry to SI units.
func (e Entry) Profile() (capacitor.Profile, error) {
	return capacitor.NewProfile(e.Type, e.Capacitance*1e-6, e.ESR, e.Leakage*1e-6, e.TempCoeff/100)
}

type Catalog struct {
	entries []Entry
	index   map[string]int
}

var ErrNotFound = errors.New("catalog: capacitor type not found")

// Default returns the built-in table.
func Default() *Catalog {
	c, err := Parse(strings.NewReader(builtin))
	if err != nil {
		panic(fmt.Sprintf("catalog: built-in table: %v", err))
	}
	return c
}

func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	defer f.Close()

	c, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse reads a header row followed by one row per capacitor type. Columns
// are matched by position; every bad row is reported.
func Parse(r io.Reader) (*Catalog, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Columns)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("catalog: empty table")
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: header: %w", err)
	}
	if !strings.EqualFold(strings.TrimPrefix(header[0], "\ufeff"), "type") {
		return nil, fmt.Errorf("catalog: first column is %q, want Type", header[0])
	}

	c := &Catalog{index: make(map[string]int)}
	var errs error
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("catalog: %w", err))
			continue
		}
		line, _ := cr.FieldPos(0)

		e, err := parseEntry(rec)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("catalog: line %d: %w", line, err))
			continue
		}
		key := indexKey(e.Type)
		if _, dup := c.index[key]; dup {
			errs = multierr.Append(errs, fmt.Errorf("catalog: line %d: duplicate type %q", line, e.Type))
			continue
		}
		if _, err := e.Profile(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("catalog: line %d: %w", line, err))
			continue
		}
		c.index[key] = len(c.entries)
		c.entries = append(c.entries, e)
	}
	if errs != nil {
		return nil, errs
	}
	if len(c.entries) == 0 {
		return nil, errors.New("catalog: table has no rows")
	}
	return c, nil
}

func parseEntry(rec []string) (Entry, error) {
	e := Entry{Type: strings.TrimSpace(rec[0])}
	if e.Type == "" {
		return e, errors.New("empty type")
	}
	fields := []*float64{&e.Capacitance, &e.ESR, &e.Leakage, &e.TempCoeff}
	for i, dst := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[i+1]), 64)
		if err != nil {
			return e, fmt.Errorf("%s: %w", Columns[i+1], err)
		}
		*dst = v
	}
	return e, nil
}

// Entries returns the rows in table order.
func (c *Catalog) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

// Names lists the types in table order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Type
	}
	return out
}

// indexKey matches names the way profiles see them: truncated, then folded.
func indexKey(name string) string {
	return strings.ToLower(capacitor.TruncateName(name))
}

// Lookup finds a type by case-insensitive name.
func (c *Catalog) Lookup(name string) (Entry, error) {
	i, ok := c.index[indexKey(strings.TrimSpace(name))]
	if !ok {
		known := c.Names()
		sort.Strings(known)
		return Entry{}, fmt.Errorf("%w: %q (known: %s)", ErrNotFound, name, strings.Join(known, ", "))
	}
	return c.entries[i], nil
}

// Profile looks up name and converts it.
func (c *Catalog) Profile(name string) (capacitor.Profile, error) {
	e, err := c.Lookup(name)
	if err != nil {
		return capacitor.Profile{}, err
	}
	return e.Profile()
}

// Profiles converts every entry, in table order.
func (c *Catalog) Profiles() []capacitor.Profile {
	out := make([]capacitor.Profile, 0, len(c.entries))
	for _, e := range c.entries {
		p, err := e.Profile()
		if err != nil {
			continue
		}
		out = append(out, p)
	}
	return out
}
