// Package region derives the two-level country/city menu from a flat list of
// timezone identifiers.
package region

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Separator splits "Country/City" identifiers. Only the first one counts:
// "America/Argentina/Salta" is country "America", city "Argentina/Salta".
const Separator = "/"

var ErrEmpty = errors.New("region: no country/city identifiers")

// ID is the opaque handle of a resolved region, the identifier it came from.
type ID string

func (id ID) Country() string {
	country, _, _ := strings.Cut(string(id), Separator)
	return country
}

func (id ID) City() string {
	_, city, _ := strings.Cut(string(id), Separator)
	return city
}

// Location loads the timezone the region names.
func (id ID) Location() (*time.Location, error) {
	return time.LoadLocation(string(id))
}

// Source enumerates raw identifiers.
type Source interface {
	Identifiers() ([]string, error)
}

// Catalog is immutable once built. Countries and each country's cities are
// sorted and free of duplicates.
type Catalog struct {
	countries []string
	cities    map[string][]string
}

// NewCatalog builds the hierarchy. Identifiers without a separator (such as
// "UTC") or with an empty half have no city and are left out, so every
// country in the catalog has at least one city.
func NewCatalog(ids []string) *Catalog {
	sets := make(map[string]map[string]struct{})
	for _, id := range ids {
		country, city, ok := strings.Cut(strings.TrimSpace(id), Separator)
		if !ok || country == "" || city == "" {
			continue
		}
		if sets[country] == nil {
			sets[country] = make(map[string]struct{})
		}
		sets[country][city] = struct{}{}
	}

	c := &Catalog{cities: make(map[string][]string, len(sets))}
	for country, set := range sets {
		c.countries = append(c.countries, country)
		list := make([]string, 0, len(set))
		for city := range set {
			list = append(list, city)
		}
		sort.Strings(list)
		c.cities[country] = list
	}
	sort.Strings(c.countries)
	return c
}

// Load reads src once and builds the catalog from it.
func Load(src Source) (*Catalog, error) {
	ids, err := src.Identifiers()
	if err != nil {
		return nil, fmt.Errorf("region: list identifiers: %w", err)
	}
	c := NewCatalog(ids)
	if len(c.countries) == 0 {
		return nil, ErrEmpty
	}
	return c, nil
}

// Countries returns the sorted country list. Callers must not modify it.
func (c *Catalog) Countries() []string { return c.countries }

// Cities returns the sorted cities of country, nil for an unknown country.
// Callers must not modify it.
func (c *Catalog) Cities(country string) []string { return c.cities[country] }

// Resolve returns the handle for a country/city pair present in the catalog.
func (c *Catalog) Resolve(country, city string) (ID, bool) {
	for _, known := range c.cities[country] {
		if known == city {
			return ID(country + Separator + city), true
		}
	}
	return "", false
}
