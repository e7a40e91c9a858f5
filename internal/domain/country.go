package domain

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// AllContinents is the filter value that disables continent filtering.
const AllContinents = "All"

// Country is a decoded country record. Optional fields use nil to mean
// "absent", so a reported zero stays distinguishable from missing data.
type Country struct {
	Name        string
	Capitals    []string
	Region      string
	SubRegion   string
	Area        *float64
	Population  *int64
	Gini        map[string]float64 // year -> percentage
	FlagURL     string
	Languages   map[string]string // code -> display name
	Currencies  map[string]Currency
	LatLng      LatLng
	Borders     []string // cca3 codes
	Continents  []string
	TimeZones   []string // e.g. "UTC+01:00"
	ISOCode2    string
	Independent *bool
}

type Currency struct {
	Name   string
	Symbol string
}

type LatLng struct {
	Lat *float64
	Lng *float64
}

// InContinent reports whether the country lists the given continent.
func (c Country) InContinent(continent string) bool {
	for _, cont := range c.Continents {
		if cont == continent {
			return true
		}
	}
	return false
}

// SortByName orders countries by name in place using English collation,
// so accented names sort next to their base letter.
func SortByName(countries []Country) {
	col := collate.New(language.English)
	sort.SliceStable(countries, func(i, j int) bool {
		return col.CompareString(countries[i].Name, countries[j].Name) < 0
	})
}

// FilterByContinent returns the countries on the given continent, keeping
// their relative order. AllContinents or an empty name returns the input.
func FilterByContinent(countries []Country, continent string) []Country {
	if continent == "" || continent == AllContinents {
		return countries
	}

	filtered := make([]Country, 0, len(countries))
	for _, c := range countries {
		if c.InContinent(continent) {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// Continents lists the distinct continents present, sorted, prefixed with
// AllContinents.
func Continents(countries []Country) []string {
	seen := make(map[string]struct{})
	for _, c := range countries {
		for _, cont := range c.Continents {
			seen[cont] = struct{}{}
		}
	}

	result := make([]string, 0, len(seen))
	for cont := range seen {
		result = append(result, cont)
	}
	sort.Strings(result)

	return append([]string{AllContinents}, result...)
}

// FindByName returns the first country with exactly the given name.
func FindByName(countries []Country, name string) (Country, bool) {
	for _, c := range countries {
		if c.Name == name {
			return c, true
		}
	}
	return Country{}, false
}
