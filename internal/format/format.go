// Package format renders domain.Country fields for display. Absent values
// render as NotAvailable, reported zeros render as "0".
package format

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"countries_fetcher/internal/domain"
)

const (
	NotAvailable = "N/A"

	// PlaceholderFlagURL is shown when a country has no flag image.
	PlaceholderFlagURL = "https://i.imgur.com/jBbF1hj.png"

	TimeLayout = "02-01-2006 15:04:05"
)

var printer = message.NewPrinter(language.English)

func Name(c domain.Country) string {
	return orNA(c.Name)
}

// Title is the detail header, e.g. "[PT] - Portugal".
func Title(c domain.Country) string {
	return fmt.Sprintf("[%s] - %s", orNA(c.ISOCode2), Name(c))
}

func Capitals(c domain.Country) string {
	return lines(c.Capitals)
}

func Region(c domain.Country) string {
	return orNA(c.Region)
}

func SubRegion(c domain.Country) string {
	return orNA(c.SubRegion)
}

func Area(c domain.Country) string {
	if c.Area == nil {
		return NotAvailable
	}
	return formatFloat(*c.Area) + " Km²"
}

func Population(c domain.Country) string {
	if c.Population == nil {
		return NotAvailable
	}
	return printer.Sprintf("%d", *c.Population)
}

func Independent(c domain.Country) string {
	if c.Independent == nil {
		return NotAvailable
	}
	if *c.Independent {
		return "Yes"
	}
	return "No"
}

// Gini lists "[year] value%" entries ordered by year.
func Gini(c domain.Country) string {
	if len(c.Gini) == 0 {
		return NotAvailable
	}

	years := sortedKeys(c.Gini)
	entries := make([]string, 0, len(years))
	for _, year := range years {
		entries = append(entries, fmt.Sprintf("[%s] %s%%", year, formatFloat(c.Gini[year])))
	}
	return strings.Join(entries, "\n")
}

// Languages lists display names ordered by language code.
func Languages(c domain.Country) string {
	if len(c.Languages) == 0 {
		return NotAvailable
	}

	codes := sortedKeys(c.Languages)
	names := make([]string, 0, len(codes))
	for _, code := range codes {
		names = append(names, c.Languages[code])
	}
	return strings.Join(names, "\n")
}

// Currencies lists "[symbol] - name" entries ordered by currency code.
func Currencies(c domain.Country) string {
	if len(c.Currencies) == 0 {
		return NotAvailable
	}

	codes := sortedKeys(c.Currencies)
	entries := make([]string, 0, len(codes))
	for _, code := range codes {
		cur := c.Currencies[code]
		entries = append(entries, fmt.Sprintf("[%s] - %s", cur.Symbol, cur.Name))
	}
	return strings.Join(entries, "\n")
}

func Continents(c domain.Country) string {
	return lines(c.Continents)
}

func Latitude(c domain.Country) string {
	return coordinate(c.LatLng.Lat)
}

func Longitude(c domain.Country) string {
	return coordinate(c.LatLng.Lng)
}

// Borders renders "None" for countries without land borders.
func Borders(c domain.Country) string {
	if len(c.Borders) == 0 {
		return "None"
	}
	return strings.Join(c.Borders, "\n")
}

func FlagURL(c domain.Country) string {
	if c.FlagURL == "" {
		return PlaceholderFlagURL
	}
	return c.FlagURL
}

// LocalTimes renders the current time in each of the country's UTC offset
// zones, one "[zone] time" line per zone. A zone whose offset cannot be
// parsed renders NotAvailable in place of the time.
func LocalTimes(c domain.Country, now time.Time) string {
	if len(c.TimeZones) == 0 {
		return NotAvailable
	}

	utc := now.UTC()
	entries := make([]string, 0, len(c.TimeZones))
	for _, zone := range c.TimeZones {
		offset, err := ParseOffset(zone)
		if err != nil {
			entries = append(entries, fmt.Sprintf("[%s] %s", zone, NotAvailable))
			continue
		}
		entries = append(entries, fmt.Sprintf("[%s] %s", zone, utc.Add(offset).Format(TimeLayout)))
	}
	return strings.Join(entries, "\n")
}

// ParseOffset parses zone names of the form "UTC", "UTC+hh:mm" or
// "UTC-hh:mm".
func ParseOffset(zone string) (time.Duration, error) {
	rest, ok := strings.CutPrefix(zone, "UTC")
	if !ok {
		return 0, fmt.Errorf("invalid time zone %q", zone)
	}
	if rest == "" {
		return 0, nil
	}

	sign := time.Duration(1)
	switch rest[0] {
	case '+':
	case '-':
		sign = -1
	default:
		return 0, fmt.Errorf("invalid time zone %q", zone)
	}

	hh, mm, ok := strings.Cut(rest[1:], ":")
	if !ok {
		return 0, fmt.Errorf("invalid time zone %q", zone)
	}
	hours, err := strconv.Atoi(hh)
	if err != nil || hours < 0 || hours > 14 {
		return 0, fmt.Errorf("invalid time zone %q", zone)
	}
	minutes, err := strconv.Atoi(mm)
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid time zone %q", zone)
	}

	return sign * (time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute), nil
}

// Pluralize appends "s" when count is above one. "Currency" becomes
// "Currencies".
func Pluralize(text string, count int) string {
	if count <= 1 {
		return text
	}
	if strings.HasSuffix(text, "y") {
		return strings.TrimSuffix(text, "y") + "ies"
	}
	return text + "s"
}

// Details renders every section of a country as a text block.
func Details(c domain.Country, now time.Time) string {
	var b strings.Builder

	b.WriteString(Title(c) + "\n\n")

	section(&b, Pluralize("Capital", len(c.Capitals)), Capitals(c))
	section(&b, Pluralize("Language", len(c.Languages)), Languages(c))
	section(&b, Pluralize("Currency", len(c.Currencies)), Currencies(c))
	section(&b, Pluralize("Local time", len(c.TimeZones)), LocalTimes(c, now))

	fmt.Fprintf(&b, "Area: %s\n", Area(c))
	fmt.Fprintf(&b, "Population: %s\n\n", Population(c))

	section(&b, Pluralize("Continent", len(c.Continents)), Continents(c))
	section(&b, "Region", Region(c))
	section(&b, "Sub region", SubRegion(c))

	fmt.Fprintf(&b, "Latitude: %s\n", Latitude(c))
	fmt.Fprintf(&b, "Longitude: %s\n\n", Longitude(c))

	section(&b, "Borders", Borders(c))
	section(&b, "Independent", Independent(c))
	section(&b, "GINI Index", Gini(c))
	fmt.Fprintf(&b, "Flag: %s\n", FlagURL(c))

	return b.String()
}

func section(b *strings.Builder, heading, body string) {
	fmt.Fprintf(b, "%s:\n%s\n\n", heading, body)
}

func lines(values []string) string {
	if len(values) == 0 {
		return NotAvailable
	}
	return strings.Join(values, "\n")
}

func coordinate(v *float64) string {
	if v == nil {
		return NotAvailable
	}
	return formatFloat(*v)
}

func orNA(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
