package restcountries

// APICountry represents one element of the REST Countries v3.1 response.
type APICountry struct {
	Name        APIName                `json:"name"`
	Capital     []string               `json:"capital"`
	Region      string                 `json:"region"`
	Subregion   string                 `json:"subregion"`
	Area        *float64               `json:"area"`
	Population  *int64                 `json:"population"`
	Gini        map[string]float64     `json:"gini"`
	Flags       *APIFlags              `json:"flags"`
	Languages   map[string]string      `json:"languages"`
	Currencies  map[string]APICurrency `json:"currencies"`
	LatLng      []*float64             `json:"latlng"`
	Borders     []string               `json:"borders"`
	Continents  []string               `json:"continents"`
	Timezones   []string               `json:"timezones"`
	CCA2        string                 `json:"cca2"`
	Independent *bool                  `json:"independent"`
}

type APIName struct {
	Common   string `json:"common"`
	Official string `json:"official"`
}

type APIFlags struct {
	PNG string `json:"png"`
	SVG string `json:"svg"`
	Alt string `json:"alt"`
}

type APICurrency struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}
