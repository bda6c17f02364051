package hubeau

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the public Hub'eau écoulement API root
const DefaultBaseURL = "https://hubeau.eaufrance.fr/api/v1/ecoulement"

// StationPageSize is the maximum page size accepted by the stations endpoint
const StationPageSize = 500

// Client talks to the Hub'eau écoulement API
type Client struct {
	BaseURL string
	client  *http.Client
}

// NewClient creates a configured client
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// HubeauTime handles the date formats found in Hub'eau payloads
type HubeauTime struct {
	time.Time
}

func (ht *HubeauTime) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		return nil
	}
	if len(s) < 2 {
		return fmt.Errorf("invalid date value: %s", s)
	}
	s = s[1 : len(s)-1] // Remove quotes

	for _, layout := range []string{"2006-01-02", "2006-01-02T15:04:05", time.RFC3339} {
		t, err := time.Parse(layout, s)
		if err == nil {
			ht.Time = t
			return nil
		}
	}

	return fmt.Errorf("unsupported date format: %q", s)
}

// stationFields limits station payloads to the columns the import needs
var stationFields = []string{
	"code_region", "libelle_region",
	"code_departement", "libelle_departement",
	"code_commune", "libelle_commune",
	"code_bassin", "libelle_bassin",
	"code_cours_eau", "libelle_cours_eau", "uri_cours_eau",
	"code_station", "libelle_station", "uri_station",
	"etat_station", "date_maj_station",
	"latitude", "longitude",
	"coordonnee_x", "coordonnee_y",
}

// Station is a station record as returned by /stations
type Station struct {
	CodeRegion         string      `json:"code_region"`
	LibelleRegion      string      `json:"libelle_region"`
	CodeDepartement    string      `json:"code_departement"`
	LibelleDepartement string      `json:"libelle_departement"`
	CodeCommune        string      `json:"code_commune"`
	LibelleCommune     string      `json:"libelle_commune"`
	CodeBassin         string      `json:"code_bassin"`
	LibelleBassin      string      `json:"libelle_bassin"`
	CodeCoursEau       string      `json:"code_cours_eau"`
	LibelleCoursEau    string      `json:"libelle_cours_eau"`
	URICoursEau        string      `json:"uri_cours_eau"`
	CodeStation        string      `json:"code_station"`
	LibelleStation     string      `json:"libelle_station"`
	URIStation         string      `json:"uri_station"`
	EtatStation        string      `json:"etat_station"`
	DateMajStation     *HubeauTime `json:"date_maj_station"`
	Latitude           float64     `json:"latitude"`
	Longitude          float64     `json:"longitude"`
	CoordonneeX        float64     `json:"coordonnee_x"`
	CoordonneeY        float64     `json:"coordonnee_y"`
}

// Observation is a visual flow observation as returned by /observations
type Observation struct {
	CodeStation       string      `json:"code_station"`
	LibelleStation    string      `json:"libelle_station"`
	CodeCampagne      json.Number `json:"code_campagne"`
	DateObservation   *HubeauTime `json:"date_observation"`
	CodeEcoulement    string      `json:"code_ecoulement"`
	LibelleEcoulement string      `json:"libelle_ecoulement"`
}

// Campagne is an observation campaign as returned by /campagnes
type Campagne struct {
	CodeCampagne        json.Number `json:"code_campagne"`
	DateCampagne        *HubeauTime `json:"date_campagne"`
	CodeTypeCampagne    string      `json:"code_type_campagne"`
	LibelleTypeCampagne string      `json:"libelle_type_campagne"`
	CodeStation         string      `json:"code_station"`
}

type stationPage struct {
	Count int       `json:"count"`
	Next  string    `json:"next"`
	Data  []Station `json:"data"`
}

type observationPage struct {
	Count int           `json:"count"`
	Next  string        `json:"next"`
	Data  []Observation `json:"data"`
}

type campagnePage struct {
	Count int        `json:"count"`
	Next  string     `json:"next"`
	Data  []Campagne `json:"data"`
}

func (c *Client) get(reqURL string, out interface{}) error {
	resp, err := c.client.Get(reqURL)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	// Hub'eau answers 206 on partial (paged) results
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return fmt.Errorf("API returned status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// FetchStationPage returns one page of the station listing along with a flag
// indicating whether more pages remain
func (c *Client) FetchStationPage(page int) ([]Station, bool, error) {
	params := url.Values{}
	params.Add("fields", strings.Join(stationFields, ","))
	params.Add("size", strconv.Itoa(StationPageSize))
	params.Add("page", strconv.Itoa(page))

	var sp stationPage
	if err := c.get(fmt.Sprintf("%s/stations?%s", c.BaseURL, params.Encode()), &sp); err != nil {
		return nil, false, fmt.Errorf("stations page %d: %w", page, err)
	}

	hasMore := sp.Next != "" && len(sp.Data) == StationPageSize
	return sp.Data, hasMore, nil
}

// FetchObservationsByStation returns recent observations for one station,
// most recent first
func (c *Client) FetchObservationsByStation(codeStation string, size int) ([]Observation, error) {
	params := url.Values{}
	params.Add("code_station", codeStation)
	params.Add("size", strconv.Itoa(size))
	params.Add("sort", "desc")

	var op observationPage
	if err := c.get(fmt.Sprintf("%s/observations?%s", c.BaseURL, params.Encode()), &op); err != nil {
		return nil, fmt.Errorf("observations for %s: %w", codeStation, err)
	}
	return op.Data, nil
}

// FetchObservationsByDateRange returns observations across all stations
// within [min, max], most recent first, one page at a time
func (c *Client) FetchObservationsByDateRange(min, max time.Time, size, page int) ([]Observation, bool, error) {
	params := url.Values{}
	params.Add("date_observation_min", min.Format("2006-01-02"))
	params.Add("date_observation_max", max.Format("2006-01-02"))
	params.Add("size", strconv.Itoa(size))
	params.Add("page", strconv.Itoa(page))
	params.Add("sort", "desc")

	var op observationPage
	if err := c.get(fmt.Sprintf("%s/observations?%s", c.BaseURL, params.Encode()), &op); err != nil {
		return nil, false, fmt.Errorf("observations page %d: %w", page, err)
	}

	hasMore := op.Next != "" && len(op.Data) == size
	return op.Data, hasMore, nil
}

// FetchCampagnesByStation returns recent campaigns for one station,
// most recent first
func (c *Client) FetchCampagnesByStation(codeStation string, size int) ([]Campagne, error) {
	params := url.Values{}
	params.Add("code_station", codeStation)
	params.Add("size", strconv.Itoa(size))
	params.Add("sort", "desc")

	var cp campagnePage
	if err := c.get(fmt.Sprintf("%s/campagnes?%s", c.BaseURL, params.Encode()), &cp); err != nil {
		return nil, fmt.Errorf("campagnes for %s: %w", codeStation, err)
	}
	return cp.Data, nil
}

// SetTransport swaps the underlying HTTP transport (used by tests)
func (c *Client) SetTransport(rt http.RoundTripper) {
	c.client.Transport = rt
}
