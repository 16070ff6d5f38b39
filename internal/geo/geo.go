// File path: internal/geo/geo.go
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL   = "https://nominatim.openstreetmap.org"
	defaultUserAgent = "MenuCard-App/1.0"
	defaultTimeout   = 10 * time.Second
	forwardLimit     = 5
)

// Result is one forward-geocoding candidate.
type Result struct {
	DisplayName string  `json:"display_name"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Importance  float64 `json:"importance"`
	Type        string  `json:"type"`
	Class       string  `json:"class"`
}

// Address is the structured part of a reverse-geocoding answer.
type Address struct {
	HouseNumber string `json:"house_number,omitempty"`
	Road        string `json:"road,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	Postcode    string `json:"postcode,omitempty"`
	Country     string `json:"country,omitempty"`
}

// Place is a reverse-geocoding answer.
type Place struct {
	DisplayName string  `json:"display_name"`
	Details     Address `json:"details"`
}

// Client talks to a Nominatim instance. Nominatim's usage policy caps
// anonymous clients at one request per second, so all calls share a limiter.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
}

func NewClient() *Client {
	baseURL := strings.TrimSpace(os.Getenv("NOMINATIM_BASE_URL"))
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: defaultUserAgent,
		http:      &http.Client{Timeout: defaultTimeout},
		limiter:   rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// SetBaseURL points the client at a different Nominatim instance.
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimRight(baseURL, "/")
}

// SetLimiter replaces the request limiter.
func (c *Client) SetLimiter(limiter *rate.Limiter) {
	if limiter != nil {
		c.limiter = limiter
	}
}

// Geocode resolves a free-form address into up to five candidates.
func (c *Client) Geocode(ctx context.Context, address string) ([]Result, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, fmt.Errorf("geo: address required")
	}
	query := url.Values{}
	query.Set("format", "json")
	query.Set("q", address)
	query.Set("limit", strconv.Itoa(forwardLimit))

	var raw []struct {
		DisplayName string `json:"display_name"`
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
		Importance  float64 `json:"importance"`
		Type        string `json:"type"`
		Class       string `json:"class"`
	}
	if err := c.get(ctx, "/search", query, &raw); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(raw))
	for _, item := range raw {
		lat, _ := strconv.ParseFloat(item.Lat, 64)
		lng, _ := strconv.ParseFloat(item.Lon, 64)
		results = append(results, Result{
			DisplayName: item.DisplayName,
			Lat:         lat,
			Lng:         lng,
			Importance:  item.Importance,
			Type:        item.Type,
			Class:       item.Class,
		})
	}
	return results, nil
}

// Reverse resolves coordinates into a display name and address details.
func (c *Client) Reverse(ctx context.Context, lat, lng float64) (*Place, error) {
	query := url.Values{}
	query.Set("format", "json")
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))

	var raw struct {
		DisplayName string `json:"display_name"`
		Address     struct {
			HouseNumber string `json:"house_number"`
			Road        string `json:"road"`
			City        string `json:"city"`
			Town        string `json:"town"`
			Village     string `json:"village"`
			State       string `json:"state"`
			Postcode    string `json:"postcode"`
			Country     string `json:"country"`
		} `json:"address"`
	}
	if err := c.get(ctx, "/reverse", query, &raw); err != nil {
		return nil, err
	}

	city := raw.Address.City
	if city == "" {
		city = raw.Address.Town
	}
	if city == "" {
		city = raw.Address.Village
	}
	return &Place{
		DisplayName: raw.DisplayName,
		Details: Address{
			HouseNumber: raw.Address.HouseNumber,
			Road:        raw.Address.Road,
			City:        city,
			State:       raw.Address.State,
			Postcode:    raw.Address.Postcode,
			Country:     raw.Address.Country,
		},
	}, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("geo: build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("geo: request %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geo: %s returned status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("geo: decode %s response: %w", path, err)
	}
	return nil
}
