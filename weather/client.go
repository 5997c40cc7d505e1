package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

// Client fetches current conditions from OpenWeatherMap.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	now        func() time.Time
}

// NewClient builds an API client. An empty baseURL falls back to the
// public OpenWeatherMap endpoint.
func NewClient(baseURL, apiKey string) *Client {
	u := strings.TrimSpace(baseURL)
	if u == "" {
		u = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(u, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		now: time.Now,
	}
}

// apiResponse mirrors the subset of the OpenWeatherMap current-weather
// payload the normalization needs.
type apiResponse struct {
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"` // m/s with metric units
	} `json:"wind"`
	Timezone int `json:"timezone"` // UTC offset in seconds
}

// Fetch performs one request for the given location and returns the
// normalized record. Any non-2xx status, malformed payload or transport
// failure yields a nil record with the error; callers treat that as
// "no data", never as something to re-raise.
func (c *Client) Fetch(ctx context.Context, location string) (*Record, error) {
	endpoint := fmt.Sprintf("%s?q=%s&appid=%s&units=metric",
		c.baseURL, url.QueryEscape(location), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build weather request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("weather request error: status=%d location=%q body=%s",
			resp.StatusCode, location, string(payload))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read weather response: %w", err)
	}

	var raw apiResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode weather response: %w", err)
	}
	if len(raw.Weather) == 0 {
		return nil, fmt.Errorf("weather response missing conditions for %q", location)
	}

	return c.normalize(raw), nil
}

func (c *Client) normalize(raw apiResponse) *Record {
	return &Record{
		Location: Location{
			Name:      raw.Name,
			Region:    "", // not provided by the standard OWM response
			Country:   raw.Sys.Country,
			LocalTime: localTime(c.now(), raw.Timezone),
		},
		Current: Current{
			TempC:      roundToInt(raw.Main.Temp),
			TempF:      roundToInt(raw.Main.Temp*9/5 + 32),
			Condition:  raw.Weather[0].Description,
			Icon:       raw.Weather[0].Icon,
			WindKPH:    roundToInt(raw.Wind.Speed * 3.6), // m/s → km/h
			Humidity:   raw.Main.Humidity,
			FeelsLikeC: roundToInt(raw.Main.FeelsLike),
			UV:         0, // not available on the current-weather endpoint
		},
	}
}

// localTime formats the wall-clock time at the location by shifting UTC by
// the provider's offset. The client machine's timezone must not leak in.
func localTime(now time.Time, offsetSeconds int) string {
	city := now.UTC().Add(time.Duration(offsetSeconds) * time.Second)
	return city.Format("2006-01-02 15:04")
}

func roundToInt(v float64) int {
	return int(math.Round(v))
}
