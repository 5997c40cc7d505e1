package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const londonPayload = `{
	"name": "London",
	"sys": {"country": "GB"},
	"weather": [{"description": "scattered clouds", "icon": "03d"}],
	"main": {"temp": 21.4, "feels_like": 20.6, "humidity": 64},
	"wind": {"speed": 3.2},
	"timezone": 3600
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(server.URL, "test-key")
	client.now = func() time.Time {
		return time.Date(2026, 1, 2, 10, 30, 0, 0, time.UTC)
	}
	return client
}

func TestFetchNormalizesRecord(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(londonPayload))
	})

	rec, err := client.Fetch(context.Background(), "London")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if rec.Location.Name != "London" || rec.Location.Country != "GB" {
		t.Errorf("location = %+v", rec.Location)
	}
	if rec.Location.Region != "" {
		t.Errorf("region = %q, want empty (not provided by the API)", rec.Location.Region)
	}

	tests := []struct {
		name string
		got  int
		want int
	}{
		{"TempC", rec.Current.TempC, 21},       // round(21.4)
		{"TempF", rec.Current.TempF, 71},       // round(21.4*9/5+32) = round(70.52)
		{"FeelsLikeC", rec.Current.FeelsLikeC, 21}, // round(20.6)
		{"WindKPH", rec.Current.WindKPH, 12},   // round(3.2*3.6) = round(11.52)
		{"Humidity", rec.Current.Humidity, 64},
		{"UV", rec.Current.UV, 0},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %d, want %d", tt.name, tt.got, tt.want)
		}
	}

	if rec.Current.Condition != "scattered clouds" || rec.Current.Icon != "03d" {
		t.Errorf("conditions = %+v", rec.Current)
	}
}

func TestFetchComputesLocalTimeFromOffset(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(londonPayload))
	})

	rec, err := client.Fetch(context.Background(), "London")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	// 10:30 UTC + 3600s offset
	if rec.Location.LocalTime != "2026-01-02 11:30" {
		t.Errorf("local time = %q, want %q", rec.Location.LocalTime, "2026-01-02 11:30")
	}
}

func TestLocalTimeNegativeOffset(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 0, 0, 0, time.UTC)

	// -5h offset crosses midnight into the previous day
	if got := localTime(now, -5*3600); got != "2026-01-01 22:00" {
		t.Errorf("localTime = %q, want %q", got, "2026-01-01 22:00")
	}
}

func TestFetchSendsExpectedQuery(t *testing.T) {
	var gotQuery map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"q":     r.URL.Query().Get("q"),
			"appid": r.URL.Query().Get("appid"),
			"units": r.URL.Query().Get("units"),
		}
		w.Write([]byte(londonPayload))
	})

	if _, err := client.Fetch(context.Background(), "New York"); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if gotQuery["q"] != "New York" {
		t.Errorf("q = %q", gotQuery["q"])
	}
	if gotQuery["appid"] != "test-key" {
		t.Errorf("appid = %q", gotQuery["appid"])
	}
	if gotQuery["units"] != "metric" {
		t.Errorf("units = %q", gotQuery["units"])
	}
}

func TestFetchNon200IsError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"cod":"404","message":"city not found"}`))
	})

	rec, err := client.Fetch(context.Background(), "Atlantis")
	if err == nil {
		t.Fatal("Fetch() succeeded on 404")
	}
	if rec != nil {
		t.Error("Fetch() returned a record alongside the error")
	}
}

func TestFetchMalformedPayloadIsError(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"name": "London"`},
		{"missing conditions", `{"name": "London", "weather": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})

			rec, err := client.Fetch(context.Background(), "London")
			if err == nil || rec != nil {
				t.Errorf("Fetch() = %v, %v; want nil record and error", rec, err)
			}
		})
	}
}

func TestNewClientDefaultsBaseURL(t *testing.T) {
	client := NewClient("  ", "key")
	if client.baseURL != defaultBaseURL {
		t.Errorf("baseURL = %q, want default", client.baseURL)
	}

	trimmed := NewClient("http://example.com/weather/", "key")
	if trimmed.baseURL != "http://example.com/weather" {
		t.Errorf("baseURL = %q, want trailing slash trimmed", trimmed.baseURL)
	}
}
