package weather

// Location identifies the place a snapshot describes. LocalTime is the
// wall-clock time at the location ("2006-01-02 15:04"), computed from the
// provider's UTC offset rather than the client's timezone.
type Location struct {
	Name      string `json:"name"`
	Region    string `json:"region"`
	Country   string `json:"country"`
	LocalTime string `json:"localtime"`
}

// Current holds the normalized current conditions.
type Current struct {
	TempC      int    `json:"temp_c"`
	TempF      int    `json:"temp_f"`
	Condition  string `json:"condition"`
	Icon       string `json:"icon"`
	WindKPH    int    `json:"wind_kph"`
	Humidity   int    `json:"humidity"`
	FeelsLikeC int    `json:"feelslike_c"`
	UV         int    `json:"uv"`
}

// Record is an immutable normalized weather snapshot.
//
// Two fields carry documented sentinels inherited from the provider:
// Region is always "" (not present in the standard OpenWeatherMap response)
// and UV is always 0 (not available on the current-weather endpoint).
type Record struct {
	Location Location `json:"location"`
	Current  Current  `json:"current"`
}
