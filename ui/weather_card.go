package ui

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"

	"skycast/weather"
)

// conditionEmoji maps OpenWeatherMap icon codes to a terminal-friendly glyph.
// Night variants share the day glyph except for the clear sky.
var conditionEmoji = map[string]string{
	"01d": "☀️", "01n": "🌙",
	"02d": "🌤️", "02n": "🌤️",
	"03d": "☁️", "03n": "☁️",
	"04d": "☁️", "04n": "☁️",
	"09d": "🌧️", "09n": "🌧️",
	"10d": "🌦️", "10n": "🌦️",
	"11d": "⛈️", "11n": "⛈️",
	"13d": "🌨️", "13n": "🌨️",
	"50d": "🌫️", "50n": "🌫️",
}

// renderWeatherCard draws a bordered snapshot of the current conditions.
func renderWeatherCard(rec *weather.Record) string {
	glyph := conditionEmoji[rec.Current.Icon]
	if glyph == "" {
		glyph = "🌡️"
	}

	title := rec.Location.Name
	if rec.Location.Country != "" {
		title += ", " + rec.Location.Country
	}

	condition := capitalizeFirst(rec.Current.Condition)

	lines := []string{
		TitleStyle.Render(title),
		fmt.Sprintf("%s  %s", glyph, condition),
		fmt.Sprintf("%d°C / %d°F  (feels like %d°C)",
			rec.Current.TempC, rec.Current.TempF, rec.Current.FeelsLikeC),
		fmt.Sprintf("Wind %d km/h   Humidity %d%%",
			rec.Current.WindKPH, rec.Current.Humidity),
	}
	if rec.Location.LocalTime != "" {
		lines = append(lines, DimStyle.Render("Local time "+rec.Location.LocalTime))
	}

	return CardStyle.Render(padLines(lines))
}

// padLines right-pads every line to the widest one so the card border stays
// rectangular. lipgloss measures styled text correctly, but emoji widths need
// runewidth.
func padLines(lines []string) string {
	maxWidth := 0
	for _, line := range lines {
		if w := visualWidth(line); w > maxWidth {
			maxWidth = w
		}
	}

	padded := make([]string, len(lines))
	for i, line := range lines {
		padded[i] = line + strings.Repeat(" ", maxWidth-visualWidth(line))
	}

	return strings.Join(padded, "\n")
}

func visualWidth(s string) int {
	return runewidth.StringWidth(stripANSI(s))
}

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
