package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"skycast/config"
	"skycast/model"
	"skycast/provider"
	"skycast/session"
	"skycast/storage"
	"skycast/ui"
	"skycast/weather"
)

const Version = "v0.1.0"

func main() {
	settingsPath := config.GetSettingsFilePath()
	if !config.FileExists(settingsPath) {
		if err := writeSettingsTemplate(settingsPath); err != nil {
			fmt.Printf("Failed to write default settings: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Created default settings at %s\n", settingsPath)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize debug logging after config is loaded
	config.InitDebugLog(cfg.DataDir())

	prov, err := provider.NewProvider(provider.Config{
		Type:    provider.MapProviderIDToType(cfg.ProviderType),
		BaseURL: cfg.ProviderURL,
		Model:   cfg.Model,
		APIKey:  cfg.ProviderAPIKey,
	})
	if err != nil {
		fmt.Printf("Failed to initialize provider %q: %v\n", cfg.ProviderType, err)
		os.Exit(1)
	}

	// The weather cache is optional; a broken database only costs cache hits
	var cache model.WeatherStore
	if weatherCache, err := storage.NewWeatherCache(cfg.DataDir(), cfg.CacheTTL); err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Main] weather cache unavailable: %v", err)
		}
	} else {
		cache = weatherCache
		defer weatherCache.Close()
	}

	channel := session.NewChannel(prov)
	fetcher := weather.NewClient(cfg.WeatherURL, cfg.WeatherAPIKey)
	dataModel := model.NewModel(cfg, channel, prov, fetcher, cache)

	p := tea.NewProgram(
		ui.NewAppView(dataModel),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running skycast: %v\n", err)
		os.Exit(1)
	}
}

func writeSettingsTemplate(path string) error {
	if err := config.EnsureDir(config.GetConfigDir()); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(config.GenerateSettingsTemplate()), 0600)
}
