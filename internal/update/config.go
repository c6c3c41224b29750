package update

import (
	"os"
	"strconv"
	"strings"
)

type RuntimeConfig struct {
	DatabasePath       string
	LogPath            string
	PromptBuffer       int
	EnergyCheckMinutes int
	QuickSearchLimit   int
	SimplifiedMode     bool
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		DatabasePath:       "kairu.db",
		LogPath:            "kairu.log",
		PromptBuffer:       64,
		EnergyCheckMinutes: 60,
		QuickSearchLimit:   7,
		SimplifiedMode:     false,
	}
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvString("KAIRU_DB_PATH"); ok {
		cfg.DatabasePath = v
	}
	if v, ok := getEnvString("KAIRU_LOG_PATH"); ok {
		cfg.LogPath = v
	}
	if v, ok := getEnvInt("KAIRU_PROMPT_BUFFER"); ok && v > 0 {
		cfg.PromptBuffer = v
	}
	if v, ok := getEnvInt("KAIRU_ENERGY_CHECK_MINUTES"); ok && v > 0 {
		cfg.EnergyCheckMinutes = v
	}
	if v, ok := getEnvInt("KAIRU_QUICK_SEARCH_LIMIT"); ok && v > 0 {
		cfg.QuickSearchLimit = v
	}
	if v, ok := getEnvBool("KAIRU_SIMPLIFIED_MODE"); ok {
		cfg.SimplifiedMode = v
	}
	return cfg
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return "", false
	}
	return raw, true
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
