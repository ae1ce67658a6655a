package update

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	DBPath               string `yaml:"db_path"`
	DesktopNotifications bool   `yaml:"desktop_notifications"`
	NotifierBuffer       int    `yaml:"notifier_buffer"`
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		DBPath:               defaultDBPath(),
		DesktopNotifications: true,
		NotifierBuffer:       64,
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "dailyplan.db"
	}
	return filepath.Join(home, ".local", "share", "dailyplan", "dailyplan.db")
}

// LoadRuntimeConfig layers an optional yaml config file and then the
// DAILYPLAN_* environment on top of the defaults.
func LoadRuntimeConfig(path string) (RuntimeConfig, error) {
	cfg := DefaultRuntimeConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, err
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}
	return RuntimeConfigFromEnv(cfg), nil
}

func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "dailyplan", "config.yaml")
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v := strings.TrimSpace(os.Getenv("DAILYPLAN_DB_PATH")); v != "" {
		cfg.DBPath = v
	}
	if v, ok := getEnvBool("DAILYPLAN_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := getEnvInt("DAILYPLAN_NOTIFIER_BUFFER"); ok && v > 0 {
		cfg.NotifierBuffer = v
	}
	return cfg
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
