package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	"trmnlhealth/internal/domain"
)

// MacroTargets are the nutrition goals used for compliance badges.
type MacroTargets struct {
	CaloriesMin float64 `env:"CALORIES_MIN" envDefault:"800"`
	CaloriesMax float64 `env:"CALORIES_MAX" envDefault:"1200"`
	ProteinG    float64 `env:"PROTEIN_TARGET_G" envDefault:"100"`
	CarbsG      float64 `env:"CARB_TARGET_G" envDefault:"60"`
	FatG        float64 `env:"FAT_TARGET_G" envDefault:"40"`
}

// Settings is the full process configuration. It is loaded once at startup
// and passed into components explicitly; nothing below the CLI reads the
// environment.
type Settings struct {
	CSVPath                string   `env:"TRACKER_CSV_PATH" envDefault:"~/Notes/totocaster/Attachments/weight-loss-tracker.csv"`
	PluginURL              string   `env:"TRMNL_PLUGIN_URL"`
	DeviceAPIKey           string   `env:"TRMNL_DEVICE_API_KEY"`
	TargetWeightKg         float64  `env:"TARGET_WEIGHT_KG" envDefault:"70"`
	StartingWeightOverride *float64 `env:"STARTING_WEIGHT_KG"`
	Timezone               string   `env:"LOCAL_TIMEZONE" envDefault:"Asia/Tokyo"`
	StatePath              string   `env:"TRMNL_STATE_PATH"`
	MacroTargets           MacroTargets
}

// Load reads Settings from the environment, after sourcing a .env file if
// one exists in the working directory.
func Load() (*Settings, error) {
	// same behavior as a missing .env: fall through to the real env
	_ = godotenv.Load()

	settings := Settings{}
	if err := env.Parse(&settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings from env: %w", err)
	}

	if settings.PluginURL == "" {
		return nil, &domain.ConfigurationError{
			Setting: "TRMNL_PLUGIN_URL",
			Reason:  "set the TRMNL plugin webhook URL in your environment or .env file",
		}
	}

	csvPath, err := expandHome(settings.CSVPath)
	if err != nil {
		return nil, err
	}
	settings.CSVPath = csvPath

	if settings.StatePath == "" {
		cacheDir, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve cache dir for state file: %w", err)
		}
		settings.StatePath = filepath.Join(cacheDir, "trmnl-health", "state.json")
	} else {
		statePath, err := expandHome(settings.StatePath)
		if err != nil {
			return nil, err
		}
		settings.StatePath = statePath
	}

	return &settings, nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~"+string(os.PathSeparator)) {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to expand %q: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
