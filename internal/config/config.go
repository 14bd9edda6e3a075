package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/Veraticus/carxp/internal/common"
	"github.com/Veraticus/carxp/internal/model"
)

// Viper keys.
const (
	KeyDatabasePath     = "database.path"
	KeyLogLevel         = "logging.level"
	KeyLogFormat        = "logging.format"
	KeySeedCarModel     = "seed.car.model"
	KeySeedCarPlate     = "seed.car.plate"
	KeySeedCarYear      = "seed.car.year"
	KeySeedCategory     = "seed.category.description"
	KeyFuelCategory     = "report.fuel_category"
	KeyBackupDir        = "backup.dir"
	DefaultDatabasePath = "$HOME/.local/share/carxp/carxp.db"
)

// EnvPrefix is prepended to environment overrides, e.g. CARXP_DATABASE_PATH.
const EnvPrefix = "CARXP"

// EnvKeyReplacer maps dotted viper keys onto environment variable names.
func EnvKeyReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_")
}

// Config is the typed view of everything carxp reads from viper.
type Config struct {
	DatabasePath string
	LogLevel     string
	LogFormat    string
	FuelCategory string
	BackupDir    string
	Seed         model.Seed
}

// SetDefaults registers default values on v. The seed defaults mirror the rows
// the mobile app used to insert on first launch.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDatabasePath, DefaultDatabasePath)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeySeedCarModel, "Toyota Corolla")
	v.SetDefault(KeySeedCarPlate, "ABC123")
	v.SetDefault(KeySeedCarYear, 2022)
	v.SetDefault(KeySeedCategory, "Combustível")
	v.SetDefault(KeyFuelCategory, "Combustível")
	v.SetDefault(KeyBackupDir, "")
}

// Load reads the configuration from v, expanding paths and validating the result.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	cfg := &Config{
		DatabasePath: ExpandPath(v.GetString(KeyDatabasePath)),
		LogLevel:     v.GetString(KeyLogLevel),
		LogFormat:    v.GetString(KeyLogFormat),
		FuelCategory: v.GetString(KeyFuelCategory),
		BackupDir:    ExpandPath(v.GetString(KeyBackupDir)),
		Seed: model.Seed{
			Car: model.Car{
				Model: v.GetString(KeySeedCarModel),
				Plate: v.GetString(KeySeedCarPlate),
				Year:  v.GetInt(KeySeedCarYear),
			},
			Category: model.Category{
				Description: v.GetString(KeySeedCategory),
				Type:        model.CategoryTypeExpense,
			},
		},
	}

	if cfg.BackupDir == "" && cfg.DatabasePath != ":memory:" {
		cfg.BackupDir = filepath.Join(filepath.Dir(cfg.DatabasePath), "backups")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.DatabasePath) == "" {
		problems = append(problems, "database.path cannot be empty")
	}
	if _, err := common.ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, fmt.Sprintf("logging.level %q must be one of debug, info, warn, error", c.LogLevel))
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		problems = append(problems, fmt.Sprintf("logging.format %q must be console or json", c.LogFormat))
	}
	if err := c.Seed.Car.Validate(); err != nil {
		problems = append(problems, "seed.car: "+err.Error())
	}
	if err := c.Seed.Category.Validate(); err != nil {
		problems = append(problems, "seed.category: "+err.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w:\n- %s", common.ErrInvalidConfig, strings.Join(problems, "\n- "))
	}
	return nil
}
