package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	cerr "github.com/saeidalz13/battleship-placement/internal/error"
)

const (
	StageProd = "prod"
	StageDev  = "dev"
)

type Config struct {
	Stage                  string
	Port                   int
	DatabaseUrl            string
	MigrationDir           string
	LogLevel               string
	SessionCleanupInterval time.Duration
	AllowedOrigins         []string
}

// Load reads the configuration from the environment on top of the defaults.
// The .env file, if any, must already be loaded into the environment.
func Load(v *viper.Viper) (Config, error) {
	v.SetDefault("stage", StageDev)
	v.SetDefault("port", 9191)
	v.SetDefault("database_url", "")
	v.SetDefault("migration_dir", "file://db/migration")
	v.SetDefault("log_level", "info")
	v.SetDefault("session_cleanup_interval", "20m")
	v.SetDefault("allowed_origins", "")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := Config{
		Stage:                  v.GetString("stage"),
		Port:                   v.GetInt("port"),
		DatabaseUrl:            v.GetString("database_url"),
		MigrationDir:           v.GetString("migration_dir"),
		LogLevel:               v.GetString("log_level"),
		SessionCleanupInterval: v.GetDuration("session_cleanup_interval"),
		AllowedOrigins:         splitOrigins(v.GetString("allowed_origins")),
	}

	if cfg.Stage != StageProd && cfg.Stage != StageDev {
		return Config{}, cerr.ErrInvalidStage(cfg.Stage)
	}
	if cfg.SessionCleanupInterval <= 0 {
		cfg.SessionCleanupInterval = time.Minute * 20
	}

	return cfg, nil
}

func (c Config) PersistenceEnabled() bool {
	return c.DatabaseUrl != ""
}

func splitOrigins(raw string) []string {
	origins := make([]string, 0)
	for _, origin := range strings.Split(raw, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
