package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server   ServerConfig
	Supabase SupabaseConfig
	Report   ReportConfig
	Export   ExportConfig
	MongoDB  MongoDBConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// SupabaseConfig contains credentials for the persistence/auth backend.
type SupabaseConfig struct {
	URL    string
	APIKey string
}

// ReportConfig carries the fixed header lines printed on every report.
type ReportConfig struct {
	OrgName  string
	DeptName string
}

// ExportConfig holds scheduler-related settings for the batch export.
type ExportConfig struct {
	CronSchedule string
	Timezone     string
}

// MongoDBConfig holds settings for the report archive store.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Supabase: SupabaseConfig{
			URL:    os.Getenv("SUPABASE_URL"),
			APIKey: os.Getenv("SUPABASE_API_KEY"),
		},
		Report: ReportConfig{
			OrgName:  getenvWithDefault("REPORT_ORG_NAME", "PREFEITURA MUNICIPAL DE NOVA CRUZ"),
			DeptName: getenvWithDefault("REPORT_DEPT_NAME", "SECRETARIA MUNICIPAL DE TRIBUTAÇÃO E ARRECADAÇÃO"),
		},
		Export: ExportConfig{
			CronSchedule: getenvWithDefault("EXPORT_CRON_SCHEDULE", "0 6 1 * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "America/Fortaleza"),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "prt_fiscal"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch {
	case c.Supabase.URL == "":
		return errors.New("SUPABASE_URL must be provided")
	case c.Supabase.APIKey == "":
		return errors.New("SUPABASE_API_KEY must be provided")
	}

	if c.Report.OrgName == "" {
		return errors.New("REPORT_ORG_NAME must not be empty")
	}

	if c.Report.DeptName == "" {
		return errors.New("REPORT_DEPT_NAME must not be empty")
	}

	if c.Export.CronSchedule == "" {
		return errors.New("EXPORT_CRON_SCHEDULE must be provided")
	}

	if c.Export.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	if c.MongoDB.URI == "" {
		return errors.New("MONGODB_URI must be provided")
	}

	if c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
