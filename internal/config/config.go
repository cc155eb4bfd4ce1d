package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is shared by both binaries; each reads only the sections it needs.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	MDM      MDMConfig      `mapstructure:"mdm"`
	DEM      DEMConfig      `mapstructure:"dem"`
	Ingest   IngestConfig   `mapstructure:"ingest"`
	Storage  StorageConfig  `mapstructure:"storage"`
}

// ServerConfig is shared by both binaries. Port is an override (PORT); when zero each
// binary listens on its own mdm.port or dem.port.
type ServerConfig struct {
	Port int        `mapstructure:"port"`
	Mode string     `mapstructure:"mode"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

// DatabaseConfig selects the gorm dialect. Path is used by sqlite, the rest by postgres.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Path            string        `mapstructure:"path"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN builds the driver-specific connection string.
// Parameters: none.
// Returns:
//   - string: sqlite file path or postgres key/value DSN.
func (c *DatabaseConfig) DSN() string {
	if c.Driver == "postgres" {
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
	}
	return c.Path
}

// MDMConfig locates the MDM service. APIBaseURL is what DEM calls for provider lookups,
// CallbackBaseURL is what MDM advertises to DEM as the sync target.
type MDMConfig struct {
	Port            int    `mapstructure:"port"`
	APIBaseURL      string `mapstructure:"api_base_url"`
	CallbackBaseURL string `mapstructure:"callback_base_url"`
}

// DEMConfig locates the DEM service for the MDM admin gateway.
type DEMConfig struct {
	Port       int    `mapstructure:"port"`
	APIBaseURL string `mapstructure:"api_base_url"`
}

// ListenPort returns the port a binary serves on: server.port when set, otherwise
// mdm.port for "mdm" and dem.port for "dem".
func (c *Config) ListenPort(service string) int {
	if c.Server.Port > 0 {
		return c.Server.Port
	}
	if service == "dem" {
		return c.DEM.Port
	}
	return c.MDM.Port
}

// IngestConfig sizes the DEM worker pool. ResumeInterval is how often PENDING jobs
// that missed the queue are picked up again; zero disables the sweep.
type IngestConfig struct {
	Workers        int           `mapstructure:"workers"`
	QueueSize      int           `mapstructure:"queue_size"`
	HTTPTimeout    time.Duration `mapstructure:"http_timeout"`
	ResumeInterval time.Duration `mapstructure:"resume_interval"`
}

// StorageConfig selects where raw and transformed documents are written.
type StorageConfig struct {
	Type      string `mapstructure:"type"` // local, s3, r2, s3compatible
	Root      string `mapstructure:"root"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	PublicURL string `mapstructure:"public_url"`
}

// Load reads configuration from file, .env and environment.
// Parameters:
//   - configPath: explicit config file; empty searches ./configs and the working directory.
// Returns:
//   - *Config: merged configuration.
//   - error: non-nil if the file exists but cannot be read or decoded.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Explicit bindings for values usually injected by the deployment
	v.BindEnv("server.port", "PORT")
	v.BindEnv("mdm.port", "MDM_PORT")
	v.BindEnv("dem.port", "DEM_PORT")
	v.BindEnv("database.driver", "DB_DRIVER")
	v.BindEnv("database.host", "DB_HOST")
	v.BindEnv("database.port", "DB_PORT")
	v.BindEnv("database.user", "DB_USER")
	v.BindEnv("database.password", "DB_PASSWORD")
	v.BindEnv("database.dbname", "DB_NAME")
	v.BindEnv("mdm.api_base_url", "MDM_API_BASE_URL")
	v.BindEnv("mdm.callback_base_url", "MDM_CALLBACK_BASE_URL")
	v.BindEnv("dem.api_base_url", "DEM_API_BASE_URL")
	v.BindEnv("storage.root", "DEM_STORAGE_ROOT")
	v.BindEnv("storage.access_key", "S3_ACCESS_KEY")
	v.BindEnv("storage.secret_key", "S3_SECRET_KEY")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/countrysync.db")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("mdm.port", 8080)
	v.SetDefault("dem.port", 8081)
	v.SetDefault("mdm.api_base_url", "http://localhost:8080/mdm/api")
	v.SetDefault("mdm.callback_base_url", "http://localhost:8080")
	v.SetDefault("dem.api_base_url", "http://localhost:8081/dem/api")

	v.SetDefault("ingest.workers", 4)
	v.SetDefault("ingest.queue_size", 100)
	v.SetDefault("ingest.http_timeout", 60*time.Second)
	v.SetDefault("ingest.resume_interval", 30*time.Second)

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.root", "./data_dem")
	v.SetDefault("storage.bucket", "dem-artifacts")
}
