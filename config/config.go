package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode   string `mapstructure:"mode"`
	Dotenv string `mapstructure:"dotenv"`
	Server struct {
		HTTPPort        string        `mapstructure:"HTTPPort"`
		Timeout         time.Duration `mapstructure:"HTTPTimeout"`
		ShutdownTimeout time.Duration `mapstructure:"ShutdownTimeout"`
		AllowedOrigins  []string      `mapstructure:"AllowedOrigins"`
	} `mapstructure:"server"`
	GenAI struct {
		Model                string        `mapstructure:"model"`
		DiscoveryTemperature float32       `mapstructure:"discoveryTemperature"`
		ChatTemperature      float32       `mapstructure:"chatTemperature"`
		RequestTimeout       time.Duration `mapstructure:"requestTimeout"`
	} `mapstructure:"genai"`
	Discovery struct {
		RadiusKm       int    `mapstructure:"radiusKm"`
		Count          int    `mapstructure:"count"`
		ValidationMode string `mapstructure:"validationMode"`
	} `mapstructure:"discovery"`
	Locale struct {
		Default string `mapstructure:"default"`
	} `mapstructure:"locale"`
	Sessions struct {
		TTL      time.Duration `mapstructure:"ttl"`
		TokenTTL time.Duration `mapstructure:"tokenTTL"`
		Secret   string        `mapstructure:"secret"`
		Issuer   string        `mapstructure:"issuer"`
		Audience string        `mapstructure:"audience"`
	} `mapstructure:"sessions"`
	RateLimit struct {
		RPS   float64       `mapstructure:"rps"`
		Burst int           `mapstructure:"burst"`
		Idle  time.Duration `mapstructure:"idle"`
	} `mapstructure:"rateLimit"`
	Observability struct {
		ServiceName string `mapstructure:"serviceName"`
		MetricsPort string `mapstructure:"metricsPort"`
	} `mapstructure:"observability"`
	NATS struct {
		Enabled       bool          `mapstructure:"enabled"`
		URL           string        `mapstructure:"url"`
		SubjectPrefix string        `mapstructure:"subjectPrefix"`
		MaxReconnects int           `mapstructure:"maxReconnects"`
		ReconnectWait time.Duration `mapstructure:"reconnectWait"`
	} `mapstructure:"nats"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")
	v.AddConfigPath("/usr/local/bin")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// SESSIONS_SECRET overrides sessions.secret, and so on
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err = config.Validate(); err != nil {
		return Config{}, err
	}
	fmt.Println("Successfully loaded app configs...")
	return config, nil
}

// Validate rejects settings the services cannot start with.
func (c Config) Validate() error {
	switch c.Discovery.ValidationMode {
	case "strict", "filter":
	default:
		return fmt.Errorf("discovery.validationMode must be strict or filter, got %q", c.Discovery.ValidationMode)
	}
	if c.Discovery.Count <= 0 {
		return fmt.Errorf("discovery.count must be positive, got %d", c.Discovery.Count)
	}
	if c.GenAI.Model == "" {
		return fmt.Errorf("genai.model is required")
	}
	if c.Sessions.TTL <= 0 {
		return fmt.Errorf("sessions.ttl must be positive")
	}
	if c.Sessions.Secret == "" {
		return fmt.Errorf("sessions.secret is required")
	}
	return nil
}
