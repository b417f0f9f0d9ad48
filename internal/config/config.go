package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath = "config.yml"
	envPrefix   = "TASKAPI"
)

type Config struct {
	Server  ServerConfig  `yaml:"server" validate:"required"`
	Logging LoggingConfig `yaml:"logging" validate:"required"`
	CORS    CORSConfig    `yaml:"cors"`
}

type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port" validate:"gt=0,lt=65536"`
	ReadTimeout     time.Duration `yaml:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" validate:"gte=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
}

type LoggingConfig struct {
	Level       string `yaml:"level" validate:"required,oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

type CORSConfig struct {
	AllowedOrigins   []string `yaml:"allowed_origins" validate:"dive,required"`
	AllowCredentials bool     `yaml:"allow_credentials"`
	MaxAge           int      `yaml:"max_age" validate:"gte=0"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		CORS: CORSConfig{
			AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:8000"},
			AllowCredentials: true,
			MaxAge:           300,
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path and
// TASKAPI_* environment variables, in increasing priority. A missing file
// is only an error when path is not DefaultPath.
func Load(path string) (*Config, error) {
	cfg := Default()

	if err := loadFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	if path == "" {
		return nil
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && path == DefaultPath {
			return nil
		}
		return fmt.Errorf("open config file %s: %w", path, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	keys := []string{
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		"server.shutdown_timeout",
		"logging.level",
		"logging.development",
		"cors.allowed_origins",
		"cors.allow_credentials",
		"cors.max_age",
	}
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("bind environment variable for %s: %w", key, err)
		}
	}

	var errs []error
	setString := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}
	setInt := func(key string, dst *int) {
		if !v.IsSet(key) {
			return
		}
		n, err := strconv.Atoi(v.GetString(key))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", envName(key), err))
			return
		}
		*dst = n
	}
	setBool := func(key string, dst *bool) {
		if !v.IsSet(key) {
			return
		}
		b, err := strconv.ParseBool(v.GetString(key))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", envName(key), err))
			return
		}
		*dst = b
	}
	setDuration := func(key string, dst *time.Duration) {
		if !v.IsSet(key) {
			return
		}
		d, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", envName(key), err))
			return
		}
		*dst = d
	}

	setString("server.host", &cfg.Server.Host)
	setInt("server.port", &cfg.Server.Port)
	setDuration("server.read_timeout", &cfg.Server.ReadTimeout)
	setDuration("server.write_timeout", &cfg.Server.WriteTimeout)
	setDuration("server.idle_timeout", &cfg.Server.IdleTimeout)
	setDuration("server.shutdown_timeout", &cfg.Server.ShutdownTimeout)
	setString("logging.level", &cfg.Logging.Level)
	setBool("logging.development", &cfg.Logging.Development)
	setBool("cors.allow_credentials", &cfg.CORS.AllowCredentials)
	setInt("cors.max_age", &cfg.CORS.MaxAge)
	if v.IsSet("cors.allowed_origins") {
		cfg.CORS.AllowedOrigins = splitList(v.GetString("cors.allowed_origins"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid environment configuration: %w", errors.Join(errs...))
	}
	return nil
}

func envName(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (c *Config) GetServerAddr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}
