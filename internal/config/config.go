// Package config assembles the application settings from, in rising
// priority: built-in defaults, a JSON config file, environment
// variables, and command-line flags.
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	env "github.com/caarlos0/env/v6"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds every setting of the application.
type Config struct {
	RunAddr                    string `env:"SERVER_ADDRESS" json:"server_address" validate:"hostname_port"`
	ShortURLBase               string `env:"BASE_URL" json:"base_url" validate:"url"`
	LogLevel                   string `env:"LOG_LEVEL" json:"log_level" validate:"loglevel"`
	ShortKeyLength             int    `env:"SHORT_KEY_LENGTH" json:"short_key_length" validate:"min=1"`
	AuthCookieName             string `env:"AUTH_COOKIE_NAME" json:"auth_cookie_name" validate:"required"`
	AuthCookieSigningSecretKey string `env:"AUTH_COOKIE_SIGNING_SECRET_KEY" json:"auth_cookie_signing_secret_key" validate:"base64url"`
	TrustedSubnet              string `env:"TRUSTED_SUBNET" json:"trusted_subnet" validate:"omitempty,cidr"`
}

var defaultConfig = Config{
	RunAddr:                    ":8080",
	ShortURLBase:               "http://localhost:8080",
	LogLevel:                   "info",
	ShortKeyLength:             6,
	AuthCookieName:             "tinyapp_auth",
	AuthCookieSigningSecretKey: "c3VwZXJzZWNyZXRrZXk=",
	TrustedSubnet:              "",
}

func validateLogLevel(fieldLevel validator.FieldLevel) bool {
	value := fieldLevel.Field().String()

	allowedLogLevels := map[string]bool{
		"debug":   true,
		"info":    true,
		"warning": true,
		"error":   true,
		"fatal":   true,
	}

	return allowedLogLevels[value]
}

func (c *Config) validate() error {
	validate := validator.New()

	err := validate.RegisterValidation("loglevel", validateLogLevel)
	if err != nil {
		return err
	}

	return validate.Struct(c)
}

// applyDefaults fills the zero-valued fields of values from defaults.
func applyDefaults(values *Config, defaults Config) {
	overlay(values, defaults)
}

// overlay copies every non-zero field of source over target.
func overlay(target *Config, source Config) {
	if source.RunAddr != "" {
		target.RunAddr = source.RunAddr
	}
	if source.ShortURLBase != "" {
		target.ShortURLBase = source.ShortURLBase
	}
	if source.LogLevel != "" {
		target.LogLevel = source.LogLevel
	}
	if source.ShortKeyLength != 0 {
		target.ShortKeyLength = source.ShortKeyLength
	}
	if source.AuthCookieName != "" {
		target.AuthCookieName = source.AuthCookieName
	}
	if source.AuthCookieSigningSecretKey != "" {
		target.AuthCookieSigningSecretKey = source.AuthCookieSigningSecretKey
	}
	if source.TrustedSubnet != "" {
		target.TrustedSubnet = source.TrustedSubnet
	}
}

func applyJSONFile(target *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var fromFile Config
	if err := json.Unmarshal(raw, &fromFile); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	overlay(target, fromFile)

	return nil
}

// Option tweaks how New assembles the configuration.
type Option func(*options)

type options struct {
	disableFlagsParsing bool
}

// WithDisableFlagsParsing skips command-line parsing. Tests use it to
// keep the flag set away from the test binary's own arguments.
func WithDisableFlagsParsing(disableFlagsParsing bool) Option {
	return func(o *options) {
		o.disableFlagsParsing = disableFlagsParsing
	}
}

// New builds a validated Config. Flag values win over environment
// variables, which win over the JSON config file, which wins over
// defaults. The config file path comes from the -c flag or the CONFIG
// environment variable.
func New(optionsProto ...Option) (*Config, error) {
	opts := &options{}
	for _, protoOption := range optionsProto {
		protoOption(opts)
	}

	if err := godotenv.Load(); err != nil {
		log.Printf("Unable to load .env file: %v", err)
	}

	var values Config
	applyDefaults(&values, defaultConfig)

	// Flags are parsed first to learn the config file path, but their
	// values are applied last.
	var fromFlags Config
	flags := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flags.StringVar(&fromFlags.RunAddr, "a", "", "address and port to run server")
	flags.StringVar(&fromFlags.ShortURLBase, "b", "", "base address of the resulting shortened URL")
	flags.StringVar(&fromFlags.LogLevel, "l", "", "logger level")
	flags.IntVar(&fromFlags.ShortKeyLength, "k", 0, "length of generated short keys")
	flags.StringVar(&fromFlags.TrustedSubnet, "t", "", "trusted subnet for internal endpoints, CIDR notation")
	configPath := flags.String("c", "", "path to a JSON config file")
	if !opts.disableFlagsParsing {
		if err := flags.Parse(os.Args[1:]); err != nil {
			return nil, err
		}
	}

	if *configPath == "" {
		*configPath = os.Getenv("CONFIG")
	}
	if *configPath != "" {
		if err := applyJSONFile(&values, *configPath); err != nil {
			return nil, err
		}
	}

	var fromEnv Config
	if err := env.Parse(&fromEnv); err != nil {
		return nil, err
	}
	overlay(&values, fromEnv)

	overlay(&values, fromFlags)

	if err := values.validate(); err != nil {
		return nil, err
	}

	return &values, nil
}
