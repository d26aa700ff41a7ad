// Package config loads the document generator settings from a file and
// the environment.
//
// Keys may be overridden with CLASSYSWAGGER_ prefixed environment
// variables, nested keys joined with an underscore:
//
//	CLASSYSWAGGER_TITLE="Balloons API"
//	CLASSYSWAGGER_PUBLISH_YAML_PATH=/swagger.yaml
//	CLASSYSWAGGER_IGNORE_PREFIXES=/static,/internal
package config

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"
	"github.com/vitalvas/classyswagger/swagger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix prefixes the environment variables read by Load.
const EnvPrefix = "CLASSYSWAGGER"

// Config holds the generator, publishing and server settings.
type Config struct {
	Title          string   `mapstructure:"title"`
	Version        string   `mapstructure:"version"`
	BasePath       string   `mapstructure:"base_path"`
	IgnorePrefixes []string `mapstructure:"ignore_prefixes"`
	Verbs          []string `mapstructure:"verbs"`
	JSONFuncs      []string `mapstructure:"json_funcs"`

	// YAMLExtensions copies "x-" keys of handler doc blocks into the
	// document.
	YAMLExtensions bool `mapstructure:"yaml_extensions"`

	Publish Publish `mapstructure:"publish"`

	Listen   string `mapstructure:"listen"`
	LogLevel string `mapstructure:"log_level"`
}

// Publish selects the published document routes.
type Publish struct {
	JSONPath     string `mapstructure:"json_path"`
	YAMLPath     string `mapstructure:"yaml_path"`
	OpenAPI3Path string `mapstructure:"openapi3_path"`
	DocsPath     string `mapstructure:"docs_path"`
}

// New returns a viper instance with defaults and environment binding set
// up.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("title", "API")
	v.SetDefault("version", "1.0")
	v.SetDefault("base_path", "")
	v.SetDefault("ignore_prefixes", []string{swagger.DefaultStaticPrefix})
	v.SetDefault("verbs", swagger.DefaultVerbs)
	v.SetDefault("json_funcs", swagger.DefaultJSONFuncs)
	v.SetDefault("yaml_extensions", true)
	v.SetDefault("publish.json_path", swagger.DefaultJSONPath)
	v.SetDefault("publish.yaml_path", "")
	v.SetDefault("publish.openapi3_path", "")
	v.SetDefault("publish.docs_path", "")
	v.SetDefault("listen", ":8080")
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the config file at path, if any, on top of the defaults and
// the environment.
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = New()
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings not covered by swagger.Options.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.Title, validation.Required),
		validation.Field(&c.Version, validation.Required),
		validation.Field(&c.Listen, validation.Required),
		validation.Field(&c.LogLevel, validation.Required, validation.By(func(value any) error {
			s, _ := value.(string)
			_, err := zapcore.ParseLevel(s)
			return err
		})),
	)
	if err != nil {
		return fmt.Errorf("config: invalid: %w", err)
	}
	return nil
}

// Options returns the generator options described by the config.
func (c *Config) Options(logger *zap.Logger) swagger.Options {
	opts := swagger.Options{
		Title:          c.Title,
		Version:        c.Version,
		BasePath:       c.BasePath,
		IgnorePrefixes: c.IgnorePrefixes,
		Verbs:          c.Verbs,
		Logger:         logger,
	}
	if len(c.JSONFuncs) > 0 {
		opts.Inferer = swagger.JSONReturnInferer{Funcs: c.JSONFuncs}
	}
	if c.YAMLExtensions {
		opts.ExtraHandler = swagger.YAMLExtensions
	}
	return opts
}

// PublishConfig returns the published routes described by the config.
func (c *Config) PublishConfig() *swagger.PublishConfig {
	return &swagger.PublishConfig{
		JSONPath:     c.Publish.JSONPath,
		YAMLPath:     c.Publish.YAMLPath,
		OpenAPI3Path: c.Publish.OpenAPI3Path,
		DocsPath:     c.Publish.DocsPath,
	}
}

// Logger builds a production zap logger at the configured level.
func (c *Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("config: log level: %w", err)
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
