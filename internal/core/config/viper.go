package config

import (
	"fmt"
	"strings"

	"github.com/solatis/disku/internal/sizes"
	"github.com/spf13/viper"
)

// LoadServerConfig loads configuration from file using viper.
// CLI flags > environment > config file > defaults precedence.
func LoadServerConfig(configPath string) (*ServerConfig, error) {
	v := viper.New()

	// Set defaults matching DefaultServerConfig
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.request_timeout", "30s")
	v.SetDefault("alert.conditions", "")
	v.SetDefault("alert.conditions_file", "")
	v.SetDefault("alert.interval", "5m")
	v.SetDefault("alert.channel", "log")
	v.SetDefault("alert.message", DefaultAlertMessage)
	v.SetDefault("alert.webhook_url", "")
	v.SetDefault("alert.webhook_mixin", "")

	// Bind environment variables with DISKU_ prefix
	// DISKU_ALERT_CONDITIONS overrides alert.conditions, etc.
	v.SetEnvPrefix("DISKU")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Secrets are environment-only per 12-factor principles
	if err := validateNoSecretsInConfig(v); err != nil {
		return nil, err
	}

	cfg := &ServerConfig{
		Host:            v.GetString("server.host"),
		Port:            v.GetInt("server.port"),
		RequestTimeout:  v.GetDuration("server.request_timeout"),
		AlertConditions: v.GetString("alert.conditions"),
		ConditionsFile:  v.GetString("alert.conditions_file"),
		AlertInterval:   v.GetString("alert.interval"),
		AlertChannel:    v.GetString("alert.channel"),
		AlertMessage:    v.GetString("alert.message"),
		WebhookURL:      v.GetString("alert.webhook_url"),
		WebhookMixin:    v.GetString("alert.webhook_mixin"),
	}

	if err := validateServerConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateServerConfig checks port range, timeout, interval syntax, and
// channel selection. Condition syntax is validated by the caller through
// the parser, which produces the precise error taxonomy.
func validateServerConfig(cfg *ServerConfig) error {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", cfg.Port)
	}
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %v", cfg.RequestTimeout)
	}
	if _, err := sizes.ParseInterval(cfg.AlertInterval); err != nil {
		return fmt.Errorf("alert.interval: %w", err)
	}
	switch cfg.AlertChannel {
	case "log":
	case "webhook":
		if cfg.WebhookURL == "" {
			return fmt.Errorf("alert.webhook_url required for webhook channel")
		}
	default:
		return fmt.Errorf("alert.channel must be webhook or log, got %q", cfg.AlertChannel)
	}
	return nil
}

// validateNoSecretsInConfig enforces environment-only secrets (12-factor principle).
func validateNoSecretsInConfig(v *viper.Viper) error {
	if v.IsSet("report_secret") || v.IsSet("server.report_secret") || v.IsSet("alert.report_secret") {
		return fmt.Errorf("report secrets not allowed in config files (use DISKU_REPORT_SECRET environment variable)")
	}
	return nil
}
