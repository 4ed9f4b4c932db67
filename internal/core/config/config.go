// Package config provides configuration management for disku services.
package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"
)

// ServerConfig holds configuration for the disku report server.
type ServerConfig struct {
	Host           string
	Port           int
	RequestTimeout time.Duration

	// AlertConditions is the inline condition list; ConditionsFile points
	// at a file holding the same text and takes precedence (it is also the
	// reload-watch target). Exactly the condition grammar, e.g.
	// "USED > 95%, FREE < 5G".
	AlertConditions string
	ConditionsFile  string

	// AlertInterval throttles notifications: at most one delivery per
	// reporter batch per interval. Accepts plain seconds, compound unit
	// strings ("1h30m", "2d"), handled by sizes.ParseInterval.
	AlertInterval string

	// AlertChannel selects delivery: "webhook" or "log".
	AlertChannel string

	// AlertMessage is a text/template rendered per triggered path with
	// .Machine, .Path, .Condition and .Usage fields.
	AlertMessage string

	WebhookURL   string
	WebhookMixin string
}

// DefaultAlertMessage is used when the operator configures no template.
const DefaultAlertMessage = `{{.Machine}}: {{.Path}} triggered "{{.Condition}}" ({{.Usage}})`

// DefaultServerConfig returns configuration with default values.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Host:           "0.0.0.0",
		Port:           8080,
		RequestTimeout: 30 * time.Second,
		AlertInterval:  "5m",
		AlertChannel:   "log",
		AlertMessage:   DefaultAlertMessage,
	}
}

// ReportSecret reads the shared report-signing secret from
// DISKU_REPORT_SECRET. The value is base64 and must decode to at least 32
// bytes. An unset variable returns nil: authentication is optional.
func ReportSecret() ([]byte, error) {
	val := os.Getenv("DISKU_REPORT_SECRET")
	if val == "" {
		return nil, nil
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(val))
	if err != nil {
		return nil, fmt.Errorf("DISKU_REPORT_SECRET: invalid base64 encoding: %w", err)
	}
	if len(decoded) < 32 {
		return nil, fmt.Errorf("DISKU_REPORT_SECRET: secret must be at least 32 bytes, got %d", len(decoded))
	}
	return decoded, nil
}
