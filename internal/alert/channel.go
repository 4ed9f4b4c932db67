// Package alert delivers alarm verdicts to operators: a webhook channel
// for Slack/Mattermost-compatible endpoints, a log channel fallback, and a
// buffer that rate-limits notifications to a configured interval.
package alert

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Channel is an alert delivery mechanism. Prepare validates configuration
// once at startup; Fire delivers a rendered message. Delivery failures are
// reported as errors but must never stop the monitoring loop.
type Channel interface {
	Prepare() error
	Fire(message string) error
}

// Load constructs the configured channel by name.
func Load(kind, webhookURL, webhookMixin string, log logrus.FieldLogger) (Channel, error) {
	var ch Channel
	switch kind {
	case "webhook":
		ch = NewWebhookChannel(webhookURL, webhookMixin, log)
	case "log":
		ch = NewLogChannel(log)
	default:
		return nil, fmt.Errorf("unknown alert channel: %q", kind)
	}

	if err := ch.Prepare(); err != nil {
		return nil, fmt.Errorf("failed to prepare %s channel: %w", kind, err)
	}
	return ch, nil
}

// LogChannel writes alerts to the server log. Default when no webhook is
// configured, and useful as a smoke-test channel.
type LogChannel struct {
	log logrus.FieldLogger
}

// NewLogChannel creates a log-backed channel.
func NewLogChannel(log logrus.FieldLogger) *LogChannel {
	return &LogChannel{log: log}
}

// Prepare implements Channel. Nothing to validate.
func (c *LogChannel) Prepare() error { return nil }

// Fire implements Channel.
func (c *LogChannel) Fire(message string) error {
	c.log.WithField("channel", "log").Warn(message)
	return nil
}
