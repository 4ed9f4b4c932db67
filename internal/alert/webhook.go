package alert

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// WebhookChannel posts alerts to a Slack/Mattermost-compatible webhook.
// The configured mixin is a JSON object merged under the payload, so
// operators can set channel overrides, usernames, icons and the like:
//
//	{"username": "disku", "icon_emoji": ":floppy_disk:"}
//
// The alert text always wins over a mixin "text" key.
type WebhookChannel struct {
	url      string
	rawMixin string
	mixin    map[string]any
	client   *http.Client
	log      logrus.FieldLogger
}

// NewWebhookChannel creates a webhook channel. The mixin string is parsed
// during Prepare.
func NewWebhookChannel(url, mixin string, log logrus.FieldLogger) *WebhookChannel {
	return &WebhookChannel{
		url:      url,
		rawMixin: mixin,
		client:   &http.Client{Timeout: 10 * time.Second},
		log:      log,
	}
}

// Prepare validates the URL and parses the mixin. An unparseable mixin is
// downgraded to empty with a warning rather than blocking startup.
func (c *WebhookChannel) Prepare() error {
	if c.url == "" {
		return fmt.Errorf("webhook channel needs a url")
	}

	c.mixin = map[string]any{}
	if c.rawMixin == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(c.rawMixin), &c.mixin); err != nil {
		c.log.WithError(err).Warn("ignoring unparseable webhook mixin")
		c.mixin = map[string]any{}
	}
	return nil
}

// Fire posts the message as {"text": message} merged over the mixin.
func (c *WebhookChannel) Fire(message string) error {
	data := make(map[string]any, len(c.mixin)+1)
	for k, v := range c.mixin {
		data[k] = v
	}
	data["text"] = message

	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	resp, err := c.client.Post(c.url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	c.log.WithField("channel", "webhook").Debug("alert delivered")
	return nil
}
