package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/solatis/disku/internal/core/auth"
	"github.com/solatis/disku/internal/types"
)

// Error classes for exit-code mapping in the CLI.
var (
	// ErrConfig indicates a bad reporter configuration (URL, scheme).
	ErrConfig = errors.New("agent configuration error")

	// ErrBadResponse indicates the server answered outside 2xx.
	ErrBadResponse = errors.New("unexpected server response")
)

// Reporter posts disk usage reports to a disku server.
type Reporter struct {
	url    string
	secret []byte
	client *http.Client
	log    logrus.FieldLogger
}

// NewReporter validates the server URL and builds a reporter. A URL without
// a scheme gets http:// prepended, matching what operators type.
// secret may be nil when the server runs without report authentication.
func NewReporter(rawURL string, secret []byte, log logrus.FieldLogger) (*Reporter, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		u, err = url.Parse("http://" + rawURL)
	}
	if err != nil || u.Hostname() == "" {
		return nil, fmt.Errorf("%w: cannot parse url %q", ErrConfig, rawURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: invalid url scheme %q", ErrConfig, u.Scheme)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/disku/report"
	}

	return &Reporter{
		url:    u.String(),
		secret: secret,
		client: &http.Client{Timeout: 30 * time.Second},
		log:    log,
	}, nil
}

// Send posts the report as JSON, signing the body when a secret is
// configured. The response body (the triggered condition lines, if any)
// is logged for the operator.
func (r *Reporter) Send(ctx context.Context, report *types.Report) error {
	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfig, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if len(r.secret) > 0 {
		req.Header.Set(auth.SignatureHeader, auth.Sign(r.secret, body))
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("report request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d: %s", ErrBadResponse, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	r.log.WithFields(logrus.Fields{
		"status":    resp.StatusCode,
		"triggered": strings.TrimSpace(string(respBody)),
	}).Info("report delivered")
	return nil
}
