// Package api implements the HTTP handlers of the disku report server.
//
// Error mapping: body/shape problems are 400, signature problems are
// rejected earlier by the auth middleware (401), database failures are
// 503. Per-path evaluation failures (degenerate snapshots) never fail the
// request; they are skipped and logged so one bad filesystem cannot mask
// the rest of the report.
package api

import (
	"fmt"
	"text/template"

	"github.com/sirupsen/logrus"
	"github.com/solatis/disku/internal/alert"
	"github.com/solatis/disku/internal/conditions"
	"github.com/solatis/disku/internal/core/config"
	"github.com/solatis/disku/internal/core/db"
)

// Service holds the report server's collaborators: the condition holder
// for evaluation, the store for current state, and the alert pipeline.
type Service struct {
	queries *db.Queries
	holder  *conditions.Holder
	buffer  *alert.Buffer
	msgTmpl *template.Template
	cfg     *config.ServerConfig
	log     logrus.FieldLogger
}

// NewService creates the service and compiles the alert message template.
func NewService(queries *db.Queries, holder *conditions.Holder, buffer *alert.Buffer, cfg *config.ServerConfig, log logrus.FieldLogger) (*Service, error) {
	if queries == nil {
		return nil, fmt.Errorf("queries cannot be nil")
	}
	if holder == nil {
		return nil, fmt.Errorf("holder cannot be nil")
	}
	if buffer == nil {
		return nil, fmt.Errorf("buffer cannot be nil")
	}
	if cfg == nil {
		return nil, fmt.Errorf("cfg cannot be nil")
	}
	if log == nil {
		return nil, fmt.Errorf("log cannot be nil")
	}

	msgTmpl, err := template.New("alert").Parse(cfg.AlertMessage)
	if err != nil {
		return nil, fmt.Errorf("invalid alert message template: %w", err)
	}

	return &Service{
		queries: queries,
		holder:  holder,
		buffer:  buffer,
		msgTmpl: msgTmpl,
		cfg:     cfg,
		log:     log,
	}, nil
}
