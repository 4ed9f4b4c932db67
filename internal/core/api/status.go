package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// StoredReport is one row of current state, as stored and as served to the
// status client.
type StoredReport struct {
	ReportID   string `db:"report_id" json:"report_id"`
	Machine    string `db:"machine" json:"machine"`
	Path       string `db:"path" json:"path"`
	TotalBytes int64  `db:"total_bytes" json:"total"`
	UsedBytes  int64  `db:"used_bytes" json:"used"`
	FreeBytes  int64  `db:"free_bytes" json:"free"`
	Triggered  bool   `db:"triggered" json:"triggered"`
	Matched    string `db:"matched" json:"matched,omitempty"`
	ReceivedAt string `db:"received_at" json:"received_at"`
}

// HandleStatus serves the latest report per machine and path as JSON.
func (s *Service) HandleStatus(w http.ResponseWriter, r *http.Request) {
	reports := []StoredReport{}
	if err := s.queries.Select("list-reports", &reports); err != nil {
		s.log.WithError(err).Error("failed to list reports")
		http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(reports); err != nil {
		s.log.WithError(err).Error("failed to encode status response")
	}
}

// HandleIndex serves a plain-text banner pointing at the useful endpoints.
func (s *Service) HandleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintf(w, `disku - disk usage monitor
==========================

* Agents report to POST /disku/report
* Current state at GET /disku/status
* Health at GET /healthz, metrics at GET /metrics

Example agent invocation:

  disku agent --url http://%s/disku/report /
`, r.Host)
}
