package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/solatis/disku/internal/conditions"
	"github.com/solatis/disku/internal/sizes"
	"github.com/solatis/disku/internal/types"
)

// alertContext feeds the operator's alert message template.
type alertContext struct {
	Machine   string
	Path      string
	Condition string
	Usage     string
}

// HandleReport ingests one agent report: validates the payload shape,
// evaluates every path against the current condition set, persists the
// latest state, and pushes triggered messages into the alert buffer.
// The response body lists the rendered alarm lines, one per triggered
// path, so the agent log shows what fired.
func (s *Service) HandleReport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		reportErrorsTotal.WithLabelValues("body").Inc()
		http.Error(w, "cannot read request body", http.StatusBadRequest)
		return
	}

	var report types.Report
	if err := json.Unmarshal(body, &report); err != nil {
		reportErrorsTotal.WithLabelValues("decode").Inc()
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if report.ClientInfo.Name() == "" || len(report.DiskUsage) == 0 {
		reportErrorsTotal.WithLabelValues("shape").Inc()
		http.Error(w, "client_info and disk_usage required", http.StatusBadRequest)
		return
	}

	machine := report.ClientInfo.Name()
	set := s.holder.Load()

	s.log.WithFields(logrus.Fields{
		"machine": machine,
		"paths":   len(report.DiskUsage),
	}).Info("got report")

	// Deterministic path order for the response and the alert message
	paths := make([]string, 0, len(report.DiskUsage))
	for path := range report.DiskUsage {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var msgs []string
	received := time.Now().UTC()

	for _, path := range paths {
		snapshot := report.DiskUsage[path]
		pathLog := s.log.WithFields(logrus.Fields{"machine": machine, "path": path})

		// Consistency is the reporter's responsibility; an inconsistent
		// triple means a broken or hostile agent, not a full disk.
		if !snapshot.Consistent() {
			reportErrorsTotal.WithLabelValues("inconsistent").Inc()
			pathLog.WithError(types.ErrInconsistentSnapshot).WithFields(logrus.Fields{
				"total": snapshot.Total,
				"used":  snapshot.Used,
				"free":  snapshot.Free,
			}).Warn("skipping snapshot")
			continue
		}

		result, err := conditions.Evaluate(set, snapshot)
		if err != nil {
			// Degenerate snapshot (total == 0): skip this path, keep cycle
			if errors.Is(err, types.ErrDegenerateSnapshot) {
				reportErrorsTotal.WithLabelValues("degenerate").Inc()
				pathLog.Warn("skipping degenerate snapshot")
				continue
			}
			reportErrorsTotal.WithLabelValues("evaluate").Inc()
			pathLog.WithError(err).Error("evaluation failed")
			continue
		}

		if err := s.storeReport(machine, path, snapshot, result, received); err != nil {
			reportErrorsTotal.WithLabelValues("store").Inc()
			pathLog.WithError(err).Error("failed to store report")
			http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
			return
		}

		if !result.Triggered {
			continue
		}

		alarmsTotal.Inc()
		msg, err := s.renderAlert(machine, path, snapshot, result)
		if err != nil {
			pathLog.WithError(err).Error("failed to render alert message")
			continue
		}
		pathLog.WithField("condition", types.ConditionSet(result.Matched).String()).Warn("alarm triggered")
		msgs = append(msgs, msg)
	}

	reportsTotal.Inc()

	if len(msgs) > 0 {
		s.buffer.Push(machine, strings.Join(msgs, "\n"))
	}

	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprint(w, strings.Join(msgs, "\n"))
}

// storeReport upserts the latest snapshot for (machine, path).
func (s *Service) storeReport(machine, path string, snapshot types.DiskSnapshot, result types.EvalResult, received time.Time) error {
	_, err := s.queries.Exec("upsert-report",
		string(types.NewReportID()),
		machine,
		path,
		int64(snapshot.Total),
		int64(snapshot.Used),
		int64(snapshot.Free),
		result.Triggered,
		types.ConditionSet(result.Matched).String(),
		received.Format("2006-01-02T15:04:05Z"),
	)
	return err
}

// renderAlert formats one triggered path through the operator template.
// Condition joins every matched condition, not just the first, so the
// notification names everything that fired.
func (s *Service) renderAlert(machine, path string, snapshot types.DiskSnapshot, result types.EvalResult) (string, error) {
	usage := fmt.Sprintf("%s used of %s, %s free",
		sizes.FormatBytes(snapshot.Used),
		sizes.FormatBytes(snapshot.Total),
		sizes.FormatBytes(snapshot.Free),
	)

	var sb strings.Builder
	err := s.msgTmpl.Execute(&sb, alertContext{
		Machine:   machine,
		Path:      path,
		Condition: types.ConditionSet(result.Matched).String(),
		Usage:     usage,
	})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}
