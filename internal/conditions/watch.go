package conditions

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/solatis/disku/internal/types"
)

// LoadFile reads a conditions file and parses its contents. The file holds
// the condition list as plain text; surrounding whitespace is ignored.
func LoadFile(path string) (types.ConditionSet, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read conditions file: %w", err)
	}
	return Parse(string(text))
}

// WatchFile re-parses the conditions file on every write and swaps the
// holder on success. A parse failure keeps the previous set: validation is
// all-or-nothing and a broken edit must not disarm monitoring.
//
// The watch is on the parent directory, not the file itself, so editors
// that replace the file (rename-over) keep triggering events.
// Blocks until ctx is cancelled.
func WatchFile(ctx context.Context, path string, holder *Holder, log logrus.FieldLogger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || name != target {
				continue
			}
			switch {
			case event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create):
				reload(path, holder, log)
			case event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename):
				// A vanished file is an operator mistake, not a reason to
				// disarm; a later Create on the same name reloads.
				log.WithField("path", path).Warn("conditions file removed, keeping current set")
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("conditions watcher error")
		}
	}
}

// reload parses the file and swaps the holder, logging the outcome.
func reload(path string, holder *Holder, log logrus.FieldLogger) {
	set, err := LoadFile(path)
	if err != nil {
		log.WithError(err).WithField("path", path).Error("cannot load conditions file, keeping current set")
		return
	}

	holder.Swap(set)
	log.WithFields(logrus.Fields{
		"path":       path,
		"conditions": set.String(),
	}).Info("conditions reloaded")
}
