package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/mrsinham/centroidwatch/internal/pairing"
	"github.com/mrsinham/centroidwatch/internal/watcher"
)

// Monitor feeds watcher events into a pairing engine one at a time.
type Monitor struct {
	Dir          string
	ScanExisting bool

	watcher *watcher.Watcher
	engine  *pairing.Engine
	log     *log.Logger
}

// NewMonitor wires a watcher to an engine.
func NewMonitor(dir string, w *watcher.Watcher, e *pairing.Engine, logger *log.Logger) *Monitor {
	return &Monitor{Dir: dir, watcher: w, engine: e, log: logger}
}

// Run blocks until ctx is cancelled or the watcher stops.
func (m *Monitor) Run(ctx context.Context) error {
	events, err := m.watcher.Watch(ctx, m.Dir)
	if err != nil {
		return err
	}
	m.log.Info("monitoring folder", "dir", m.Dir)

	if m.ScanExisting {
		if err := m.scan(ctx); err != nil {
			return err
		}
	}

	for {
		select {
		case <-ctx.Done():
			m.log.Info("monitor stopped", "pending", len(m.engine.Pending()))
			return nil
		case ev, ok := <-events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("watcher closed")
			}
			m.log.Debug("file event", "op", ev.Operation, "path", ev.Path)
			m.handle(ctx, ev.Path)
		}
	}
}

// scan observes files already in the folder, in name order.
func (m *Monitor) scan(ctx context.Context) error {
	entries, err := os.ReadDir(m.Dir)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	for _, name := range names {
		if ctx.Err() != nil {
			return nil
		}
		path := filepath.Join(m.Dir, name)
		if m.watcher.Accept(path) {
			m.handle(ctx, path)
		}
	}
	return nil
}

func (m *Monitor) handle(ctx context.Context, path string) {
	err := m.engine.Observe(ctx, path)
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
	case errors.Is(err, pairing.ErrNotReady):
		m.log.Info("file not ready yet", "path", path, "err", err)
	case errors.Is(err, pairing.ErrRejected):
		m.log.Debug("ignoring file", "path", path, "err", err)
	default:
		// The processor has already logged the cause.
		m.log.Debug("pair not completed", "path", path, "err", err)
	}
	if pending := m.engine.Pending(); len(pending) > 0 {
		for _, p := range pending {
			m.log.Debug("awaiting counterpart", "patient", p.PatientID, "has_rtstruct", p.StructureSet != nil, "has_rtplan", p.Plan != nil)
		}
	}
}
