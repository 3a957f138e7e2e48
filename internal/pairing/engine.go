package pairing

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/mrsinham/centroidwatch/internal/dicom"
)

var (
	// ErrNotReady is returned while a file is still being written. The file
	// is considered again on its next observation.
	ErrNotReady = errors.New("file not ready")
	// ErrRejected is returned for files that cannot take part in a pair.
	ErrRejected = errors.New("file rejected")
)

// Identifier reads the routing identity of a file.
type Identifier interface {
	Identify(path string) (dicom.Identity, error)
}

// IdentifierFunc adapts a function to Identifier.
type IdentifierFunc func(path string) (dicom.Identity, error)

// Identify implements Identifier.
func (f IdentifierFunc) Identify(path string) (dicom.Identity, error) { return f(path) }

// Dispatcher receives complete pairs.
type Dispatcher interface {
	Dispatch(ctx context.Context, p Pair) error
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(ctx context.Context, p Pair) error

// Dispatch implements Dispatcher.
func (f DispatcherFunc) Dispatch(ctx context.Context, p Pair) error { return f(ctx, p) }

// Engine owns the pending pairs of one watched folder.
type Engine struct {
	identifier Identifier
	readiness  Readiness
	dispatcher Dispatcher
	log        *log.Logger
	now        func() time.Time

	mu      sync.Mutex
	pending map[string]*PendingPair
}

// NewEngine builds an engine. identifier defaults to dicom.Identify when nil.
func NewEngine(identifier Identifier, readiness Readiness, dispatcher Dispatcher, logger *log.Logger) *Engine {
	if identifier == nil {
		identifier = IdentifierFunc(dicom.Identify)
	}
	return &Engine{
		identifier: identifier,
		readiness:  readiness,
		dispatcher: dispatcher,
		log:        logger,
		now:        time.Now,
		pending:    make(map[string]*PendingPair),
	}
}

// Observe ingests one file event. When the file completes a pair, the pair
// is removed from the pending state and dispatched synchronously; the
// dispatcher's error is returned. Identical paths observed repeatedly simply
// refresh the held reference.
func (e *Engine) Observe(ctx context.Context, path string) error {
	var size int64
	if e.readiness != nil {
		var err error
		size, err = e.readiness.Wait(ctx, path)
		if err != nil {
			return err
		}
	}

	id, err := e.identifier.Identify(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRejected, err)
	}
	kind, ok := KindOf(id.Modality)
	if !ok {
		return fmt.Errorf("%w: %s: %w %q", ErrRejected, path, dicom.ErrUnsupportedModality, id.Modality)
	}

	ref := &FileRef{Path: path, Size: size, ArrivedAt: e.now()}
	pair, ready := e.record(id.PatientID, kind, ref)
	if !ready {
		return nil
	}

	e.log.Info("pair complete", "patient", pair.PatientID, "rtstruct", pair.StructureSetPath, "rtplan", pair.PlanPath)
	if err := e.dispatcher.Dispatch(ctx, pair); err != nil {
		return fmt.Errorf("dispatch %s: %w", pair.PatientID, err)
	}
	return nil
}

// record stores ref and, if that completes the pair, claims it.
func (e *Engine) record(patientID string, kind Kind, ref *FileRef) (Pair, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, ok := e.pending[patientID]
	if !ok {
		p = &PendingPair{PatientID: patientID}
		e.pending[patientID] = p
	}
	if old := p.set(kind, ref); old != nil && old.Path != ref.Path {
		e.log.Warn("replacing pending file", "patient", patientID, "kind", kind, "old", old.Path, "new", ref.Path)
	}
	e.log.Debug("file pending", "patient", patientID, "kind", kind, "path", ref.Path, "size", humanize.Bytes(uint64(ref.Size)))

	if !p.Ready() {
		return Pair{}, false
	}
	delete(e.pending, patientID)
	return Pair{
		PatientID:        patientID,
		StructureSetPath: p.StructureSet.Path,
		PlanPath:         p.Plan.Path,
	}, true
}

// Pending returns a copy of the pending pairs sorted by patient ID.
func (e *Engine) Pending() []PendingPair {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]PendingPair, 0, len(e.pending))
	for _, p := range e.pending {
		out = append(out, p.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PatientID < out[j].PatientID })
	return out
}
