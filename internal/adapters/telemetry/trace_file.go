package telemetry

import (
	"cmp"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

// traceEvent is a complete ("X") event of the Chrome trace event format.
type traceEvent struct {
	Name string         `json:"name"`
	Cat  string         `json:"cat"`
	Ph   string         `json:"ph"`
	Ts   int64          `json:"ts"`
	Dur  int64          `json:"dur"`
	Pid  int            `json:"pid"`
	Tid  int            `json:"tid"`
	Args map[string]any `json:"args,omitempty"`
}

// TraceFile implements sdktrace.SpanProcessor. It collects finished spans
// and writes them to path on Shutdown, in the Chrome trace event format.
// Concurrent spans are laid out on separate lanes (tids).
type TraceFile struct {
	path string

	mu     sync.Mutex
	events []traceEvent
	lanes  map[trace.SpanID]int
	busy   []bool
}

var _ sdktrace.SpanProcessor = (*TraceFile)(nil)

// NewTraceFile creates a processor writing to path.
func NewTraceFile(path string) *TraceFile {
	return &TraceFile{path: path, lanes: make(map[trace.SpanID]int)}
}

// OnStart assigns the span the lowest free lane.
func (f *TraceFile) OnStart(_ context.Context, s sdktrace.ReadWriteSpan) {
	f.mu.Lock()
	defer f.mu.Unlock()

	lane := slices.Index(f.busy, false)
	if lane < 0 {
		lane = len(f.busy)
		f.busy = append(f.busy, true)
	} else {
		f.busy[lane] = true
	}
	f.lanes[s.SpanContext().SpanID()] = lane
}

// OnEnd records the span and frees its lane.
func (f *TraceFile) OnEnd(s sdktrace.ReadOnlySpan) {
	args := make(map[string]any, len(s.Attributes())+1)
	for _, kv := range s.Attributes() {
		args[string(kv.Key)] = kv.Value.AsInterface()
	}
	if s.Status().Code == codes.Error {
		args["error"] = s.Status().Description
	}
	if len(args) == 0 {
		args = nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	id := s.SpanContext().SpanID()
	lane := f.lanes[id]
	delete(f.lanes, id)
	if lane < len(f.busy) {
		f.busy[lane] = false
	}

	f.events = append(f.events, traceEvent{
		Name: s.Name(),
		Cat:  "kiln",
		Ph:   "X",
		Ts:   s.StartTime().UnixMicro(),
		Dur:  s.EndTime().Sub(s.StartTime()).Microseconds(),
		Pid:  1,
		Tid:  lane + 1,
		Args: args,
	})
}

// ForceFlush does nothing. The file is written on Shutdown.
func (f *TraceFile) ForceFlush(context.Context) error {
	return nil
}

// Shutdown writes the collected events.
func (f *TraceFile) Shutdown(context.Context) error {
	f.mu.Lock()
	events := slices.Clone(f.events)
	f.mu.Unlock()

	slices.SortStableFunc(events, func(a, b traceEvent) int { return cmp.Compare(a.Ts, b.Ts) })

	data, err := json.Marshal(events)
	if err != nil {
		return zerr.Wrap(err, "failed to encode trace")
	}
	if err := os.MkdirAll(filepath.Dir(f.path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create trace directory"), "path", f.path)
	}
	if err := os.WriteFile(f.path, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write trace file"), "path", f.path)
	}
	return nil
}

// InstallTraceFile installs a global provider exporting to path. The
// returned function shuts the provider down, which writes the file.
func InstallTraceFile(path string) func(context.Context) error {
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(NewTraceFile(path)))
	otel.SetTracerProvider(tp)
	return tp.Shutdown
}
