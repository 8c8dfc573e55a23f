package telemetry

import (
	"bytes"
	"sync"
	"time"

	"go.trai.ch/zerr"
)

// ErrBatcherClosed is returned by writes after Close.
var ErrBatcherClosed = zerr.New("output batcher is closed")

const (
	// DefaultSizeLimit is the buffered size that forces a flush.
	DefaultSizeLimit = 4096
	// DefaultIdleLimit is how long output may sit in the buffer.
	DefaultIdleLimit = 50 * time.Millisecond
)

// LineBatcher groups action output into whole lines before handing it to
// emit. A flush triggered by size or idleness emits up to the last newline;
// a partial trailing line waits for more output or for Close. It is safe for
// concurrent use and emit calls never overlap.
type LineBatcher struct {
	sizeLimit int
	idleLimit time.Duration
	emit      func([]byte)

	mu     sync.Mutex
	buf    bytes.Buffer
	timer  *time.Timer
	closed bool
}

// NewLineBatcher creates a batcher. Non-positive limits select the defaults.
func NewLineBatcher(sizeLimit int, idleLimit time.Duration, emit func([]byte)) *LineBatcher {
	if sizeLimit <= 0 {
		sizeLimit = DefaultSizeLimit
	}
	if idleLimit <= 0 {
		idleLimit = DefaultIdleLimit
	}
	return &LineBatcher{sizeLimit: sizeLimit, idleLimit: idleLimit, emit: emit}
}

// Write buffers p. Complete lines are emitted once the buffer reaches the
// size limit. A line longer than the limit is emitted as is.
func (b *LineBatcher) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, ErrBatcherClosed
	}
	b.buf.Write(p)

	if b.buf.Len() >= b.sizeLimit {
		if !b.emitLines() {
			b.emitAll()
		}
	}
	if b.buf.Len() > 0 && b.timer == nil {
		b.timer = time.AfterFunc(b.idleLimit, b.idle)
	}
	return len(p), nil
}

// Close emits whatever is buffered, including a partial last line.
func (b *LineBatcher) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.emitAll()
	return nil
}

func (b *LineBatcher) idle() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.timer = nil
	if b.closed {
		return
	}
	b.emitLines()
	if b.buf.Len() > 0 {
		b.timer = time.AfterFunc(b.idleLimit, b.idle)
	}
}

// emitLines emits the buffer up to its last newline and reports whether
// anything was emitted. Callers hold mu.
func (b *LineBatcher) emitLines() bool {
	i := bytes.LastIndexByte(b.buf.Bytes(), '\n')
	if i < 0 {
		return false
	}
	b.send(b.buf.Next(i + 1))
	return true
}

// emitAll emits the whole buffer. Callers hold mu.
func (b *LineBatcher) emitAll() {
	if b.buf.Len() == 0 {
		return
	}
	b.send(b.buf.Next(b.buf.Len()))
}

func (b *LineBatcher) send(p []byte) {
	if b.emit != nil {
		b.emit(bytes.Clone(p))
	}
}
