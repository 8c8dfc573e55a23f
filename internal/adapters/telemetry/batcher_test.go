package telemetry_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/telemetry"
)

type collector struct {
	mu     sync.Mutex
	chunks []string
}

func (c *collector) add(b []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chunks = append(c.chunks, string(b))
}

func (c *collector) get() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.chunks...)
}

func write(t *testing.T, b *telemetry.LineBatcher, s string) {
	t.Helper()
	n, err := b.Write([]byte(s))
	require.NoError(t, err)
	require.Equal(t, len(s), n)
}

func TestLineBatcher_SizeLimitEmitsWholeLines(t *testing.T) {
	c := &collector{}
	b := telemetry.NewLineBatcher(8, time.Hour, c.add)
	defer func() { _ = b.Close() }()

	write(t, b, "cc -c ")
	assert.Empty(t, c.get())

	write(t, b, "a.c\ncc -c b")
	assert.Equal(t, []string{"cc -c a.c\n"}, c.get())

	require.NoError(t, b.Close())
	assert.Equal(t, []string{"cc -c a.c\n", "cc -c b"}, c.get())
}

func TestLineBatcher_LongLine(t *testing.T) {
	c := &collector{}
	b := telemetry.NewLineBatcher(4, time.Hour, c.add)
	defer func() { _ = b.Close() }()

	write(t, b, "abcdef")
	assert.Equal(t, []string{"abcdef"}, c.get())
}

func TestLineBatcher_IdleFlush(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c := &collector{}
		b := telemetry.NewLineBatcher(1024, 50*time.Millisecond, c.add)

		write(t, b, "line one\npart")

		time.Sleep(60 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, []string{"line one\n"}, c.get())

		write(t, b, "ial\n")
		time.Sleep(60 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, []string{"line one\n", "partial\n"}, c.get())

		require.NoError(t, b.Close())
		assert.Len(t, c.get(), 2)
	})
}

func TestLineBatcher_Close(t *testing.T) {
	c := &collector{}
	b := telemetry.NewLineBatcher(0, time.Hour, c.add)

	write(t, b, "tail")
	require.NoError(t, b.Close())
	require.NoError(t, b.Close())
	assert.Equal(t, []string{"tail"}, c.get())

	_, err := b.Write([]byte("late"))
	assert.ErrorIs(t, err, telemetry.ErrBatcherClosed)
}
