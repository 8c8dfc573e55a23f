package watcher_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/watcher"
)

// batches records every callback of a Debouncer.
type batches struct {
	mu  sync.Mutex
	got [][]string
}

func (b *batches) add(paths []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.got = append(b.got, paths)
}

func (b *batches) all() [][]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([][]string(nil), b.got...)
}

func TestDebouncer_CoalescesBurst(t *testing.T) {
	tests := []struct {
		name  string
		paths []string
		want  []string
	}{
		{
			name:  "single file",
			paths: []string{"src/main.ml"},
			want:  []string{"src/main.ml"},
		},
		{
			name:  "sorted",
			paths: []string{"src/util.c", "kiln.yaml", "src/foo.c"},
			want:  []string{"kiln.yaml", "src/foo.c", "src/util.c"},
		},
		{
			name:  "duplicates",
			paths: []string{"src/foo.c", "src/foo.c", "src/foo.c"},
			want:  []string{"src/foo.c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			synctest.Test(t, func(t *testing.T) {
				b := &batches{}
				d := watcher.NewDebouncer(100*time.Millisecond, b.add)

				for _, p := range tt.paths {
					d.Add(p)
				}
				time.Sleep(150 * time.Millisecond)
				synctest.Wait()

				assert.Equal(t, [][]string{tt.want}, b.all())
			})
		})
	}
}

func TestDebouncer_QuietPeriodRestarts(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		b := &batches{}
		d := watcher.NewDebouncer(100*time.Millisecond, b.add)

		d.Add("src/a.c")
		time.Sleep(60 * time.Millisecond)
		d.Add("src/b.c")
		time.Sleep(60 * time.Millisecond)
		synctest.Wait()
		assert.Empty(t, b.all(), "second change restarts the window")

		time.Sleep(60 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, [][]string{{"src/a.c", "src/b.c"}}, b.all())
	})
}

func TestDebouncer_SeparateBursts(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		b := &batches{}
		d := watcher.NewDebouncer(50*time.Millisecond, b.add)

		d.Add("src/a.c")
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		d.Add("src/b.c")
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		assert.Equal(t, [][]string{{"src/a.c"}, {"src/b.c"}}, b.all())
	})
}

func TestDebouncer_Flush(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		b := &batches{}
		d := watcher.NewDebouncer(100*time.Millisecond, b.add)

		d.Flush()
		assert.Empty(t, b.all(), "nothing pending")

		d.Add("src/b.c")
		d.Add("src/a.c")
		d.Flush()
		require.Equal(t, [][]string{{"src/a.c", "src/b.c"}}, b.all())

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()
		assert.Len(t, b.all(), 1, "flushed paths are not delivered again")

		d.Flush()
		assert.Len(t, b.all(), 1)
	})
}

func TestDebouncer_NilCallback(t *testing.T) {
	synctest.Test(t, func(*testing.T) {
		d := watcher.NewDebouncer(50*time.Millisecond, nil)

		d.Add("src/a.c")
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()
		d.Add("src/b.c")
		d.Flush()
	})
}
