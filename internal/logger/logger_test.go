package logger

import (
	"bytes"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// capture enables verbose output into a buffer and restores defaults afterwards.
func capture(t *testing.T, verboseOn bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(verboseOn)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
		now = time.Now
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	capture(t, false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestLevels(t *testing.T) {
	tests := []struct {
		name string
		log  func(string, ...any)
		want string
	}{
		{"debug", Debug, "[DEBUG] pin deed.pdf\n"},
		{"info", Info, "[INFO] pin deed.pdf\n"},
		{"warn", Warn, "[WARN] pin deed.pdf\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := capture(t, true)

			tt.log("pin %s", "deed.pdf")

			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestSilentWhenNotVerbose(t *testing.T) {
	buf := capture(t, false)

	Debug("a")
	Info("b")
	Warn("c")
	Timed("d")()

	assert.Empty(t, buf.String())
}

func TestLevel_String(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "LEVEL(9)", Level(9).String())
}

func TestTimed(t *testing.T) {
	buf := capture(t, true)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ticks := []time.Time{start, start.Add(1500 * time.Millisecond)}
	now = func() time.Time {
		next := ticks[0]
		ticks = ticks[1:]
		return next
	}

	done := Timed("submit %s", "addDocHash")
	done()

	assert.Equal(t, "[DEBUG] submit addDocHash: started\n[DEBUG] submit addDocHash: done in 1.5s\n", buf.String())
}

type lockedWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *lockedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

func TestConcurrentAccess(t *testing.T) {
	capture(t, true)
	w := &lockedWriter{}
	SetOutput(w)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Debug("concurrent %d", i)
			IsVerbose()
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, bytes.Count(w.buf.Bytes(), []byte("[DEBUG] concurrent")))
}
