package logger

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestLogBufferConcurrentAccess(t *testing.T) {
	spill := &lockedBuffer{}
	buffer, err := NewLogBuffer(100, spill, zap.NewNop())
	require.NoError(t, err)

	var wg sync.WaitGroup
	numGoroutines := 10
	logsPerGoroutine := 100

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < logsPerGoroutine; j++ {
				fields := map[string]interface{}{"goroutine": id, "iteration": j}
				assert.NoError(t, buffer.Add("info", fmt.Sprintf("Log from goroutine %d, iteration %d", id, j), fields))
			}
		}(i)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			_ = buffer.GetRecentLogs(10)
			_, _ = buffer.GetStats()
		}
	}()

	wg.Wait()
	<-done

	total, spilled := buffer.GetStats()
	assert.Equal(t, uint64(numGoroutines*logsPerGoroutine), total)
	assert.Equal(t, total-100, spilled)
	assert.Len(t, strings.Split(strings.TrimSpace(spill.String()), "\n"), int(spilled))
}

func TestLogBufferRingBufferBehavior(t *testing.T) {
	bufferSize := 5
	buffer, err := NewLogBuffer(bufferSize, nil, zap.NewNop())
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		require.NoError(t, buffer.Add("info", fmt.Sprintf("Log %d", i), nil))
	}

	logs := buffer.GetRecentLogs(10)
	require.Len(t, logs, bufferSize)
	assert.Equal(t, "Log 5", logs[0].Message)
	assert.Equal(t, "Log 9", logs[len(logs)-1].Message)

	logs = buffer.GetRecentLogs(2)
	require.Len(t, logs, 2)
	assert.Equal(t, "Log 8", logs[0].Message)
	assert.Equal(t, "Log 9", logs[1].Message)
}

func TestLogBufferPartiallyFilled(t *testing.T) {
	buffer, err := NewLogBuffer(5, nil, zap.NewNop())
	require.NoError(t, err)

	assert.Empty(t, buffer.GetRecentLogs(0))

	require.NoError(t, buffer.Add("warn", "first", nil))
	require.NoError(t, buffer.Add("info", "second", nil))

	logs := buffer.GetRecentLogs(0)
	require.Len(t, logs, 2)
	assert.Equal(t, "first", logs[0].Message)
	assert.Equal(t, "second", logs[1].Message)
}

func TestLogBufferCloseSpillsRemaining(t *testing.T) {
	spill := &lockedBuffer{}
	buffer, err := NewLogBuffer(3, spill, zap.NewNop())
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		require.NoError(t, buffer.Add("info", fmt.Sprintf("Log %d", i), nil))
	}
	require.NoError(t, buffer.Close())

	lines := strings.Split(strings.TrimSpace(spill.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], `"message":"Log 0"`)
	assert.Contains(t, lines[3], `"message":"Log 3"`)
}

func TestNewLogBuffer_InvalidSize(t *testing.T) {
	_, err := NewLogBuffer(0, nil, zap.NewNop())
	assert.Error(t, err)
}

func TestTUILoggerWritesToBuffer(t *testing.T) {
	buffer, err := NewLogBuffer(10, nil, zap.NewNop())
	require.NoError(t, err)

	file := &lockedBuffer{}
	log, err := CreateTUILoggerWithBuffer(false, buffer, file)
	require.NoError(t, err)

	log.Named("session").Warn("Price unavailable", zap.String("asset", "bitcoin"))
	log.Debug("hidden")

	logs := buffer.GetRecentLogs(0)
	require.Len(t, logs, 1)
	assert.Equal(t, "warn", logs[0].Level)
	assert.Equal(t, "Price unavailable", logs[0].Message)
	assert.Equal(t, "bitcoin", logs[0].Fields["asset"])
	assert.Equal(t, "session", logs[0].Fields["logger"])
	assert.False(t, logs[0].Timestamp.IsZero())

	assert.Contains(t, file.String(), `"msg":"Price unavailable"`)

	_, err = CreateTUILoggerWithBuffer(false, nil, nil)
	assert.Error(t, err)
}
