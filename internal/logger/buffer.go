package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"
)

// LogEntry represents a single log entry in the buffer
type LogEntry struct {
	Timestamp time.Time              `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// LogBuffer is a thread-safe ring buffer of recent log entries. Entries pushed
// out of the ring are spilled to an optional writer.
type LogBuffer struct {
	mu           sync.Mutex
	ringBuffer   []LogEntry
	maxSize      int
	currentIndex int
	wrapped      bool
	spill        io.Writer
	logger       *zap.Logger

	// Stats
	totalEntries   uint64
	spilledEntries uint64
}

// NewLogBuffer creates a new log buffer with the specified size. spill may be nil.
func NewLogBuffer(maxSize int, spill io.Writer, logger *zap.Logger) (*LogBuffer, error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("log buffer size must be positive, got %d", maxSize)
	}
	return &LogBuffer{
		ringBuffer: make([]LogEntry, maxSize),
		maxSize:    maxSize,
		spill:      spill,
		logger:     logger,
	}, nil
}

// Add adds a new log entry to the buffer
func (lb *LogBuffer) Add(level, message string, fields map[string]interface{}) error {
	return lb.add(LogEntry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
		Fields:    fields,
	})
}

func (lb *LogBuffer) add(entry LogEntry) error {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	var evicted *LogEntry
	if lb.wrapped {
		old := lb.ringBuffer[lb.currentIndex]
		evicted = &old
	}

	lb.ringBuffer[lb.currentIndex] = entry
	lb.currentIndex = (lb.currentIndex + 1) % lb.maxSize
	if lb.currentIndex == 0 {
		lb.wrapped = true
	}
	lb.totalEntries++

	if evicted != nil && lb.spill != nil {
		if err := lb.spillEntry(*evicted); err != nil {
			lb.logger.Error("Failed to spill log entry", zap.Error(err))
			return err
		}
		lb.spilledEntries++
	}

	return nil
}

// Write accepts one or more JSON encoded zap entries, so the buffer can back a zapcore.Core.
func (lb *LogBuffer) Write(p []byte) (int, error) {
	for _, line := range bytes.Split(p, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		if err := lb.add(decodeEntry(line)); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

func decodeEntry(line []byte) LogEntry {
	var raw map[string]interface{}
	if err := json.Unmarshal(line, &raw); err != nil {
		return LogEntry{Timestamp: time.Now(), Level: "info", Message: string(line)}
	}

	entry := LogEntry{Timestamp: time.Now()}
	if v, ok := raw["level"].(string); ok {
		entry.Level = v
	}
	if v, ok := raw["msg"].(string); ok {
		entry.Message = v
	}
	if v, ok := raw["time"].(string); ok {
		if ts, err := time.Parse("2006-01-02T15:04:05.000Z0700", v); err == nil {
			entry.Timestamp = ts
		}
	}
	delete(raw, "level")
	delete(raw, "msg")
	delete(raw, "time")
	if len(raw) > 0 {
		entry.Fields = raw
	}
	return entry
}

func (lb *LogBuffer) spillEntry(entry LogEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal log entry: %w", err)
	}
	data = append(data, '\n')
	if _, err := lb.spill.Write(data); err != nil {
		return fmt.Errorf("failed to write spilled entry: %w", err)
	}
	return nil
}

// GetRecentLogs returns the most recent log entries (up to limit), oldest first.
func (lb *LogBuffer) GetRecentLogs(limit int) []LogEntry {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	count := lb.currentIndex
	start := 0
	if lb.wrapped {
		count = lb.maxSize
		start = lb.currentIndex
	}

	skip := 0
	if limit > 0 && limit < count {
		skip = count - limit
	}

	logs := make([]LogEntry, 0, count-skip)
	for i := skip; i < count; i++ {
		logs = append(logs, lb.ringBuffer[(start+i)%lb.maxSize])
	}
	return logs
}

// Close spills every entry still held in the ring.
func (lb *LogBuffer) Close() error {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	if lb.spill == nil {
		return nil
	}

	count, start := lb.currentIndex, 0
	if lb.wrapped {
		count, start = lb.maxSize, lb.currentIndex
	}
	for i := 0; i < count; i++ {
		if err := lb.spillEntry(lb.ringBuffer[(start+i)%lb.maxSize]); err != nil {
			return err
		}
	}

	lb.logger.Debug("Log buffer closed",
		zap.Uint64("totalEntries", lb.totalEntries),
		zap.Uint64("spilledEntries", lb.spilledEntries))
	return nil
}

// GetStats returns buffer statistics
func (lb *LogBuffer) GetStats() (total, spilled uint64) {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return lb.totalEntries, lb.spilledEntries
}
