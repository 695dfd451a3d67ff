package adapters

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"jobscout/internal/logging/types"
)

// StdoutAdapter implements the LogAdapter interface for stdout output
type StdoutAdapter struct {
	name   string
	format string
	mu     sync.Mutex
}

// StdoutConfig represents configuration for the stdout adapter
type StdoutConfig struct {
	Format string `yaml:"format"` // json or text
}

// NewStdoutAdapter creates a new stdout adapter
func NewStdoutAdapter(name string, config StdoutConfig) *StdoutAdapter {
	return &StdoutAdapter{
		name:   name,
		format: config.Format,
	}
}

// Write writes a log entry to stdout
func (a *StdoutAdapter) Write(entry *types.LogEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	output, err := formatEntry(entry, a.format)
	if err != nil {
		return fmt.Errorf("failed to format log entry: %w", err)
	}

	_, err = fmt.Fprintln(os.Stdout, output)
	return err
}

func (a *StdoutAdapter) Close() error {
	return nil
}

func (a *StdoutAdapter) Health() error {
	return nil
}

func (a *StdoutAdapter) Name() string {
	return a.name
}

// formatEntry renders a log entry as JSON or text, shared by all adapters
func formatEntry(entry *types.LogEntry, format string) (string, error) {
	if strings.ToLower(format) == "text" {
		timestamp := entry.Timestamp.Format("2006-01-02T15:04:05.000Z07:00")
		level := strings.ToUpper(entry.Level.String())
		output := fmt.Sprintf("%s [%s] %s", timestamp, level, entry.Message)

		if len(entry.Fields) > 0 {
			var fields []string
			for k, v := range entry.Fields {
				fields = append(fields, fmt.Sprintf("%s=%v", k, v))
			}
			output += " " + strings.Join(fields, " ")
		}
		return output, nil
	}

	logData := map[string]interface{}{
		"level":   entry.Level.String(),
		"message": entry.Message,
		"time":    entry.Timestamp.Format(time.RFC3339),
	}
	for k, v := range entry.Fields {
		logData[k] = v
	}

	data, err := json.Marshal(logData)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
