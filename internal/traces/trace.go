// Where: internal/traces/trace.go
// What: Local trace file model and reader.
// Why: The workload appends JSONL trace entries; the CLI renders and exports them.
package traces

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultTraceFile is the file name the workload writes inside the mounted
// trace directory.
const DefaultTraceFile = "local_agent_traces.jsonl"

// Entry is one line of the workload's trace file.
type Entry struct {
	Timestamp     string  `json:"timestamp"`
	Function      string  `json:"function"`
	Type          string  `json:"type"`
	Duration      float64 `json:"duration_seconds,omitempty"`
	ResultPreview string  `json:"result_preview,omitempty"`
	Error         string  `json:"error,omitempty"`
}

// Entry types written by the workload.
const (
	TypeStart   = "start"
	TypeSuccess = "success"
	TypeError   = "error"
)

// BadLine records an unparseable trace line; readers keep going past them.
type BadLine struct {
	Number  int
	Content string
}

// Read parses a JSONL trace stream. Malformed lines are collected, not
// fatal: a crashed workload can leave a truncated last line.
func Read(r io.Reader) ([]Entry, []BadLine, error) {
	var (
		entries []Entry
		bad     []BadLine
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var entry Entry
		if err := json.Unmarshal([]byte(text), &entry); err != nil {
			preview := text
			if len(preview) > 50 {
				preview = preview[:50]
			}
			bad = append(bad, BadLine{Number: line, Content: preview})
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("read traces: %w", err)
	}
	return entries, bad, nil
}

// ReadFile parses the trace file at path.
func ReadFile(path string) ([]Entry, []BadLine, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()
	return Read(file)
}
