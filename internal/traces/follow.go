// Where: internal/traces/follow.go
// What: Tail-style trace file following.
// Why: Watch agent activity live while the workload is still running.
package traces

import (
	"bytes"
	"context"
	"io"
	"os"
	"time"
)

// DefaultFollowInterval is the poll interval used by the CLI.
const DefaultFollowInterval = time.Second

// Follow renders the entries already in the file and then polls for appended
// lines until the context is cancelled. The file may not exist yet when
// following starts; it is picked up on a later poll. Only complete lines are
// consumed, so a line the workload is mid-way through writing is never
// reported as malformed.
func Follow(ctx context.Context, out io.Writer, path string, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultFollowInterval
	}

	var offset int64
	entryCount := 0
	lineCount := 0
	for {
		chunk, err := readComplete(path, offset)
		if err != nil && !os.IsNotExist(err) {
			return err
		}
		if len(chunk) > 0 {
			entries, bad, err := Read(bytes.NewReader(chunk))
			if err != nil {
				return err
			}
			renderAt(out, entries, bad, entryCount, lineCount)
			offset += int64(len(chunk))
			entryCount += len(entries)
			lineCount += bytes.Count(chunk, []byte{'\n'})
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}

// readComplete returns the bytes appended past offset, truncated at the last
// newline so partial trailing lines stay unread until complete.
func readComplete(path string, offset int64) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() <= offset {
		return nil, nil
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return nil, err
	}

	chunk, err := io.ReadAll(io.LimitReader(file, info.Size()-offset))
	if err != nil {
		return nil, err
	}
	end := bytes.LastIndexByte(chunk, '\n')
	if end < 0 {
		return nil, nil
	}
	return chunk[:end+1], nil
}
