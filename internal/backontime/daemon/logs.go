package daemon

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tail "github.com/hpcloud/tail"
)

// RecentLines returns up to n trailing non-empty lines of logFile.
func RecentLines(logFile string, n int) ([]string, error) {
	//nolint:gosec // G304: log file path comes from the configuration
	f, err := os.Open(logFile)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) > n {
			lines = lines[1:]
		}
	}
	return lines, scanner.Err()
}

// FollowLogs prints the last few lines of logFile and then everything appended to it
// until ctx is cancelled.
func FollowLogs(ctx context.Context, logFile string, w io.Writer) error {
	t, err := tail.TailFile(logFile, tail.Config{
		ReOpen:    true,
		Follow:    true,
		MustExist: false,
		Poll:      true,
		Logger:    tail.DiscardingLogger,
		Location:  &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd},
	})
	if err != nil {
		return fmt.Errorf("failed to tail log file: %w", err)
	}
	defer t.Cleanup()
	defer func() { _ = t.Stop() }()

	if lines, err := RecentLines(logFile, 10); err == nil {
		for _, line := range lines {
			fmt.Fprintln(w, line)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-t.Lines:
			if !ok {
				return fmt.Errorf("log tail channel closed")
			}
			if line == nil || strings.TrimSpace(line.Text) == "" {
				continue
			}
			fmt.Fprintln(w, line.Text)
		}
	}
}
