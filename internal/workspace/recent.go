package workspace

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/blackicesecure-space/Valtheron/internal/models"
)

const (
	// maxRecentFiles bounds how many log files a single query consults.
	maxRecentFiles = 5
	// DefaultRecentLimit is the record cap applied when the caller gives none.
	DefaultRecentLimit = 100
	// MaxRecentLimit is the hard cap on a client-specified limit.
	MaxRecentLimit = 1000
)

// RecentLogs reads up to limit records from the most recently modified log
// files in dir. Files are consulted most-recent-first; when a file holds
// more lines than the remaining budget, the newest lines (the end of the
// file) win, in their on-disk order. A missing directory or an unreadable
// file degrades to fewer records, never an error for the whole scan.
func RecentLogs(dir string, limit int) ([]models.LogRecord, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.LogRecord{}, nil
		}
		return nil, fmt.Errorf("reading log directory: %w", err)
	}

	type candidate struct {
		name    string
		modTime time.Time
	}

	var files []candidate
	for _, entry := range entries {
		if entry.IsDir() || !isLogFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, candidate{name: entry.Name(), modTime: info.ModTime()})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].modTime.After(files[j].modTime)
	})
	if len(files) > maxRecentFiles {
		files = files[:maxRecentFiles]
	}

	records := []models.LogRecord{}
	now := time.Now()
	for _, f := range files {
		remaining := limit - len(records)
		if remaining <= 0 {
			break
		}
		lines, err := readLines(filepath.Join(dir, f.name))
		if err != nil {
			continue
		}
		if len(lines) > remaining {
			lines = lines[len(lines)-remaining:]
		}
		for _, line := range lines {
			records = append(records, models.ParseLine(line, f.name, now))
		}
	}

	return records, nil
}

// isLogFile reports whether the file name has a tailed extension.
func isLogFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".log", ".json":
		return true
	default:
		return false
	}
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}
