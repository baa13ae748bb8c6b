package repl

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yndnr/kvplay-go/internal/core/domain"
)

// DefaultHistorySize is the number of lines kept when no size is given.
const DefaultHistorySize = 1000

// History is the console's input history, oldest first, optionally
// persisted to a file.
type History struct {
	entries []string
	maxSize int
	file    string
}

// HistoryEntry is one line with its 1-based position.
type HistoryEntry struct {
	Index int
	Line  string
}

// NewHistory creates a History persisted to file. An empty file keeps the
// history in memory only.
func NewHistory(file string, maxSize int) *History {
	if maxSize <= 0 {
		maxSize = DefaultHistorySize
	}
	return &History{maxSize: maxSize, file: file}
}

// Add records a raw input line. Blank lines, lines starting with a space and
// repeats of the previous line are not recorded.
func (h *History) Add(line string) {
	if line == "" || line[0] == ' ' || line[0] == '\t' {
		return
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	if n := len(h.entries); n > 0 && h.entries[n-1] == line {
		return
	}
	h.entries = append(h.entries, line)
	h.trim()
}

// Get returns the entry at index, 0 being the most recent.
func (h *History) Get(index int) string {
	if index < 0 || index >= len(h.entries) {
		return ""
	}
	return h.entries[len(h.entries)-1-index]
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Entries returns a copy of the entries, oldest first.
func (h *History) Entries() []string {
	return append([]string(nil), h.entries...)
}

// Search returns the entries matching a glob pattern, compared
// case-insensitively, oldest first. An empty pattern matches everything.
func (h *History) Search(pattern string) []HistoryEntry {
	pattern = strings.ToLower(pattern)
	var out []HistoryEntry
	for i, line := range h.entries {
		if pattern == "" || domain.MatchGlob(pattern, strings.ToLower(line)) {
			out = append(out, HistoryEntry{Index: i + 1, Line: line})
		}
	}
	return out
}

// Load appends the lines of the history file. A missing file is not an
// error.
func (h *History) Load() error {
	if h.file == "" {
		return nil
	}

	f, err := os.Open(h.file)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			h.entries = append(h.entries, line)
		}
	}
	h.trim()
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	return nil
}

// Save writes the history file through a temporary file in the same
// directory, so an interrupted save leaves the previous file intact.
func (h *History) Save() error {
	if h.file == "" {
		return nil
	}

	dir := filepath.Dir(h.file)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".history-*")
	if err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	for _, line := range h.entries {
		w.WriteString(line)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("save history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	if err := os.Rename(tmp.Name(), h.file); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

func (h *History) trim() {
	if over := len(h.entries) - h.maxSize; over > 0 {
		h.entries = append([]string(nil), h.entries[over:]...)
	}
}
