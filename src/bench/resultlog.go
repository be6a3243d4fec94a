package bench

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// ResultLog writes one CSV line per result to a file, after a header line.
type ResultLog struct {
	path  string
	file  afero.File
	w     *bufio.Writer
	lines int
}

// CreateResultLog creates (or truncates) the log at path, creating missing
// parent directories.
func CreateResultLog(fs afero.Fs, path string) (*ResultLog, error) {
	path = filepath.Clean(path)

	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create result log directory: %w", err)
		}
	}

	file, err := fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open result log: %w", err)
	}

	l := &ResultLog{
		path: path,
		file: file,
		w:    bufio.NewWriter(file),
	}

	if _, err := l.w.WriteString(CSVHeader + "\n"); err != nil {
		return nil, errors.Join(fmt.Errorf("failed to write header: %w", err), file.Close())
	}

	return l, nil
}

func (l *ResultLog) Path() string {
	return l.path
}

// Lines returns the number of results written so far.
func (l *ResultLog) Lines() int {
	return l.lines
}

func (l *ResultLog) Write(res Result) error {
	if _, err := l.w.WriteString(res.CSV() + "\n"); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}

	l.lines++

	return nil
}

// Close flushes buffered lines, syncs and closes the file.
func (l *ResultLog) Close() (err error) {
	defer func() {
		err = errors.Join(err, l.file.Close())
	}()

	if err = l.w.Flush(); err != nil {
		return fmt.Errorf("failed to flush result log: %w", err)
	}

	if err = l.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync result log: %w", err)
	}

	return nil
}
