package repository

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
)

const (
	logFileMode = 0o644
	logDirMode  = 0o755
)

// FileStore keeps one record per line in a single UTF-8 file.
// Appends rely on O_APPEND for line atomicity; reads take no lock.
type FileStore struct {
	path string
	file *os.File
}

// Ensure implementation of LogStore interface at compile time.
var _ LogStore = (*FileStore)(nil)

// OpenFileStore opens (creating if needed) the log file at path.
func OpenFileStore(path string) (*FileStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, logDirMode); err != nil {
			return nil, unavailable("create log dir", err)
		}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, logFileMode)
	if err != nil {
		return nil, unavailable("open log file", err)
	}
	return &FileStore{path: path, file: f}, nil
}

// Path returns the location of the log file.
func (s *FileStore) Path() string { return s.path }

// Append writes line plus '\n' in a single write call.
func (s *FileStore) Append(_ context.Context, line []byte) error {
	if bytes.ContainsAny(line, "\r\n") {
		return ErrInvalidLine
	}
	buf := make([]byte, 0, len(line)+1)
	buf = append(buf, line...)
	buf = append(buf, '\n')
	if _, err := s.file.Write(buf); err != nil {
		return unavailable("append", err)
	}
	return nil
}

// ReadAll loads the whole file and returns its non-blank lines in on-disk order.
func (s *FileStore) ReadAll(ctx context.Context) ([][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// OpenFileStore created the file, so a missing one was removed underneath
	// us and further appends land on an unlinked inode.
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, unavailable("read", err)
	}
	return splitLines(data), nil
}

// Close closes the underlying file handle.
func (s *FileStore) Close() error {
	if err := s.file.Close(); err != nil {
		return unavailable("close", err)
	}
	return nil
}

// splitLines splits on '\n', strips a trailing '\r' and drops blank lines.
func splitLines(data []byte) [][]byte {
	raw := bytes.Split(data, []byte{'\n'})
	out := make([][]byte, 0, len(raw))
	for _, line := range raw {
		line = bytes.TrimSuffix(line, []byte{'\r'})
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		out = append(out, line)
	}
	return out
}
