package logger

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// RotationConfig holds configuration for size-based log rotation. Unlike
// the time-windowed rotation some services need, a validation run's log
// volume tracks the number of patterns and permutations processed, not
// wall-clock time, so only a size trigger is offered.
type RotationConfig struct {
	MaxSizeBytes int64 `yaml:"max_size_bytes"`
	MaxBackups   int   `yaml:"max_backups"`
	Compress     bool  `yaml:"compress"`
}

// RotatingWriter implements io.Writer with size-triggered rotation and
// optional gzip compression of rotated backups.
type RotatingWriter struct {
	filename string
	config   RotationConfig
	file     *os.File
	size     int64
	mu       sync.Mutex
}

// NewRotatingWriter creates a new rotating writer.
func NewRotatingWriter(filename string, config RotationConfig) (*RotatingWriter, error) {
	rw := &RotatingWriter{filename: filename, config: config}
	if err := rw.openFile(); err != nil {
		return nil, err
	}
	return rw, nil
}

func (rw *RotatingWriter) openFile() error {
	if err := os.MkdirAll(filepath.Dir(rw.filename), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(rw.filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return err
	}
	rw.file = file
	rw.size = info.Size()
	return nil
}

// Write implements io.Writer.
func (rw *RotatingWriter) Write(p []byte) (int, error) {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if rw.config.MaxSizeBytes > 0 && rw.size+int64(len(p)) > rw.config.MaxSizeBytes {
		if err := rw.rotate(); err != nil {
			return 0, err
		}
	}

	n, err := rw.file.Write(p)
	rw.size += int64(n)
	return n, err
}

func (rw *RotatingWriter) rotate() error {
	if err := rw.file.Close(); err != nil {
		return err
	}

	backupName := rw.filename + "." + nextBackupSuffix(rw.filename)
	if err := os.Rename(rw.filename, backupName); err != nil {
		return err
	}
	if rw.config.Compress {
		if err := compressFile(backupName); err == nil {
			os.Remove(backupName)
		}
	}

	rw.pruneBackups()

	return rw.openFile()
}

func nextBackupSuffix(filename string) string {
	matches, _ := filepath.Glob(filename + ".*")
	return fmt.Sprintf("%d", len(matches)+1)
}

func compressFile(path string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(path + ".gz")
	if err != nil {
		return err
	}
	defer dst.Close()

	gw := gzip.NewWriter(dst)
	defer gw.Close()

	_, err = io.Copy(gw, src)
	return err
}

func (rw *RotatingWriter) pruneBackups() {
	if rw.config.MaxBackups <= 0 {
		return
	}
	matches, err := filepath.Glob(rw.filename + ".*")
	if err != nil || len(matches) <= rw.config.MaxBackups {
		return
	}
	sort.Strings(matches)
	excess := len(matches) - rw.config.MaxBackups
	for _, m := range matches[:excess] {
		if strings.HasSuffix(m, ".gz") || !strings.Contains(m, ".gz") {
			os.Remove(m)
		}
	}
}

// Close closes the underlying file.
func (rw *RotatingWriter) Close() error {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	if rw.file != nil {
		return rw.file.Close()
	}
	return nil
}

// Sync flushes the underlying file to disk.
func (rw *RotatingWriter) Sync() error {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	if rw.file != nil {
		return rw.file.Sync()
	}
	return nil
}
