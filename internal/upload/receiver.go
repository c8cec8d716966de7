package upload

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidChunk = errors.New("invalid chunk")
	ErrMissingChunk = errors.New("missing chunk")
	ErrTooLarge     = errors.New("upload exceeds size limit")
	ErrUploadExists = errors.New("upload id already used")
)

var uploadIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,128}$`)

// Chunk is one part of a (possibly single-part) upload.
type Chunk struct {
	UploadID string
	Index    int
	Total    int
	Filename string
	Data     io.Reader
}

type Result struct {
	UploadID  string
	Index     int
	Remaining int
	Complete  bool

	// Set once the final part has been assembled.
	Path string
	Size int64
	Hash string
}

type Config struct {
	Dir      string
	ChunkDir string
	MaxSize  int64
}

// Receiver stores upload parts on disk and assembles them in index order
// when the last part arrives.
type Receiver struct {
	dir      string
	chunkDir string
	maxSize  int64
	locks    *keyedMutex
	logger   *slog.Logger
}

func NewReceiver(cfg Config, logger *slog.Logger) *Receiver {
	return &Receiver{
		dir:      cfg.Dir,
		chunkDir: cfg.ChunkDir,
		maxSize:  cfg.MaxSize,
		locks:    newKeyedMutex(),
		logger:   logger.With("component", "upload"),
	}
}

func (r *Receiver) WriteChunk(ctx context.Context, chunk Chunk) (*Result, error) {
	if err := validateChunk(chunk); err != nil {
		return nil, err
	}

	final := chunk.Index == chunk.Total-1
	if final {
		unlock, err := r.locks.Lock(ctx, chunk.UploadID)
		if err != nil {
			return nil, err
		}
		defer unlock()
	}

	// Upload ids are single use. Final parts check under the lock so two
	// racing uploads never both assemble.
	used, err := r.assembled(chunk.UploadID)
	if err != nil {
		return nil, fmt.Errorf("check upload: %w", err)
	}
	if used {
		return nil, fmt.Errorf("%w: %s", ErrUploadExists, chunk.UploadID)
	}

	if err := ensureDir(r.partDir(chunk.UploadID)); err != nil {
		return nil, fmt.Errorf("create chunk dir: %w", err)
	}

	size, err := r.writePart(chunk)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("stored chunk",
		"upload_id", chunk.UploadID,
		"index", chunk.Index,
		"total", chunk.Total,
		"size", size,
	)

	result := &Result{
		UploadID:  chunk.UploadID,
		Index:     chunk.Index,
		Remaining: chunk.Total - chunk.Index - 1,
	}
	if !final {
		return result, nil
	}

	if err := r.assemble(ctx, chunk, result); err != nil {
		return nil, err
	}
	return result, nil
}

func validateChunk(chunk Chunk) error {
	if chunk.Data == nil {
		return fmt.Errorf("%w: no payload", ErrInvalidChunk)
	}
	if !uploadIDPattern.MatchString(chunk.UploadID) {
		return fmt.Errorf("%w: bad upload id %q", ErrInvalidChunk, chunk.UploadID)
	}
	if chunk.Total < 1 || chunk.Index < 0 || chunk.Index >= chunk.Total {
		return fmt.Errorf("%w: index %d of %d", ErrInvalidChunk, chunk.Index, chunk.Total)
	}
	return nil
}

// writePart stores the part through a temp file so assembly never sees a
// half-written part.
func (r *Receiver) writePart(chunk Chunk) (int64, error) {
	finalPath := r.partPath(chunk.UploadID, chunk.Index)
	tmpPath := fmt.Sprintf("%s.tmp-%d", finalPath, time.Now().UnixNano())

	f, err := os.Create(tmpPath)
	if err != nil {
		return 0, fmt.Errorf("create part: %w", err)
	}
	defer os.Remove(tmpPath)

	size, err := io.Copy(f, io.LimitReader(chunk.Data, r.maxSize+1))
	closeErr := f.Close()
	if err != nil {
		return 0, fmt.Errorf("write part: %w", err)
	}
	if closeErr != nil {
		return 0, fmt.Errorf("close part: %w", closeErr)
	}
	if size > r.maxSize {
		return 0, ErrTooLarge
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		return 0, fmt.Errorf("commit part: %w", err)
	}
	return size, nil
}

func (r *Receiver) assemble(ctx context.Context, chunk Chunk, result *Result) error {
	finalPath := filepath.Join(r.dir, chunk.UploadID+extension(chunk.Filename))

	var total int64
	for i := 0; i < chunk.Total; i++ {
		info, err := os.Stat(r.partPath(chunk.UploadID, i))
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("%w: part %d of %d", ErrMissingChunk, i, chunk.Total)
			}
			return fmt.Errorf("stat part %d: %w", i, err)
		}
		total += info.Size()
	}
	if total > r.maxSize {
		r.removeParts(chunk.UploadID)
		return ErrTooLarge
	}

	if err := ensureDir(r.dir); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}

	tmpPath := filepath.Join(r.dir, fmt.Sprintf("temp-%s-%d", chunk.UploadID, time.Now().UnixNano()))
	defer os.Remove(tmpPath)

	out, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}

	hash := sha256.New()
	w := io.MultiWriter(out, hash)
	buf := make([]byte, 1*1024*1024) // 1MB

	var written int64
	for i := 0; i < chunk.Total; i++ {
		if err := ctx.Err(); err != nil {
			out.Close()
			return err
		}
		n, err := appendPart(w, r.partPath(chunk.UploadID, i), buf)
		if err != nil {
			out.Close()
			return fmt.Errorf("append part %d: %w", i, err)
		}
		written += n
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	if written != total {
		return fmt.Errorf("assembled %d bytes, expected %d", written, total)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		return fmt.Errorf("commit output: %w", err)
	}

	r.removeParts(chunk.UploadID)

	result.Complete = true
	result.Path = finalPath
	result.Size = written
	result.Hash = hex.EncodeToString(hash.Sum(nil))

	r.logger.Info("upload assembled",
		"upload_id", chunk.UploadID,
		"parts", chunk.Total,
		"size", written,
		"path", finalPath,
	)
	return nil
}

// assembled reports whether a file named after uploadID, with or without
// an extension, is already in the upload dir.
func (r *Receiver) assembled(uploadID string) (bool, error) {
	matches, err := filepath.Glob(filepath.Join(r.dir, uploadID+".*"))
	if err != nil {
		return false, err
	}
	if len(matches) > 0 {
		return true, nil
	}
	if _, err := os.Stat(filepath.Join(r.dir, uploadID)); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func appendPart(w io.Writer, path string, buf []byte) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return io.CopyBuffer(w, f, buf)
}

// RemoveStale deletes part directories untouched for longer than olderThan.
func (r *Receiver) RemoveStale(olderThan time.Duration) (int, error) {
	entries, err := os.ReadDir(r.chunkDir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-olderThan)
	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}

		unlock, err := r.locks.Lock(context.Background(), entry.Name())
		if err != nil {
			continue
		}
		err = os.RemoveAll(filepath.Join(r.chunkDir, entry.Name()))
		unlock()
		if err != nil {
			r.logger.Warn("failed to remove stale upload", "upload_id", entry.Name(), "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}

func (r *Receiver) removeParts(uploadID string) {
	if err := os.RemoveAll(r.partDir(uploadID)); err != nil {
		r.logger.Warn("failed to remove upload parts", "upload_id", uploadID, "error", err)
	}
}

func (r *Receiver) partDir(uploadID string) string {
	return filepath.Join(r.chunkDir, uploadID)
}

func (r *Receiver) partPath(uploadID string, index int) string {
	return filepath.Join(r.partDir(uploadID), strconv.Itoa(index)+".part")
}

func ensureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}

var extPattern = regexp.MustCompile(`^\.[a-z0-9]{1,8}$`)

func extension(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if !extPattern.MatchString(ext) {
		return ""
	}
	return ext
}
