package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/lekan/attendease/internal/pkg/logger"
)

// LocalStorage saves files under a base directory on the local filesystem.
// Stored paths are relative ("uploads/passports/<name>") so they can be
// served statically and kept in the database.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a LocalStorage rooted at basePath, creating the
// directory if needed.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

// SaveFile saves an uploaded file into subPath with a collision-free name.
func (ls *LocalStorage) SaveFile(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	if fileHeader == nil {
		return "", fmt.Errorf("no file provided")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	ext := filepath.Ext(fileHeader.Filename)
	uniqueName := uuid.New().String() + ext

	return ls.write(file, subPath, uniqueName)
}

// SaveBytes writes raw bytes under subPath/filename, overwriting any
// previous file of the same name.
func (ls *LocalStorage) SaveBytes(data []byte, subPath, filename string) (string, error) {
	dir := filepath.Join(ls.basePath, subPath)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}
	dstPath := filepath.Join(dir, filename)
	if err := os.WriteFile(dstPath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return ls.relPath(subPath, filename), nil
}

func (ls *LocalStorage) write(src io.Reader, subPath, filename string) (string, error) {
	dir := filepath.Join(ls.basePath, subPath)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}

	dstPath := filepath.Join(dir, filename)
	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	rel := ls.relPath(subPath, filename)
	logger.Info().Str("saved_as", filename).Str("path", rel).Msg("File saved")
	return rel, nil
}

func (ls *LocalStorage) relPath(subPath, filename string) string {
	parts := []string{"uploads"}
	if subPath != "" {
		parts = append(parts, subPath)
	}
	parts = append(parts, filename)
	return strings.Join(parts, "/")
}

// DeleteFile removes a stored file; missing files are treated as already
// deleted.
func (ls *LocalStorage) DeleteFile(relPath string) error {
	if relPath == "" {
		return nil
	}
	physical := ls.FullPath(relPath)
	if physical == "" {
		return fmt.Errorf("invalid file path: %s", relPath)
	}
	if _, err := os.Stat(physical); os.IsNotExist(err) {
		return nil
	}
	if err := os.Remove(physical); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// FullPath maps a stored relative path back to the filesystem.
func (ls *LocalStorage) FullPath(relPath string) string {
	trimmed := strings.TrimPrefix(relPath, "uploads/")
	if trimmed == "" || trimmed == "." || trimmed == "/" {
		return ""
	}
	return filepath.Join(ls.basePath, filepath.FromSlash(trimmed))
}

// Exists reports whether the stored path is still backed by a file. A
// database row can outlive its file, e.g. after a volume wipe.
func (ls *LocalStorage) Exists(relPath string) bool {
	physical := ls.FullPath(relPath)
	if physical == "" {
		return false
	}
	info, err := os.Stat(physical)
	return err == nil && !info.IsDir()
}
