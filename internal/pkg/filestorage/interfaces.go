package filestorage

import (
	"mime/multipart"
)

// FileStorage defines the interface for stored uploads (passport photos,
// QR images).
type FileStorage interface {
	// SaveFile saves an uploaded file into the given subdirectory and
	// returns the relative path it is served under.
	SaveFile(fileHeader *multipart.FileHeader, subPath string) (string, error)

	// SaveBytes writes raw bytes under the given subdirectory and filename.
	SaveBytes(data []byte, subPath, filename string) (string, error)

	// DeleteFile removes a previously stored file. Deleting a missing file
	// is not an error.
	DeleteFile(relPath string) error

	// FullPath returns the filesystem path behind a stored relative path.
	FullPath(relPath string) string

	// Exists reports whether a stored relative path is still backed by a
	// file.
	Exists(relPath string) bool
}
