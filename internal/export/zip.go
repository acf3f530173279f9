package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zip"
)

// File is one archive member
type File struct {
	Name string
	Data []byte
}

// WriteZip writes files into a deflate-compressed archive at path.
// The archive is written to a temporary file first and renamed into place.
func WriteZip(path string, files []File) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".pep-*.zip")
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	zw := zip.NewWriter(tmp)
	modified := time.Now()
	for _, f := range files {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     filepath.ToSlash(f.Name),
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			_ = tmp.Close()
			return fmt.Errorf("failed to add %s: %w", f.Name, err)
		}
		if _, err := w.Write(f.Data); err != nil {
			_ = tmp.Close()
			return fmt.Errorf("failed to write %s: %w", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to finish archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
