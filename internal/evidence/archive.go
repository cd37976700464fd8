package evidence

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Package writes files into a zip at zipPath, each at the archive root under
// its base name, deflated, with modified set on every entry. Every file must
// exist before anything is written. The archive is assembled in a temporary
// file and renamed into place, so a failure leaves no archive behind.
func Package(zipPath string, files []string, modified time.Time, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	if len(files) == 0 {
		return fmt.Errorf("package %s: no files", zipPath)
	}
	seen := make(map[string]bool, len(files))
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			return fmt.Errorf("package %s: %w", zipPath, err)
		}
		if info.IsDir() {
			return fmt.Errorf("package %s: %s is a directory", zipPath, f)
		}
		name := filepath.Base(f)
		if seen[name] {
			return fmt.Errorf("package %s: duplicate entry %q", zipPath, name)
		}
		seen[name] = true
	}

	tmp, err := os.CreateTemp(filepath.Dir(zipPath), ".archive-*.tmp")
	if err != nil {
		return fmt.Errorf("package %s: %w", zipPath, err)
	}
	defer os.Remove(tmp.Name())

	if err := writeZip(tmp, files, modified); err != nil {
		tmp.Close()
		return fmt.Errorf("package %s: %w", zipPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("package %s: %w", zipPath, err)
	}
	if err := os.Rename(tmp.Name(), zipPath); err != nil {
		return fmt.Errorf("package %s: %w", zipPath, err)
	}
	log.Info("archive written", zap.String("path", zipPath), zap.Int("entries", len(files)))
	return nil
}

func writeZip(w io.Writer, files []string, modified time.Time) error {
	zw := zip.NewWriter(w)
	for _, f := range files {
		hdr := &zip.FileHeader{
			Name:     filepath.Base(f),
			Method:   zip.Deflate,
			Modified: modified.UTC(),
		}
		hdr.SetMode(0o644)
		dst, err := zw.CreateHeader(hdr)
		if err != nil {
			return err
		}
		if err := copyInto(dst, f); err != nil {
			return err
		}
	}
	return zw.Close()
}

func copyInto(dst io.Writer, path string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()
	_, err = io.Copy(dst, src)
	return err
}

// Entries lists the entry names of a zip archive in stored order.
func Entries(zipPath string) ([]string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", zipPath, err)
	}
	defer r.Close()
	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	return names, nil
}
