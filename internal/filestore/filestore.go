// Package filestore owns the on-disk side of uploaded machine assets. Files
// live under <root>/machines/<machineID>/ with collision-resistant generated
// names; the database keeps server-relative URLs under /uploads that map 1:1
// onto that tree.
package filestore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// URLPrefix is where the router serves the upload tree from.
const URLPrefix = "/uploads"

// ErrUnsupportedFileType is returned when an upload's extension is not on the
// allow-list for its slot.
var ErrUnsupportedFileType = errors.New("unsupported file type")

var modelExts = map[string]bool{
	".glb":  true,
	".gltf": true,
}

// Document allow-list. The consistent policy: common shop-floor document
// formats, nothing executable.
var documentExts = map[string]bool{
	".pdf": true, ".doc": true, ".docx": true,
	".xls": true, ".xlsx": true, ".txt": true,
	".png": true, ".jpg": true, ".jpeg": true,
}

// Store writes and removes uploaded files under a single root directory.
type Store struct {
	root string
}

func New(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("filestore: create root: %w", err)
	}
	return &Store{root: root}, nil
}

// SaveModel stores a 3D preview asset (.glb/.gltf) for a machine and returns
// its served URL. Callers are responsible for removing the machine's previous
// asset: a replaced model must not leave an orphan on disk.
func (s *Store) SaveModel(machineID uint, originalName string, src io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !modelExts[ext] {
		return "", fmt.Errorf("%w: %q (want .glb or .gltf)", ErrUnsupportedFileType, ext)
	}
	return s.save(machineID, ext, src)
}

// SaveDocument stores a document attachment for a machine and returns its
// served URL.
func (s *Store) SaveDocument(machineID uint, originalName string, src io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !documentExts[ext] {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFileType, ext)
	}
	return s.save(machineID, ext, src)
}

func (s *Store) save(machineID uint, ext string, src io.Reader) (string, error) {
	dir := filepath.Join(s.root, "machines", fmt.Sprint(machineID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("filestore: create machine dir: %w", err)
	}

	name := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), ext)
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("filestore: create file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", fmt.Errorf("filestore: write file: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("filestore: close file: %w", err)
	}

	return path.Join(URLPrefix, "machines", fmt.Sprint(machineID), name), nil
}

// Remove deletes the file behind a served URL. Removing a file that is
// already gone is not an error: cleanup must be idempotent.
func (s *Store) Remove(storedPath string) error {
	disk, ok := s.DiskPath(storedPath)
	if !ok {
		return fmt.Errorf("filestore: path %q outside upload tree", storedPath)
	}
	if err := os.Remove(disk); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// RemoveAllForMachine deletes a machine's whole upload subtree.
func (s *Store) RemoveAllForMachine(machineID uint) error {
	return os.RemoveAll(filepath.Join(s.root, "machines", fmt.Sprint(machineID)))
}

// DiskPath maps a served URL back to its absolute location under the root.
// It refuses anything that escapes the tree.
func (s *Store) DiskPath(storedPath string) (string, bool) {
	rel := strings.TrimPrefix(storedPath, URLPrefix)
	if rel == storedPath {
		return "", false
	}
	rel = path.Clean("/" + rel) // collapses any ".." segments
	return filepath.Join(s.root, filepath.FromSlash(rel)), true
}

// Exists reports whether the file behind a served URL is present on disk.
func (s *Store) Exists(storedPath string) bool {
	disk, ok := s.DiskPath(storedPath)
	if !ok {
		return false
	}
	_, err := os.Stat(disk)
	return err == nil
}

// Root returns the upload root directory (served under /uploads).
func (s *Store) Root() string { return s.root }
