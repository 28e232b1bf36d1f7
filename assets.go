package xlembed

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// AssetStore is a staged collection of image files extracted from an archive,
// addressable by filename. It owns a temporary directory that Close removes.
type AssetStore struct {
	staging string // temporary directory holding the extracted archive
	root    string // effective asset root inside staging
}

// LoadAssets validates and extracts a zip archive into a fresh staging
// directory. If the archive holds exactly one top-level entry and that entry
// is a directory, the directory becomes the asset root.
//
// On error no staging directory is left behind.
func LoadAssets(archive []byte, opts ...Option) (*AssetStore, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return loadAssets(archive, o.stagingDir)
}

func loadAssets(archive []byte, stagingParent string) (_ *AssetStore, err error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArchive, err)
	}

	staging, err := os.MkdirTemp(stagingParent, "xlembed-assets-")
	if err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}
	store := &AssetStore{staging: staging, root: staging}
	defer func() {
		if err != nil {
			store.Close()
		}
	}()

	for _, zf := range zr.File {
		if err := extractEntry(staging, zf); err != nil {
			return nil, err
		}
	}

	entries, err := os.ReadDir(staging)
	if err != nil {
		return nil, fmt.Errorf("list staging directory: %w", err)
	}
	if len(entries) == 1 && entries[0].IsDir() {
		store.root = filepath.Join(staging, entries[0].Name())
	}
	return store, nil
}

// extractEntry writes one archive entry below dir, refusing paths that escape it.
func extractEntry(dir string, zf *zip.File) error {
	name := filepath.FromSlash(zf.Name)
	target := filepath.Join(dir, name)
	if target != dir && !strings.HasPrefix(target, dir+string(os.PathSeparator)) {
		return fmt.Errorf("%w: entry %q escapes archive root", ErrArchive, zf.Name)
	}

	if zf.FileInfo().IsDir() {
		return os.MkdirAll(target, 0o755)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create directory for %q: %w", zf.Name, err)
	}

	rc, err := zf.Open()
	if err != nil {
		return fmt.Errorf("%w: open entry %q: %v", ErrArchive, zf.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("stage entry %q: %w", zf.Name, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("%w: read entry %q: %v", ErrArchive, zf.Name, err)
	}
	return out.Close()
}

// Lookup returns the bytes of the asset with exactly this filename in the
// asset root. Names with path separators never match.
func (s *AssetStore) Lookup(name string) ([]byte, bool, error) {
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) {
		return nil, false, nil
	}
	path := filepath.Join(s.root, name)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("stat asset %q: %w", name, err)
	}
	if info.IsDir() {
		return nil, false, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("read asset %q: %w", name, err)
	}
	return data, true, nil
}

// Names returns the sorted filenames directly inside the asset root.
func (s *AssetStore) Names() []string {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

// Root returns the effective asset root directory.
func (s *AssetStore) Root() string {
	return s.root
}

// Close removes the staging directory. It is safe to call more than once.
func (s *AssetStore) Close() error {
	if s.staging == "" {
		return nil
	}
	err := os.RemoveAll(s.staging)
	s.staging = ""
	return err
}
