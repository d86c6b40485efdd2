// Package container exposes an office document (xlsx, pptx) as a navigable
// archive of named XML parts backed by a short-lived temporary extraction.
package container

import (
	"archive/zip"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrUnreadable indicates the path is not a valid zip container.
var ErrUnreadable = errors.New("container unreadable")

// ErrPartNotFound indicates an internal part is absent from the container.
var ErrPartNotFound = errors.New("part not found")

// Container is an extracted office document. Close must be called on every
// exit path to release the temporary extraction directory.
type Container struct {
	path  string
	root  string
	parts map[string]string
}

// Open extracts the zip container at path into an isolated temporary
// directory. It returns ErrUnreadable (wrapped) when the file is not a
// valid zip; for legacy OLE2 documents the error names the format.
func Open(path string) (*Container, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		if desc := describeLegacy(path); desc != "" {
			return nil, fmt.Errorf("%w: %s: %s", ErrUnreadable, path, desc)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}
	defer r.Close()

	root, err := os.MkdirTemp("", "moldpipe-extract-")
	if err != nil {
		return nil, err
	}

	c := &Container{path: path, root: root, parts: make(map[string]string)}
	if err := c.extract(&r.Reader); err != nil {
		os.RemoveAll(root)
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}
	return c, nil
}

func (c *Container) extract(r *zip.Reader) error {
	for _, f := range r.File {
		name := filepath.ToSlash(f.Name)
		// Reject entries escaping the extraction root.
		if strings.Contains(name, "..") || strings.HasPrefix(name, "/") {
			continue
		}
		if f.FileInfo().IsDir() {
			continue
		}
		dst := filepath.Join(c.root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		out, err := os.Create(dst)
		if err != nil {
			rc.Close()
			return err
		}
		if _, err := out.ReadFrom(rc); err != nil {
			out.Close()
			rc.Close()
			return err
		}
		out.Close()
		rc.Close()
		c.parts[name] = dst
	}
	return nil
}

// Close deletes the temporary extraction directory.
func (c *Container) Close() error {
	if c.root == "" {
		return nil
	}
	err := os.RemoveAll(c.root)
	c.root = ""
	return err
}

// SourcePath returns the original document path.
func (c *Container) SourcePath() string { return c.path }

// PartExists reports whether the named part is present.
func (c *Container) PartExists(name string) bool {
	_, ok := c.parts[name]
	return ok
}

// PartPath returns the extracted on-disk path of the named part
// ("" when absent).
func (c *Container) PartPath(name string) string {
	return c.parts[name]
}

// Part returns the bytes of the named part, or a wrapped ErrPartNotFound.
func (c *Container) Part(name string) ([]byte, error) {
	p, ok := c.parts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPartNotFound, name)
	}
	return os.ReadFile(p)
}

// Parts returns the sorted names of all parts with the given prefix.
func (c *Container) Parts(prefix string) []string {
	var names []string
	for name := range c.parts {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
