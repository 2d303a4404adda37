// Package storage keeps uploaded objects on the local disk.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var ErrInvalidPath = errors.New("storage: invalid path")

type Disk struct {
	root string
}

func NewDisk(root string) (*Disk, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root: %w", err)
	}
	return &Disk{root: root}, nil
}

func (d *Disk) Root() string { return d.root }

// Save writes r under name and returns the stored relative path.
func (d *Disk) Save(name string, r io.Reader) (string, error) {
	full, err := d.resolve(name)
	if err != nil {
		return "", err
	}

	f, err := os.OpenFile(full, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("storage: create %s: %w", name, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(full)
		return "", fmt.Errorf("storage: write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return name, nil
}

func (d *Disk) Open(name string) (*os.File, error) {
	full, err := d.resolve(name)
	if err != nil {
		return nil, err
	}
	return os.Open(full)
}

// Remove deletes name. A missing object is not an error.
func (d *Disk) Remove(name string) error {
	full, err := d.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("storage: remove %s: %w", name, err)
	}
	return nil
}

func (d *Disk) resolve(name string) (string, error) {
	clean := filepath.Clean("/" + name)
	if clean == "/" || strings.Contains(name, "..") {
		return "", ErrInvalidPath
	}
	return filepath.Join(d.root, clean), nil
}
