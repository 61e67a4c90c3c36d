package preset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"gopkg.in/yaml.v3"
)

// FileStore keeps one YAML file per slot in a directory.
type FileStore struct {
	dir   string
	slots int
}

// NewFileStore creates the directory if needed.
func NewFileStore(dir string, slots int) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("preset: create directory: %w", err)
	}
	return &FileStore{dir: dir, slots: slots}, nil
}

// Path returns the file backing slot.
func (f *FileStore) Path(slot int) string {
	return filepath.Join(f.dir, fmt.Sprintf("preset-%03d.yaml", slot))
}

func (f *FileStore) check(slot int) error {
	if slot < 0 || slot >= f.slots {
		return fmt.Errorf("%w: %d", ErrUnknownSlot, slot)
	}
	return nil
}

// Load reads and decodes the snapshot in slot.
func (f *FileStore) Load(ctx context.Context, slot int) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	if err := f.check(slot); err != nil {
		return Snapshot{}, err
	}
	data, err := os.ReadFile(f.Path(slot))
	if errors.Is(err, fs.ErrNotExist) {
		return Snapshot{}, fmt.Errorf("%w: slot %d", ErrNotFound, slot)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("preset: read slot %d: %w", slot, err)
	}
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("preset: decode slot %d: %w", slot, err)
	}
	return s, nil
}

// Save encodes snap and replaces the slot file atomically.
func (f *FileStore) Save(ctx context.Context, slot int, snap Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := f.check(slot); err != nil {
		return err
	}
	data, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("%w: encode slot %d: %w", ErrWrite, slot, err)
	}

	final := f.Path(slot)
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		_ = os.Remove(tmp)
		return writeError(slot, err)
	}
	if err := os.Rename(tmp, final); err != nil {
		_ = os.Remove(tmp)
		return writeError(slot, err)
	}
	return nil
}

func writeError(slot int, err error) error {
	if errors.Is(err, syscall.ENOSPC) {
		return fmt.Errorf("%w: slot %d: %w", ErrStorageFull, slot, err)
	}
	return fmt.Errorf("%w: slot %d: %w", ErrWrite, slot, err)
}
