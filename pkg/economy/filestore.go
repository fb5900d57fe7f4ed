package economy

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/matzehuels/upgradetree/pkg/errors"
)

// FileStore keeps one JSON file per slot in a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a file store in dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := errors.ValidatePath(dir); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, unavailable(BackendFile, err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory saves are written to.
func (s *FileStore) Dir() string { return s.dir }

// Load reads a slot.
func (s *FileStore) Load(ctx context.Context, slot string) (Snapshot, error) {
	if err := errors.ValidateSlotName(slot); err != nil {
		return Snapshot{}, err
	}
	data, err := os.ReadFile(s.path(slot))
	if os.IsNotExist(err) {
		return Snapshot{}, notFound(slot)
	}
	if err != nil {
		return Snapshot{}, unavailable(BackendFile, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "corrupt save in slot %q", slot)
	}
	return snap, nil
}

// Save writes a slot atomically through a temporary file.
func (s *FileStore) Save(ctx context.Context, snap Snapshot) error {
	if err := checkSnapshot(snap); err != nil {
		return err
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, snap.Slot+".*.tmp")
	if err != nil {
		return unavailable(BackendFile, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return unavailable(BackendFile, err)
	}
	if err := tmp.Close(); err != nil {
		return unavailable(BackendFile, err)
	}
	if err := os.Rename(tmp.Name(), s.path(snap.Slot)); err != nil {
		return unavailable(BackendFile, err)
	}
	return nil
}

// Delete removes a slot file.
func (s *FileStore) Delete(ctx context.Context, slot string) error {
	if err := errors.ValidateSlotName(slot); err != nil {
		return err
	}
	err := os.Remove(s.path(slot))
	if err != nil && !os.IsNotExist(err) {
		return unavailable(BackendFile, err)
	}
	return nil
}

// Close does nothing for file stores.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) path(slot string) string {
	return filepath.Join(s.dir, slot+".json")
}

var _ Store = (*FileStore)(nil)
