// Package cas implements the build info store backing the action cache.
package cas

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

// Store implements ports.BuildInfoStore using a file per context and target.
// Entries live under <root>/_build/.db.
type Store struct{}

// NewStore creates a new BuildInfoStore.
func NewStore() *Store {
	return &Store{}
}

// Get retrieves the build info of target within the context identified by
// contextID.
func (s *Store) Get(root, contextID, target string) (*domain.BuildInfo, error) {
	filename := s.getFilename(root, contextID, target)
	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}

	var info domain.BuildInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error())
	}

	return &info, nil
}

// Put stores the build info. The file is replaced atomically.
func (s *Store) Put(root string, info domain.BuildInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}

	filename := s.getFilename(root, info.Context, info.Target)
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreCreateFailed.Error())
	}

	tmp, err := os.CreateTemp(dir, "info-*.json")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	tmpName := tmp.Name()
	defer func() {
		if _, err := os.Stat(tmpName); err == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	if err := tmp.Close(); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	if err := os.Rename(tmpName, filename); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}

	return nil
}

func (s *Store) getFilename(root, contextID, target string) string {
	hash := sha256.Sum256([]byte(contextID + "\x00" + target))
	hexHash := hex.EncodeToString(hash[:])
	storeDir := filepath.Join(root, domain.DefaultStorePath())
	return filepath.Join(storeDir, hexHash+".json")
}
