package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"keystack/utils"
)

// FileAdapter stores the token in a JSON file. When a passphrase is set the
// file is sealed with scrypt + XChaCha20-Poly1305.
type FileAdapter struct {
	path       string
	passphrase string
	params     utils.ScryptParams
	mu         sync.Mutex
}

// FileOption customises a FileAdapter.
type FileOption func(*FileAdapter)

// WithScryptParams overrides the key derivation cost for sealed files.
func WithScryptParams(p utils.ScryptParams) FileOption {
	return func(a *FileAdapter) { a.params = p }
}

type fileRecord struct {
	Token    string `json:"token"`
	StoredAt string `json:"stored_at"`
}

// NewFileAdapter returns an adapter backed by the file at path.
func NewFileAdapter(path, passphrase string, opts ...FileOption) *FileAdapter {
	a := &FileAdapter{
		path:       path,
		passphrase: passphrase,
		params:     utils.DefaultScryptParams(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Path returns the backing file path.
func (a *FileAdapter) Path() string { return a.path }

func (a *FileAdapter) Store(ctx context.Context, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	raw, err := json.Marshal(fileRecord{Token: token, StoredAt: time.Now().UTC().Format(time.RFC3339)})
	if err != nil {
		return err
	}
	if a.passphrase != "" {
		if raw, err = utils.Seal(a.passphrase, raw, a.params); err != nil {
			return fmt.Errorf("failed to seal token file: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(a.path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	return writeFileAtomic(a.path, raw)
}

// writeFileAtomic writes to a unique temp file in the same directory and
// renames it over path, so readers never see a partial file.
func writeFileAtomic(path string, data []byte) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp token file: %w", err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	if _, err = f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write token file: %w", err)
	}
	if err = f.Chmod(0o600); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write token file: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace token file: %w", err)
	}
	return nil
}

func (a *FileAdapter) Retrieve(ctx context.Context) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	raw, err := os.ReadFile(a.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	if a.passphrase != "" {
		if raw, err = utils.Open(a.passphrase, raw); err != nil {
			return "", false, fmt.Errorf("failed to open token file: %w", err)
		}
	}

	var rec fileRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return "", false, fmt.Errorf("failed to decode token file: %w", err)
	}
	return rec.Token, rec.Token != "", nil
}

func (a *FileAdapter) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := os.Remove(a.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

var _ TokenStorageAdapter = (*FileAdapter)(nil)
