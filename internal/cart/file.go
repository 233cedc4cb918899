package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// FileStore keeps one JSON document per cart at <root>/<id>.json.
type FileStore struct {
	fs billy.Filesystem
	mu sync.Mutex
}

func NewFileStore(fs billy.Filesystem) *FileStore {
	return &FileStore{fs: fs}
}

func (s *FileStore) Get(_ context.Context, cartID string) (*Cart, error) {
	path, err := cartPath(cartID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := util.ReadFile(s.fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read cart file: %w", err)
	}

	var c Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode cart file %s: %w", path, err)
	}
	c.ID = cartID
	return &c, nil
}

// Put writes to a temp file and renames it over the target so readers never see a partial document.
func (s *FileStore) Put(_ context.Context, c *Cart) error {
	path, err := cartPath(c.ID)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := s.fs.TempFile("", c.ID+".json.tmp-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmp.Name())
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := s.fs.Rename(tmp.Name(), path); err != nil {
		_ = s.fs.Remove(tmp.Name())
		return fmt.Errorf("rename cart file: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, cartID string) error {
	path, err := cartPath(cartID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fs.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove cart file: %w", err)
	}
	return nil
}

func cartPath(cartID string) (string, error) {
	if cartID == "" || strings.ContainsAny(cartID, `/\`) || strings.Contains(cartID, "..") {
		return "", fmt.Errorf("invalid cart id %q", cartID)
	}
	return cartID + ".json", nil
}
