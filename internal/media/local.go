package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/marketplace/grocery-api/internal/model"
)

// LocalStore writes images under a directory that the router serves at
// baseURL.  It backs development setups without Cloudinary credentials.
type LocalStore struct {
	dir     string
	baseURL string
}

func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("media dir: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Upload stores the file as <folder>/<uuid><ext>; the relative path is the id.
func (s *LocalStore) Upload(_ context.Context, r io.Reader, filename, folder string) (model.Image, error) {
	id := path.Join(folder, uuid.NewString()+strings.ToLower(filepath.Ext(filename)))
	full := filepath.Join(s.dir, filepath.FromSlash(id))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return model.Image{}, err
	}
	f, err := os.Create(full)
	if err != nil {
		return model.Image{}, err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(full)
		return model.Image{}, err
	}
	if err := f.Close(); err != nil {
		return model.Image{}, err
	}
	return model.NewImage(id, s.baseURL+"/"+id)
}

func (s *LocalStore) Destroy(_ context.Context, id string) error {
	clean := path.Clean("/" + id)[1:]
	if clean == "" || clean != id {
		return fmt.Errorf("invalid media id %q", id)
	}
	err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(clean)))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
