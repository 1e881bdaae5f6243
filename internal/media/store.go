// Package media relays uploaded images to an object store and returns the
// {id, url} reference the entities persist.
package media

import (
	"context"
	"io"

	"github.com/marketplace/grocery-api/internal/model"
)

// Folders used for the different entity kinds.
const (
	FolderProfiles   = "profiles"
	FolderMarkets    = "markets"
	FolderCategories = "categories"
	FolderBrands     = "brands"
	FolderProducts   = "products"
	FolderDetections = "product_images"
)

// Store is a remote or local object store.
type Store interface {
	// Upload stores the content and returns its reference.
	Upload(ctx context.Context, r io.Reader, filename, folder string) (model.Image, error)
	// Destroy removes the object with the given id.
	Destroy(ctx context.Context, id string) error
}
