package media

import (
	"context"
	"fmt"
	"mime/multipart"

	"go.uber.org/zap"

	"github.com/marketplace/grocery-api/internal/metrics"
	"github.com/marketplace/grocery-api/internal/model"
)

// Relay forwards request uploads to a Store.
type Relay struct {
	store   Store
	log     *zap.Logger
	metrics *metrics.Metrics
}

// NewRelay wraps store.  m may be nil.
func NewRelay(store Store, log *zap.Logger, m *metrics.Metrics) *Relay {
	return &Relay{store: store, log: log, metrics: m}
}

func (r *Relay) observe(op string, err error) {
	if r.metrics != nil {
		r.metrics.MediaOperations.WithLabelValues(op, metrics.Outcome(err)).Inc()
	}
}

// Upload sends the multipart file to the store.
func (r *Relay) Upload(ctx context.Context, fh *multipart.FileHeader, folder string) (model.Image, error) {
	f, err := fh.Open()
	if err != nil {
		return model.Image{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	img, err := r.store.Upload(ctx, f, fh.Filename, folder)
	r.observe("upload", err)
	if err != nil {
		return model.Image{}, err
	}
	return img, nil
}

// Replace removes old from the store and uploads fh in its place.  Failing
// to remove old is logged and otherwise ignored.
func (r *Relay) Replace(ctx context.Context, old model.Image, fh *multipart.FileHeader, folder string) (model.Image, error) {
	if old.ID != "" {
		err := r.store.Destroy(ctx, old.ID)
		r.observe("destroy", err)
		if err != nil {
			r.log.Warn("media destroy failed", zap.String("id", old.ID), zap.Error(err))
		}
	}
	return r.Upload(ctx, fh, folder)
}

// Keep returns the image an update should store: a replacement when fh is
// set, otherwise current unchanged.
func (r *Relay) Keep(ctx context.Context, current model.Image, fh *multipart.FileHeader, folder string) (model.Image, error) {
	if fh == nil {
		return current, nil
	}
	return r.Replace(ctx, current, fh, folder)
}
