package portal

import (
	"context"
	"io"
	"net/http"
)

// GalleryRepo accesses the class photo gallery.
type GalleryRepo struct {
	client *Client
}

// Fetch returns all gallery entries, surfacing classified errors.
func (r *GalleryRepo) Fetch(ctx context.Context) ([]GalleryImage, error) {
	return fetchJSON[[]GalleryImage](ctx, r.client, "/gallery")
}

// Get returns all gallery entries, degrading to an empty slice on failure.
func (r *GalleryRepo) Get(ctx context.Context) []GalleryImage {
	images, err := r.Fetch(ctx)
	if err != nil {
		r.client.log.Warnf("gallery read degraded: %v", err)
		return []GalleryImage{}
	}
	return images
}

// Save replaces the gallery metadata (admin reordering and caption edits).
func (r *GalleryRepo) Save(ctx context.Context, images []GalleryImage) error {
	return saveJSON(ctx, r.client, "/gallery", images)
}

// Upload publishes a photo to one class's gallery.
func (r *GalleryRepo) Upload(ctx context.Context, caption, targetClass, imageName string, image io.Reader) error {
	fields := map[string]interface{}{
		"caption":      caption,
		"target_class": targetClass,
	}
	body, contentType, err := buildForm(fields, "image", imageName, image)
	if err != nil {
		return err
	}
	_, err = r.client.request(ctx, http.MethodPost, "/gallery/upload", body, contentType)
	return err
}
