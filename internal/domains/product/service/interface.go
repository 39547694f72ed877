package service

import "context"

// ObjectStore is the remote object store contract: upload a payload under a
// unique key and get back a publicly resolvable URL. Delete is used only
// for best-effort cleanup of replaced banners.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// ImageProcessor validates and normalizes banner uploads before they reach
// the object store.
type ImageProcessor interface {
	ValidateImage(data []byte) (string, error)
	ResizeBanner(data []byte) ([]byte, error)
}
