package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"productstore-backend/internal/domains/product/model"
	"productstore-backend/internal/domains/product/repository"
	"productstore-backend/pkg/logger"
)

// Workspace keeps one owner's canonical product list in sync with the
// remote stores. The list is mutated only by confirmed remote results:
// a failed upload or write leaves it exactly as it was. The sort toggle
// is a non-destructive view over the canonical order.
type Workspace struct {
	mu      sync.Mutex
	ownerID uuid.UUID
	store   repository.Repository
	objects ObjectStore
	images  ImageProcessor

	entities []model.Product
	sortMode SortMode
	loaded   bool
}

func newWorkspace(ownerID uuid.UUID, store repository.Repository, objects ObjectStore, images ImageProcessor) *Workspace {
	return &Workspace{
		ownerID: ownerID,
		store:   store,
		objects: objects,
		images:  images,
	}
}

// Load replaces the whole list with the owner's products, newest first
// (full refresh). On failure the previous list is retained and
// ErrStoreReadFailed is surfaced; no retry is attempted.
func (w *Workspace) Load(ctx context.Context) ([]model.Product, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	rows, err := w.store.SelectByOwner(ctx, w.ownerID)
	if err != nil {
		return w.snapshot(), fmt.Errorf("%w: %v", model.ErrStoreReadFailed, err)
	}

	w.entities = rows
	w.loaded = true
	return w.snapshot(), nil
}

// Loaded reports whether an initial Load has succeeded.
func (w *Workspace) Loaded() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loaded
}

// Submit runs the create-or-update workflow: validate, upload the banner
// if one was staged, write, then reconcile the local list with the
// confirmed result. A failed upload aborts before any entity write.
func (w *Workspace) Submit(ctx context.Context, form model.SubmitForm, upload *model.Upload, editID *uuid.UUID) (*model.Product, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	var bannerURL *string
	if upload != nil {
		url, err := w.uploadBanner(ctx, upload)
		if err != nil {
			return nil, err
		}
		bannerURL = &url
	}

	if editID != nil {
		return w.applyUpdate(ctx, *editID, form, bannerURL)
	}
	return w.applyInsert(ctx, form, bannerURL)
}

func (w *Workspace) applyInsert(ctx context.Context, form model.SubmitForm, bannerURL *string) (*model.Product, error) {
	created, err := w.store.Insert(ctx, &model.Product{
		OwnerID:     w.ownerID,
		Title:       form.Title,
		Content:     form.Content,
		Cost:        form.Cost,
		BannerImage: bannerURL,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrStoreWriteFailed, err)
	}

	// Prepend: newest first, matching the server-side order.
	w.entities = append([]model.Product{*created}, w.entities...)
	return created, nil
}

func (w *Workspace) applyUpdate(ctx context.Context, id uuid.UUID, form model.SubmitForm, bannerURL *string) (*model.Product, error) {
	updated, err := w.store.Update(ctx, id, w.ownerID, model.Patch{
		Title:       form.Title,
		Content:     form.Content,
		Cost:        form.Cost,
		BannerImage: bannerURL,
	})
	if errors.Is(err, model.ErrProductNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrStoreWriteFailed, err)
	}

	// Merge submitted fields into the existing entry; the stored banner
	// survives when no new file was uploaded.
	var replacedBanner *string
	for i := range w.entities {
		if w.entities[i].ID == id {
			w.entities[i].Title = form.Title
			w.entities[i].Content = form.Content
			w.entities[i].Cost = form.Cost
			if bannerURL != nil {
				replacedBanner = w.entities[i].BannerImage
				w.entities[i].BannerImage = bannerURL
			}
			w.entities[i].UpdatedAt = updated.UpdatedAt
			break
		}
	}

	// Best-effort removal of the banner this edit replaced; a failure only
	// leaks the old object.
	if bannerURL != nil && replacedBanner != nil && *replacedBanner != *bannerURL {
		if key := objectKeyFromURL(*replacedBanner); key != "" {
			if err := w.objects.Delete(ctx, key); err != nil {
				logger.Warn("replaced banner cleanup failed", map[string]interface{}{
					"key":   key,
					"error": err.Error(),
				})
			}
		}
	}
	return updated, nil
}

// objectKeyFromURL recovers the storage key from a public banner URL.
// Returns "" for URLs that do not point into the banner namespace.
func objectKeyFromURL(url string) string {
	idx := strings.Index(url, "/banners/")
	if idx < 0 {
		return ""
	}
	return url[idx+1:]
}

// uploadBanner validates, normalizes and uploads a staged banner. The key
// is namespaced by owner and timestamped so uploads never overwrite each
// other. Any failure aborts the whole submit.
func (w *Workspace) uploadBanner(ctx context.Context, upload *model.Upload) (string, error) {
	if _, err := w.images.ValidateImage(upload.Data); err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrInvalidImage, err)
	}

	data, err := w.images.ResizeBanner(upload.Data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrInvalidImage, err)
	}

	key := fmt.Sprintf("banners/%s/%d.jpg", w.ownerID, time.Now().UnixNano())
	url, err := w.objects.Upload(ctx, key, data, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrUploadFailed, err)
	}
	return url, nil
}

// Delete removes a product after explicit confirmation. Without
// confirmation no remote call is made and the list is untouched.
func (w *Workspace) Delete(ctx context.Context, id uuid.UUID, confirmed bool) error {
	if !confirmed {
		return model.ErrDeleteNotConfirmed
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	err := w.store.DeleteByID(ctx, id, w.ownerID)
	if errors.Is(err, model.ErrProductNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrStoreWriteFailed, err)
	}

	kept := w.entities[:0]
	for _, p := range w.entities {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	w.entities = kept
	return nil
}

// ToggleSort advances the sort cycle and returns the new mode.
func (w *Workspace) ToggleSort() SortMode {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sortMode = w.sortMode.Next()
	return w.sortMode
}

// SortMode returns the current mode of the view.
func (w *Workspace) SortMode() SortMode {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sortMode
}

// Products returns the canonical list (newest first), unaffected by the
// sort toggle.
func (w *Workspace) Products() []model.Product {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshot()
}

// Sorted returns the view for the current sort mode, recomputed from the
// canonical list. Equal costs keep their canonical relative order.
func (w *Workspace) Sorted() []model.Product {
	w.mu.Lock()
	defer w.mu.Unlock()

	view := w.snapshot()
	switch w.sortMode {
	case SortCostAscending:
		sort.SliceStable(view, func(i, j int) bool {
			return view[i].Cost.LessThan(view[j].Cost)
		})
	case SortCostDescending:
		sort.SliceStable(view, func(i, j int) bool {
			return view[i].Cost.GreaterThan(view[j].Cost)
		})
	}
	return view
}

// snapshot copies the list so callers never alias the canonical slice.
// Callers must hold w.mu.
func (w *Workspace) snapshot() []model.Product {
	out := make([]model.Product, len(w.entities))
	copy(out, w.entities)
	return out
}
