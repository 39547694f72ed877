package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productstore-backend/internal/domains/product/model"
)

// ---- fakes ----

type fakeEntityStore struct {
	rows []model.Product

	insertErr error
	selectErr error
	updateErr error
	deleteErr error

	insertCalls int
	deleteCalls int
}

func (f *fakeEntityStore) Insert(_ context.Context, p *model.Product) (*model.Product, error) {
	f.insertCalls++
	if f.insertErr != nil {
		return nil, f.insertErr
	}

	created := *p
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	f.rows = append([]model.Product{created}, f.rows...)
	return &created, nil
}

func (f *fakeEntityStore) SelectByOwner(_ context.Context, ownerID uuid.UUID) ([]model.Product, error) {
	if f.selectErr != nil {
		return nil, f.selectErr
	}

	out := make([]model.Product, 0, len(f.rows))
	for _, p := range f.rows {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeEntityStore) Update(_ context.Context, id, ownerID uuid.UUID, patch model.Patch) (*model.Product, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}

	for i := range f.rows {
		if f.rows[i].ID != id || f.rows[i].OwnerID != ownerID {
			continue
		}
		f.rows[i].Title = patch.Title
		f.rows[i].Content = patch.Content
		f.rows[i].Cost = patch.Cost
		if patch.BannerImage != nil {
			f.rows[i].BannerImage = patch.BannerImage
		}
		f.rows[i].UpdatedAt = time.Now()
		row := f.rows[i]
		return &row, nil
	}
	return nil, model.ErrProductNotFound
}

func (f *fakeEntityStore) DeleteByID(_ context.Context, id, ownerID uuid.UUID) error {
	f.deleteCalls++
	if f.deleteErr != nil {
		return f.deleteErr
	}

	for i := range f.rows {
		if f.rows[i].ID == id && f.rows[i].OwnerID == ownerID {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return model.ErrProductNotFound
}

type fakeObjectStore struct {
	uploadErr   error
	uploadCalls int
	lastKey     string

	deleteErr   error
	deletedKeys []string
}

func (f *fakeObjectStore) Upload(_ context.Context, key string, _ []byte, _ string) (string, error) {
	f.uploadCalls++
	f.lastKey = key
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	return "https://cdn.test/" + key, nil
}

func (f *fakeObjectStore) Delete(_ context.Context, key string) error {
	f.deletedKeys = append(f.deletedKeys, key)
	return f.deleteErr
}

type fakeImageProcessor struct {
	validateErr error
}

func (f *fakeImageProcessor) ValidateImage(_ []byte) (string, error) {
	if f.validateErr != nil {
		return "", f.validateErr
	}
	return "jpeg", nil
}

func (f *fakeImageProcessor) ResizeBanner(data []byte) ([]byte, error) {
	return data, nil
}

// ---- helpers ----

func validForm(title string, cost int64) model.SubmitForm {
	return model.SubmitForm{
		Title:   title,
		Content: "some content",
		Cost:    decimal.NewFromInt(cost),
	}
}

func seedProduct(ownerID uuid.UUID, title string, cost int64) model.Product {
	return model.Product{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Title:     title,
		Content:   "seeded",
		Cost:      decimal.NewFromInt(cost),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func loadedWorkspace(t *testing.T, store *fakeEntityStore, objects *fakeObjectStore, images *fakeImageProcessor, ownerID uuid.UUID) *Workspace {
	t.Helper()
	ws := newWorkspace(ownerID, store, objects, images)
	_, err := ws.Load(context.Background())
	require.NoError(t, err)
	return ws
}

// ---- load ----

func TestWorkspaceLoadReplacesList(t *testing.T) {
	ownerID := uuid.New()
	store := &fakeEntityStore{rows: []model.Product{
		seedProduct(ownerID, "newest", 30),
		seedProduct(ownerID, "oldest", 10),
		seedProduct(uuid.New(), "someone else's", 99),
	}}

	ws := newWorkspace(ownerID, store, &fakeObjectStore{}, &fakeImageProcessor{})
	products, err := ws.Load(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "newest", products[0].Title)
	assert.Equal(t, "oldest", products[1].Title)
	assert.True(t, ws.Loaded())
}

func TestWorkspaceLoadFailureKeepsPreviousList(t *testing.T) {
	ownerID := uuid.New()
	store := &fakeEntityStore{rows: []model.Product{seedProduct(ownerID, "kept", 10)}}
	ws := loadedWorkspace(t, store, &fakeObjectStore{}, &fakeImageProcessor{}, ownerID)

	store.selectErr = errors.New("connection reset")
	products, err := ws.Load(context.Background())

	require.ErrorIs(t, err, model.ErrStoreReadFailed)
	require.Len(t, products, 1)
	assert.Equal(t, "kept", products[0].Title)
}

// ---- submit: create ----

func TestSubmitCreatePrependsConfirmedResult(t *testing.T) {
	ownerID := uuid.New()
	store := &fakeEntityStore{rows: []model.Product{seedProduct(ownerID, "existing", 10)}}
	ws := loadedWorkspace(t, store, &fakeObjectStore{}, &fakeImageProcessor{}, ownerID)

	created, err := ws.Submit(context.Background(), validForm("fresh", 25), nil, nil)

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Nil(t, created.BannerImage, "no file staged, banner stays unset")

	products := ws.Products()
	require.Len(t, products, 2)
	assert.Equal(t, created.ID, products[0].ID, "new entry goes to the front")
	assert.Equal(t, "existing", products[1].Title)
}

func TestSubmitCreateWithBannerUsesUploadURL(t *testing.T) {
	ownerID := uuid.New()
	store := &fakeEntityStore{}
	objects := &fakeObjectStore{}
	ws := loadedWorkspace(t, store, objects, &fakeImageProcessor{}, ownerID)

	upload := &model.Upload{Filename: "banner.png", Data: []byte("imagedata")}
	created, err := ws.Submit(context.Background(), validForm("with banner", 25), upload, nil)

	require.NoError(t, err)
	require.NotNil(t, created.BannerImage)
	assert.Equal(t, "https://cdn.test/"+objects.lastKey, *created.BannerImage)
	assert.True(t, strings.HasPrefix(objects.lastKey, "banners/"+ownerID.String()+"/"))
}

func TestSubmitUploadFailureAbortsBeforeWrite(t *testing.T) {
	ownerID := uuid.New()
	store := &fakeEntityStore{rows: []model.Product{seedProduct(ownerID, "existing", 10)}}
	objects := &fakeObjectStore{uploadErr: errors.New("bucket unavailable")}
	ws := loadedWorkspace(t, store, objects, &fakeImageProcessor{}, ownerID)

	upload := &model.Upload{Filename: "banner.png", Data: []byte("imagedata")}
	created, err := ws.Submit(context.Background(), validForm("doomed", 25), upload, nil)

	require.ErrorIs(t, err, model.ErrUploadFailed)
	assert.Nil(t, created)
	assert.Equal(t, 0, store.insertCalls, "entity write must not happen after a failed upload")

	products := ws.Products()
	require.Len(t, products, 1)
	assert.Equal(t, "existing", products[0].Title)
}

func TestSubmitRejectsNonImageBanner(t *testing.T) {
	ownerID := uuid.New()
	store := &fakeEntityStore{}
	images := &fakeImageProcessor{validateErr: errors.New("not an image")}
	ws := loadedWorkspace(t, store, &fakeObjectStore{}, images, ownerID)

	upload := &model.Upload{Filename: "notes.txt", Data: []byte("plain text")}
	_, err := ws.Submit(context.Background(), validForm("bad file", 25), upload, nil)

	require.ErrorIs(t, err, model.ErrInvalidImage)
	assert.Equal(t, 0, store.insertCalls)
}

func TestSubmitValidationFailureMakesNoRemoteCall(t *testing.T) {
	ownerID := uuid.New()
	store := &fakeEntityStore{}
	objects := &fakeObjectStore{}
	ws := loadedWorkspace(t, store, objects, &fakeImageProcessor{}, ownerID)

	form := model.SubmitForm{Title: "", Content: "", Cost: decimal.Zero}
	_, err := ws.Submit(context.Background(), form, &model.Upload{Data: []byte("x")}, nil)

	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, 0, objects.uploadCalls)
	assert.Equal(t, 0, store.insertCalls)
}

func TestSubmitWriteFailureLeavesListUnchanged(t *testing.T) {
	ownerID := uuid.New()
	store := &fakeEntityStore{rows: []model.Product{seedProduct(ownerID, "existing", 10)}}
	ws := loadedWorkspace(t, store, &fakeObjectStore{}, &fakeImageProcessor{}, ownerID)

	store.insertErr = errors.New("insert failed")
	_, err := ws.Submit(context.Background(), validForm("doomed", 25), nil, nil)

	require.ErrorIs(t, err, model.ErrStoreWriteFailed)
	products := ws.Products()
	require.Len(t, products, 1)
	assert.Equal(t, "existing", products[0].Title)
}

// ---- submit: edit ----

func TestSubmitEditWithoutFilePreservesBanner(t *testing.T) {
	ownerID := uuid.New()
	existing := seedProduct(ownerID, "old title", 10)
	banner := "https://cdn.test/banners/keep-me.jpg"
	existing.BannerImage = &banner

	store := &fakeEntityStore{rows: []model.Product{existing}}
	objects := &fakeObjectStore{}
	ws := loadedWorkspace(t, store, objects, &fakeImageProcessor{}, ownerID)

	updated, err := ws.Submit(context.Background(), validForm("new title", 20), nil, &existing.ID)

	require.NoError(t, err)
	assert.Equal(t, 0, objects.uploadCalls)
	require.NotNil(t, updated.BannerImage)
	assert.Equal(t, banner, *updated.BannerImage)

	products := ws.Products()
	require.Len(t, products, 1)
	assert.Equal(t, "new title", products[0].Title)
	require.NotNil(t, products[0].BannerImage)
	assert.Equal(t, banner, *products[0].BannerImage)
}

func TestSubmitEditWithFileReplacesBanner(t *testing.T) {
	ownerID := uuid.New()
	existing := seedProduct(ownerID, "old title", 10)
	oldBanner := "https://cdn.test/banners/old.jpg"
	existing.BannerImage = &oldBanner

	store := &fakeEntityStore{rows: []model.Product{existing}}
	objects := &fakeObjectStore{}
	ws := loadedWorkspace(t, store, objects, &fakeImageProcessor{}, ownerID)

	upload := &model.Upload{Filename: "new.png", Data: []byte("imagedata")}
	updated, err := ws.Submit(context.Background(), validForm("new title", 20), upload, &existing.ID)

	require.NoError(t, err)
	require.NotNil(t, updated.BannerImage)
	assert.NotEqual(t, oldBanner, *updated.BannerImage)

	products := ws.Products()
	require.NotNil(t, products[0].BannerImage)
	assert.Equal(t, *updated.BannerImage, *products[0].BannerImage)
}

func TestSubmitEditWithFileRemovesReplacedBanner(t *testing.T) {
	ownerID := uuid.New()
	existing := seedProduct(ownerID, "old title", 10)
	oldBanner := "https://cdn.test/banners/" + ownerID.String() + "/old.jpg"
	existing.BannerImage = &oldBanner

	store := &fakeEntityStore{rows: []model.Product{existing}}
	objects := &fakeObjectStore{}
	ws := loadedWorkspace(t, store, objects, &fakeImageProcessor{}, ownerID)

	upload := &model.Upload{Filename: "new.png", Data: []byte("imagedata")}
	_, err := ws.Submit(context.Background(), validForm("new title", 20), upload, &existing.ID)

	require.NoError(t, err)
	require.Len(t, objects.deletedKeys, 1)
	assert.Equal(t, "banners/"+ownerID.String()+"/old.jpg", objects.deletedKeys[0])
}

func TestSubmitEditBannerCleanupFailureIsIgnored(t *testing.T) {
	ownerID := uuid.New()
	existing := seedProduct(ownerID, "old title", 10)
	oldBanner := "https://cdn.test/banners/" + ownerID.String() + "/old.jpg"
	existing.BannerImage = &oldBanner

	store := &fakeEntityStore{rows: []model.Product{existing}}
	objects := &fakeObjectStore{deleteErr: errors.New("bucket unavailable")}
	ws := loadedWorkspace(t, store, objects, &fakeImageProcessor{}, ownerID)

	upload := &model.Upload{Filename: "new.png", Data: []byte("imagedata")}
	updated, err := ws.Submit(context.Background(), validForm("new title", 20), upload, &existing.ID)

	require.NoError(t, err, "cleanup is best-effort; the edit itself succeeds")
	require.NotNil(t, updated.BannerImage)
	assert.NotEqual(t, oldBanner, *updated.BannerImage)
}

func TestSubmitEditWithoutFileDeletesNothing(t *testing.T) {
	ownerID := uuid.New()
	existing := seedProduct(ownerID, "old title", 10)
	banner := "https://cdn.test/banners/" + ownerID.String() + "/keep.jpg"
	existing.BannerImage = &banner

	store := &fakeEntityStore{rows: []model.Product{existing}}
	objects := &fakeObjectStore{}
	ws := loadedWorkspace(t, store, objects, &fakeImageProcessor{}, ownerID)

	_, err := ws.Submit(context.Background(), validForm("new title", 20), nil, &existing.ID)

	require.NoError(t, err)
	assert.Empty(t, objects.deletedKeys)
}

func TestSubmitEditUnknownIDReturnsNotFound(t *testing.T) {
	ownerID := uuid.New()
	store := &fakeEntityStore{}
	ws := loadedWorkspace(t, store, &fakeObjectStore{}, &fakeImageProcessor{}, ownerID)

	missing := uuid.New()
	_, err := ws.Submit(context.Background(), validForm("whatever", 5), nil, &missing)

	require.ErrorIs(t, err, model.ErrProductNotFound)
}

// ---- delete ----

func TestDeleteWithoutConfirmationMakesNoCall(t *testing.T) {
	ownerID := uuid.New()
	existing := seedProduct(ownerID, "survives", 10)
	store := &fakeEntityStore{rows: []model.Product{existing}}
	ws := loadedWorkspace(t, store, &fakeObjectStore{}, &fakeImageProcessor{}, ownerID)

	err := ws.Delete(context.Background(), existing.ID, false)

	require.ErrorIs(t, err, model.ErrDeleteNotConfirmed)
	assert.Equal(t, 0, store.deleteCalls)
	assert.Len(t, ws.Products(), 1)
}

func TestDeleteRemovesOnlyTarget(t *testing.T) {
	ownerID := uuid.New()
	first := seedProduct(ownerID, "first", 10)
	second := seedProduct(ownerID, "second", 20)
	third := seedProduct(ownerID, "third", 30)
	store := &fakeEntityStore{rows: []model.Product{first, second, third}}
	ws := loadedWorkspace(t, store, &fakeObjectStore{}, &fakeImageProcessor{}, ownerID)

	require.NoError(t, ws.Delete(context.Background(), second.ID, true))

	products := ws.Products()
	require.Len(t, products, 2)
	assert.Equal(t, first.ID, products[0].ID)
	assert.Equal(t, third.ID, products[1].ID)
}

func TestDeleteStoreFailureLeavesListUnchanged(t *testing.T) {
	ownerID := uuid.New()
	existing := seedProduct(ownerID, "survives", 10)
	store := &fakeEntityStore{rows: []model.Product{existing}}
	ws := loadedWorkspace(t, store, &fakeObjectStore{}, &fakeImageProcessor{}, ownerID)

	store.deleteErr = errors.New("delete failed")
	err := ws.Delete(context.Background(), existing.ID, true)

	require.ErrorIs(t, err, model.ErrStoreWriteFailed)
	assert.Len(t, ws.Products(), 1)
}

// ---- sort view ----

func TestToggleSortCyclesThroughModes(t *testing.T) {
	ws := newWorkspace(uuid.New(), &fakeEntityStore{}, &fakeObjectStore{}, &fakeImageProcessor{})

	assert.Equal(t, SortNone, ws.SortMode())
	assert.Equal(t, SortCostAscending, ws.ToggleSort())
	assert.Equal(t, SortCostDescending, ws.ToggleSort())
	assert.Equal(t, SortNone, ws.ToggleSort(), "three toggles return to the unsorted view")
}

func TestSortedViewDoesNotTouchCanonicalOrder(t *testing.T) {
	ownerID := uuid.New()
	store := &fakeEntityStore{rows: []model.Product{
		seedProduct(ownerID, "fifty", 50),
		seedProduct(ownerID, "ten", 10),
		seedProduct(ownerID, "thirty", 30),
	}}
	ws := loadedWorkspace(t, store, &fakeObjectStore{}, &fakeImageProcessor{}, ownerID)

	ws.ToggleSort() // ascending
	sorted := ws.Sorted()
	require.Len(t, sorted, 3)
	assert.Equal(t, "ten", sorted[0].Title)
	assert.Equal(t, "thirty", sorted[1].Title)
	assert.Equal(t, "fifty", sorted[2].Title)

	ws.ToggleSort() // descending
	sorted = ws.Sorted()
	assert.Equal(t, "fifty", sorted[0].Title)
	assert.Equal(t, "thirty", sorted[1].Title)
	assert.Equal(t, "ten", sorted[2].Title)

	canonical := ws.Products()
	assert.Equal(t, "fifty", canonical[0].Title)
	assert.Equal(t, "ten", canonical[1].Title)
	assert.Equal(t, "thirty", canonical[2].Title)
}

func TestSortedViewKeepsTiesStable(t *testing.T) {
	ownerID := uuid.New()
	a := seedProduct(ownerID, "tie-a", 20)
	b := seedProduct(ownerID, "tie-b", 20)
	c := seedProduct(ownerID, "cheap", 5)
	store := &fakeEntityStore{rows: []model.Product{a, b, c}}
	ws := loadedWorkspace(t, store, &fakeObjectStore{}, &fakeImageProcessor{}, ownerID)

	ws.ToggleSort() // ascending
	sorted := ws.Sorted()
	assert.Equal(t, "cheap", sorted[0].Title)
	assert.Equal(t, "tie-a", sorted[1].Title, "equal costs keep canonical relative order")
	assert.Equal(t, "tie-b", sorted[2].Title)
}
