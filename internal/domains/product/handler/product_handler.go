package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"productstore-backend/internal/domains/product/model"
	"productstore-backend/internal/domains/product/service"
	"productstore-backend/internal/shared/response"
)

// ProductHandler handles the dashboard endpoints. Every request goes
// through the workspace manager so the canonical list stays in sync with
// confirmed store results.
type ProductHandler struct {
	manager *service.Manager
}

func NewProductHandler(manager *service.Manager) *ProductHandler {
	return &ProductHandler{manager: manager}
}

// List handles GET /products. Always a full refresh from the store;
// ?view=sorted returns the sorted view without touching the canonical
// order.
func (h *ProductHandler) List(c *gin.Context) {
	ws, err := h.workspace(c)
	if err != nil {
		return
	}

	products, err := ws.Load(c.Request.Context())
	if model.HandleProductError(c, err) {
		return
	}

	if c.Query("view") == "sorted" {
		products = ws.Sorted()
	}

	response.Success(c, http.StatusOK, model.ListResponse{
		Products: products,
		Sort:     ws.SortMode().String(),
		Total:    len(products),
	})
}

// Create handles POST /products (multipart form with optional banner)
func (h *ProductHandler) Create(c *gin.Context) {
	h.submit(c, nil)
}

// Update handles PUT /products/:id (multipart form with optional banner)
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid product id")
		return
	}
	h.submit(c, &id)
}

func (h *ProductHandler) submit(c *gin.Context, editID *uuid.UUID) {
	ws, err := h.workspace(c)
	if err != nil {
		return
	}

	form := parseSubmitForm(c)

	upload, err := parseBannerUpload(c)
	if err != nil {
		response.BadRequest(c, "could not read banner file")
		return
	}

	product, err := ws.Submit(c.Request.Context(), form, upload, editID)
	if model.HandleProductError(c, err) {
		return
	}

	status := http.StatusOK
	if editID == nil {
		status = http.StatusCreated
	}
	response.Success(c, status, product)
}

// Delete handles DELETE /products/:id?confirm=true. The confirm flag is
// the blocking confirmation step: without it nothing is called.
func (h *ProductHandler) Delete(c *gin.Context) {
	ws, err := h.workspace(c)
	if err != nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid product id")
		return
	}

	confirmed := c.Query("confirm") == "true"
	if err := ws.Delete(c.Request.Context(), id, confirmed); model.HandleProductError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": id})
}

// ToggleSort handles POST /products/sort and returns the new view
func (h *ProductHandler) ToggleSort(c *gin.Context) {
	ws, err := h.workspace(c)
	if err != nil {
		return
	}

	mode := ws.ToggleSort()
	products := ws.Sorted()

	response.Success(c, http.StatusOK, model.ListResponse{
		Products: products,
		Sort:     mode.String(),
		Total:    len(products),
	})
}

// workspace resolves the caller's workspace; writes the error response
// itself so callers can just return.
func (h *ProductHandler) workspace(c *gin.Context) (*service.Workspace, error) {
	token := c.GetString("sessionToken")
	ws, err := h.manager.Workspace(c.Request.Context(), token)
	if err != nil {
		model.HandleProductError(c, err)
		return nil, err
	}
	return ws, nil
}

func parseSubmitForm(c *gin.Context) model.SubmitForm {
	cost, err := decimal.NewFromString(c.PostForm("cost"))
	if err != nil {
		cost = decimal.Zero // validation rejects it with a field message
	}

	return model.SubmitForm{
		Title:   c.PostForm("title"),
		Content: c.PostForm("content"),
		Cost:    cost,
	}
}

// parseBannerUpload returns nil when no banner file was attached. A body
// that claims to be multipart but cannot be parsed is an error, not an
// absent file.
func parseBannerUpload(c *gin.Context) (*model.Upload, error) {
	fileHeader, err := c.FormFile("banner")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return &model.Upload{Filename: fileHeader.Filename, Data: data}, nil
}
