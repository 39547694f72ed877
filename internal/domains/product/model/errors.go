package model

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"

	"productstore-backend/internal/shared/response"
	"productstore-backend/pkg/logger"
)

var (
	ErrNotAuthenticated   = errors.New("no authenticated session")
	ErrUploadFailed       = errors.New("banner upload failed")
	ErrStoreWriteFailed   = errors.New("product write failed")
	ErrStoreReadFailed    = errors.New("product load failed")
	ErrProductNotFound    = errors.New("product not found")
	ErrDeleteNotConfirmed = errors.New("deletion was not confirmed")
	ErrInvalidImage       = errors.New("banner must be a JPEG or PNG under 5MB")
)

var productErrorMap = map[error]struct {
	Status  int
	Code    string
	Message string
}{
	ErrNotAuthenticated: {
		Status:  http.StatusUnauthorized,
		Code:    "NOT_AUTHENTICATED",
		Message: "You must be logged in to manage products",
	},
	ErrUploadFailed: {
		Status:  http.StatusBadGateway,
		Code:    "UPLOAD_FAILED",
		Message: "The banner image could not be uploaded; the product was not saved",
	},
	ErrStoreWriteFailed: {
		Status:  http.StatusBadGateway,
		Code:    "STORE_WRITE_FAILED",
		Message: "The product could not be saved",
	},
	ErrStoreReadFailed: {
		Status:  http.StatusBadGateway,
		Code:    "STORE_READ_FAILED",
		Message: "Products could not be loaded",
	},
	ErrProductNotFound: {
		Status:  http.StatusNotFound,
		Code:    "NOT_FOUND",
		Message: "The specified product does not exist",
	},
	ErrDeleteNotConfirmed: {
		Status:  http.StatusBadRequest,
		Code:    "DELETE_NOT_CONFIRMED",
		Message: "Deletion requires confirmation",
	},
	ErrInvalidImage: {
		Status:  http.StatusBadRequest,
		Code:    "INVALID_IMAGE",
		Message: "Banner must be a JPEG or PNG image up to 5MB",
	},
}

// HandleProductError maps domain errors to HTTP responses.
// Returns true when err was non-nil and a response was written.
func HandleProductError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "validation failed", verrs)
		return true
	}

	for sentinel, cfg := range productErrorMap {
		if errors.Is(err, sentinel) {
			response.ErrorResponse(c, cfg.Status, cfg.Code, cfg.Message)
			return true
		}
	}

	logger.Error("unhandled product error", err)
	response.InternalServerError(c, "internal server error")
	return true
}
