package model

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// SubmitForm - fields of the create/edit form
type SubmitForm struct {
	Title   string          `json:"title" form:"title"`
	Content string          `json:"content" form:"content"`
	Cost    decimal.Decimal `json:"cost" form:"cost"`
}

// Validate enforces the form constraints before any remote call is made
func (f SubmitForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Title,
			validation.Required.Error("title is required"),
			validation.Length(1, 255),
		),
		validation.Field(&f.Content,
			validation.Required.Error("content is required"),
		),
		validation.Field(&f.Cost,
			validation.By(positiveCost),
		),
	)
}

func positiveCost(value interface{}) error {
	d, ok := value.(decimal.Decimal)
	if !ok || !d.IsPositive() {
		return errors.New("cost must be a positive number")
	}
	return nil
}

// ListResponse - dashboard payload: canonical order or the sorted view
type ListResponse struct {
	Products []Product `json:"products"`
	Sort     string    `json:"sort"` // none, cost_asc, cost_desc
	Total    int       `json:"total"`
}
