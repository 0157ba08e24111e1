package dto

import "trip-wizard-service/internal/domain"

type WizardStateResponse struct {
	Session domain.SessionRecord `json:"session"`
	Visited []domain.Page        `json:"visited"`
}

type GoToRequest struct {
	Page domain.Page `json:"page" binding:"required"`
}

// An empty Time clears the slot. Index is a pointer so that 0 passes
// the required check.
type SetTimeRequest struct {
	Bucket domain.TimeBucket `json:"bucket" binding:"required"`
	Index  *int              `json:"index" binding:"required"`
	Time   string            `json:"time"`
}

// Returned with 422 when a page does not pass validation.
type ValidationErrorResponse struct {
	Error  string   `json:"error"`
	Errors []string `json:"errors"`
}

type SaveAddressesResponse struct {
	Order *domain.OrderDraft  `json:"order"`
	State WizardStateResponse `json:"state"`
}
