package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"partyreg/internal/delivery/http/helpers"
	"partyreg/internal/domain"
)

// RegisterRequest is the request body for POST /forms/{slug}/registrations.
type RegisterRequest struct {
	ICNumber    string   `json:"ic_number"`
	PhoneNumber string   `json:"phone_number"`
	EventIDs    []string `json:"event_ids"`
}

// Validate implements Validator. Only the body shape is checked here; the
// registration rules run in the service so their messages stay in order.
func (r RegisterRequest) Validate() []string {
	var errs []string
	for _, id := range r.EventIDs {
		if strings.TrimSpace(id) == "" {
			errs = append(errs, "event_ids must not contain empty values")
			break
		}
	}
	return errs
}

// RegisterSuccessResponse is the success envelope for POST /forms/{slug}/registrations (201).
type RegisterSuccessResponse struct {
	Data  *domain.RegistrationResult `json:"data"`
	Error *helpers.APIError          `json:"error"`
}

// FormSuccessResponse is the success envelope for GET /forms/{slug}.
type FormSuccessResponse struct {
	Data  *domain.RegistrationForm `json:"data"`
	Error *helpers.APIError        `json:"error"`
}

type RegistrationController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

func NewRegistrationController(logger *slog.Logger, svc domain.RegistrationService) *RegistrationController {
	return &RegistrationController{
		Logger:  logger,
		Service: svc,
	}
}

// GetForm godoc
// @Summary Get a party's registration form
// @Description Returns the party addressed by slug and every event a registrant can choose.
// @Tags forms
// @Produce json
// @Param slug path string true "Party slug"
// @Success 200 {object} controllers.FormSuccessResponse "data contains party and events"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /forms/{slug} [get]
func (c *RegistrationController) GetForm(w http.ResponseWriter, r *http.Request) {
	form, err := c.Service.GetForm(r.Context(), r.PathValue("slug"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, form)
}

// Register godoc
// @Summary Submit a registration
// @Description Registers an IC number and phone for one or more events through the party's form.
// @Description Hyphens are stripped from the IC and phone. An IC may hold at most 2 events in total.
// @Description Rejections carry a user-facing message; a store failure returns the store's message verbatim.
// @Tags forms
// @Accept json
// @Produce json
// @Param slug path string true "Party slug"
// @Param body body RegisterRequest true "Submission"
// @Success 201 {object} controllers.RegisterSuccessResponse "data contains the message and created registrations"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: already_registered"
// @Failure 422 {object} helpers.APIResponse "error.code: quota_exceeded or store_error"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /forms/{slug}/registrations [post]
func (c *RegistrationController) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	result, err := c.Service.RegisterBySlug(r.Context(), r.PathValue("slug"), domain.Submission{
		ICNumber:    req.ICNumber,
		PhoneNumber: req.PhoneNumber,
		EventIDs:    req.EventIDs,
	})
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, result)
}
