package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"partyreg/internal/delivery/http/helpers"
	"partyreg/internal/domain"
)

// CreatePartyRequest is the request body for POST /admin/parties.
type CreatePartyRequest struct {
	Name string `json:"name"`
	// EventLimits maps event names to the party's quota for that event.
	EventLimits map[string]int `json:"event_limits"`
}

// Validate implements Validator.
func (c CreatePartyRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "name is required")
	}
	for name, limit := range c.EventLimits {
		if limit < 0 {
			errs = append(errs, "event_limits."+name+" must not be negative")
		}
	}
	return errs
}

// UpdateRegistrationRequest is the request body for PATCH /admin/registrations/{id}.
type UpdateRegistrationRequest struct {
	ICNumber    string `json:"ic_number"`
	PhoneNumber string `json:"phone_number"`
}

// Validate implements Validator.
func (u UpdateRegistrationRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(u.ICNumber) == "" {
		errs = append(errs, "ic_number is required")
	}
	if strings.TrimSpace(u.PhoneNumber) == "" {
		errs = append(errs, "phone_number is required")
	}
	return errs
}

// RedeemTicketRequest is the request body for PUT /admin/registrations/{id}/redeem.
type RedeemTicketRequest struct {
	Redeemed *bool `json:"redeemed"`
}

// Validate implements Validator.
func (r RedeemTicketRequest) Validate() []string {
	if r.Redeemed == nil {
		return []string{"redeemed is required"}
	}
	return nil
}

// RegistrationListResponse is the data of GET /admin/registrations.
type RegistrationListResponse struct {
	Items      []*domain.RegistrationDetail `json:"items"`
	Pagination helpers.PaginationMeta       `json:"pagination"`
}

// RegistrationListSuccessResponse is the success envelope for GET /admin/registrations.
type RegistrationListSuccessResponse struct {
	Data  RegistrationListResponse `json:"data"`
	Error *helpers.APIError        `json:"error"`
}

// RegistrationSuccessResponse is the success envelope for single-registration updates.
type RegistrationSuccessResponse struct {
	Data  *domain.Registration `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// DeleteRegistrationResponse is the data of DELETE /admin/registrations/{id}.
type DeleteRegistrationResponse struct {
	Status string `json:"status"`
}

type DashboardController struct {
	Logger  *slog.Logger
	Service domain.DashboardService
}

func NewDashboardController(logger *slog.Logger, svc domain.DashboardService) *DashboardController {
	return &DashboardController{
		Logger:  logger,
		Service: svc,
	}
}

// Overview godoc
// @Summary Dashboard overview
// @Description Parties, events, the registration total and per-event counts in one response.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains domain.DashboardOverview"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/overview [get]
func (c *DashboardController) Overview(w http.ResponseWriter, r *http.Request) {
	ov, err := c.Service.Overview(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ov)
}

// ListParties godoc
// @Summary List parties
// @Description All parties ordered by name, each with its event limits.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the parties"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/parties [get]
func (c *DashboardController) ListParties(w http.ResponseWriter, r *http.Request) {
	parties, err := c.Service.ListParties(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, parties)
}

// CreateParty godoc
// @Summary Create a party
// @Description Creates a party whose form slug is derived from its name, with optional per-event limits keyed by event name.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreatePartyRequest true "Party"
// @Success 201 {object} helpers.APIResponse "data contains the created party"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 422 {object} helpers.APIResponse "error.code: store_error"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/parties [post]
func (c *DashboardController) CreateParty(w http.ResponseWriter, r *http.Request) {
	var req CreatePartyRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	party, err := c.Service.CreateParty(r.Context(), req.Name, req.EventLimits)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, party)
}

// ListEvents godoc
// @Summary List events
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the events"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events [get]
func (c *DashboardController) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.ListEvents(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// ListRegistrations godoc
// @Summary List registrations
// @Description Registrations ordered by id, up to 10,000 rows, filtered then paginated.
// @Description q matches a substring of the IC or phone number; party matches the party name exactly ("All" disables it).
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param q query string false "IC or phone substring"
// @Param party query string false "Party name"
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.RegistrationListSuccessResponse "data contains items and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/registrations [get]
func (c *DashboardController) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rows, err := c.Service.SearchRegistrations(r.Context(), domain.RegistrationFilter{
		Term:      q.Get("q"),
		PartyName: q.Get("party"),
	})
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	items, meta := helpers.Paginate(rows, helpers.ParsePagination(r))
	helpers.WriteJSONSuccess(w, http.StatusOK, RegistrationListResponse{Items: items, Pagination: meta})
}

// EventCounts godoc
// @Summary Registrations per event
// @Description Number of registrations for each event name.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data maps event name to count"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/registrations/counts [get]
func (c *DashboardController) EventCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := c.Service.EventCounts(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, counts)
}

// UpdateRegistration godoc
// @Summary Edit a registration
// @Description Replaces the IC and phone number of a registration. The IC must still be 12 digits without letters.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Registration ID (UUID)"
// @Param body body UpdateRegistrationRequest true "New contact details"
// @Success 200 {object} controllers.RegistrationSuccessResponse "data contains the updated registration"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 422 {object} helpers.APIResponse "error.code: store_error"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/registrations/{id} [patch]
func (c *DashboardController) UpdateRegistration(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathUUID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateRegistrationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	reg, err := c.Service.UpdateRegistration(r.Context(), id, req.ICNumber, req.PhoneNumber)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}

// SetRedeemTicket godoc
// @Summary Set ticket redemption
// @Description Marks a registration's ticket as redeemed or not.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Registration ID (UUID)"
// @Param body body RedeemTicketRequest true "Redemption flag"
// @Success 200 {object} controllers.RegistrationSuccessResponse "data contains the updated registration"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/registrations/{id}/redeem [put]
func (c *DashboardController) SetRedeemTicket(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathUUID(w, r, "id")
	if !ok {
		return
	}
	var req RedeemTicketRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	reg, err := c.Service.SetRedeemTicket(r.Context(), id, *req.Redeemed)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}

// DeleteRegistration godoc
// @Summary Delete a registration
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Registration ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data.status: deleted"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/registrations/{id} [delete]
func (c *DashboardController) DeleteRegistration(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := c.Service.DeleteRegistration(r.Context(), id); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, DeleteRegistrationResponse{Status: "deleted"})
}
