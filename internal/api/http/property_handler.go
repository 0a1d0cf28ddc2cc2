package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"propshare-backend/internal/domain"
	"propshare-backend/internal/service"
)

type PropertyHandler struct {
	propertySvc     service.PropertyService
	availabilitySvc service.AvailabilityService
}

func NewPropertyHandler(propertySvc service.PropertyService, availabilitySvc service.AvailabilityService) *PropertyHandler {
	return &PropertyHandler{
		propertySvc:     propertySvc,
		availabilitySvc: availabilitySvc,
	}
}

func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(name, "must be a positive integer")
	}
	return int32(id), nil
}

func mustUserID(w http.ResponseWriter, r *http.Request) (int32, bool) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: errorDetail{
			Kind:    "AUTHENTICATION",
			Message: "authentication required",
		}})
		return 0, false
	}
	return userID, true
}

type createPropertyRequest struct {
	Name             string `json:"name"`
	Address          string `json:"address"`
	NightlyRateCents int32  `json:"nightly_rate_cents"`
	CleaningFeeCents int32  `json:"cleaning_fee_cents"`
	MinNights        int32  `json:"min_nights"`
}

type propertyResponse struct {
	Property   *domain.Property   `json:"property"`
	Ownerships []domain.Ownership `json:"ownerships,omitempty"`
}

func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}
	var req createPropertyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	property := &domain.Property{
		Name:             req.Name,
		Address:          req.Address,
		NightlyRateCents: req.NightlyRateCents,
		CleaningFeeCents: req.CleaningFeeCents,
		MinNights:        req.MinNights,
	}
	property, ownership, err := h.propertySvc.CreateProperty(r.Context(), userID, property)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, propertyResponse{
		Property:   property,
		Ownerships: []domain.Ownership{*ownership},
	})
}

func (h *PropertyHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}
	propertyID, err := pathID(r, "propertyID")
	if err != nil {
		writeError(w, err)
		return
	}
	property, ownerships, err := h.propertySvc.GetProperty(r.Context(), userID, propertyID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, propertyResponse{Property: property, Ownerships: ownerships})
}

func (h *PropertyHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}
	properties, err := h.propertySvc.ListMyProperties(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"properties": properties})
}

func (h *PropertyHandler) Availability(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}
	propertyID, err := pathID(r, "propertyID")
	if err != nil {
		writeError(w, err)
		return
	}
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	report, err := h.availabilitySvc.CheckAvailability(r.Context(), userID, propertyID, from, to)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type inviteRequest struct {
	Email           string `json:"email"`
	ShareBps        int32  `json:"share_bps"`
	VotingPower     int32  `json:"voting_power"`
	Role            string `json:"role"`
	BlackoutManager bool   `json:"blackout_manager"`
	ExpenseApprover bool   `json:"expense_approver"`
}

func (h *PropertyHandler) Invite(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}
	propertyID, err := pathID(r, "propertyID")
	if err != nil {
		writeError(w, err)
		return
	}
	var req inviteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	invite := &domain.Invitation{
		Email:           req.Email,
		ShareBps:        req.ShareBps,
		VotingPower:     req.VotingPower,
		Role:            domain.OwnershipRole(req.Role),
		BlackoutManager: req.BlackoutManager,
		ExpenseApprover: req.ExpenseApprover,
	}
	invite, token, err := h.propertySvc.InviteOwner(r.Context(), userID, propertyID, invite)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"invitation": invite,
		"token":      token,
	})
}

type claimRequest struct {
	Token string `json:"token"`
}

func (h *PropertyHandler) ClaimInvitation(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}
	var req claimRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ownership, err := h.propertySvc.ClaimInvitation(r.Context(), userID, req.Token)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ownership": ownership})
}

type blackoutRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
}

func (h *PropertyHandler) CreateBlackout(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}
	propertyID, err := pathID(r, "propertyID")
	if err != nil {
		writeError(w, err)
		return
	}
	var req blackoutRequest
	if !decodeBody(w, r, &req) {
		return
	}
	blackout, err := h.propertySvc.CreateBlackout(r.Context(), userID, propertyID, req.StartDate, req.EndDate, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"blackout": blackout})
}

func (h *PropertyHandler) DeleteBlackout(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}
	blackoutID, err := pathID(r, "blackoutID")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.propertySvc.DeleteBlackout(r.Context(), userID, blackoutID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
