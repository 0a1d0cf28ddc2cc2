package http

import (
	"net/http"
	"strconv"

	"propshare-backend/internal/domain"
	"propshare-backend/internal/service"
)

type BookingHandler struct {
	bookingSvc service.BookingService
}

func NewBookingHandler(bookingSvc service.BookingService) *BookingHandler {
	return &BookingHandler{bookingSvc: bookingSvc}
}

func pagination(r *http.Request) (int32, int32) {
	page := int32(1)
	pageSize := int32(20)
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = int32(v)
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("page_size")); err == nil && v > 0 && v <= 100 {
		pageSize = int32(v)
	}
	return page, pageSize
}

type createBookingRequest struct {
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	RequestNotes string `json:"request_notes"`
	GuestName    string `json:"guest_name"`
	GuestEmail   string `json:"guest_email"`
	GuestPhone   string `json:"guest_phone"`
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}
	propertyID, err := pathID(r, "propertyID")
	if err != nil {
		writeError(w, err)
		return
	}
	var req createBookingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	booking, err := h.bookingSvc.CreateBooking(r.Context(), userID, propertyID, service.CreateBookingRequest{
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		RequestNotes: req.RequestNotes,
		GuestName:    req.GuestName,
		GuestEmail:   req.GuestEmail,
		GuestPhone:   req.GuestPhone,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"booking": booking})
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}
	bookingID, err := pathID(r, "bookingID")
	if err != nil {
		writeError(w, err)
		return
	}
	detail, err := h.bookingSvc.GetBooking(r.Context(), userID, bookingID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}
	propertyID, err := pathID(r, "propertyID")
	if err != nil {
		writeError(w, err)
		return
	}
	page, pageSize := pagination(r)
	status := r.URL.Query().Get("status")
	bookings, total, err := h.bookingSvc.ListBookings(r.Context(), userID, propertyID, status, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"bookings":  bookings,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

type castVoteRequest struct {
	OwnershipID int32  `json:"ownership_id"`
	Choice      string `json:"choice"`
	Rationale   string `json:"rationale"`
}

func (h *BookingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}
	bookingID, err := pathID(r, "bookingID")
	if err != nil {
		writeError(w, err)
		return
	}
	var req castVoteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	detail, err := h.bookingSvc.CastVote(r.Context(), userID, bookingID, req.OwnershipID, domain.VoteChoice(req.Choice), req.Rationale)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}
	bookingID, err := pathID(r, "bookingID")
	if err != nil {
		writeError(w, err)
		return
	}
	booking, err := h.bookingSvc.CancelBooking(r.Context(), userID, bookingID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"booking": booking})
}
