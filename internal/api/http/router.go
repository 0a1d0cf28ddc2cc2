package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"propshare-backend/internal/security"
	"propshare-backend/internal/service"
)

// RouterDeps bundles everything the HTTP surface needs.
type RouterDeps struct {
	Tokens          security.TokenManager
	RateLimiter     *RateLimiter
	AuthSvc         service.AuthService
	PropertySvc     service.PropertyService
	AvailabilitySvc service.AvailabilityService
	BookingSvc      service.BookingService
	ExpenseSvc      service.ExpenseService
	NotificationSvc service.NotificationService
}

// NewRouter wires all handlers onto /api/v1. Auth endpoints are public;
// everything else sits behind the bearer-token middleware.
func NewRouter(deps RouterDeps) *mux.Router {
	authHandler := NewAuthHandler(deps.AuthSvc)
	propertyHandler := NewPropertyHandler(deps.PropertySvc, deps.AvailabilitySvc)
	bookingHandler := NewBookingHandler(deps.BookingSvc)
	expenseHandler := NewExpenseHandler(deps.ExpenseSvc)
	notificationHandler := NewNotificationHandler(deps.NotificationSvc)

	r := mux.NewRouter()
	r.Use(LoggingMiddleware)
	if deps.RateLimiter != nil {
		r.Use(deps.RateLimiter.Middleware)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api.HandleFunc("/auth/signup", authHandler.Signup).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", authHandler.Refresh).Methods(http.MethodPost)

	protected := api.NewRoute().Subrouter()
	protected.Use(AuthMiddleware(deps.Tokens))

	protected.HandleFunc("/properties", propertyHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/properties", propertyHandler.ListMine).Methods(http.MethodGet)
	protected.HandleFunc("/properties/{propertyID}", propertyHandler.Get).Methods(http.MethodGet)
	protected.HandleFunc("/properties/{propertyID}/availability", propertyHandler.Availability).Methods(http.MethodGet)
	protected.HandleFunc("/properties/{propertyID}/invitations", propertyHandler.Invite).Methods(http.MethodPost)
	protected.HandleFunc("/invitations/claim", propertyHandler.ClaimInvitation).Methods(http.MethodPost)
	protected.HandleFunc("/properties/{propertyID}/blackouts", propertyHandler.CreateBlackout).Methods(http.MethodPost)
	protected.HandleFunc("/blackouts/{blackoutID}", propertyHandler.DeleteBlackout).Methods(http.MethodDelete)

	protected.HandleFunc("/properties/{propertyID}/bookings", bookingHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/properties/{propertyID}/bookings", bookingHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingID}", bookingHandler.Get).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingID}/votes", bookingHandler.CastVote).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingID}/cancel", bookingHandler.Cancel).Methods(http.MethodPost)

	protected.HandleFunc("/properties/{propertyID}/expenses", expenseHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/properties/{propertyID}/expenses", expenseHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/expenses/{expenseID}", expenseHandler.Get).Methods(http.MethodGet)
	protected.HandleFunc("/expenses/{expenseID}/approvals", expenseHandler.CastApproval).Methods(http.MethodPost)
	protected.HandleFunc("/expenses/{expenseID}/reimburse", expenseHandler.MarkReimbursed).Methods(http.MethodPost)

	protected.HandleFunc("/notifications", notificationHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/notifications/{notificationID}/read", notificationHandler.MarkAsRead).Methods(http.MethodPost)

	return r
}
