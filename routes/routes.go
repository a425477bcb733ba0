package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"p9e.in/civicgrid/handlers"
	"p9e.in/civicgrid/middleware"
	"p9e.in/civicgrid/utils"
)

// Deps carries the constructed handlers into route registration. Built
// once in main and passed down; no globals.
type Deps struct {
	Auth        *handlers.AuthHandler
	Reports     *handlers.ReportHandler
	Departments *handlers.DepartmentHandler
	Users       *handlers.UserHandler
	Analytics   *handlers.AnalyticsHandler

	Redis           *redis.Client
	ReportRateLimit int
}

// RegisterRoutes sets up all application routes
func RegisterRoutes(deps Deps) http.Handler {
	r := mux.NewRouter()

	// =====================================================
	// Public Routes (no authentication)
	// =====================================================
	r.HandleFunc("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("pong"))
	}).Methods("GET")
	r.HandleFunc("/register", deps.Auth.Register).Methods("POST")
	r.HandleFunc("/login", deps.Auth.Login).Methods("POST")
	r.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir("./uploads"))),
	)

	// Citizen intake is public: anonymous reporting is allowed. The
	// submission endpoint is rate limited per submitter when Redis is
	// configured.
	limiter := middleware.SubmissionRateLimiter(deps.Redis, deps.ReportRateLimit)
	r.Handle("/api/v1/reports", limiter(http.HandlerFunc(deps.Reports.Create))).Methods("POST")
	r.HandleFunc("/api/v1/reports/nearby", deps.Reports.Nearby).Methods("GET")
	r.HandleFunc("/api/v1/media", handlers.UploadImage).Methods("POST")

	// =====================================================
	// Protected API Routes (require JWT authentication)
	// =====================================================
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.JWTMiddleware)

	api.HandleFunc("/profile", deps.Auth.Me).Methods("GET")

	// listing is a head/admin view; staff reach individual reports
	// through the status-update capability they hold anyway
	listReports := middleware.RequireCapability(utils.CanViewDepartmentReports)
	api.Handle("/reports", listReports(http.HandlerFunc(deps.Reports.List))).Methods("GET")

	updateStatus := middleware.RequireCapability(utils.CanUpdateStatus)
	api.Handle("/reports/{id}", updateStatus(http.HandlerFunc(deps.Reports.Get))).Methods("GET")
	api.Handle("/reports/{id}", updateStatus(http.HandlerFunc(deps.Reports.Update))).Methods("PATCH")

	viewAnalytics := middleware.RequireCapability(utils.CanViewAnalytics)
	api.Handle("/analytics", viewAnalytics(http.HandlerFunc(deps.Analytics.Summary))).Methods("GET")
	api.Handle("/analytics/export", viewAnalytics(http.HandlerFunc(deps.Analytics.Export))).Methods("GET")

	// departments are readable by any authenticated staff
	api.HandleFunc("/departments", deps.Departments.List).Methods("GET")

	// =====================================================
	// Admin Routes (require admin capabilities)
	// =====================================================
	manageDepts := middleware.RequireCapability(utils.CanManageDepartments)
	api.Handle("/departments", manageDepts(http.HandlerFunc(deps.Departments.Create))).Methods("POST")
	api.Handle("/departments/{id}", manageDepts(http.HandlerFunc(deps.Departments.Update))).Methods("PUT")

	manageUsers := middleware.RequireCapability(utils.CanManageUsers)
	api.Handle("/staff", manageUsers(http.HandlerFunc(deps.Users.List))).Methods("GET")
	api.Handle("/staff", manageUsers(http.HandlerFunc(deps.Users.Create))).Methods("POST")
	api.Handle("/staff/{id}", manageUsers(http.HandlerFunc(deps.Users.Update))).Methods("PUT")

	return r
}
