package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hospital-booking/internal/config"
	"hospital-booking/internal/handler"
	"hospital-booking/internal/middleware"
	"hospital-booking/internal/model"
)

func New(
	cfg *config.Config,
	gate *middleware.SessionGate,
	authHandler *handler.AuthHandler,
	pageHandler *handler.PageHandler,
	patientHandler *handler.PatientHandler,
	doctorHandler *handler.DoctorHandler,
	adminHandler *handler.AdminHandler,
) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)
	r.Use(gate.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/", pageHandler.Home)
	r.Get("/login", pageHandler.Login)
	r.Get("/register", pageHandler.Register)
	r.With(middleware.RequireRoles(model.RolePatient)).Get("/patient", pageHandler.RoleHome)
	r.With(middleware.RequireRoles(model.RoleDoctor)).Get("/doctor", pageHandler.RoleHome)
	r.With(middleware.RequireRoles(model.RoleAdmin)).Get("/admin", pageHandler.RoleHome)

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", authHandler.Register)
			auth.Post("/login", authHandler.Login)
			auth.Post("/logout", authHandler.Logout)
			auth.Get("/me", authHandler.Me)
		})

		api.Route("/patient", func(patient chi.Router) {
			patient.Use(middleware.RequireRoles(model.RolePatient))
			patient.Get("/appointments", patientHandler.ListAppointments)
			patient.Post("/appointments", patientHandler.BookAppointment)
			patient.Patch("/appointments/{id}", patientHandler.UpdateAppointment)
			patient.Get("/doctors", patientHandler.SearchDoctors)
			patient.Get("/profile", patientHandler.Profile)
			patient.Put("/profile", patientHandler.UpdateProfile)
			patient.Get("/stats", patientHandler.Stats)
		})

		api.Route("/doctor", func(doctor chi.Router) {
			doctor.Use(middleware.RequireRoles(model.RoleDoctor))
			doctor.Get("/appointments", doctorHandler.ListAppointments)
			doctor.Patch("/appointments/{id}", doctorHandler.UpdateAppointment)
			doctor.Get("/profile", doctorHandler.Profile)
			doctor.Put("/profile", doctorHandler.UpdateProfile)
			doctor.Get("/stats", doctorHandler.Stats)
		})

		api.Route("/admin", func(admin chi.Router) {
			admin.Use(middleware.RequireRoles(model.RoleAdmin))
			admin.Get("/doctors", adminHandler.ListDoctors)
			admin.Patch("/doctors/{id}", adminHandler.ModerateDoctor)
			admin.Get("/users", adminHandler.ListUsers)
			admin.Patch("/users/{id}", adminHandler.BlockUser)
			admin.Get("/stats", adminHandler.Stats)
		})
	})

	return r
}
