// Package api exposes the scheduling core over HTTP JSON. Identity is an
// external concern: the actor arrives in request headers and is trusted as
// supplied, the same way the core trusts its snapshot inputs.
package api

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"plume/internal/booking"
	"plume/internal/schedule"
	"plume/internal/store"
)

// Server holds the handler dependencies.
type Server struct {
	store   *store.Store
	booking *booking.Service
	gen     *schedule.Generator
	logger  zerolog.Logger
}

// NewServer creates the API server.
func NewServer(st *store.Store, bk *booking.Service, gen *schedule.Generator, logger zerolog.Logger) *Server {
	if gen == nil {
		gen = schedule.NewGenerator(schedule.DefaultHours())
	}
	return &Server{
		store:   st,
		booking: bk,
		gen:     gen,
		logger:  logger.With().Str("component", "api").Logger(),
	}
}

// Handler builds the router and wraps it with CORS.
func (s *Server) Handler(allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	router := httprouter.New()

	router.GET("/health", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.GET("/api/services", s.handleListServices)
	router.GET("/api/technicians", s.handleListTechnicians)
	router.GET("/api/slots", s.handleSlots)

	router.GET("/api/bookings", s.handleListBookings)
	router.POST("/api/bookings", s.handleCreateBooking)
	router.POST("/api/bookings/:id/confirm", s.handleConfirmBooking)
	router.POST("/api/bookings/:id/cancel", s.handleCancelBooking)

	router.GET("/api/reports", s.handleReport)
	router.GET("/api/reports/export", s.handleReportExport)
	router.GET("/api/reports/week", s.handleWeekOverview)

	router.POST("/api/admin/services", s.handleCreateService)
	router.DELETE("/api/admin/services/:id", s.handleDeleteService)
	router.POST("/api/admin/technicians", s.handleCreateTechnician)
	router.DELETE("/api/admin/technicians/:id", s.handleDeleteTechnician)
	router.PUT("/api/admin/technicians/:id/skills", s.handleUpdateSkills)
	router.GET("/api/admin/laser-dates", s.handleListLaserDates)
	router.POST("/api/admin/laser-dates/toggle", s.handleToggleLaserDate)

	router.GET("/api/notifications", s.handleListNotifications)
	router.POST("/api/notifications/:id/read", s.handleMarkNotificationRead)

	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Actor-UID", "X-Actor-Name", "X-Actor-Phone", "X-Actor-Email", "X-Actor-Role"},
	}).Handler(router)
}
