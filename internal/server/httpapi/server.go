// Package httpapi exposes the habit and feed operations over HTTP. Routing
// is gin; the feed's live channel is a websocket endpoint under the same
// /api prefix.
package httpapi

import (
	"database/sql"

	"github.com/dkhodakov/habitsync/internal/logging"
	"github.com/dkhodakov/habitsync/internal/server/checkins"
	"github.com/dkhodakov/habitsync/internal/server/config"
	"github.com/dkhodakov/habitsync/internal/server/habits"
	"github.com/dkhodakov/habitsync/internal/server/hub"
	"github.com/dkhodakov/habitsync/internal/server/users"
	"github.com/gin-gonic/gin"
)

type Server struct {
	cfg      *config.Config
	log      logging.Logger
	habits   *habits.Service
	users    users.Repository
	checkins checkins.Repository
	hub      *hub.Hub
}

func NewServer(cfg *config.Config, db *sql.DB, h *hub.Hub, log logging.Logger) *Server {
	return &Server{
		cfg:      cfg,
		log:      log,
		habits:   habits.NewService(db),
		users:    users.NewSQLRepository(db),
		checkins: checkins.NewSQLRepository(db),
		hub:      h,
	}
}

// Router builds the gin engine with all API routes mounted. Every endpoint
// requires a bearer token.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api", s.authMiddleware())
	{
		api.GET("/habits", s.listHabits)
		api.POST("/habits", s.createHabit)
		api.PATCH("/habits/:id", s.patchHabit)
		api.DELETE("/habits/:id", s.deleteHabit)

		api.GET("/feed", s.listFeed)
		api.GET("/feed/ws", s.feedSocket)
		api.GET("/feed/:id", s.feedDetail)
	}
	return r
}
