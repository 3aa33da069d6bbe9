package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dkhodakov/habitsync/internal/common"
	"github.com/dkhodakov/habitsync/internal/server/habits"
	"github.com/gin-gonic/gin"
)

// writeError maps domain sentinels onto HTTP statuses. Anything unexpected
// is logged and reported as a 500 without leaking internals.
func (s *Server) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, common.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, common.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	default:
		s.log.Error(c.Request.Context(), "request failed",
			"method", c.Request.Method, "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (s *Server) listHabits(c *gin.Context) {
	data, err := s.habits.List(c.Request.Context(), userID(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

type createHabitRequest struct {
	Name string `json:"name"`
}

func (s *Server) createHabit(c *gin.Context) {
	var req createHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	habit, err := s.habits.Create(c.Request.Context(), userID(c), req.Name)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, habit)
}

// patchHabitRequest carries either a toggle (date set) or a metadata update
// (name and/or category set). The two shapes share one endpoint so a habit
// row has a single mutation URL.
type patchHabitRequest struct {
	Date     *string `json:"date"`
	Name     *string `json:"name"`
	Category *string `json:"category"`
}

func (s *Server) patchHabit(c *gin.Context) {
	var req patchHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	id := c.Param("id")

	if req.Date != nil {
		result, err := s.habits.Toggle(c.Request.Context(), userID(c), id, *req.Date)
		if err != nil {
			s.writeError(c, err)
			return
		}
		if result.Action == habits.ActionChecked {
			s.hub.BroadcastCheckIn(result.CheckIn.ID)
		}
		c.JSON(http.StatusOK, result)
		return
	}

	if req.Name == nil && req.Category == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}
	habit, err := s.habits.Update(c.Request.Context(), userID(c), id, req.Name, req.Category)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"action": "updated", "habit": habit})
}

func (s *Server) deleteHabit(c *gin.Context) {
	if err := s.habits.Delete(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) listFeed(c *gin.Context) {
	limit := s.cfg.MaxFeedLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		if n < limit {
			limit = n
		}
	}

	events, err := s.checkins.ListRecentEvents(c.Request.Context(), limit)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (s *Server) feedDetail(c *gin.Context) {
	event, err := s.checkins.GetEventDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (s *Server) feedSocket(c *gin.Context) {
	s.hub.ServeWS(c.Writer, c.Request)
}
