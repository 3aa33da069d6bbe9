package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dkhodakov/habitsync/internal/client/models"
	"github.com/dkhodakov/habitsync/internal/common"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient_List(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/habits", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		_ = json.NewEncoder(w).Encode(models.HabitData{
			Habits:   []models.Habit{{ID: "h1", Name: "Read"}},
			CheckIns: []models.CheckIn{{ID: "c1", HabitID: "h1", Date: "2026-03-14"}},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	c.SetToken("tok")

	data, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, data.Habits, 1)
	require.Len(t, data.CheckIns, 1)
	require.Equal(t, "Read", data.Habits[0].Name)
}

func TestHTTPClient_CreateHabit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "Meditate", body["name"])

		_ = json.NewEncoder(w).Encode(models.Habit{ID: "h9", Name: "Meditate", CreatedAt: time.Now()})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	habit, err := c.CreateHabit(context.Background(), "Meditate")
	require.NoError(t, err)
	require.Equal(t, "h9", habit.ID)
}

func TestHTTPClient_ToggleCheckIn(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/api/habits/h1", r.URL.Path)

		_ = json.NewEncoder(w).Encode(models.ToggleResult{
			Action:  models.ActionChecked,
			CheckIn: &models.CheckIn{ID: "c5", HabitID: "h1", Date: "2026-03-14"},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	res, err := c.ToggleCheckIn(context.Background(), "h1", "2026-03-14")
	require.NoError(t, err)
	require.Equal(t, models.ActionChecked, res.Action)
	require.Equal(t, "c5", res.CheckIn.ID)
}

func TestHTTPClient_StatusMapping(t *testing.T) {
	tests := []struct {
		code int
		want error
	}{
		{http.StatusUnauthorized, common.ErrUnauthorized},
		{http.StatusForbidden, common.ErrUnauthorized},
		{http.StatusNotFound, common.ErrNotFound},
		{http.StatusBadRequest, common.ErrValidation},
	}

	for _, tc := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.code)
		}))

		c := NewHTTPClient(srv.URL)
		err := c.DeleteHabit(context.Background(), "h1")
		require.ErrorIs(t, err, tc.want, "status %d", tc.code)
		srv.Close()
	}
}

func TestHTTPClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from now on

	c := NewHTTPClient(srv.URL)
	_, err := c.List(context.Background())
	require.ErrorIs(t, err, common.ErrUnavailable)
}

func TestHTTPClient_GetEventDetailNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	_, err := c.GetEventDetail(context.Background(), "gone")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestHTTPClient_ListRecentLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "7", r.URL.Query().Get("limit"))
		_ = json.NewEncoder(w).Encode([]models.FeedEvent{})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	events, err := c.ListRecent(context.Background(), 7)
	require.NoError(t, err)
	require.Empty(t, events)
}
