package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sabbirahmed404/trend-ai/internal/dashboard"
)

type SubredditsHandler struct {
	manager *dashboard.Manager
}

func NewSubredditsHandler(mgr *dashboard.Manager) *SubredditsHandler {
	return &SubredditsHandler{
		manager: mgr,
	}
}

type TrackSubredditRequest struct {
	Name  string `json:"name"`
	Sort  string `json:"sort"`
	Time  string `json:"time"`
	Limit int    `json:"limit"`
}

var validSorts = map[string]bool{"hot": true, "new": true, "top": true, "rising": true}

// POST /api/subreddits
func (h *SubredditsHandler) Track(c echo.Context) error {
	var req TrackSubredditRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}

	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "name is required",
		})
	}
	if req.Sort != "" && !validSorts[req.Sort] {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "sort must be 'hot', 'new', 'top' or 'rising'",
		})
	}

	sub, err := h.manager.Track(c.Request().Context(), req.Name, req.Sort, req.Time, req.Limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, sub)
}

// GET /api/subreddits
func (h *SubredditsHandler) List(c echo.Context) error {
	subs, err := h.manager.ListTracked()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, subs)
}

// DELETE /api/subreddits/:name
func (h *SubredditsHandler) Untrack(c echo.Context) error {
	name := c.Param("name")
	if err := h.manager.Untrack(name); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": err.Error(),
		})
	}

	return c.NoContent(http.StatusNoContent)
}
