package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sabbirahmed404/trend-ai/internal/dashboard"
	"github.com/sabbirahmed404/trend-ai/internal/reddit"
)

type PostsHandler struct {
	manager *dashboard.Manager
}

func NewPostsHandler(mgr *dashboard.Manager) *PostsHandler {
	return &PostsHandler{
		manager: mgr,
	}
}

// GET /api/posts/:subreddit
func (h *PostsHandler) GetPosts(c echo.Context) error {
	subreddit := c.Param("subreddit")

	opts := reddit.ListingOptions{
		Sort:  c.QueryParam("sort"),
		Time:  c.QueryParam("t"),
		After: c.QueryParam("after"),
	}
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "limit must be a positive integer",
			})
		}
		opts.Limit = limit
	}

	posts, err := h.manager.FetchLive(c.Request().Context(), subreddit, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, posts)
}

// GET /api/me
func (h *PostsHandler) GetMe(c echo.Context) error {
	info, err := h.manager.UserInfo(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, info)
}
