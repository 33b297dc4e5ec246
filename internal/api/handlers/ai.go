package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sabbirahmed404/trend-ai/internal/ai"
	"github.com/sabbirahmed404/trend-ai/internal/dashboard"
)

type AIHandler struct {
	manager *dashboard.Manager
	service *ai.Service // nil when no AI key is configured
}

func NewAIHandler(mgr *dashboard.Manager, service *ai.Service) *AIHandler {
	return &AIHandler{
		manager: mgr,
		service: service,
	}
}

type SummarizeRequest struct {
	Subreddit string `json:"subreddit"`
}

type ChatRequest struct {
	Message string `json:"message"`
}

// POST /api/summarize
func (h *AIHandler) Summarize(c echo.Context) error {
	if h.service == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"error": "AI is not configured",
		})
	}

	var req SummarizeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}
	if req.Subreddit == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "subreddit is required",
		})
	}

	posts, err := h.manager.CachedPosts(req.Subreddit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": err.Error(),
		})
	}
	if len(posts) == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "no cached posts for subreddit, track it first",
		})
	}

	summary, err := h.service.Summarize(c.Request().Context(), req.Subreddit, posts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"subreddit": req.Subreddit,
		"summary":   summary,
	})
}

// POST /api/chat
func (h *AIHandler) Chat(c echo.Context) error {
	if h.service == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"error": "AI is not configured",
		})
	}

	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}
	if req.Message == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "message is required",
		})
	}

	reply, err := h.service.Chat(c.Request().Context(), req.Message)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"reply": reply,
	})
}
