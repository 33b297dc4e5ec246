package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sabbirahmed404/trend-ai/internal/dashboard"
)

type ExportHandler struct {
	manager *dashboard.Manager
}

func NewExportHandler(mgr *dashboard.Manager) *ExportHandler {
	return &ExportHandler{
		manager: mgr,
	}
}

// GET /api/export
//
// Dumps the post cache as tab-separated lines: score, subreddit, title.
func (h *ExportHandler) ExportText(c echo.Context) error {
	posts, err := h.manager.AllPosts()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": err.Error(),
		})
	}

	var lines []string
	for _, p := range posts {
		line := fmt.Sprintf("%d\tr/%s\t%s", p.Score, p.Subreddit, p.Title)
		lines = append(lines, line)
	}

	text := strings.Join(lines, "\n")
	if len(lines) > 0 {
		text += "\n" // Add trailing newline
	}

	return c.String(http.StatusOK, text)
}
