package handlers

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sabbirahmed404/trend-ai/internal/dashboard"
	"github.com/sabbirahmed404/trend-ai/internal/reddit"
)

type DashboardHandler struct {
	manager *dashboard.Manager
	tmpl    *template.Template
}

func NewDashboardHandler(mgr *dashboard.Manager) *DashboardHandler {
	return &DashboardHandler{
		manager: mgr,
		tmpl:    template.Must(template.New("dashboard").Parse(dashboardTemplate)),
	}
}

type dashboardData struct {
	Subreddit string
	Cards     []dashboard.Card
}

// GET /dashboard/:subreddit
//
// Renders the post cards for a subreddit. A fetch failure degrades to an
// empty card list; the page itself never errors.
func (h *DashboardHandler) Render(c echo.Context) error {
	subreddit := c.Param("subreddit")

	posts, err := h.manager.FetchLive(c.Request().Context(), subreddit, reddit.ListingOptions{})
	if err != nil {
		posts = nil
	}

	data := dashboardData{
		Subreddit: subreddit,
		Cards:     dashboard.Cards(posts),
	}

	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, data); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": err.Error(),
		})
	}

	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

const dashboardTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>r/{{.Subreddit}} — trend-ai</title>
<style>
body { font-family: sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; }
.card { border: 1px solid #ddd; border-radius: 8px; padding: 1rem; margin-bottom: 1rem; }
.card h2 { margin: 0 0 .25rem; font-size: 1.1rem; }
.card .meta { color: #666; font-size: .85rem; margin-bottom: .5rem; }
.card .selftext { font-size: .9rem; white-space: pre-wrap; }
.empty { color: #666; }
</style>
</head>
<body>
<h1>r/{{.Subreddit}}</h1>
{{if .Cards}}
{{range .Cards}}
<div class="card">
<h2><a href="https://www.reddit.com{{.Permalink}}">{{.Title}}</a></h2>
<div class="meta">u/{{.Author}} &middot; {{.Score}} points &middot; {{.CommentCount}} comments</div>
{{if .Selftext}}<div class="selftext">{{.Selftext}}</div>{{end}}
</div>
{{end}}
{{else}}
<p class="empty">No posts to show.</p>
{{end}}
</body>
</html>
`
