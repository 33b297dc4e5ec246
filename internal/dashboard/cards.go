package dashboard

import (
	"time"

	"github.com/sabbirahmed404/trend-ai/internal/database/models"
)

// maxSelftextRunes is the longest self-text a card shows before it is cut.
const maxSelftextRunes = 300

// Card is the render view-model of one post.
type Card struct {
	Title        string
	Author       string
	Score        int
	CommentCount int
	Permalink    string
	Selftext     string
	CreatedAt    time.Time
}

// Cards converts posts to render cards, preserving order. Self-texts longer
// than the limit are truncated with an ellipsis marker.
func Cards(posts []models.Post) []Card {
	cards := make([]Card, 0, len(posts))
	for _, p := range posts {
		cards = append(cards, Card{
			Title:        p.Title,
			Author:       p.Author,
			Score:        p.Score,
			CommentCount: p.NumComments,
			Permalink:    p.Permalink,
			Selftext:     truncateSelftext(p.Selftext),
			CreatedAt:    time.Unix(int64(p.CreatedUTC), 0).UTC(),
		})
	}
	return cards
}

func truncateSelftext(s string) string {
	runes := []rune(s)
	if len(runes) <= maxSelftextRunes {
		return s
	}
	return string(runes[:maxSelftextRunes]) + "…"
}
