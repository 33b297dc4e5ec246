package dashboard

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sabbirahmed404/trend-ai/internal/database/models"
)

func TestCardsPreserveOrderAndFields(t *testing.T) {
	posts := []models.Post{
		{Title: "first", Author: "alice", Score: 100, NumComments: 7, Permalink: "/r/x/1", Selftext: "hello"},
		{Title: "second", Author: "bob", Score: 50, NumComments: 3, Permalink: "/r/x/2"},
		{Title: "third", Author: "carol", Score: 10, NumComments: 0, Permalink: "/r/x/3"},
	}

	cards := Cards(posts)
	require.Len(t, cards, 3)

	assert.Equal(t, "first", cards[0].Title)
	assert.Equal(t, "second", cards[1].Title)
	assert.Equal(t, "third", cards[2].Title)

	assert.Equal(t, "alice", cards[0].Author)
	assert.Equal(t, 100, cards[0].Score)
	assert.Equal(t, 7, cards[0].CommentCount)
	assert.Equal(t, "/r/x/1", cards[0].Permalink)
	assert.Equal(t, "hello", cards[0].Selftext)
}

func TestSelftextTruncation(t *testing.T) {
	long := strings.Repeat("a", 301)
	cards := Cards([]models.Post{{Selftext: long}})

	got := cards[0].Selftext
	assert.True(t, strings.HasSuffix(got, "…"), "truncated text must end with an ellipsis")
	assert.Equal(t, 301, utf8.RuneCountInString(got), "300 runes of text plus the ellipsis")

	exact := strings.Repeat("b", 300)
	cards = Cards([]models.Post{{Selftext: exact}})
	assert.Equal(t, exact, cards[0].Selftext, "text at the limit is left alone")

	cards = Cards([]models.Post{{Selftext: ""}})
	assert.Empty(t, cards[0].Selftext)
}

func TestSelftextTruncationDoesNotSplitRunes(t *testing.T) {
	long := strings.Repeat("ই", 400) // multi-byte
	cards := Cards([]models.Post{{Selftext: long}})

	got := cards[0].Selftext
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 301, utf8.RuneCountInString(got))
}
