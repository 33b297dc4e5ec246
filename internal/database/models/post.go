package models

import (
	"time"
)

type Subreddit struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	Sort          string    `json:"sort"`        // "hot", "new", "top", "rising"
	TimeFilter    string    `json:"time_filter"` // "hour", "day", "week", "month", "year", "all"
	PostLimit     int       `json:"post_limit"`
	LastRefreshAt time.Time `json:"last_refresh_at"`
	CreatedAt     time.Time `json:"created_at"`
}

type Post struct {
	ID          string    `json:"id"` // Reddit fullname, e.g. "t3_abc123"
	Subreddit   string    `json:"subreddit"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Score       int       `json:"score"`
	NumComments int       `json:"num_comments"`
	Permalink   string    `json:"permalink"`
	Selftext    string    `json:"selftext,omitempty"`
	CreatedUTC  float64   `json:"created_utc"`
	FetchedAt   time.Time `json:"fetched_at"`
}
