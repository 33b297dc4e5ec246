package dashboard

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sabbirahmed404/trend-ai/internal/database/models"
	"github.com/sabbirahmed404/trend-ai/internal/reddit"
)

// Fetcher is what the manager needs from the Reddit client.
type Fetcher interface {
	GetRecentPosts(ctx context.Context, subreddit string, opts reddit.ListingOptions) (*reddit.Listing, error)
	GetUserInfo(ctx context.Context) (*reddit.UserInfo, error)
	Cleanup() error
}

// Manager owns the one Reddit client instance and the post cache. The client
// is not safe for concurrent calls, so every fetch goes through the manager's
// mutex; handlers and the refresher all funnel through here.
type Manager struct {
	db      *sql.DB
	fetcher Fetcher
	logger  *log.Logger
	mu      sync.Mutex
}

func NewManager(db *sql.DB, fetcher Fetcher, logger *log.Logger) *Manager {
	return &Manager{
		db:      db,
		fetcher: fetcher,
		logger:  logger,
	}
}

// Track adds or updates a tracked subreddit and fetches its listing
// immediately. On the insert path a fetch failure leaves no row behind.
func (m *Manager) Track(ctx context.Context, name, sort, timeFilter string, limit int) (*models.Subreddit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sort == "" {
		sort = "hot"
	}
	if timeFilter == "" {
		timeFilter = "day"
	}
	if limit <= 0 {
		limit = 25
	}

	var existingID uint
	err := m.db.QueryRow("SELECT id FROM subreddits WHERE name = ? LIMIT 1", name).Scan(&existingID)

	if err == sql.ErrNoRows {
		return m.insertSubreddit(ctx, name, sort, timeFilter, limit)
	} else if err != nil {
		return nil, fmt.Errorf("failed to check existing subreddit: %w", err)
	}

	return m.updateSubreddit(ctx, existingID, name, sort, timeFilter, limit)
}

// insertSubreddit handles the INSERT flow when the subreddit isn't tracked yet.
func (m *Manager) insertSubreddit(ctx context.Context, name, sort, timeFilter string, limit int) (*models.Subreddit, error) {
	// Fetch first so a dead subreddit never leaves a row behind
	listing, err := m.fetcher.GetRecentPosts(ctx, name, reddit.ListingOptions{Limit: limit, Sort: sort, Time: timeFilter})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch posts for r/%s: %w", name, err)
	}

	now := time.Now()
	result, err := m.db.Exec(`
		INSERT INTO subreddits (name, sort, time_filter, post_limit, last_refresh_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, name, sort, timeFilter, limit, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert subreddit: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert ID: %w", err)
	}

	if err := m.storePosts(name, listing, now); err != nil {
		// Rollback database creation
		m.db.Exec("DELETE FROM subreddits WHERE id = ?", id)
		return nil, fmt.Errorf("failed to store posts: %w", err)
	}

	return &models.Subreddit{
		ID:            uint(id),
		Name:          name,
		Sort:          sort,
		TimeFilter:    timeFilter,
		PostLimit:     limit,
		LastRefreshAt: now,
		CreatedAt:     now,
	}, nil
}

// updateSubreddit handles the UPDATE flow when the subreddit is already tracked.
func (m *Manager) updateSubreddit(ctx context.Context, id uint, name, sort, timeFilter string, limit int) (*models.Subreddit, error) {
	listing, err := m.fetcher.GetRecentPosts(ctx, name, reddit.ListingOptions{Limit: limit, Sort: sort, Time: timeFilter})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch posts for r/%s: %w", name, err)
	}

	now := time.Now()
	_, err = m.db.Exec(`
		UPDATE subreddits
		SET sort = ?, time_filter = ?, post_limit = ?, last_refresh_at = ?
		WHERE id = ?
	`, sort, timeFilter, limit, now, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update subreddit: %w", err)
	}

	if err := m.storePosts(name, listing, now); err != nil {
		return nil, fmt.Errorf("failed to store posts: %w", err)
	}

	return m.getSubredditByID(id)
}

func (m *Manager) Untrack(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.db.Exec("DELETE FROM posts WHERE subreddit = ?", name); err != nil {
		return fmt.Errorf("failed to delete cached posts: %w", err)
	}
	if _, err := m.db.Exec("DELETE FROM subreddits WHERE name = ?", name); err != nil {
		return fmt.Errorf("failed to delete subreddit: %w", err)
	}
	return nil
}

func (m *Manager) ListTracked() ([]models.Subreddit, error) {
	rows, err := m.db.Query(`
		SELECT id, name, sort, time_filter, post_limit, last_refresh_at, created_at
		FROM subreddits
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query subreddits: %w", err)
	}
	defer rows.Close()

	var subs []models.Subreddit
	for rows.Next() {
		var s models.Subreddit
		if err := rows.Scan(&s.ID, &s.Name, &s.Sort, &s.TimeFilter, &s.PostLimit, &s.LastRefreshAt, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan subreddit: %w", err)
		}
		subs = append(subs, s)
	}

	return subs, nil
}

func (m *Manager) getSubredditByID(id uint) (*models.Subreddit, error) {
	var s models.Subreddit
	err := m.db.QueryRow(`
		SELECT id, name, sort, time_filter, post_limit, last_refresh_at, created_at
		FROM subreddits WHERE id = ?
	`, id).Scan(&s.ID, &s.Name, &s.Sort, &s.TimeFilter, &s.PostLimit, &s.LastRefreshAt, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get subreddit: %w", err)
	}
	return &s, nil
}

// FetchLive fetches a listing through the shared client. First pages (no
// after cursor) replace the cache for that subreddit; cursor pages are passed
// through without touching it.
func (m *Manager) FetchLive(ctx context.Context, subreddit string, opts reddit.ListingOptions) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	listing, err := m.fetcher.GetRecentPosts(ctx, subreddit, opts)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if opts.After == "" {
		if err := m.storePosts(subreddit, listing, now); err != nil {
			return nil, fmt.Errorf("failed to store posts: %w", err)
		}
	}

	return postsFromListing(subreddit, listing, now), nil
}

// Refresh re-fetches a tracked subreddit with its stored options.
func (m *Manager) Refresh(ctx context.Context, sub *models.Subreddit) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	listing, err := m.fetcher.GetRecentPosts(ctx, sub.Name, reddit.ListingOptions{
		Limit: sub.PostLimit,
		Sort:  sub.Sort,
		Time:  sub.TimeFilter,
	})
	if err != nil {
		return fmt.Errorf("failed to fetch posts for r/%s: %w", sub.Name, err)
	}

	now := time.Now()
	if err := m.storePosts(sub.Name, listing, now); err != nil {
		return fmt.Errorf("failed to store posts: %w", err)
	}

	if _, err := m.db.Exec("UPDATE subreddits SET last_refresh_at = ? WHERE id = ?", now, sub.ID); err != nil {
		return fmt.Errorf("failed to update refresh time: %w", err)
	}

	return nil
}

// RefreshAll warms the cache for every tracked subreddit. Per-subreddit
// failures are logged and skipped so one dead community doesn't block boot.
func (m *Manager) RefreshAll(ctx context.Context) error {
	subs, err := m.ListTracked()
	if err != nil {
		return fmt.Errorf("failed to load subreddits: %w", err)
	}

	for i := range subs {
		if err := m.Refresh(ctx, &subs[i]); err != nil {
			m.logger.Error("failed to refresh subreddit", "subreddit", subs[i].Name, "error", err)
			continue
		}
		m.logger.Info("refreshed subreddit", "subreddit", subs[i].Name)
	}

	return nil
}

// CachedPosts returns the cached listing for a subreddit in fetch order.
func (m *Manager) CachedPosts(subreddit string) ([]models.Post, error) {
	return m.queryPosts("WHERE subreddit = ? ORDER BY position", subreddit)
}

// AllPosts returns every cached post, grouped by subreddit in fetch order.
func (m *Manager) AllPosts() ([]models.Post, error) {
	return m.queryPosts("ORDER BY subreddit, position")
}

func (m *Manager) queryPosts(clause string, args ...interface{}) ([]models.Post, error) {
	rows, err := m.db.Query(`
		SELECT id, subreddit, title, author, score, num_comments, permalink, selftext, created_utc, fetched_at
		FROM posts `+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.Subreddit, &p.Title, &p.Author, &p.Score, &p.NumComments, &p.Permalink, &p.Selftext, &p.CreatedUTC, &p.FetchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, p)
	}

	return posts, nil
}

// UserInfo fetches the authenticated account's identity.
func (m *Manager) UserInfo(ctx context.Context) (*reddit.UserInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetcher.GetUserInfo(ctx)
}

// storePosts replaces the cached listing for a subreddit inside one
// transaction, preserving listing order.
func (m *Manager) storePosts(subreddit string, listing *reddit.Listing, fetchedAt time.Time) error {
	tx, err := m.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM posts WHERE subreddit = ?", subreddit); err != nil {
		return fmt.Errorf("failed to clear old posts: %w", err)
	}

	for i, child := range listing.Data.Children {
		p := child.Data
		_, err := tx.Exec(`
			INSERT OR REPLACE INTO posts (id, subreddit, position, title, author, score, num_comments, permalink, selftext, created_utc, fetched_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, p.Name, subreddit, i, p.Title, p.Author, p.Score, p.NumComments, p.Permalink, p.Selftext, p.CreatedUTC, fetchedAt)
		if err != nil {
			return fmt.Errorf("failed to insert post %s: %w", p.Name, err)
		}
	}

	return tx.Commit()
}

func postsFromListing(subreddit string, listing *reddit.Listing, fetchedAt time.Time) []models.Post {
	posts := make([]models.Post, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		p := child.Data
		posts = append(posts, models.Post{
			ID:          p.Name,
			Subreddit:   subreddit,
			Title:       p.Title,
			Author:      p.Author,
			Score:       p.Score,
			NumComments: p.NumComments,
			Permalink:   p.Permalink,
			Selftext:    p.Selftext,
			CreatedUTC:  p.CreatedUTC,
			FetchedAt:   fetchedAt,
		})
	}
	return posts
}

// Close releases the Reddit client's session. Must run on every shutdown
// path; the emulated browser is the one OS-level resource in the system.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetcher.Cleanup()
}
