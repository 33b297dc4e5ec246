// Command smoke exercises the Reddit session and the AI client against their
// live endpoints for manual verification. Not part of the service.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sabbirahmed404/trend-ai/internal/ai"
	"github.com/sabbirahmed404/trend-ai/internal/browser"
	"github.com/sabbirahmed404/trend-ai/internal/config"
	"github.com/sabbirahmed404/trend-ai/internal/reddit"
)

func main() {
	subreddit := flag.String("subreddit", "Bangladesh", "subreddit to fetch")
	limit := flag.Int("limit", 5, "number of posts")
	direct := flag.Bool("direct", false, "use the direct transport instead of the emulated browser")
	withAI := flag.Bool("ai", false, "also run a summary through the AI service")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{Level: log.DebugLevel})

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load config", "error", err)
	}

	var session reddit.Session
	if *direct {
		session = reddit.NewDirectSession()
	} else {
		session = browser.NewSession(logger)
	}

	client := reddit.NewClient(logger, reddit.Credentials{
		ClientID:     cfg.RedditClientID,
		ClientSecret: cfg.RedditClientSecret,
		Username:     cfg.RedditUsername,
		Password:     cfg.RedditPassword,
	}, session)
	defer func() {
		if err := client.Cleanup(); err != nil {
			logger.Error("cleanup failed", "error", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	me, err := client.GetUserInfo(ctx)
	if err != nil {
		logger.Fatal("failed to fetch user info", "error", err)
	}
	fmt.Printf("authenticated as u/%s (link karma %d)\n\n", me.Name, me.LinkKarma)

	listing, err := client.GetRecentPosts(ctx, *subreddit, reddit.ListingOptions{Limit: *limit})
	if err != nil {
		logger.Fatal("failed to fetch posts", "error", err)
	}

	for _, child := range listing.Data.Children {
		p := child.Data
		fmt.Printf("[%5d] %s (u/%s, %d comments)\n", p.Score, p.Title, p.Author, p.NumComments)
	}

	if !*withAI {
		return
	}
	if cfg.AIAPIKey == "" {
		logger.Fatal("AI_API_KEY not set")
	}

	var titles string
	for _, child := range listing.Data.Children {
		titles += "- " + child.Data.Title + "\n"
	}

	service := ai.NewService(logger, ai.Config{APIKey: cfg.AIAPIKey, BaseURL: cfg.AIBaseURL, Model: cfg.AIModel})
	reply, err := service.Chat(ctx, "Summarize these post titles in one sentence:\n"+titles)
	if err != nil {
		logger.Fatal("AI call failed", "error", err)
	}
	fmt.Printf("\nsummary: %s\n", reply)
}
