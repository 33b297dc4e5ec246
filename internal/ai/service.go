// Package ai proxies chat-completion calls to an OpenAI-compatible endpoint
// for post summaries and dashboard chat. It does nothing beyond proxying.
package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/sabbirahmed404/trend-ai/internal/database/models"
)

// Config is passed at construction; the service never reads process-wide
// state, so tests can hand it fake credentials and a stub endpoint.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

type Service struct {
	client *openai.Client
	logger *log.Logger
	model  string
}

func NewService(logger *log.Logger, cfg Config) *Service {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	client := openai.NewClient(opts...)
	return &Service{
		client: &client,
		logger: logger,
		model:  cfg.Model,
	}
}

func (s *Service) complete(ctx context.Context, system, user string) (string, error) {
	completion, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
	})
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("model returned no completion choices")
	}
	return completion.Choices[0].Message.Content, nil
}

// Summarize produces a short digest of the given posts.
func (s *Service) Summarize(ctx context.Context, subreddit string, posts []models.Post) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Summarize what is being discussed on r/%s today based on these posts:\n\n", subreddit)
	for _, p := range posts {
		fmt.Fprintf(&b, "- %s (score %d, %d comments)\n", p.Title, p.Score, p.NumComments)
		if p.Selftext != "" {
			fmt.Fprintf(&b, "  %s\n", p.Selftext)
		}
	}

	s.logger.Debug("summarizing posts", "subreddit", subreddit, "count", len(posts))
	return s.complete(ctx,
		"You summarize community discussions in a few short paragraphs. Mention the dominant topics and the overall mood.",
		b.String())
}

// Chat answers a free-form question from the dashboard.
func (s *Service) Chat(ctx context.Context, message string) (string, error) {
	return s.complete(ctx,
		"You are a helpful assistant on a Reddit community dashboard. Answer concisely.",
		message)
}
