package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v62/github"
	"github.com/ludo-technologies/xcprof/domain"
	"github.com/ludo-technologies/xcprof/internal/config"
	"github.com/ludo-technologies/xcprof/internal/reporter"
	"go.uber.org/zap"
)

// GitHubSink posts comments on a pull request through the GitHub REST API.
// Summaries and warnings become conversation comments; inline annotations
// become review comments on the head commit.
type GitHubSink struct {
	client    *github.Client
	owner     string
	repo      string
	number    int
	commitSHA string
	logger    *zap.SugaredLogger
}

// publicGitHubAPI is what Actions runners put in GITHUB_API_URL on github.com
const publicGitHubAPI = "https://api.github.com"

// NewGitHubClient builds an authenticated client, honouring an Enterprise base URL
func NewGitHubClient(cfg *config.GitHubConfig, httpClient *http.Client) (*github.Client, error) {
	client := github.NewClient(httpClient)
	if cfg.Token != "" {
		client = client.WithAuthToken(cfg.Token)
	}
	if cfg.BaseURL != "" && strings.TrimRight(cfg.BaseURL, "/") != publicGitHubAPI {
		var err error
		client, err = client.WithEnterpriseURLs(cfg.BaseURL, cfg.BaseURL)
		if err != nil {
			return nil, domain.NewConfigError(fmt.Sprintf("invalid GitHub base URL %q", cfg.BaseURL), err)
		}
	}
	return client, nil
}

// NewGitHubSink creates a sink for the pull request described by cfg
func NewGitHubSink(client *github.Client, cfg *config.GitHubConfig, logger *zap.SugaredLogger) (*GitHubSink, error) {
	owner, repo, err := config.SplitRepository(cfg.Repository)
	if err != nil {
		return nil, domain.NewConfigError("github sink needs a repository", err)
	}
	if cfg.PullRequest <= 0 {
		return nil, domain.NewConfigError("github sink requires a pull request number", nil)
	}
	return &GitHubSink{
		client:    client,
		owner:     owner,
		repo:      repo,
		number:    cfg.PullRequest,
		commitSHA: cfg.CommitSHA,
		logger:    logger,
	}, nil
}

// PostSummary adds a conversation comment
func (s *GitHubSink) PostSummary(ctx context.Context, text string) error {
	return s.issueComment(ctx, text)
}

// PostWarning adds a conversation comment prefixed with a warning marker
func (s *GitHubSink) PostWarning(ctx context.Context, text string) error {
	return s.issueComment(ctx, ":warning: "+text)
}

// PostInlineAnnotation adds a review comment on the right side of the diff.
// Without a commit SHA the annotation falls back to a conversation comment.
func (s *GitHubSink) PostInlineAnnotation(ctx context.Context, file string, line int, severity domain.Severity, text string) error {
	body := fmt.Sprintf("%s %s", reporter.SeverityEmoji(severity), text)
	if s.commitSHA == "" {
		s.logger.Debugw("no commit SHA, posting annotation as conversation comment", "file", file, "line", line)
		return s.issueComment(ctx, fmt.Sprintf("%s\n\n`%s:%d`", body, file, line))
	}

	comment := &github.PullRequestComment{
		Body:     github.String(body),
		CommitID: github.String(s.commitSHA),
		Path:     github.String(file),
		Line:     github.Int(line),
		Side:     github.String("RIGHT"),
	}
	_, resp, err := s.client.PullRequests.CreateComment(ctx, s.owner, s.repo, s.number, comment)
	if err != nil {
		return fmt.Errorf("create review comment on %s:%d: %w", file, line, err)
	}
	s.logger.Debugw("posted review comment", "file", file, "line", line, "status", statusCode(resp))
	return nil
}

func (s *GitHubSink) issueComment(ctx context.Context, body string) error {
	_, resp, err := s.client.Issues.CreateComment(ctx, s.owner, s.repo, s.number, &github.IssueComment{
		Body: github.String(body),
	})
	if err != nil {
		return fmt.Errorf("create comment on %s/%s#%d: %w", s.owner, s.repo, s.number, err)
	}
	s.logger.Debugw("posted comment", "pr", s.number, "status", statusCode(resp))
	return nil
}

func statusCode(resp *github.Response) int {
	if resp == nil || resp.Response == nil {
		return 0
	}
	return resp.StatusCode
}
