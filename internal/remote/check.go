package remote

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/repokit/repokit/internal/changelog"
)

// DefaultAPIURL is the public GitHub REST endpoint.
const DefaultAPIURL = "https://api.github.com"

// DefaultTimeout bounds a single existence check.
const DefaultTimeout = 10 * time.Second

// RemoteRepositoryError is returned when the GitHub API does not confirm
// that a repository exists.
type RemoteRepositoryError struct {
	URL    string
	Status int
}

func (e *RemoteRepositoryError) Error() string {
	if e.Status == http.StatusNotFound {
		return fmt.Sprintf("repository %s does not exist or is not visible with the current token", e.URL)
	}
	return fmt.Sprintf("checking repository %s: unexpected status %d", e.URL, e.Status)
}

// Checker issues a single GET against the repository endpoint.
type Checker struct {
	apiURL     string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// CheckerOption configures a Checker.
type CheckerOption func(*Checker)

// WithAPIURL points the checker at another API root (GitHub Enterprise, tests).
func WithAPIURL(url string) CheckerOption {
	return func(c *Checker) {
		if url != "" {
			c.apiURL = strings.TrimRight(url, "/")
		}
	}
}

// WithToken sends the token as a bearer credential.
func WithToken(token string) CheckerOption {
	return func(c *Checker) { c.token = token }
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) CheckerOption {
	return func(c *Checker) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) CheckerOption {
	return func(c *Checker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewChecker creates a Checker for the public GitHub API.
func NewChecker(opts ...CheckerOption) *Checker {
	c := &Checker{
		apiURL:     DefaultAPIURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check confirms repo exists. Any status other than 200 is a
// RemoteRepositoryError.
func (c *Checker) Check(ctx context.Context, repo changelog.RepoRef) error {
	url := c.apiURL + "/repos/" + repo.Owner + "/" + repo.Name

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("checking repository %s: %w", repo, err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	c.logger.Debug("checked remote repository",
		slog.String("url", url),
		slog.Int("status", resp.StatusCode),
	)

	if resp.StatusCode != http.StatusOK {
		return &RemoteRepositoryError{URL: repo.URL(), Status: resp.StatusCode}
	}
	return nil
}
