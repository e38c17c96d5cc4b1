// Package forge lists the tags of a GitHub repository and downloads source
// snapshots of them.
package forge

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/go-github/v57/github"
	"golang.org/x/time/rate"

	"github.com/kuro1999/isw2-dataset/internal/contract"
)

// Client wraps the GitHub API client with rate limiting.
type Client struct {
	client      *github.Client
	rateLimiter *rate.Limiter
}

var _ contract.Forge = &Client{} // Compile-time check

// NewClient creates a GitHub client. An empty token makes anonymous requests
// and an empty baseURL targets api.github.com.
func NewClient(baseURL, token string, timeout time.Duration, requestsPerSecond float64) (*Client, error) {
	client := github.NewClient(&http.Client{Timeout: timeout})
	if token != "" {
		client = client.WithAuthToken(token)
	}
	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub URL %q: %w", baseURL, err)
		}
		client.BaseURL = u
	}
	return &Client{
		client:      client,
		rateLimiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}, nil
}

// ListTags returns the names of every tag of the repository.
func (c *Client) ListTags(ctx context.Context, owner, repo string) ([]string, error) {
	opts := &github.ListOptions{PerPage: 100}

	var names []string
	for {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		tags, resp, err := c.client.Repositories.ListTags(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("list tags of %s/%s: %w", owner, repo, err)
		}
		for _, t := range tags {
			names = append(names, t.GetName())
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return names, nil
}

// DownloadSnapshot downloads the zipball of tag, extracts it under destDir
// and returns the directory holding the source tree.
func (c *Client) DownloadSnapshot(ctx context.Context, owner, repo, tag, destDir string) (string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}
	link, _, err := c.client.Repositories.GetArchiveLink(ctx, owner, repo, github.Zipball,
		&github.RepositoryContentGetOptions{Ref: tag}, 3)
	if err != nil {
		return "", fmt.Errorf("archive link of %s/%s@%s: %w", owner, repo, tag, err)
	}

	tmp, err := os.CreateTemp("", "isw2-zipball-*.zip")
	if err != nil {
		return "", err
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}
	if err := c.download(ctx, link.String(), tmp); err != nil {
		return "", fmt.Errorf("download %s@%s: %w", repo, tag, err)
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	if err := ExtractZip(tmp.Name(), destDir); err != nil {
		return "", err
	}
	return FindSingleSubdir(destDir)
}

func (c *Client) download(ctx context.Context, link string, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Client().Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	_, err = io.Copy(w, resp.Body)
	return err
}
