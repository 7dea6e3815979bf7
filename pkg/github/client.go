// Package github implements the external collaborators of the approval
// check: fetching the CODEOWNERS document, the change request's file list
// and reviews, and organization team membership.
//
// All calls are synchronous and single-shot - there are no retries and no
// cross-run caching, this process runs one evaluation and exits.
package github

import (
	"fmt"

	"github.com/google/go-github/v71/github"
)

// Client wraps an authenticated GitHub API client.
type Client struct {
	gh *github.Client
}

// NewClient returns an authenticated GitHub API client. The base URL is
// optional, for GitHub Enterprise servers (empty means github.com).
func NewClient(token, baseURL string) (*Client, error) {
	gh := github.NewClient(nil).WithAuthToken(token)

	if baseURL != "" {
		var err error
		gh, err = gh.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, fmt.Errorf("bad GitHub base URL %q: %w", baseURL, err)
		}
	}

	return &Client{gh: gh}, nil
}
