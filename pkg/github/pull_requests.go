package github

import (
	"context"
	"fmt"

	"github.com/google/go-github/v71/github"
)

// ChangedFiles returns the paths of all the files modified in the given
// PR, in the API's order (which is stable across identical calls, so the
// final report's order is deterministic too).
func (c *Client) ChangedFiles(ctx context.Context, owner, repo string, number int) ([]string, error) {
	var paths []string

	opts := &github.ListOptions{PerPage: 100}
	for {
		files, resp, err := c.gh.PullRequests.ListFiles(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list files of PR %d: %w", number, err)
		}

		for _, f := range files {
			paths = append(paths, f.GetFilename())
		}

		if resp.NextPage == 0 {
			return paths, nil
		}
		opts.Page = resp.NextPage
	}
}
