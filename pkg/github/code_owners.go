package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// DefaultCodeOwnersPaths are the candidate locations of the CODEOWNERS
// file, in GitHub's own lookup order.
var DefaultCodeOwnersPaths = []string{".github/CODEOWNERS", "docs/CODEOWNERS", "CODEOWNERS"}

// ErrNoCodeOwners means none of the candidate paths exist in the repository.
var ErrNoCodeOwners = errors.New("CODEOWNERS file not found in the repository")

// CodeOwnersFile fetches the repository's CODEOWNERS document, trying each
// candidate path in order and short-circuiting on the first one that
// exists. Only a 404 moves on to the next candidate - any other failure
// (auth, rate limit, network) aborts, so an outage isn't mistaken for a
// repository without code owners. Returns [ErrNoCodeOwners] if all the
// candidates are missing.
func (c *Client) CodeOwnersFile(ctx context.Context, owner, repo string, paths []string) (path, content string, err error) {
	if len(paths) == 0 {
		paths = DefaultCodeOwnersPaths
	}

	for _, p := range paths {
		file, _, resp, err := c.gh.Repositories.GetContents(ctx, owner, repo, p, nil)
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			continue
		}
		if err != nil {
			return "", "", fmt.Errorf("failed to fetch %q: %w", p, err)
		}
		if file == nil {
			continue // The path is a directory, not a file.
		}

		content, err := file.GetContent()
		if err != nil {
			return "", "", fmt.Errorf("failed to decode %q: %w", p, err)
		}
		return p, content, nil
	}

	return "", "", ErrNoCodeOwners
}
