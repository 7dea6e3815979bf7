package github

import (
	"context"
	"fmt"

	"github.com/google/go-github/v71/github"

	"github.com/tzrikka/ownergate/pkg/approval"
)

// Approvers returns the set of reviewers whose latest meaningful review
// state on the given PR is an approval.
func (c *Client) Approvers(ctx context.Context, owner, repo string, number int) (approval.Set, error) {
	var reviews []*github.PullRequestReview

	opts := &github.ListOptions{PerPage: 100}
	for {
		page, resp, err := c.gh.PullRequests.ListReviews(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list reviews of PR %d: %w", number, err)
		}

		reviews = append(reviews, page...)

		if resp.NextPage == 0 {
			return reduceApprovals(reviews), nil
		}
		opts.Page = resp.NextPage
	}
}

// reduceApprovals keeps only the latest review state per reviewer:
// a "CHANGES_REQUESTED" or "DISMISSED" review revokes that reviewer's
// earlier approval, while comment-only reviews don't affect it. Reviews
// are expected in chronological order, which is how GitHub returns them.
func reduceApprovals(reviews []*github.PullRequestReview) approval.Set {
	states := map[string]string{}
	for _, r := range reviews {
		login := r.GetUser().GetLogin()
		if login == "" {
			continue
		}

		switch state := r.GetState(); state {
		case "APPROVED", "CHANGES_REQUESTED", "DISMISSED":
			states[login] = state
		}
	}

	approvers := approval.Set{}
	for login, state := range states {
		if state == "APPROVED" {
			approvers[login] = true
		}
	}
	return approvers
}
