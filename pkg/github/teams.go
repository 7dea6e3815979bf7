package github

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/go-github/v71/github"

	"github.com/tzrikka/ownergate/pkg/approval"
)

// TeamResolver returns a team-membership resolver for the given
// organization, or nil if the repository owner is not an organization
// (personal repositories can't have team code owners, but their
// CODEOWNERS file may still reference teams - those stay unmet).
func (c *Client) TeamResolver(ctx context.Context, org string) approval.TeamResolver {
	if _, _, err := c.gh.Organizations.Get(ctx, org); err != nil {
		slog.Warn("repository owner is not a resolvable organization",
			slog.String("owner", org), slog.Any("error", err))
		return nil
	}

	return func(ctx context.Context, slug string) ([]string, error) {
		return c.teamMembers(ctx, org, slug)
	}
}

func (c *Client) teamMembers(ctx context.Context, org, slug string) ([]string, error) {
	var members []string

	opts := &github.TeamListTeamMembersOptions{ListOptions: github.ListOptions{PerPage: 100}}
	for {
		users, resp, err := c.gh.Teams.ListTeamMembersBySlug(ctx, org, slug, opts)
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, approval.ErrTeamNotFound
		}
		if err != nil {
			return nil, err
		}

		for _, u := range users {
			members = append(members, u.GetLogin())
		}

		if resp.NextPage == 0 {
			return members, nil
		}
		opts.ListOptions.Page = resp.NextPage
	}
}
