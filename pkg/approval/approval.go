// Package approval implements the core decision of the tool: which code
// owners of which changed files have not yet approved a change request.
//
// The evaluation is a pure function of its inputs - the rule table, the
// changed file paths, the approver set, and team membership - except for
// a team-resolution memo that lives only as long as one [Evaluate] call.
package approval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/tzrikka/ownergate/internal/cache"
	"github.com/tzrikka/ownergate/pkg/codeowners"
)

// ErrTeamNotFound is returned by a [TeamResolver] when the
// referenced team does not exist in the organization.
var ErrTeamNotFound = errors.New("team not found")

// TeamResolver returns the member identities of the team with the given
// slug. Implementations return [ErrTeamNotFound] for unknown teams; any
// other error aborts the evaluation.
type TeamResolver func(ctx context.Context, slug string) ([]string, error)

// Set is a set of approver identities.
type Set map[string]bool

// NewSet builds a [Set] from a list of identities.
func NewSet(ids []string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = true
	}
	return s
}

// MissingApproval lists the owners of a single changed
// file whose approval requirement is not met.
type MissingApproval struct {
	Path   string
	Owners []string // Display names, in rule-declaration order.
}

// Evaluate reports which changed files still lack required approvals.
//
// Files appear in the report in their input order, and only if at least
// one of their owners is unmet. An individual owner is met when their
// identity (without any leading "@") is in the approver set; a team owner
// is met when at least one resolved member is. A file that no rule matches
// has no owners, so it never appears in the report.
//
// A nil resolver means team membership cannot be looked up at all, in
// which case every team owner is reported as missing - that's the safe
// direction for an approval gate.
func Evaluate(ctx context.Context, files []string, owners *codeowners.File, approvers Set, resolve TeamResolver) ([]MissingApproval, error) {
	e := evaluator{
		approvers: approvers,
		resolve:   resolve,
		memo:      cache.New(cache.NoExpiration, cache.NoCleanup),
	}

	var report []MissingApproval
	for _, path := range files {
		missing, err := e.missingForFile(ctx, path, owners)
		if err != nil {
			return nil, err
		}
		if len(missing) > 0 {
			report = append(report, MissingApproval{Path: path, Owners: missing})
		}
	}

	return report, nil
}

type evaluator struct {
	approvers Set
	resolve   TeamResolver
	memo      *cache.Cache // Team members, resolved once per run.
}

func (e evaluator) missingForFile(ctx context.Context, path string, owners *codeowners.File) ([]string, error) {
	specs, err := owners.OwnersOf(path)
	if err != nil {
		return nil, err
	}

	var missing []string
	for _, o := range specs {
		ok, err := e.satisfied(ctx, o)
		if err != nil {
			return nil, err
		}
		if !ok {
			missing = append(missing, o.Name)
		}
	}

	return missing, nil
}

func (e evaluator) satisfied(ctx context.Context, o codeowners.OwnerSpec) (bool, error) {
	switch o.Kind {
	case codeowners.OwnerUser, codeowners.OwnerEmail:
		return e.approvers[o.Identity()], nil

	case codeowners.OwnerTeam:
		members, err := e.teamMembers(ctx, o.TeamSlug())
		if err != nil {
			return false, err
		}
		return slices.ContainsFunc(members, func(m string) bool { return e.approvers[m] }), nil

	default:
		return false, fmt.Errorf("unrecognized owner kind %d for %q", o.Kind, o.Name)
	}
}

// teamMembers resolves a team slug into member identities, memoized for
// the duration of the run. Unknown teams are logged and cached as a nil
// member list, so they surface as unmet owners instead of being skipped
// or aborting the run.
func (e evaluator) teamMembers(ctx context.Context, slug string) ([]string, error) {
	if members, found := e.memo.Get(slug); found {
		return members, nil
	}

	if e.resolve == nil {
		e.memo.Set(slug, nil, cache.DefaultExpiration)
		return nil, nil
	}

	members, err := e.resolve(ctx, slug)
	switch {
	case errors.Is(err, ErrTeamNotFound):
		slog.Warn("code owner team not found", slog.String("team_slug", slug))
		members = nil
	case err != nil:
		return nil, fmt.Errorf("failed to resolve team %q: %w", slug, err)
	}

	e.memo.Set(slug, members, cache.DefaultExpiration)
	return members, nil
}
