// Package check orchestrates a single code-owners approval check: it
// fetches the CODEOWNERS document, the PR's changed files and approvals,
// evaluates them, and renders the result as GitHub Actions annotations.
package check

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tzrikka/ownergate/internal/otel"
	"github.com/tzrikka/ownergate/pkg/approval"
	"github.com/tzrikka/ownergate/pkg/codeowners"
	"github.com/tzrikka/ownergate/pkg/github"
)

var (
	// ErrMissingToken means the required API credential is not configured.
	ErrMissingToken = errors.New("GITHUB_TOKEN environment variable not found")

	// ErrMissingApprovals means at least one changed file still lacks a
	// required approval. The per-file annotations are already printed by
	// the time [Run] returns this.
	ErrMissingApprovals = errors.New("missing code owner approvals")
)

// Run checks whether all code owners of all the files changed in the
// given PR have approved it. It returns nil when they all have,
// [ErrMissingApprovals] when some haven't, and other errors for
// orchestration failures. No step is ever retried.
func Run(ctx context.Context, cmd *cli.Command, number int, repoName string) error {
	token := cmd.String("github-token")
	if token == "" {
		return ErrMissingToken
	}

	owner, repo, err := SplitRepoName(repoName)
	if err != nil {
		return err
	}

	c, err := github.NewClient(token, cmd.String("github-url"))
	if err != nil {
		return err
	}

	path, text, err := c.CodeOwnersFile(ctx, owner, repo, cmd.StringSlice("codeowners-path"))
	if err != nil {
		return err
	}
	slog.Info("found CODEOWNERS file", slog.String("path", path))

	owners, err := codeowners.Parse(text)
	if err != nil {
		return fmt.Errorf("%q: %w", path, err)
	}

	files, err := c.ChangedFiles(ctx, owner, repo, number)
	if err != nil {
		return err
	}

	approvers, err := c.Approvers(ctx, owner, repo, number)
	if err != nil {
		return err
	}
	slog.Info("fetched PR approvals", slog.Int("pr_number", number),
		slog.Any("approvers", slices.Sorted(maps.Keys(approvers))))

	report, err := approval.Evaluate(ctx, files, owners, approvers, c.TeamResolver(ctx, owner))
	if err != nil {
		return err
	}

	otel.IncrementCounter(ctx, "files.checked", int64(len(files)), map[string]string{"repo": repoName})
	otel.IncrementCounter(ctx, "files.missing_approvals", int64(len(report)), map[string]string{"repo": repoName})

	if len(report) == 0 {
		slog.Info("all code owners have approved the PR",
			slog.Int("pr_number", number), slog.Int("changed_files", len(files)))
		return nil
	}

	for _, f := range report {
		Annotate("Missing approvals for %s from: %s", f.Path, strings.Join(f.Owners, ", "))
	}
	return ErrMissingApprovals
}

// SplitRepoName splits an "owner/name" repository identifier.
func SplitRepoName(name string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(name, "/")
	if !ok || owner == "" || repo == "" {
		return "", "", fmt.Errorf("invalid repository name %q, expected the form \"owner/name\"", name)
	}
	return owner, repo, nil
}

// Annotate prints a GitHub Actions error annotation to stdout,
// where the Actions runner picks workflow commands up.
func Annotate(format string, args ...any) {
	fmt.Printf("::error::"+format+"\n", args...)
}
