package github

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"testing"

	"github.com/google/go-github/v71/github"

	"github.com/tzrikka/ownergate/pkg/approval"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	gh := github.NewClient(srv.Client())
	u, err := url.Parse(srv.URL + "/")
	if err != nil {
		t.Fatalf("failed to parse test server URL: %v", err)
	}
	gh.BaseURL = u

	return &Client{gh: gh}
}

func serveFile(w http.ResponseWriter, path, content string) {
	fmt.Fprintf(w, `{"type": "file", "encoding": "base64", "path": %q, "content": %q}`,
		path, base64.StdEncoding.EncodeToString([]byte(content)))
}

func TestCodeOwnersFile(t *testing.T) {
	tests := []struct {
		name     string
		files    map[string]string
		failWith int
		wantPath string
		wantErr  bool
	}{
		{
			name:     "first_candidate",
			files:    map[string]string{".github/CODEOWNERS": "* @alice\n"},
			wantPath: ".github/CODEOWNERS",
		},
		{
			name:     "fallback_to_docs",
			files:    map[string]string{"docs/CODEOWNERS": "* @alice\n"},
			wantPath: "docs/CODEOWNERS",
		},
		{
			name:     "fallback_to_root",
			files:    map[string]string{"CODEOWNERS": "* @alice\n"},
			wantPath: "CODEOWNERS",
		},
		{
			name:    "not_found_anywhere",
			files:   map[string]string{},
			wantErr: true,
		},
		{
			name:     "server_error_aborts_probing",
			files:    map[string]string{"CODEOWNERS": "* @alice\n"},
			failWith: http.StatusInternalServerError,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/repos/org/repo/contents/", func(w http.ResponseWriter, r *http.Request) {
				if tt.failWith != 0 {
					w.WriteHeader(tt.failWith)
					return
				}

				path := r.URL.Path[len("/repos/org/repo/contents/"):]
				content, found := tt.files[path]
				if !found {
					w.WriteHeader(http.StatusNotFound)
					return
				}
				serveFile(w, path, content)
			})

			c := testClient(t, mux)
			path, content, err := c.CodeOwnersFile(t.Context(), "org", "repo", nil)

			if tt.wantErr {
				if err == nil {
					t.Fatal("CodeOwnersFile() error = nil, want an error")
				}
				if tt.failWith == 0 && !errors.Is(err, ErrNoCodeOwners) {
					t.Errorf("CodeOwnersFile() error = %v, want %v", err, ErrNoCodeOwners)
				}
				return
			}

			if err != nil {
				t.Fatalf("CodeOwnersFile() error = %v", err)
			}
			if path != tt.wantPath {
				t.Errorf("CodeOwnersFile() path = %q, want %q", path, tt.wantPath)
			}
			if want := tt.files[tt.wantPath]; content != want {
				t.Errorf("CodeOwnersFile() content = %q, want %q", content, want)
			}
		})
	}
}

func TestChangedFiles(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/org/repo/pulls/7/files", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[{"filename": "src/a.go"}, {"filename": "docs/b.md"}]`)
	})

	c := testClient(t, mux)
	got, err := c.ChangedFiles(t.Context(), "org", "repo", 7)
	if err != nil {
		t.Fatalf("ChangedFiles() error = %v", err)
	}

	want := []string{"src/a.go", "docs/b.md"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ChangedFiles() = %q, want %q", got, want)
	}
}

func review(login, state string) *github.PullRequestReview {
	return &github.PullRequestReview{
		User:  &github.User{Login: github.Ptr(login)},
		State: github.Ptr(state),
	}
}

func TestReduceApprovals(t *testing.T) {
	tests := []struct {
		name    string
		reviews []*github.PullRequestReview
		want    approval.Set
	}{
		{
			name: "no_reviews",
			want: approval.Set{},
		},
		{
			name:    "single_approval",
			reviews: []*github.PullRequestReview{review("alice", "APPROVED")},
			want:    approval.Set{"alice": true},
		},
		{
			name: "comment_does_not_revoke_approval",
			reviews: []*github.PullRequestReview{
				review("alice", "APPROVED"),
				review("alice", "COMMENTED"),
			},
			want: approval.Set{"alice": true},
		},
		{
			name: "changes_requested_revokes_approval",
			reviews: []*github.PullRequestReview{
				review("alice", "APPROVED"),
				review("alice", "CHANGES_REQUESTED"),
			},
			want: approval.Set{},
		},
		{
			name: "dismissal_revokes_approval",
			reviews: []*github.PullRequestReview{
				review("alice", "APPROVED"),
				review("alice", "DISMISSED"),
			},
			want: approval.Set{},
		},
		{
			name: "approval_after_changes_requested",
			reviews: []*github.PullRequestReview{
				review("alice", "CHANGES_REQUESTED"),
				review("alice", "APPROVED"),
			},
			want: approval.Set{"alice": true},
		},
		{
			name: "multiple_reviewers",
			reviews: []*github.PullRequestReview{
				review("alice", "APPROVED"),
				review("bob", "CHANGES_REQUESTED"),
				review("carl", "APPROVED"),
				review("bob", "COMMENTED"),
			},
			want: approval.Set{"alice": true, "carl": true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := reduceApprovals(tt.reviews); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("reduceApprovals() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTeamResolver(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/orgs/org", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"login": "org"}`)
	})
	mux.HandleFunc("/orgs/org/teams/backend/members", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[{"login": "bob"}, {"login": "carl"}]`)
	})
	mux.HandleFunc("/orgs/org/teams/ghosts/members", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	c := testClient(t, mux)
	resolve := c.TeamResolver(t.Context(), "org")
	if resolve == nil {
		t.Fatal("TeamResolver() = nil for an existing organization")
	}

	got, err := resolve(t.Context(), "backend")
	if err != nil {
		t.Fatalf("resolve(backend) error = %v", err)
	}
	if want := []string{"bob", "carl"}; !reflect.DeepEqual(got, want) {
		t.Errorf("resolve(backend) = %q, want %q", got, want)
	}

	if _, err := resolve(t.Context(), "ghosts"); !errors.Is(err, approval.ErrTeamNotFound) {
		t.Errorf("resolve(ghosts) error = %v, want %v", err, approval.ErrTeamNotFound)
	}
}

func TestTeamResolverNonOrgOwner(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/orgs/someuser", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	c := testClient(t, mux)
	if resolve := c.TeamResolver(t.Context(), "someuser"); resolve != nil {
		t.Error("TeamResolver() != nil for a non-organization owner")
	}
}
