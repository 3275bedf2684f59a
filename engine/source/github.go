package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/compozy/standup-digest/engine/core"
	"github.com/google/go-github/v74/github"
	"golang.org/x/oauth2"
)

// GitHubSource reads issue activity for one repository, paging through every
// issue updated inside the query window. Pull requests are excluded: the
// GitHub issues API interleaves them, and review traffic drowns out the
// status signal.
type GitHubSource struct {
	client *github.Client
	owner  string
	repo   string
}

// NewGitHubSource creates a source authenticated with a static token. An
// empty token yields an unauthenticated client, which is enough for public
// repositories.
func NewGitHubSource(ctx context.Context, token, owner, repo string) *GitHubSource {
	var client *github.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		client = github.NewClient(oauth2.NewClient(ctx, ts))
	} else {
		client = github.NewClient(nil)
	}
	return &GitHubSource{client: client, owner: owner, repo: repo}
}

// NewGitHubSourceWithClient is used by tests to inject a client pointed at a
// fake server.
func NewGitHubSourceWithClient(client *github.Client, owner, repo string) *GitHubSource {
	return &GitHubSource{client: client, owner: owner, repo: repo}
}

// Name implements Source
func (g *GitHubSource) Name() string {
	return "github"
}

// Fetch returns one document describing the repository's issue activity in
// the window, tagged with the repository and date range.
func (g *GitHubSource) Fetch(ctx context.Context, q Query) ([]core.Document, error) {
	opts := &github.IssueListByRepoOptions{
		State:       "all",
		Since:       q.From,
		Sort:        "updated",
		Direction:   "asc",
		ListOptions: github.ListOptions{PerPage: 100},
	}
	var issues []*github.Issue
	for {
		page, resp, err := g.client.Issues.ListByRepo(ctx, g.owner, g.repo, opts)
		if err != nil {
			return nil, fmt.Errorf("github issue listing failed for %s/%s: %w", g.owner, g.repo, err)
		}
		issues = append(issues, page...)
		if resp.NextPage == 0 {
			break
		}
		opts.ListOptions.Page = resp.NextPage
	}

	content := renderIssues(issues, q)
	if content == "" {
		return nil, nil
	}
	doc := core.NewDocument(content, map[string]string{
		"source": "github",
		"repo":   g.owner + "/" + g.repo,
		"from":   q.From.Format("2006-01-02"),
		"to":     q.To.Format("2006-01-02"),
	})
	return []core.Document{doc}, nil
}

const maxIssueBodyLength = 500

// renderIssues formats issues updated inside the window as one line block
// each, skipping pull requests.
func renderIssues(issues []*github.Issue, q Query) string {
	var b strings.Builder
	for _, issue := range issues {
		if issue.IsPullRequest() {
			continue
		}
		updated := issue.GetUpdatedAt().Time
		if updated.Before(q.From) || updated.After(q.To) {
			continue
		}
		fmt.Fprintf(&b, "#%d [%s] %s", issue.GetNumber(), issue.GetState(), issue.GetTitle())
		if assignee := issue.GetAssignee().GetLogin(); assignee != "" {
			fmt.Fprintf(&b, " (assignee: %s)", assignee)
		}
		b.WriteString("\n")
		if body := strings.TrimSpace(issue.GetBody()); body != "" {
			if len(body) > maxIssueBodyLength {
				body = body[:maxIssueBodyLength] + "…"
			}
			b.WriteString(body)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}
