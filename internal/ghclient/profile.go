package ghclient

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v57/github"

	"github.com/spiffcs/sonar/internal/constants"
	"github.com/spiffcs/sonar/internal/model"
)

// GetUser fetches the public profile for username.
func (c *Client) GetUser(ctx context.Context, username string) (*model.UserRecord, error) {
	u, _, err := c.client.Users.Get(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", username, err)
	}
	return &model.UserRecord{
		Login:       u.GetLogin(),
		Name:        u.GetName(),
		Bio:         u.GetBio(),
		Location:    u.GetLocation(),
		Email:       u.GetEmail(),
		Blog:        u.GetBlog(),
		Hireable:    u.GetHireable(),
		Followers:   u.GetFollowers(),
		PublicRepos: u.GetPublicRepos(),
		CreatedAt:   u.GetCreatedAt().Time,
	}, nil
}

// ListRepos fetches up to 100 public repositories, most recently pushed first.
func (c *Client) ListRepos(ctx context.Context, username string) ([]model.RepoRecord, error) {
	opts := &gh.RepositoryListOptions{
		Type:        "owner",
		Sort:        "pushed",
		Direction:   "desc",
		ListOptions: gh.ListOptions{PerPage: constants.RepoFetchLimit},
	}
	repos, _, err := c.client.Repositories.List(ctx, username, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list repos for %s: %w", username, err)
	}

	out := make([]model.RepoRecord, 0, len(repos))
	for _, r := range repos {
		out = append(out, model.RepoRecord{
			Name:      r.GetName(),
			Fork:      r.GetFork(),
			Stars:     r.GetStargazersCount(),
			Size:      r.GetSize(),
			Language:  r.GetLanguage(),
			Topics:    r.Topics,
			UpdatedAt: r.GetUpdatedAt().Time,
			PushedAt:  r.GetPushedAt().Time,
		})
	}
	return out, nil
}

// ListEvents fetches up to 100 recent public events performed by username.
func (c *Client) ListEvents(ctx context.Context, username string) ([]model.EventRecord, error) {
	opts := &gh.ListOptions{PerPage: constants.EventFetchLimit}
	events, _, err := c.client.Activity.ListEventsPerformedByUser(ctx, username, true, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list events for %s: %w", username, err)
	}

	out := make([]model.EventRecord, 0, len(events))
	for _, e := range events {
		out = append(out, model.EventRecord{
			Type:      e.GetType(),
			CreatedAt: e.GetCreatedAt().Time,
		})
	}
	return out, nil
}
