// Package profile enriches a candidate identifier into a CandidateProfile.
package profile

import (
	"context"

	"github.com/spiffcs/sonar/internal/ghclient"
	"github.com/spiffcs/sonar/internal/model"
)

// Source is the read-only profile-data collaborator.
type Source interface {
	GetUser(ctx context.Context, username string) (*model.UserRecord, error)
	ListRepos(ctx context.Context, username string) ([]model.RepoRecord, error)
	ListEvents(ctx context.Context, username string) ([]model.EventRecord, error)
}

// Ensure the GitHub client implements Source.
var _ Source = (*ghclient.Client)(nil)
