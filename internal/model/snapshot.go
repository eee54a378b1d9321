package model

import "time"

// UserRecord is the subset of a profile-data user record the enricher reads.
type UserRecord struct {
	Login       string    `json:"login"`
	Name        string    `json:"name,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	Location    string    `json:"location,omitempty"`
	Email       string    `json:"email,omitempty"`
	Blog        string    `json:"blog,omitempty"`
	Hireable    bool      `json:"hireable"`
	Followers   int       `json:"followers"`
	PublicRepos int       `json:"publicRepos"`
	CreatedAt   time.Time `json:"createdAt"`
}

// RepoRecord is the subset of a repository record the enricher reads.
type RepoRecord struct {
	Name      string    `json:"name"`
	Fork      bool      `json:"fork"`
	Stars     int       `json:"stars"`
	Size      int       `json:"size"`
	Language  string    `json:"language,omitempty"`
	Topics    []string  `json:"topics,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
	PushedAt  time.Time `json:"pushedAt"`
}

// EventRecord is one public activity event.
type EventRecord struct {
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProfileSnapshot bundles the raw records fetched for one identifier.
type ProfileSnapshot struct {
	User      UserRecord    `json:"user"`
	Repos     []RepoRecord  `json:"repos"`
	Events    []EventRecord `json:"events"`
	FetchedAt time.Time     `json:"fetchedAt"`
}
