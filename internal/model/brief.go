// Package model defines the data types shared across the sonar pipeline.
package model

import "time"

// Brief is a saved search describing the developer a recruiter is looking for.
type Brief struct {
	ID                string     `json:"id" yaml:"id"`
	OwnerID           string     `json:"ownerId" yaml:"owner_id"`
	Description       string     `json:"description" yaml:"description"`
	RequiredSkills    []string   `json:"requiredSkills" yaml:"required_skills"`
	PreferredLocation string     `json:"preferredLocation,omitempty" yaml:"preferred_location,omitempty"`
	ProjectType       string     `json:"projectType,omitempty" yaml:"project_type,omitempty"`
	SearchFrequency   string     `json:"searchFrequency,omitempty" yaml:"search_frequency,omitempty"`
	LastSearchAt      *time.Time `json:"lastSearchAt,omitempty" yaml:"last_search_at,omitempty"`
	IsActive          bool       `json:"isActive" yaml:"is_active"`
	CreatedAt         time.Time  `json:"createdAt" yaml:"created_at,omitempty"`
}
