// Package planner turns a brief into the ordered web queries used for
// candidate discovery.
package planner

import (
	"strings"
	"unicode/utf8"

	"github.com/spiffcs/sonar/internal/constants"
	"github.com/spiffcs/sonar/internal/model"
)

// Query is one planned search. Domain restricts results to a single site.
type Query struct {
	Text   string
	Domain string
}

// Planner builds queries for a fixed target domain.
type Planner struct {
	Domain string
}

// New creates a planner targeting domain.
func New(domain string) *Planner {
	return &Planner{Domain: domain}
}

// Plan returns at most three queries, broad to narrow:
// description, skills (+ location), project type + location.
// Queries whose inputs are missing are omitted.
func (p *Planner) Plan(b model.Brief) []Query {
	var queries []Query

	if desc := strings.TrimSpace(b.Description); desc != "" {
		queries = append(queries, p.query(truncate(desc, constants.DescriptionQueryMaxChars)))
	}

	skills := nonEmpty(b.RequiredSkills)
	location := strings.TrimSpace(b.PreferredLocation)
	projectType := strings.TrimSpace(b.ProjectType)

	if len(skills) > 0 {
		top := skills[:min(len(skills), constants.SkillQueryMaxSkills)]
		parts := append([]string{}, top...)
		parts = append(parts, "developer")
		if location != "" {
			parts = append(parts, location)
		}
		queries = append(queries, p.query(strings.Join(parts, " ")))
	}

	if location != "" && projectType != "" {
		queries = append(queries, p.query(projectType+" developer "+location))
	}

	return queries
}

func (p *Planner) query(text string) Query {
	return Query{Text: text, Domain: p.Domain}
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
