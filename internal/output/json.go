package output

import (
	"encoding/json"
	"io"

	"github.com/spiffcs/sonar/internal/model"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	Pretty bool
}

// CandidatesOutput wraps a run's candidates with its summary.
type CandidatesOutput struct {
	Summary    RunSummary              `json:"summary"`
	Candidates []model.ScoredCandidate `json:"candidates"`
}

// FormatCandidates implements Formatter.
func (f *JSONFormatter) FormatCandidates(candidates []model.ScoredCandidate, summary RunSummary, w io.Writer) error {
	if candidates == nil {
		candidates = []model.ScoredCandidate{}
	}
	return f.encode(w, CandidatesOutput{Summary: summary, Candidates: candidates})
}

// FormatResults implements Formatter.
func (f *JSONFormatter) FormatResults(results []model.SonarResult, w io.Writer) error {
	if results == nil {
		results = []model.SonarResult{}
	}
	return f.encode(w, results)
}

func (f *JSONFormatter) encode(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	if f.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}
