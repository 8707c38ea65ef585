// Package quiz scores quiz submissions against a fixed answer key.
package quiz

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/ashureev/mechanics-site/internal/domain"
)

// PassPercent is the lowest percentage presented as a good result.
const PassPercent = 60

// Class is the presentation classification of a result.
type Class string

const (
	ClassGood Class = "good"
	ClassBad  Class = "bad"
)

// Answers maps form field names to submitted values. Multi-select
// fields carry one entry per checked box.
type Answers map[string][]string

// first returns the first submitted value for name, or "".
func (a Answers) first(name string) string {
	if vs := a[name]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// Result is the aggregate score of one submission.
type Result struct {
	Score   int `json:"score"`
	Total   int `json:"total"`
	Percent int `json:"percent"`
}

// Class classifies the result for display.
func (r Result) Class() Class {
	if r.Percent >= PassPercent {
		return ClassGood
	}
	return ClassBad
}

// Summary is the line shown to the student after grading.
func (r Result) Summary() string {
	return fmt.Sprintf("You scored %d/%d (%d%%).", r.Score, r.Total, r.Percent)
}

// Grader scores submissions against an answer key.
type Grader struct {
	key []domain.Question
}

// NewGrader creates a grader for key. Accepted multi-select sets are
// stored sorted so comparisons are order independent.
func NewGrader(key []domain.Question) *Grader {
	cp := make([]domain.Question, len(key))
	for i, q := range key {
		accept := slices.Clone(q.Accept)
		if q.Kind == domain.KindMulti {
			slices.Sort(accept)
		}
		cp[i] = domain.Question{Name: q.Name, Kind: q.Kind, Accept: accept}
	}
	return &Grader{key: cp}
}

// Grade scores answers. Missing fields score zero.
func (g *Grader) Grade(answers Answers) Result {
	r := Result{Total: len(g.key)}
	for _, q := range g.key {
		if correct(q, answers) {
			r.Score++
		}
	}
	if r.Total > 0 {
		r.Percent = int(math.Round(float64(r.Score) / float64(r.Total) * 100))
	}
	return r
}

func correct(q domain.Question, answers Answers) bool {
	switch q.Kind {
	case domain.KindChoice:
		v := answers.first(q.Name)
		return v != "" && v == q.Accept[0]
	case domain.KindText:
		v := strings.TrimSpace(answers.first(q.Name))
		return v != "" && slices.Contains(q.Accept, v)
	case domain.KindMulti:
		picked := slices.Clone(answers[q.Name])
		slices.Sort(picked)
		return slices.Equal(picked, q.Accept)
	default:
		return false
	}
}
