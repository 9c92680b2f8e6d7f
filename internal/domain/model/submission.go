// Package model contains domain models passed between layers.
package model

import (
	"strconv"
	"strings"
	"time"
)

// Verdict is the judge outcome of a submission.
type Verdict string

// VerdictOK is the only accepting verdict.
const VerdictOK Verdict = "OK"

// unknownPart substitutes a missing contest or index in a ProblemKey.
const unknownPart = "unknown"

// Accepted reports whether the verdict counts as a solve.
func (v Verdict) Accepted() bool { return v == VerdictOK }

// Problem describes the problem a submission targets. Optional upstream
// fields are pointers so absence stays distinguishable from zero.
type Problem struct {
	ContestID *int
	Index     string
	Name      string
	Rating    *int
	Tags      []string
}

// Submission is a single judged attempt.
type Submission struct {
	ID        int64
	Problem   *Problem // nil marks a malformed record
	Verdict   Verdict
	CreatedAt time.Time
}

// ProblemKey identifies a problem across submissions.
type ProblemKey struct {
	Contest string
	Index   string
}

func (k ProblemKey) String() string { return k.Contest + "_" + k.Index }

// Key derives the grouping key; missing parts become "unknown".
func (s Submission) Key() ProblemKey {
	k := ProblemKey{Contest: unknownPart, Index: unknownPart}
	if s.Problem == nil {
		return k
	}
	if s.Problem.ContestID != nil {
		k.Contest = strconv.Itoa(*s.Problem.ContestID)
	}
	if s.Problem.Index != "" {
		k.Index = s.Problem.Index
	}
	return k
}

// Malformed reports whether the record lacks the fields aggregation needs.
func (s Submission) Malformed() bool { return s.Problem == nil }

// Profile is the platform user profile, passed through to the report.
type Profile struct {
	Handle                  string `json:"handle"`
	FirstName               string `json:"firstName,omitempty"`
	LastName                string `json:"lastName,omitempty"`
	Country                 string `json:"country,omitempty"`
	City                    string `json:"city,omitempty"`
	Organization            string `json:"organization,omitempty"`
	Rank                    string `json:"rank,omitempty"`
	MaxRank                 string `json:"maxRank,omitempty"`
	Rating                  *int   `json:"rating,omitempty"`
	MaxRating               *int   `json:"maxRating,omitempty"`
	Contribution            int    `json:"contribution"`
	FriendOfCount           int    `json:"friendOfCount"`
	Avatar                  string `json:"avatar,omitempty"`
	TitlePhoto              string `json:"titlePhoto,omitempty"`
	LastOnlineTimeSeconds   int64  `json:"lastOnlineTimeSeconds,omitempty"`
	RegistrationTimeSeconds int64  `json:"registrationTimeSeconds,omitempty"`
}

// CurrentRating returns the rating, or 0 for unrated accounts.
func (p Profile) CurrentRating() int {
	if p.Rating == nil {
		return 0
	}
	return *p.Rating
}

// UserData is everything the submission source returns for one handle.
type UserData struct {
	Profile     Profile
	Submissions []Submission
}

// CatalogProblem is a practice problem offered by the problem catalog.
type CatalogProblem struct {
	Name        string   `json:"name"`
	Rating      int      `json:"rating"`
	ReferenceID string   `json:"reference_id"` // "<contest>/<index>"
	Tags        []string `json:"tags,omitempty"`
}

// HasTag reports whether the problem is tagged with topic, ignoring case.
func (p CatalogProblem) HasTag(topic string) bool {
	topic = strings.TrimSpace(topic)
	for _, t := range p.Tags {
		if strings.EqualFold(strings.TrimSpace(t), topic) {
			return true
		}
	}
	return false
}
