package codeforces

import "encoding/json"

// envelope wraps every API response.
type envelope struct {
	Status  string          `json:"status"`
	Comment string          `json:"comment,omitempty"`
	Result  json.RawMessage `json:"result"`
}

const statusOK = "OK"

// userDTO mirrors the User object.
type userDTO struct {
	Handle                  string `json:"handle"`
	FirstName               string `json:"firstName"`
	LastName                string `json:"lastName"`
	Country                 string `json:"country"`
	City                    string `json:"city"`
	Organization            string `json:"organization"`
	Rank                    string `json:"rank"`
	MaxRank                 string `json:"maxRank"`
	Rating                  *int   `json:"rating"`
	MaxRating               *int   `json:"maxRating"`
	Contribution            int    `json:"contribution"`
	FriendOfCount           int    `json:"friendOfCount"`
	Avatar                  string `json:"avatar"`
	TitlePhoto              string `json:"titlePhoto"`
	LastOnlineTimeSeconds   int64  `json:"lastOnlineTimeSeconds"`
	RegistrationTimeSeconds int64  `json:"registrationTimeSeconds"`
}

// problemDTO mirrors the Problem object.
type problemDTO struct {
	ContestID *int     `json:"contestId"`
	Index     string   `json:"index"`
	Name      string   `json:"name"`
	Rating    *int     `json:"rating"`
	Tags      []string `json:"tags"`
}

// submissionDTO mirrors the Submission object.
type submissionDTO struct {
	ID                  int64       `json:"id"`
	CreationTimeSeconds int64       `json:"creationTimeSeconds"`
	Problem             *problemDTO `json:"problem"`
	Verdict             string      `json:"verdict"`
}

// problemsetDTO is the result of problemset.problems.
type problemsetDTO struct {
	Problems []json.RawMessage `json:"problems"`
}
