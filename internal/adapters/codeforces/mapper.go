package codeforces

import (
	"fmt"
	"strings"
	"time"

	"github.com/okian/cfcoach/internal/domain/model"
)

func toProfile(u userDTO) model.Profile {
	return model.Profile{
		Handle:                  u.Handle,
		FirstName:               u.FirstName,
		LastName:                u.LastName,
		Country:                 u.Country,
		City:                    u.City,
		Organization:            u.Organization,
		Rank:                    u.Rank,
		MaxRank:                 u.MaxRank,
		Rating:                  u.Rating,
		MaxRating:               u.MaxRating,
		Contribution:            u.Contribution,
		FriendOfCount:           u.FriendOfCount,
		Avatar:                  u.Avatar,
		TitlePhoto:              u.TitlePhoto,
		LastOnlineTimeSeconds:   u.LastOnlineTimeSeconds,
		RegistrationTimeSeconds: u.RegistrationTimeSeconds,
	}
}

func toProblem(p *problemDTO) *model.Problem {
	if p == nil {
		return nil
	}
	tags := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return &model.Problem{
		ContestID: p.ContestID,
		Index:     p.Index,
		Name:      p.Name,
		Rating:    p.Rating,
		Tags:      tags,
	}
}

func toSubmission(s submissionDTO) model.Submission {
	out := model.Submission{
		ID:      s.ID,
		Problem: toProblem(s.Problem),
		Verdict: model.Verdict(s.Verdict),
	}
	if s.CreationTimeSeconds > 0 {
		out.CreatedAt = time.Unix(s.CreationTimeSeconds, 0).UTC()
	}
	return out
}

// toCatalogProblem maps a catalog entry; ok is false for unrated or
// unaddressable problems.
func toCatalogProblem(p problemDTO) (model.CatalogProblem, bool) {
	if p.Rating == nil || p.ContestID == nil || p.Index == "" {
		return model.CatalogProblem{}, false
	}
	return model.CatalogProblem{
		Name:        p.Name,
		Rating:      *p.Rating,
		ReferenceID: fmt.Sprintf("%d/%s", *p.ContestID, p.Index),
		Tags:        p.Tags,
	}, true
}
