package questions

import (
	"context"
	"errors"
	"fmt"

	"intelliview-api/internal/resumes"
	"intelliview-api/internal/users"
)

// ResumeGetter loads a résumé record regardless of owner.
type ResumeGetter interface {
	Get(ctx context.Context, id string) (resumes.Resume, error)
}

// OwnerGetter loads the account that owns a résumé.
type OwnerGetter interface {
	GetByID(ctx context.Context, id string) (users.User, error)
}

// RepoFinder joins a résumé with its owner's display name and email.
type RepoFinder struct {
	Resumes ResumeGetter
	Users   OwnerGetter
}

func (f RepoFinder) FindByID(ctx context.Context, resumeID string) (ResumeRecord, error) {
	rec, err := f.Resumes.Get(ctx, resumeID)
	if err != nil {
		if errors.Is(err, resumes.ErrNotFound) {
			return ResumeRecord{}, ErrNotFound
		}
		return ResumeRecord{}, fmt.Errorf("load resume: %w", err)
	}
	out := ResumeRecord{
		ID:       rec.ID,
		UserID:   rec.UserID,
		RawText:  rec.RawText,
		Skills:   rec.Skills,
		Sections: rec.Sections(),
	}
	owner, err := f.Users.GetByID(ctx, rec.UserID)
	switch {
	case err == nil:
		out.OwnerName = owner.Name
		out.OwnerEmail = owner.Email
	case !errors.Is(err, users.ErrNotFound):
		return ResumeRecord{}, fmt.Errorf("load resume owner: %w", err)
	}
	return out, nil
}

var _ ResumeFinder = RepoFinder{}
