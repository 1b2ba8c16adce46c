package questionbank

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// JobRoles are the roles offered to candidates.
var JobRoles = []string{
	"Software Engineer",
	"Software Development Engineer",
	"Frontend Developer",
	"Backend Developer",
	"Full Stack Developer",
	"DevOps Engineer",
	"Data Scientist",
	"Machine Learning Engineer",
	"Product Manager",
	"Data Analyst",
	"QA Engineer",
	"Mobile Developer",
	"Cloud Architect",
	"Security Engineer",
}

// Companies are the companies covered by the bundled question bank.
var Companies = []string{
	"Google",
	"Amazon",
	"Microsoft",
	"Meta",
	"Apple",
	"Netflix",
	"Stripe",
	"Uber",
}

// SeedQuestions returns a copy of the bundled questions with stable ids, so
// seeding twice overwrites rather than duplicates.
func SeedQuestions() []ReferenceQuestion {
	out := make([]ReferenceQuestion, len(seedQuestions))
	for i, q := range seedQuestions {
		q.ExpectedKeywords = append([]string(nil), q.ExpectedKeywords...)
		q.ID = seedID(q)
		out[i] = q
	}
	return out
}

// Seed indexes the bundled question bank and returns the number of questions written.
func Seed(ctx context.Context, b *Bank) (int, error) {
	ids, err := b.UpsertBatch(ctx, SeedQuestions())
	return len(ids), err
}

func seedID(q ReferenceQuestion) string {
	name := strings.ToLower(q.Company + "|" + q.Role + "|" + q.Question)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}
