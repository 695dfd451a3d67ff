package scoring

import (
	"context"

	"jobscout/pkg/models"
)

// Scorer computes how well one listing matches a candidate profile. The
// result percentage is always within 0-100 and the reason is a short
// human-readable sentence.
type Scorer interface {
	ScoreListing(ctx context.Context, listing models.Listing, profile models.CandidateProfile) (*models.MatchResult, error)
	Name() string
}
