package scoring

import (
	"context"
	"fmt"

	"github.com/okian/gutscore/internal/domain/model"
)

// Input is one user's period snapshot.
type Input struct {
	UserID  string
	Records []model.BowelRecord
}

// Result contains the computed score for a user.
type Result struct {
	UserID         string
	Score          float64
	Breakdown      Breakdown
	Classification Classification
}

// Scorer computes a score from an input.
type Scorer interface {
	// Score computes a score, honoring ctx for cancellation.
	Score(ctx context.Context, in Input) (Result, error)
}

// Evaluator is the Scorer backed by Analyze. It is stateless and safe for
// concurrent use.
type Evaluator struct{}

// NewEvaluator creates an Evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Score evaluates the input unless ctx is already done.
func (e *Evaluator) Score(ctx context.Context, in Input) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("context cancelled: %w", err)
	}
	b := Analyze(in.Records)
	return Result{
		UserID:         in.UserID,
		Score:          b.Score,
		Breakdown:      b,
		Classification: Classify(b.Score),
	}, nil
}
