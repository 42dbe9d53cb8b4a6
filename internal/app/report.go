package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/gutscore/internal/adapters/repository"
	"github.com/okian/gutscore/internal/domain/body"
	"github.com/okian/gutscore/internal/domain/period"
	"github.com/okian/gutscore/internal/domain/scoring"
	"github.com/okian/gutscore/internal/domain/symptoms"
	"github.com/okian/gutscore/pkg/logger"
	"github.com/okian/gutscore/pkg/metrics"
)

// Report is everything known about one user over one period.
type Report struct {
	UserID   string
	Period   period.Period
	AsOf     time.Time
	Result   scoring.Result
	Age      *int
	Body     *body.Assessment
	Symptoms []symptoms.Summary
	// Notes explains parts left out of the report, such as a missing profile.
	Notes []string
}

// Report evaluates userID over p and assembles the full report.
func (s *Service) Report(ctx context.Context, userID string, p period.Period, asOf time.Time) (Report, error) {
	res, err := s.Evaluate(ctx, userID, p)
	if err != nil {
		return Report{}, err
	}
	return s.ReportFor(ctx, res, p, asOf)
}

// ReportFor assembles the report around an existing result, such as one
// returned by Await. BMI uses the latest weigh-in within p and the profile
// height; age is computed as of asOf.
func (s *Service) ReportFor(ctx context.Context, res scoring.Result, p period.Period, asOf time.Time) (Report, error) {
	r := Report{UserID: res.UserID, Period: p, AsOf: asOf, Result: res}

	profile, err := s.store.Profile(ctx, res.UserID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		r.Notes = append(r.Notes, "no profile: age and BMI omitted")
	case err != nil:
		return Report{}, fmt.Errorf("load profile of %s: %w", res.UserID, err)
	default:
		s.addAge(ctx, &r, profile.BirthDate)
		if err := s.addBody(ctx, &r, profile.HeightCm); err != nil {
			return Report{}, err
		}
	}

	recs, err := s.store.SymptomRecords(ctx, res.UserID, p)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return Report{}, fmt.Errorf("load symptoms of %s: %w", res.UserID, err)
	}
	r.Symptoms = symptoms.ByDisease(recs)
	return r, nil
}

func (s *Service) addAge(ctx context.Context, r *Report, birth time.Time) {
	age, err := body.AgeYears(birth, r.AsOf)
	if err != nil {
		metrics.RecordInvalidInput("age")
		s.logger.Warn(ctx, "age not computed", logger.String("user_id", r.UserID), logger.Error(err))
		r.Notes = append(r.Notes, "age omitted: "+err.Error())
		return
	}
	r.Age = &age
}

func (s *Service) addBody(ctx context.Context, r *Report, heightCm float64) error {
	weights, err := s.store.WeightRecords(ctx, r.UserID, r.Period)
	if err != nil {
		return fmt.Errorf("load weights of %s: %w", r.UserID, err)
	}
	if len(weights) == 0 {
		r.Notes = append(r.Notes, "no weigh-in in period: BMI omitted")
		return nil
	}

	latest := weights[len(weights)-1]
	a, err := body.Assess(latest.WeightKg, heightCm)
	if err != nil {
		metrics.RecordInvalidInput("bmi")
		s.logger.Warn(ctx, "BMI not computed", logger.String("user_id", r.UserID), logger.Error(err))
		r.Notes = append(r.Notes, "BMI omitted: "+err.Error())
		return nil
	}
	r.Body = &a
	return nil
}
