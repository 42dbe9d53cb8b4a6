// Package repository holds the per-user health records and evaluation
// results the engine reads and writes.
package repository

import (
	"context"

	"github.com/okian/gutscore/internal/domain/model"
	"github.com/okian/gutscore/internal/domain/period"
)

// Store provides read/write access to user records.
type Store interface {
	// PutBowel appends a bowel record. Several records may share a day.
	PutBowel(ctx context.Context, r model.BowelRecord) error
	// PutWeight stores a weigh-in, replacing one on the same day.
	PutWeight(ctx context.Context, r model.WeightRecord) error
	// PutSymptom appends a symptom record.
	PutSymptom(ctx context.Context, r model.SymptomRecord) error
	// PutProfile creates or replaces the user's profile.
	PutProfile(ctx context.Context, p model.Profile) error

	// BowelRecords returns the user's bowel records within p, ordered by date.
	BowelRecords(ctx context.Context, userID string, p period.Period) ([]model.BowelRecord, error)
	// WeightRecords returns the user's weigh-ins within p, ordered by date.
	WeightRecords(ctx context.Context, userID string, p period.Period) ([]model.WeightRecord, error)
	// SymptomRecords returns the user's symptom records within p, ordered by date.
	SymptomRecords(ctx context.Context, userID string, p period.Period) ([]model.SymptomRecord, error)
	// Profile returns ErrNotFound for unknown users or users without a profile.
	Profile(ctx context.Context, userID string) (model.Profile, error)

	// Users returns every known user ID in ascending order.
	Users(ctx context.Context) []string
	// Count returns the number of stored records of all kinds.
	Count(ctx context.Context) int
}
