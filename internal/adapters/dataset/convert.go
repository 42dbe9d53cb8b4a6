package dataset

import (
	"fmt"
	"time"

	"github.com/okian/gutscore/internal/domain/model"
)

// Batch is a dataset converted to domain records.
type Batch struct {
	Profiles []model.Profile
	Bowel    []model.BowelRecord
	Weights  []model.WeightRecord
	Symptoms []model.SymptomRecord

	// Warnings lists values that were kept but fall outside their enum.
	// Such values contribute nothing to a score.
	Warnings []string
}

// Len returns the number of records in b, profiles excluded.
func (b *Batch) Len() int {
	return len(b.Bowel) + len(b.Weights) + len(b.Symptoms)
}

// Convert turns d into domain records, reading dates in loc. Missing IDs,
// unparsable dates and bowel records without has_movement fail with
// ErrMalformed.
func (d *Dataset) Convert(loc *time.Location) (*Batch, error) {
	if loc == nil {
		loc = time.UTC
	}
	c := converter{loc: loc, batch: &Batch{}}

	for i := range d.Users {
		u := &d.Users[i]
		if u.ID == "" {
			return nil, fmt.Errorf("%w: user #%d has no id", ErrMalformed, i+1)
		}
		if err := c.user(u); err != nil {
			return nil, fmt.Errorf("user %s: %w", u.ID, err)
		}
	}
	return c.batch, nil
}

type converter struct {
	loc   *time.Location
	batch *Batch
}

func (c *converter) warnf(format string, args ...any) {
	c.batch.Warnings = append(c.batch.Warnings, fmt.Sprintf(format, args...))
}

func (c *converter) date(s string) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, s, c.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrMalformed, s)
	}
	return t, nil
}

func (c *converter) user(u *User) error {
	if p := u.Profile; p != nil {
		birth, err := c.date(p.BirthDate)
		if err != nil {
			return fmt.Errorf("profile: %w", err)
		}
		g := model.Gender(p.Gender)
		if g != "" && g != model.GenderMale && g != model.GenderFemale {
			c.warnf("user %s: unknown gender %q", u.ID, p.Gender)
		}
		c.batch.Profiles = append(c.batch.Profiles, model.Profile{
			UserID:    u.ID,
			BirthDate: birth,
			Gender:    g,
			HeightCm:  p.HeightCm,
		})
	}

	for i := range u.Bowel {
		r, err := c.bowel(u.ID, &u.Bowel[i])
		if err != nil {
			return fmt.Errorf("bowel record #%d: %w", i+1, err)
		}
		c.batch.Bowel = append(c.batch.Bowel, r)
	}

	for i, w := range u.Weights {
		date, err := c.date(w.Date)
		if err != nil {
			return fmt.Errorf("weight #%d: %w", i+1, err)
		}
		c.batch.Weights = append(c.batch.Weights, model.WeightRecord{UserID: u.ID, Date: date, WeightKg: w.WeightKg})
	}

	for i := range u.Symptoms {
		r, err := c.symptom(u.ID, &u.Symptoms[i])
		if err != nil {
			return fmt.Errorf("symptom #%d: %w", i+1, err)
		}
		c.batch.Symptoms = append(c.batch.Symptoms, r)
	}
	return nil
}

func (c *converter) bowel(userID string, b *Bowel) (model.BowelRecord, error) {
	if b.ID == "" {
		return model.BowelRecord{}, fmt.Errorf("%w: missing id", ErrMalformed)
	}
	if b.HasMovement == nil {
		return model.BowelRecord{}, fmt.Errorf("%w: %s: missing has_movement", ErrMalformed, b.ID)
	}
	date, err := c.date(b.Date)
	if err != nil {
		return model.BowelRecord{}, err
	}

	bloating := model.BloatingNone
	if b.Bloating != "" {
		bloating = model.Bloating(b.Bloating)
		if !bloating.Valid() {
			c.warnf("record %s: unknown bloating %q", b.ID, b.Bloating)
		}
	}

	if !*b.HasMovement {
		return model.NoMovement(b.ID, userID, date, bloating), nil
	}

	var details []model.Detail
	if b.StoolForm != nil {
		if *b.StoolForm < 1 || *b.StoolForm > 7 {
			c.warnf("record %s: stool form %d outside 1..7", b.ID, *b.StoolForm)
		}
		details = append(details, model.WithStoolForm(*b.StoolForm))
	}
	if b.Color != "" {
		color := model.StoolColor(b.Color)
		if !color.Valid() {
			c.warnf("record %s: unknown color %q", b.ID, b.Color)
		}
		details = append(details, model.WithColor(color))
	}
	if b.Duration != "" {
		band, err := model.ParseDurationBand(b.Duration)
		if err != nil {
			c.warnf("record %s: unknown duration %q", b.ID, b.Duration)
			band = model.DurationBand(b.Duration)
		}
		details = append(details, model.WithDuration(band))
	}
	if b.Difficulty != "" {
		d := model.Difficulty(b.Difficulty)
		if !d.Valid() {
			c.warnf("record %s: unknown difficulty %q", b.ID, b.Difficulty)
		}
		details = append(details, model.WithDifficulty(d))
	}
	if b.Residual != "" {
		f := model.ResidualFeeling(b.Residual)
		if !f.Valid() {
			c.warnf("record %s: unknown residual feeling %q", b.ID, b.Residual)
		}
		details = append(details, model.WithResidual(f))
	}
	if b.Amount != "" {
		a := model.Amount(b.Amount)
		if !a.Valid() {
			c.warnf("record %s: unknown amount %q", b.ID, b.Amount)
		}
		details = append(details, model.WithAmount(a))
	}
	return model.Movement(b.ID, userID, date, bloating, details...), nil
}

func (c *converter) symptom(userID string, s *Symptom) (model.SymptomRecord, error) {
	if s.ID == "" {
		return model.SymptomRecord{}, fmt.Errorf("%w: missing id", ErrMalformed)
	}
	date, err := c.date(s.Date)
	if err != nil {
		return model.SymptomRecord{}, err
	}
	if s.Intensity < 1 || s.Intensity > 10 {
		c.warnf("symptom %s: intensity %d outside 1..10", s.ID, s.Intensity)
	}

	r := model.SymptomRecord{
		ID:             s.ID,
		UserID:         userID,
		Date:           date,
		DiseaseID:      s.DiseaseID,
		DiseaseName:    s.DiseaseName,
		Intensity:      s.Intensity,
		TookMedication: s.TookMedication,
		Description:    s.Description,
	}
	if s.OccurredAt != "" {
		at, err := time.Parse(time.RFC3339, s.OccurredAt)
		if err != nil {
			return model.SymptomRecord{}, fmt.Errorf("%w: %s: occurred_at %q", ErrMalformed, s.ID, s.OccurredAt)
		}
		r.OccurredAt = &at
	}
	return r, nil
}
