// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Bloating is the self-reported abdominal distension of a day.
type Bloating string

const (
	BloatingNone      Bloating = "none"
	BloatingSometimes Bloating = "sometimes"
	BloatingYes       Bloating = "yes"
)

// StoolColor is the observed stool color.
type StoolColor string

const (
	ColorYellow StoolColor = "yellow"
	ColorBrown  StoolColor = "brown"
	ColorGreen  StoolColor = "green"
	ColorBlack  StoolColor = "black"
	ColorRed    StoolColor = "red"
	ColorWhite  StoolColor = "white"
)

// DurationBand is how long a movement took.
type DurationBand string

const (
	Duration1To3 DurationBand = "1-3min"
	Duration3To5 DurationBand = "3-5min"
	Duration5Up  DurationBand = "5+min"
)

// Difficulty is how much straining a movement needed.
type Difficulty string

const (
	DifficultyEasy     Difficulty = "easy"
	DifficultyLittle   Difficulty = "little"
	DifficultyHard     Difficulty = "hard"
	DifficultyVeryHard Difficulty = "veryHard"
)

// ResidualFeeling is the sensation of incomplete evacuation.
type ResidualFeeling string

const (
	ResidualNone   ResidualFeeling = "none"
	ResidualLittle ResidualFeeling = "little"
	ResidualMuch   ResidualFeeling = "much"
)

// Amount is the descriptive stool volume. It does not affect scoring.
type Amount string

const (
	AmountSmall      Amount = "small"
	AmountLittleMore Amount = "littleMore"
	AmountNormal     Amount = "normal"
	AmountMuch       Amount = "much"
	AmountVeryMuch   Amount = "veryMuch"
)

// ParseDurationBand accepts both the canonical ("1-3min") and the short
// ("1-3") spellings.
func ParseDurationBand(s string) (DurationBand, error) {
	switch v := strings.TrimSpace(s); v {
	case "1-3min", "1-3":
		return Duration1To3, nil
	case "3-5min", "3-5":
		return Duration3To5, nil
	case "5+min", "5+":
		return Duration5Up, nil
	default:
		return "", fmt.Errorf("%w: duration %q", ErrUnknownValue, s)
	}
}

// BowelRecord is one recorded bowel event on a calendar day. Detail fields
// are nil when not recorded and are ignored entirely when HasMovement is
// false.
type BowelRecord struct {
	ID          string
	UserID      string
	Date        time.Time
	HasMovement bool
	Bloating    Bloating

	StoolForm  *int
	Color      *StoolColor
	Duration   *DurationBand
	Difficulty *Difficulty
	Residual   *ResidualFeeling
	Amount     *Amount
}

// Detail sets an optional movement field on a BowelRecord.
type Detail func(*BowelRecord)

// WithStoolForm sets the Bristol form (1-7).
func WithStoolForm(form int) Detail {
	return func(r *BowelRecord) { r.StoolForm = &form }
}

// WithColor sets the stool color.
func WithColor(c StoolColor) Detail {
	return func(r *BowelRecord) { r.Color = &c }
}

// WithDuration sets the duration band.
func WithDuration(d DurationBand) Detail {
	return func(r *BowelRecord) { r.Duration = &d }
}

// WithDifficulty sets the straining difficulty.
func WithDifficulty(d Difficulty) Detail {
	return func(r *BowelRecord) { r.Difficulty = &d }
}

// WithResidual sets the residual feeling.
func WithResidual(f ResidualFeeling) Detail {
	return func(r *BowelRecord) { r.Residual = &f }
}

// WithAmount sets the descriptive amount.
func WithAmount(a Amount) Detail {
	return func(r *BowelRecord) { r.Amount = &a }
}

// NoMovement builds a record for a day recorded without a movement.
func NoMovement(id, userID string, date time.Time, bloating Bloating) BowelRecord {
	return BowelRecord{
		ID:       id,
		UserID:   userID,
		Date:     Day(date),
		Bloating: bloating,
	}
}

// Movement builds a movement record with any subset of detail fields.
func Movement(id, userID string, date time.Time, bloating Bloating, details ...Detail) BowelRecord {
	r := BowelRecord{
		ID:          id,
		UserID:      userID,
		Date:        Day(date),
		HasMovement: true,
		Bloating:    bloating,
	}
	for _, d := range details {
		d(&r)
	}
	return r
}

// Day truncates t to midnight in its own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Valid reports whether b is one of the known bloating values.
func (b Bloating) Valid() bool {
	switch b {
	case BloatingNone, BloatingSometimes, BloatingYes:
		return true
	}
	return false
}

// Valid reports whether c is one of the known colors.
func (c StoolColor) Valid() bool {
	switch c {
	case ColorYellow, ColorBrown, ColorGreen, ColorBlack, ColorRed, ColorWhite:
		return true
	}
	return false
}

// Valid reports whether d is one of the known duration bands.
func (d DurationBand) Valid() bool {
	switch d {
	case Duration1To3, Duration3To5, Duration5Up:
		return true
	}
	return false
}

// Valid reports whether d is one of the known difficulties.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyLittle, DifficultyHard, DifficultyVeryHard:
		return true
	}
	return false
}

// Valid reports whether f is one of the known residual feelings.
func (f ResidualFeeling) Valid() bool {
	switch f {
	case ResidualNone, ResidualLittle, ResidualMuch:
		return true
	}
	return false
}

// Valid reports whether a is one of the known amounts.
func (a Amount) Valid() bool {
	switch a {
	case AmountSmall, AmountLittleMore, AmountNormal, AmountMuch, AmountVeryMuch:
		return true
	}
	return false
}
