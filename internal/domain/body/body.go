// Package body implements the BMI and age calculators.
package body

import (
	"fmt"
	"math"
	"time"

	"github.com/okian/gutscore/internal/domain/classify"
)

const cmPerMeter = 100

// BMI returns weightKg / (heightCm/100)^2, unrounded. Non-positive, NaN or
// infinite inputs are rejected with ErrInvalidInput.
func BMI(weightKg, heightCm float64) (float64, error) {
	if !physical(weightKg) {
		return 0, fmt.Errorf("%w: weight %v kg", ErrInvalidInput, weightKg)
	}
	if !physical(heightCm) {
		return 0, fmt.Errorf("%w: height %v cm", ErrInvalidInput, heightCm)
	}
	m := heightCm / cmPerMeter
	return weightKg / (m * m), nil
}

func physical(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// Assessment is a BMI together with its category band.
type Assessment struct {
	WeightKg float64
	HeightCm float64
	BMI      float64
	Band     classify.BMIBand
}

// Assess computes the BMI of weightKg and heightCm and classifies it.
func Assess(weightKg, heightCm float64) (Assessment, error) {
	bmi, err := BMI(weightKg, heightCm)
	if err != nil {
		return Assessment{}, err
	}
	return Assessment{
		WeightKg: weightKg,
		HeightCm: heightCm,
		BMI:      bmi,
		Band:     classify.BMICategory(bmi),
	}, nil
}

// AgeYears returns the whole years between birth and asOf. Both are read as
// calendar dates in their own locations. The year difference is reduced by
// one while asOf's month/day precedes the birth month/day, so a Feb 29
// birthday counts as reached on Mar 1 in non-leap years. A birth date after
// asOf is rejected with ErrInvalidInput.
func AgeYears(birth, asOf time.Time) (int, error) {
	by, bm, bd := birth.Date()
	ay, am, ad := asOf.Date()

	if ay < by || (ay == by && (am < bm || (am == bm && ad < bd))) {
		return 0, fmt.Errorf("%w: birth date %s is after %s",
			ErrInvalidInput, birth.Format(time.DateOnly), asOf.Format(time.DateOnly))
	}

	age := ay - by
	if am < bm || (am == bm && ad < bd) {
		age--
	}
	return age, nil
}
