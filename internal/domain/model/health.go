package model

import (
	"errors"
	"time"
)

// ErrUnknownValue marks an enum value outside its allowed set.
var ErrUnknownValue = errors.New("unknown value")

// Gender of a profile, used only for display and age/BMI context.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Profile holds the per-user facts the calculators need.
type Profile struct {
	UserID    string
	BirthDate time.Time
	Gender    Gender
	HeightCm  float64
}

// WeightRecord is one weigh-in; at most one per user and day.
type WeightRecord struct {
	UserID   string
	Date     time.Time
	WeightKg float64
}

// SymptomRecord is one occurrence of a tracked disease symptom.
type SymptomRecord struct {
	ID             string
	UserID         string
	Date           time.Time
	DiseaseID      string
	DiseaseName    string
	Intensity      int // 1..10
	TookMedication bool
	OccurredAt     *time.Time
	Description    string
}
