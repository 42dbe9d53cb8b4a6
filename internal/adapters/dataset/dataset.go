// Package dataset reads and writes the YAML files the CLI scores. A file
// holds users, each with an optional profile and lists of bowel, weight and
// symptom records.
package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Dataset is the document root.
type Dataset struct {
	Users []User `yaml:"users"`
}

// User groups one user's records.
type User struct {
	ID       string    `yaml:"id"`
	Profile  *Profile  `yaml:"profile,omitempty"`
	Bowel    []Bowel   `yaml:"bowel,omitempty"`
	Weights  []Weight  `yaml:"weights,omitempty"`
	Symptoms []Symptom `yaml:"symptoms,omitempty"`
}

// Profile is the user's profile. BirthDate is YYYY-MM-DD.
type Profile struct {
	BirthDate string  `yaml:"birth_date"`
	Gender    string  `yaml:"gender,omitempty"`
	HeightCm  float64 `yaml:"height_cm"`
}

// Bowel is one bowel record. Detail fields are only read when HasMovement
// is true.
type Bowel struct {
	ID          string `yaml:"id"`
	Date        string `yaml:"date"`
	HasMovement *bool  `yaml:"has_movement"`
	Bloating    string `yaml:"bloating,omitempty"`
	StoolForm   *int   `yaml:"stool_form,omitempty"`
	Color       string `yaml:"color,omitempty"`
	Duration    string `yaml:"duration,omitempty"`
	Difficulty  string `yaml:"difficulty,omitempty"`
	Residual    string `yaml:"residual,omitempty"`
	Amount      string `yaml:"amount,omitempty"`
}

// Weight is one weigh-in.
type Weight struct {
	Date     string  `yaml:"date"`
	WeightKg float64 `yaml:"weight_kg"`
}

// Symptom is one symptom record. OccurredAt is RFC 3339 when present.
type Symptom struct {
	ID             string `yaml:"id"`
	Date           string `yaml:"date"`
	DiseaseID      string `yaml:"disease_id"`
	DiseaseName    string `yaml:"disease_name,omitempty"`
	Intensity      int    `yaml:"intensity"`
	TookMedication bool   `yaml:"took_medication,omitempty"`
	OccurredAt     string `yaml:"occurred_at,omitempty"`
	Description    string `yaml:"description,omitempty"`
}

// Read decodes a dataset. Unknown keys are rejected.
func Read(r io.Reader) (*Dataset, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var d Dataset
	if err := dec.Decode(&d); err != nil {
		if errors.Is(err, io.EOF) {
			return &d, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return &d, nil
}

// Load reads the dataset at path.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Read(f)
}

// Write encodes d as YAML.
func Write(w io.Writer, d *Dataset) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	return nil
}

// Save writes d to path, replacing any existing file.
func Save(path string, d *Dataset) error {
	f, err := os.Create(path) //nolint:gosec // path comes from the operator
	if err != nil {
		return fmt.Errorf("create dataset: %w", err)
	}
	if err := Write(f, d); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close dataset: %w", err)
	}
	return nil
}
