package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	service "github.com/okian/gutscore/internal/app"
)

const (
	formatText = "text"
	formatYAML = "yaml"
)

type renderFunc func(io.Writer, []service.Report) error

func renderer(format string) (renderFunc, error) {
	switch strings.ToLower(format) {
	case formatText:
		return renderText, nil
	case formatYAML:
		return renderYAML, nil
	default:
		return nil, fmt.Errorf("--format: unknown format %q", format)
	}
}

func renderText(w io.Writer, reports []service.Report) error {
	var b strings.Builder
	for i, r := range reports {
		if i > 0 {
			b.WriteString("\n")
		}
		res := r.Result
		fmt.Fprintf(&b, "user %s  %s\n", r.UserID, r.Period)
		fmt.Fprintf(&b, "  score     %.1f  %s (%s)  %s\n",
			res.Score, res.Classification.Tier, res.Classification.ColorHex, res.Classification.Description)
		bd := res.Breakdown
		fmt.Fprintf(&b, "  records   %d  movements %d  none %d  ratio %.2f\n",
			bd.Records, bd.Movements, bd.NoMovements, bd.BowelRatio)
		fmt.Fprintf(&b, "  stages    frequency %.0f  quality %.2f\n", bd.Frequency, bd.QualityNormalized)
		if r.Age != nil {
			fmt.Fprintf(&b, "  age       %d\n", *r.Age)
		}
		if r.Body != nil {
			fmt.Fprintf(&b, "  bmi       %.1f  %s  (%.1f kg, %.1f cm)\n",
				r.Body.BMI, r.Body.Band.Category, r.Body.WeightKg, r.Body.HeightCm)
		}
		for _, s := range r.Symptoms {
			fmt.Fprintf(&b, "  symptom   %s  n=%d  avg %.1f (%s)  min %d  max %d  medicated %d%%\n",
				symptomName(s.DiseaseID, s.DiseaseName), s.Count, s.AvgIntensity, s.Band.Description,
				s.MinIntensity, s.MaxIntensity, s.MedicationRate)
		}
		for _, n := range r.Notes {
			fmt.Fprintf(&b, "  note      %s\n", n)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func symptomName(id, name string) string {
	if name == "" {
		return id
	}
	return name
}

// reportDoc is the YAML shape of a report.
type reportDoc struct {
	User        string       `yaml:"user"`
	Period      string       `yaml:"period"`
	AsOf        string       `yaml:"as_of"`
	Score       float64      `yaml:"score"`
	Tier        string       `yaml:"tier"`
	Color       string       `yaml:"color"`
	Description string       `yaml:"description"`
	Records     int          `yaml:"records"`
	Movements   int          `yaml:"movements"`
	BowelRatio  float64      `yaml:"bowel_ratio"`
	Frequency   float64      `yaml:"frequency"`
	Quality     float64      `yaml:"quality"`
	Age         *int         `yaml:"age,omitempty"`
	BMI         *bmiDoc      `yaml:"bmi,omitempty"`
	Symptoms    []symptomDoc `yaml:"symptoms,omitempty"`
	Notes       []string     `yaml:"notes,omitempty"`
}

type bmiDoc struct {
	Value    float64 `yaml:"value"`
	Category string  `yaml:"category"`
	WeightKg float64 `yaml:"weight_kg"`
	HeightCm float64 `yaml:"height_cm"`
}

type symptomDoc struct {
	Disease        string  `yaml:"disease"`
	Count          int     `yaml:"count"`
	AvgIntensity   float64 `yaml:"avg_intensity"`
	MinIntensity   int     `yaml:"min_intensity"`
	MaxIntensity   int     `yaml:"max_intensity"`
	MedicationRate int     `yaml:"medication_rate"`
}

func renderYAML(w io.Writer, reports []service.Report) error {
	docs := make([]reportDoc, 0, len(reports))
	for _, r := range reports {
		res := r.Result
		doc := reportDoc{
			User:        r.UserID,
			Period:      r.Period.String(),
			AsOf:        r.AsOf.Format(time.DateOnly),
			Score:       res.Score,
			Tier:        string(res.Classification.Tier),
			Color:       res.Classification.ColorHex,
			Description: res.Classification.Description,
			Records:     res.Breakdown.Records,
			Movements:   res.Breakdown.Movements,
			BowelRatio:  res.Breakdown.BowelRatio,
			Frequency:   res.Breakdown.Frequency,
			Quality:     res.Breakdown.QualityNormalized,
			Age:         r.Age,
			Notes:       r.Notes,
		}
		if r.Body != nil {
			doc.BMI = &bmiDoc{Value: r.Body.BMI, Category: r.Body.Band.Category, WeightKg: r.Body.WeightKg, HeightCm: r.Body.HeightCm}
		}
		for _, s := range r.Symptoms {
			doc.Symptoms = append(doc.Symptoms, symptomDoc{
				Disease:        symptomName(s.DiseaseID, s.DiseaseName),
				Count:          s.Count,
				AvgIntensity:   s.AvgIntensity,
				MinIntensity:   s.MinIntensity,
				MaxIntensity:   s.MaxIntensity,
				MedicationRate: s.MedicationRate,
			})
		}
		docs = append(docs, doc)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(map[string][]reportDoc{"reports": docs}); err != nil {
		return err
	}
	return enc.Close()
}
