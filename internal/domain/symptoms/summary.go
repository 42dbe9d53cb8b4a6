// Package symptoms aggregates symptom records into per-period summaries.
package symptoms

import (
	"math"
	"sort"

	"github.com/okian/gutscore/internal/domain/classify"
	"github.com/okian/gutscore/internal/domain/model"
)

// Summary describes the symptom records of one period.
type Summary struct {
	DiseaseID      string
	DiseaseName    string
	Count          int
	AvgIntensity   float64 // rounded to one decimal
	MaxIntensity   int
	MinIntensity   int
	MedicationRate int // percent of records where medication was taken
	Band           classify.Intensity
}

// Summarize aggregates records. It reports false when there is nothing to
// summarize. DiseaseID and DiseaseName are set only when every record shares
// the same disease.
func Summarize(records []model.SymptomRecord) (Summary, bool) {
	if len(records) == 0 {
		return Summary{}, false
	}

	s := Summary{
		DiseaseID:    records[0].DiseaseID,
		DiseaseName:  records[0].DiseaseName,
		Count:        len(records),
		MaxIntensity: records[0].Intensity,
		MinIntensity: records[0].Intensity,
	}
	var total, medicated int
	for _, r := range records {
		total += r.Intensity
		s.MaxIntensity = max(s.MaxIntensity, r.Intensity)
		s.MinIntensity = min(s.MinIntensity, r.Intensity)
		if r.TookMedication {
			medicated++
		}
		if r.DiseaseID != s.DiseaseID {
			s.DiseaseID, s.DiseaseName = "", ""
		}
	}

	avg := float64(total) / float64(len(records))
	s.AvgIntensity = math.Round(avg*10) / 10
	s.MedicationRate = int(math.Round(float64(medicated) / float64(len(records)) * 100))
	s.Band = classify.IntensityInfo(int(math.Round(avg)))
	return s, true
}

// ForDisease returns the records of diseaseID.
func ForDisease(records []model.SymptomRecord, diseaseID string) []model.SymptomRecord {
	var out []model.SymptomRecord
	for _, r := range records {
		if r.DiseaseID == diseaseID {
			out = append(out, r)
		}
	}
	return out
}

// ByDisease summarizes records per disease, ordered by disease ID.
func ByDisease(records []model.SymptomRecord) []Summary {
	seen := make(map[string]struct{})
	var ids []string
	for _, r := range records {
		if _, ok := seen[r.DiseaseID]; !ok {
			seen[r.DiseaseID] = struct{}{}
			ids = append(ids, r.DiseaseID)
		}
	}
	sort.Strings(ids)

	out := make([]Summary, 0, len(ids))
	for _, id := range ids {
		if s, ok := Summarize(ForDisease(records, id)); ok {
			out = append(out, s)
		}
	}
	return out
}
