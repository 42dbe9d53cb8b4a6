// Package classify holds the static reference tables behind the bowel score
// and the health displays: Bristol stool forms, stool color risk, BMI bands,
// symptom intensity levels and the per-field scoring weights.
//
// Every table is a fixed array or map keyed by the discrete value, so
// lookups are exhaustive and order independent.
package classify

import "github.com/okian/gutscore/internal/domain/model"

// Risk is a clinical risk tier, ordered by severity.
type Risk int

const (
	RiskNone Risk = iota
	RiskLow
	RiskMedium
	RiskHigh
)

var riskNames = [...]string{
	RiskNone:   "none",
	RiskLow:    "low",
	RiskMedium: "medium",
	RiskHigh:   "high",
}

func (r Risk) String() string {
	if r < 0 || int(r) >= len(riskNames) {
		return "unknown"
	}
	return riskNames[r]
}

// StoolForm describes one Bristol stool scale type.
type StoolForm struct {
	Form        int
	Label       string
	Description string
	Risk        Risk
}

// MinStoolForm and MaxStoolForm bound the Bristol scale.
const (
	MinStoolForm = 1
	MaxStoolForm = 7
)

var stoolForms = [MaxStoolForm + 1]StoolForm{
	1: {Form: 1, Label: "Type 1", Description: "Separate hard lumps, like nuts", Risk: RiskHigh},
	2: {Form: 2, Label: "Type 2", Description: "Sausage-shaped but lumpy", Risk: RiskMedium},
	3: {Form: 3, Label: "Type 3", Description: "Sausage-shaped with cracks on the surface", Risk: RiskLow},
	4: {Form: 4, Label: "Type 4", Description: "Smooth and soft, like a sausage or snake", Risk: RiskNone},
	5: {Form: 5, Label: "Type 5", Description: "Soft blobs with clear-cut edges", Risk: RiskLow},
	6: {Form: 6, Label: "Type 6", Description: "Fluffy pieces with ragged edges, mushy", Risk: RiskMedium},
	7: {Form: 7, Label: "Type 7", Description: "Watery, no solid pieces, entirely liquid", Risk: RiskHigh},
}

// StoolFormInfo returns the Bristol descriptor for form 1..7.
func StoolFormInfo(form int) (StoolForm, bool) {
	if form < MinStoolForm || form > MaxStoolForm {
		return StoolForm{}, false
	}
	return stoolForms[form], true
}

// StoolForms returns the whole scale ordered from type 1 to type 7.
func StoolForms() []StoolForm {
	out := make([]StoolForm, 0, MaxStoolForm)
	return append(out, stoolForms[MinStoolForm:]...)
}

type colorInfo struct {
	label string
	risk  Risk
}

var colors = map[model.StoolColor]colorInfo{
	model.ColorYellow: {label: "Yellow", risk: RiskLow},
	model.ColorBrown:  {label: "Brown", risk: RiskNone},
	model.ColorGreen:  {label: "Green", risk: RiskLow},
	model.ColorBlack:  {label: "Black", risk: RiskHigh},
	model.ColorRed:    {label: "Red", risk: RiskHigh},
	model.ColorWhite:  {label: "White/grey", risk: RiskHigh},
}

// ColorRisk returns the risk tier of a stool color.
func ColorRisk(c model.StoolColor) (Risk, bool) {
	info, ok := colors[c]
	return info.risk, ok
}

// ColorLabel returns the display label of a stool color.
func ColorLabel(c model.StoolColor) string {
	if info, ok := colors[c]; ok {
		return info.label
	}
	return string(c)
}
