package classify

import "github.com/okian/gutscore/internal/domain/model"

// MaxRecordQuality is the best per-record quality sub-score:
// form 2 + duration 1 + difficulty 1 + residual 1 + color 1 + no bloating 0.
const MaxRecordQuality = 6.5

var formWeights = [MaxStoolForm + 1]float64{
	2: 1,
	3: 2,
	4: 2,
	5: 1,
}

var durationWeights = map[model.DurationBand]float64{
	model.Duration1To3: 1,
	model.Duration3To5: 0.5,
}

var difficultyWeights = map[model.Difficulty]float64{
	model.DifficultyEasy:   1,
	model.DifficultyLittle: 0.5,
}

var residualWeights = map[model.ResidualFeeling]float64{
	model.ResidualNone:   1,
	model.ResidualLittle: 0.5,
}

var colorWeights = map[model.StoolColor]float64{
	model.ColorBrown:  1,
	model.ColorYellow: 0.5,
	model.ColorGreen:  0.5,
}

var bloatingPenalties = map[model.Bloating]float64{
	model.BloatingYes:       0.5,
	model.BloatingSometimes: 0.25,
}

// FormWeight returns the quality points of a Bristol form; missing or out of
// range forms are worth nothing.
func FormWeight(form *int) float64 {
	if form == nil || *form < MinStoolForm || *form > MaxStoolForm {
		return 0
	}
	return formWeights[*form]
}

// DurationWeight returns the quality points of a duration band.
func DurationWeight(d *model.DurationBand) float64 {
	if d == nil {
		return 0
	}
	return durationWeights[*d]
}

// DifficultyWeight returns the quality points of a difficulty.
func DifficultyWeight(d *model.Difficulty) float64 {
	if d == nil {
		return 0
	}
	return difficultyWeights[*d]
}

// ResidualWeight returns the quality points of a residual feeling.
func ResidualWeight(f *model.ResidualFeeling) float64 {
	if f == nil {
		return 0
	}
	return residualWeights[*f]
}

// ColorWeight returns the quality points of a stool color.
func ColorWeight(c *model.StoolColor) float64 {
	if c == nil {
		return 0
	}
	return colorWeights[*c]
}

// BloatingPenalty returns the points subtracted for bloating (non-negative).
func BloatingPenalty(b model.Bloating) float64 {
	return bloatingPenalties[b]
}
