package classify

import "github.com/okian/gutscore/internal/domain/model"

var (
	amountLabels = map[model.Amount]string{
		model.AmountSmall:      "Small",
		model.AmountLittleMore: "A little more",
		model.AmountNormal:     "Normal",
		model.AmountMuch:       "Much",
		model.AmountVeryMuch:   "Very much",
	}
	durationLabels = map[model.DurationBand]string{
		model.Duration1To3: "1-3 minutes",
		model.Duration3To5: "3-5 minutes",
		model.Duration5Up:  "5 minutes or more",
	}
	difficultyLabels = map[model.Difficulty]string{
		model.DifficultyEasy:     "Hardly strained",
		model.DifficultyLittle:   "Strained a little",
		model.DifficultyHard:     "Strained a lot",
		model.DifficultyVeryHard: "Took over 5 minutes",
	}
	residualLabels = map[model.ResidualFeeling]string{
		model.ResidualNone:   "None",
		model.ResidualLittle: "A little",
		model.ResidualMuch:   "A lot",
	}
	bloatingLabels = map[model.Bloating]string{
		model.BloatingNone:      "None",
		model.BloatingSometimes: "Sometimes",
		model.BloatingYes:       "Yes",
	}
)

func label[K ~string](table map[K]string, k K) string {
	if l, ok := table[k]; ok {
		return l
	}
	return string(k)
}

// AmountLabel returns the display label of an amount.
func AmountLabel(a model.Amount) string { return label(amountLabels, a) }

// DurationLabel returns the display label of a duration band.
func DurationLabel(d model.DurationBand) string { return label(durationLabels, d) }

// DifficultyLabel returns the display label of a difficulty.
func DifficultyLabel(d model.Difficulty) string { return label(difficultyLabels, d) }

// ResidualLabel returns the display label of a residual feeling.
func ResidualLabel(f model.ResidualFeeling) string { return label(residualLabels, f) }

// BloatingLabel returns the display label of a bloating value.
func BloatingLabel(b model.Bloating) string { return label(bloatingLabels, b) }
