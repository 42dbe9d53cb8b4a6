// Package scoring turns a period of daily bowel records into a 0-10 bowel
// health score.
//
// The score has two independent parts. Frequency (up to 3 points) measures
// how often movements happen; quality (up to 7 points) averages how healthy
// each movement was. The computation is pure: no state, no I/O.
package scoring

import (
	"math"

	"github.com/okian/gutscore/internal/domain/classify"
	"github.com/okian/gutscore/internal/domain/model"
)

// Scoring constants.
const (
	MaxScore = 10.0
	MinScore = 0.0

	// EmptyPeriodScore is returned when there is nothing to score.
	EmptyPeriodScore = MaxScore

	qualityBudget = 7.0

	// noMovementPenaltyDays is a count over the whole period, not a streak.
	noMovementPenaltyDays = 3
	noMovementPenalty     = 1.0
)

// frequencyBands map the movement ratio to base frequency points; the first
// band whose threshold the ratio reaches wins.
var frequencyBands = [...]struct {
	minRatio float64
	points   float64
}{
	{minRatio: 0.70, points: 3},
	{minRatio: 0.50, points: 2},
	{minRatio: 0.30, points: 1},
}

// Breakdown exposes every intermediate value of an evaluation.
type Breakdown struct {
	Records     int
	Movements   int
	NoMovements int
	BowelRatio  float64

	// Frequency is the penalty-adjusted Stage A value and may be -1.
	Frequency float64

	QualityTotal      float64
	QualityAverage    float64
	QualityNormalized float64

	Score float64
}

// Evaluate returns the bowel score of records, in [0, 10] with one decimal.
// An empty period scores 10.
func Evaluate(records []model.BowelRecord) float64 {
	return Analyze(records).Score
}

// Analyze evaluates records and returns the score with its components.
func Analyze(records []model.BowelRecord) Breakdown {
	b := Breakdown{Records: len(records)}
	if b.Records == 0 {
		b.Score = EmptyPeriodScore
		return b
	}

	for i := range records {
		r := &records[i]
		if !r.HasMovement {
			b.NoMovements++
			continue
		}
		b.Movements++
		b.QualityTotal += RecordQuality(r)
	}

	b.BowelRatio = float64(b.Movements) / float64(b.Records)
	b.Frequency = frequencyPoints(b.BowelRatio)
	if b.NoMovements >= noMovementPenaltyDays {
		b.Frequency -= noMovementPenalty
	}

	if b.Movements == 0 {
		b.Score = math.Max(MinScore, b.Frequency)
		return b
	}

	b.QualityAverage = b.QualityTotal / float64(b.Movements)
	b.QualityNormalized = b.QualityAverage / classify.MaxRecordQuality * qualityBudget
	b.Score = round1(clamp(b.Frequency+b.QualityNormalized, MinScore, MaxScore))
	return b
}

// RecordQuality returns the Stage B sub-score of one movement record, in
// [-0.5, 6.5]. Missing or unknown field values contribute nothing.
func RecordQuality(r *model.BowelRecord) float64 {
	return classify.FormWeight(r.StoolForm) +
		classify.DurationWeight(r.Duration) +
		classify.DifficultyWeight(r.Difficulty) +
		classify.ResidualWeight(r.Residual) +
		classify.ColorWeight(r.Color) -
		classify.BloatingPenalty(r.Bloating)
}

func frequencyPoints(ratio float64) float64 {
	for _, band := range frequencyBands {
		if ratio >= band.minRatio {
			return band.points
		}
	}
	return 0
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

// round1 rounds half away from zero to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
