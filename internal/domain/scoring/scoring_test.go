package scoring_test

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/okian/gutscore/internal/domain/model"
	scoring "github.com/okian/gutscore/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

var day0 = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func day(i int) time.Time { return day0.AddDate(0, 0, i) }

func perfect(i int) model.BowelRecord {
	return model.Movement("p", "u", day(i), model.BloatingNone,
		model.WithStoolForm(4),
		model.WithDuration(model.Duration1To3),
		model.WithDifficulty(model.DifficultyEasy),
		model.WithResidual(model.ResidualNone),
		model.WithColor(model.ColorBrown),
	)
}

func worst(i int) model.BowelRecord {
	return model.Movement("w", "u", day(i), model.BloatingYes,
		model.WithStoolForm(1),
		model.WithColor(model.ColorBlack),
		model.WithDifficulty(model.DifficultyVeryHard),
		model.WithResidual(model.ResidualMuch),
	)
}

func none(i int) model.BowelRecord {
	return model.NoMovement("n", "u", day(i), model.BloatingNone)
}

func TestEvaluate(t *testing.T) {
	Convey("Given a period of bowel records", t, func() {
		Convey("When the period is empty", func() {
			Convey("Then it scores exactly 10", func() {
				So(scoring.Evaluate(nil), ShouldEqual, 10.0)
				So(scoring.Evaluate([]model.BowelRecord{}), ShouldEqual, 10.0)
			})
		})

		Convey("When a single record has every best value", func() {
			b := scoring.Analyze([]model.BowelRecord{perfect(0)})

			Convey("Then it reaches the maximum score", func() {
				So(b.Frequency, ShouldEqual, 3)
				So(b.QualityAverage, ShouldEqual, 6.5)
				So(b.QualityNormalized, ShouldAlmostEqual, 7, 1e-12)
				So(b.Score, ShouldEqual, 10.0)
			})
		})

		Convey("When a single record has every worst value", func() {
			b := scoring.Analyze([]model.BowelRecord{worst(0)})

			Convey("Then the negative quality pulls the score down to 2.5", func() {
				So(b.QualityTotal, ShouldEqual, -0.5)
				So(b.QualityNormalized, ShouldAlmostEqual, -0.5/6.5*7, 1e-12)
				So(b.Score, ShouldEqual, 2.5)
			})
		})

		Convey("When only the stool form is recorded", func() {
			records := []model.BowelRecord{
				model.Movement("a", "u", day(0), model.BloatingNone, model.WithStoolForm(4)),
				none(1),
			}

			Convey("Then missing fields contribute nothing", func() {
				// ratio 0.5 -> 2; quality 2/6.5*7 = 2.1538
				So(scoring.Evaluate(records), ShouldEqual, 4.2)
			})
		})

		Convey("When every record lacks a movement", func() {
			Convey("Then three or more days floor the frequency at zero", func() {
				b := scoring.Analyze([]model.BowelRecord{none(0), none(1), none(2), none(3)})
				So(b.Frequency, ShouldEqual, -1)
				So(b.Score, ShouldEqual, 0)
			})

			Convey("Then fewer days score zero without penalty", func() {
				b := scoring.Analyze([]model.BowelRecord{none(0), none(1)})
				So(b.Frequency, ShouldEqual, 0)
				So(b.Score, ShouldEqual, 0)
			})
		})

		Convey("When the unclamped frequency is negative", func() {
			records := []model.BowelRecord{none(0), none(1), none(2), perfect(3)}

			Convey("Then it still reduces the final score", func() {
				// ratio 0.25 -> 0, penalty -> -1; quality 7
				b := scoring.Analyze(records)
				So(b.Frequency, ShouldEqual, -1)
				So(b.Score, ShouldEqual, 6.0)
			})

			Convey("Then the total is floored at zero", func() {
				records := []model.BowelRecord{none(0), none(1), none(2), none(3), worst(4)}
				So(scoring.Evaluate(records), ShouldEqual, 0)
			})
		})

		Convey("When the movement ratio grows with quality held fixed", func() {
			low := []model.BowelRecord{none(0), none(1), none(2), perfect(3)}
			high := []model.BowelRecord{none(0), none(1), none(2)}
			for i := 3; i < 10; i++ {
				high = append(high, perfect(i))
			}

			Convey("Then the score grows", func() {
				So(scoring.Evaluate(high), ShouldEqual, 9.0)
				So(scoring.Evaluate(high), ShouldBeGreaterThan, scoring.Evaluate(low))
			})
		})

		Convey("When no-movement days are spread out instead of consecutive", func() {
			var spread, streak []model.BowelRecord
			for i := 0; i < 10; i++ {
				if i%2 == 0 {
					spread = append(spread, perfect(i))
				} else {
					spread = append(spread, none(i))
				}
				if i < 5 {
					streak = append(streak, perfect(i))
				} else {
					streak = append(streak, none(i))
				}
			}

			Convey("Then the penalty applies the same way", func() {
				So(scoring.Evaluate(spread), ShouldEqual, 8.0)
				So(scoring.Evaluate(streak), ShouldEqual, scoring.Evaluate(spread))
			})
		})

		Convey("When a no-movement record carries stale detail fields", func() {
			stale := none(1)
			form, color := 1, model.ColorRed
			stale.StoolForm = &form
			stale.Color = &color
			stale.Bloating = model.BloatingYes

			Convey("Then they are ignored", func() {
				So(scoring.Evaluate([]model.BowelRecord{perfect(0), stale, perfect(2)}),
					ShouldEqual, scoring.Evaluate([]model.BowelRecord{perfect(0), none(1), perfect(2)}))
				So(scoring.Evaluate([]model.BowelRecord{perfect(0), stale, perfect(2)}), ShouldEqual, 9.0)
			})
		})

		Convey("When a record holds unknown enum values", func() {
			odd := model.Movement("o", "u", day(0), model.Bloating("often"),
				model.WithStoolForm(9),
				model.WithColor("purple"),
				model.WithDuration("forever"),
				model.WithDifficulty("brutal"),
				model.WithResidual("some"),
			)

			Convey("Then they count as zero instead of failing", func() {
				b := scoring.Analyze([]model.BowelRecord{odd})
				So(b.QualityTotal, ShouldEqual, 0)
				So(b.Score, ShouldEqual, 3.0)
			})
		})

		Convey("When half-point values accumulate", func() {
			half := model.Movement("h", "u", day(0), model.BloatingSometimes,
				model.WithStoolForm(5),
				model.WithDuration(model.Duration3To5),
				model.WithDifficulty(model.DifficultyLittle),
				model.WithResidual(model.ResidualLittle),
				model.WithColor(model.ColorYellow),
			)

			Convey("Then only the final value is rounded", func() {
				// 1 + 0.5*4 - 0.25 = 2.75 -> 2.9615; +3 = 5.9615
				So(scoring.RecordQuality(&half), ShouldEqual, 2.75)
				So(scoring.Evaluate([]model.BowelRecord{half}), ShouldEqual, 6.0)
			})
		})
	})
}

func TestEvaluateProperties(t *testing.T) {
	Convey("Given random periods", t, func() {
		rng := rand.New(rand.NewSource(7)) //nolint:gosec // deterministic fixtures
		colors := []model.StoolColor{model.ColorYellow, model.ColorBrown, model.ColorGreen, model.ColorBlack, model.ColorRed, model.ColorWhite}
		bloat := []model.Bloating{model.BloatingNone, model.BloatingSometimes, model.BloatingYes}

		for n := 0; n < 200; n++ {
			var records []model.BowelRecord
			size := rng.Intn(40)
			for i := 0; i < size; i++ {
				b := bloat[rng.Intn(len(bloat))]
				if rng.Intn(3) == 0 {
					records = append(records, model.NoMovement("x", "u", day(i), b))
					continue
				}
				var details []model.Detail
				if rng.Intn(2) == 0 {
					details = append(details, model.WithStoolForm(1+rng.Intn(7)))
				}
				if rng.Intn(2) == 0 {
					details = append(details, model.WithColor(colors[rng.Intn(len(colors))]))
				}
				if rng.Intn(2) == 0 {
					details = append(details, model.WithDifficulty(model.DifficultyHard))
				}
				records = append(records, model.Movement("x", "u", day(i), b, details...))
			}

			score := scoring.Evaluate(records)
			So(score, ShouldBeBetweenOrEqual, 0.0, 10.0)
			So(math.Abs(score*10-math.Round(score*10)), ShouldBeLessThan, 1e-9)

			// idempotent and order independent
			So(scoring.Evaluate(records), ShouldEqual, score)
			reversed := make([]model.BowelRecord, len(records))
			for i, r := range records {
				reversed[len(records)-1-i] = r
			}
			So(scoring.Evaluate(reversed), ShouldEqual, score)
		}
	})
}

func TestClassify(t *testing.T) {
	Convey("Given score tiers", t, func() {
		cases := []struct {
			score float64
			tier  scoring.Tier
		}{
			{10, scoring.TierGreen},
			{8, scoring.TierGreen},
			{7.9, scoring.TierAmber},
			{6, scoring.TierAmber},
			{5.9, scoring.TierOrange},
			{4, scoring.TierOrange},
			{3.9, scoring.TierRed},
			{0, scoring.TierRed},
			{math.NaN(), scoring.TierRed},
		}
		for _, c := range cases {
			got := scoring.Classify(c.score)
			So(got.Tier, ShouldEqual, c.tier)
			So(got.Description, ShouldNotBeEmpty)
			So(got.ColorHex, ShouldStartWith, "#")
		}
	})
}

func TestEvaluator(t *testing.T) {
	Convey("Given an evaluator", t, func() {
		e := scoring.NewEvaluator()

		Convey("When scoring an input", func() {
			res, err := e.Score(context.Background(), scoring.Input{
				UserID:  "u-1",
				Records: []model.BowelRecord{perfect(0)},
			})

			Convey("Then the result carries the score and its tier", func() {
				So(err, ShouldBeNil)
				So(res.UserID, ShouldEqual, "u-1")
				So(res.Score, ShouldEqual, 10.0)
				So(res.Breakdown.Movements, ShouldEqual, 1)
				So(res.Classification.Tier, ShouldEqual, scoring.TierGreen)
			})
		})

		Convey("When the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := e.Score(ctx, scoring.Input{UserID: "u-1"})

			Convey("Then it returns the context error", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})
}
