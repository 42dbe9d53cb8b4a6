package dataset

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/okian/gutscore/internal/domain/model"
	"github.com/okian/gutscore/internal/domain/period"
)

// Generation ranges.
const (
	minHeightCm     = 150.0
	heightRangeCm   = 40.0
	minBMI          = 17.0
	bmiRange        = 17.0
	minAgeYears     = 18
	ageRangeYears   = 60
	weighInEvery    = 7
	symptomChance   = 0.15
	weightDriftKg   = 1.5
	defaultUsers    = 10
	maxIntensity    = 10
	cmPerMeter      = 100.0
	stoolFormValues = 7
)

// habit shapes how regular a generated user is.
type habit struct {
	name         string
	movementRate float64 // chance a recorded day has a movement
	goodRate     float64 // chance each detail takes its healthiest value
	recordRate   float64 // chance a day is recorded at all
}

var habits = []habit{
	{name: "regular", movementRate: 0.9, goodRate: 0.8, recordRate: 0.95},
	{name: "irregular", movementRate: 0.6, goodRate: 0.5, recordRate: 0.8},
	{name: "constipated", movementRate: 0.35, goodRate: 0.3, recordRate: 0.9},
	{name: "sporadic", movementRate: 0.7, goodRate: 0.6, recordRate: 0.4},
}

var diseases = []struct{ id, name string }{
	{"ibs", "Irritable bowel syndrome"},
	{"gerd", "Gastroesophageal reflux"},
	{"migraine", "Migraine"},
}

// GenerateConfig controls Generate.
type GenerateConfig struct {
	Users  int
	Period period.Period
	Seed   int64
}

// Generate builds a synthetic dataset with one record stream per user over
// cfg.Period. The same seed yields the same dataset, IDs included.
func Generate(cfg GenerateConfig) (*Dataset, error) {
	if err := cfg.Period.Validate(); err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	if cfg.Users <= 0 {
		cfg.Users = defaultUsers
	}

	g := generator{rng: rand.New(rand.NewSource(cfg.Seed))} //nolint:gosec // reproducible fixtures
	d := &Dataset{Users: make([]User, 0, cfg.Users)}
	for i := 0; i < cfg.Users; i++ {
		u, err := g.user(cfg.Period, habits[i%len(habits)])
		if err != nil {
			return nil, err
		}
		d.Users = append(d.Users, u)
	}
	return d, nil
}

type generator struct {
	rng *rand.Rand
}

func (g *generator) id() (string, error) {
	id, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return id.String(), nil
}

func (g *generator) detail(h habit, good string, others ...string) string {
	if g.rng.Float64() < h.goodRate {
		return good
	}
	return others[g.rng.Intn(len(others))]
}

func (g *generator) user(p period.Period, h habit) (User, error) {
	userID, err := g.id()
	if err != nil {
		return User{}, err
	}

	height := minHeightCm + g.rng.Float64()*heightRangeCm
	bmi := minBMI + g.rng.Float64()*bmiRange
	weight := bmi * (height / cmPerMeter) * (height / cmPerMeter)
	age := minAgeYears + g.rng.Intn(ageRangeYears)
	birth := p.From.AddDate(-age, 0, -g.rng.Intn(365))
	gender := string(model.GenderFemale)
	if g.rng.Intn(2) == 0 {
		gender = string(model.GenderMale)
	}

	u := User{
		ID: userID,
		Profile: &Profile{
			BirthDate: birth.Format(time.DateOnly),
			Gender:    gender,
			HeightCm:  round1(height),
		},
	}

	n := 0
	for day := p.From; !day.After(p.To); day = day.AddDate(0, 0, 1) {
		date := day.Format(time.DateOnly)
		if n%weighInEvery == 0 {
			w := weight + (g.rng.Float64()*2-1)*weightDriftKg
			u.Weights = append(u.Weights, Weight{Date: date, WeightKg: round1(w)})
		}
		n++

		if g.rng.Float64() < symptomChance {
			s, err := g.symptom(date)
			if err != nil {
				return User{}, err
			}
			u.Symptoms = append(u.Symptoms, s)
		}

		if g.rng.Float64() >= h.recordRate {
			continue
		}
		b, err := g.bowel(date, h)
		if err != nil {
			return User{}, err
		}
		u.Bowel = append(u.Bowel, b)
	}
	return u, nil
}

func (g *generator) bowel(date string, h habit) (Bowel, error) {
	id, err := g.id()
	if err != nil {
		return Bowel{}, err
	}
	moved := g.rng.Float64() < h.movementRate
	b := Bowel{
		ID:          id,
		Date:        date,
		HasMovement: &moved,
		Bloating: g.detail(h, string(model.BloatingNone),
			string(model.BloatingSometimes), string(model.BloatingYes)),
	}
	if !moved {
		return b, nil
	}

	form := 4
	if g.rng.Float64() >= h.goodRate {
		form = 1 + g.rng.Intn(stoolFormValues)
	}
	b.StoolForm = &form
	b.Color = g.detail(h, string(model.ColorBrown),
		string(model.ColorYellow), string(model.ColorGreen), string(model.ColorBlack), string(model.ColorRed), string(model.ColorWhite))
	b.Duration = g.detail(h, string(model.Duration1To3), string(model.Duration3To5), string(model.Duration5Up))
	b.Difficulty = g.detail(h, string(model.DifficultyEasy),
		string(model.DifficultyLittle), string(model.DifficultyHard), string(model.DifficultyVeryHard))
	b.Residual = g.detail(h, string(model.ResidualNone), string(model.ResidualLittle), string(model.ResidualMuch))
	b.Amount = g.detail(h, string(model.AmountNormal),
		string(model.AmountSmall), string(model.AmountLittleMore), string(model.AmountMuch), string(model.AmountVeryMuch))
	return b, nil
}

func (g *generator) symptom(date string) (Symptom, error) {
	id, err := g.id()
	if err != nil {
		return Symptom{}, err
	}
	d := diseases[g.rng.Intn(len(diseases))]
	return Symptom{
		ID:             id,
		Date:           date,
		DiseaseID:      d.id,
		DiseaseName:    d.name,
		Intensity:      1 + g.rng.Intn(maxIntensity),
		TookMedication: g.rng.Intn(3) == 0,
	}, nil
}

func round1(v float64) float64 {
	return float64(int64(v*10+0.5)) / 10
}
