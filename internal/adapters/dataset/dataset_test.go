package dataset_test

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/okian/gutscore/internal/adapters/dataset"
	"github.com/okian/gutscore/internal/domain/model"
	"github.com/okian/gutscore/internal/domain/period"
	. "github.com/smartystreets/goconvey/convey"
)

const sample = `
users:
  - id: u1
    profile:
      birth_date: 1990-05-01
      gender: female
      height_cm: 165
    bowel:
      - id: b1
        date: 2024-06-01
        has_movement: true
        bloating: none
        stool_form: 4
        color: brown
        duration: "1-3"
        difficulty: easy
        residual: none
        amount: normal
      - id: b2
        date: 2024-06-02
        has_movement: false
        color: red
      - id: b3
        date: 2024-06-03
        has_movement: true
        color: purple
    weights:
      - date: 2024-06-01
        weight_kg: 60.5
    symptoms:
      - id: s1
        date: 2024-06-02
        disease_id: ibs
        intensity: 6
        took_medication: true
        occurred_at: 2024-06-02T08:30:00Z
`

func TestReadAndConvert(t *testing.T) {
	Convey("Given a YAML dataset", t, func() {
		d, err := dataset.Read(strings.NewReader(sample))
		So(err, ShouldBeNil)
		So(d.Users, ShouldHaveLength, 1)

		Convey("When it is converted", func() {
			b, err := d.Convert(time.UTC)
			So(err, ShouldBeNil)

			Convey("Then every record kind is mapped", func() {
				So(b.Profiles, ShouldHaveLength, 1)
				So(b.Profiles[0].HeightCm, ShouldEqual, 165)
				So(b.Bowel, ShouldHaveLength, 3)
				So(b.Weights, ShouldHaveLength, 1)
				So(b.Symptoms, ShouldHaveLength, 1)
				So(b.Len(), ShouldEqual, 5)
				So(b.Symptoms[0].OccurredAt, ShouldNotBeNil)
			})

			Convey("Then short duration spellings are normalized", func() {
				So(*b.Bowel[0].Duration, ShouldEqual, model.Duration1To3)
				So(*b.Bowel[0].StoolForm, ShouldEqual, 4)
			})

			Convey("Then no-movement records drop their details", func() {
				So(b.Bowel[1].HasMovement, ShouldBeFalse)
				So(b.Bowel[1].Color, ShouldBeNil)
			})

			Convey("Then unknown enum values are kept with a warning", func() {
				So(string(*b.Bowel[2].Color), ShouldEqual, "purple")
				So(b.Warnings, ShouldHaveLength, 1)
				So(b.Warnings[0], ShouldContainSubstring, "purple")
			})
		})
	})

	Convey("Given malformed datasets", t, func() {
		cases := []struct{ name, doc string }{
			{"unknown key", "users:\n  - id: u1\n    mood: great\n"},
			{"bad date", "users:\n  - id: u1\n    bowel:\n      - {id: b1, date: 01/06/2024, has_movement: true}\n"},
			{"missing movement", "users:\n  - id: u1\n    bowel:\n      - {id: b1, date: 2024-06-01}\n"},
			{"missing user id", "users:\n  - bowel: []\n"},
			{"missing record id", "users:\n  - id: u1\n    bowel:\n      - {date: 2024-06-01, has_movement: false}\n"},
			{"bad occurrence", "users:\n  - id: u1\n    symptoms:\n      - {id: s1, date: 2024-06-01, disease_id: x, intensity: 3, occurred_at: noon}\n"},
			{"not a yaml mapping", "- just\n- a list\n"},
		}
		for _, c := range cases {
			Convey("Then "+c.name+" is rejected", func() {
				d, err := dataset.Read(strings.NewReader(c.doc))
				if err == nil {
					_, err = d.Convert(nil)
				}
				So(errors.Is(err, dataset.ErrMalformed), ShouldBeTrue)
			})
		}
	})

	Convey("Given an empty document", t, func() {
		d, err := dataset.Read(strings.NewReader(""))
		So(err, ShouldBeNil)
		So(d.Users, ShouldBeEmpty)
	})
}

func TestGenerate(t *testing.T) {
	Convey("Given a generator configuration", t, func() {
		cfg := dataset.GenerateConfig{Users: 5, Period: period.Month(2024, time.June, time.UTC), Seed: 42}

		Convey("When a dataset is generated", func() {
			d, err := dataset.Generate(cfg)
			So(err, ShouldBeNil)

			Convey("Then it converts cleanly", func() {
				So(d.Users, ShouldHaveLength, 5)
				b, err := d.Convert(time.UTC)
				So(err, ShouldBeNil)
				So(b.Warnings, ShouldBeEmpty)
				So(b.Profiles, ShouldHaveLength, 5)
				for _, r := range b.Bowel {
					So(cfg.Period.Contains(r.Date), ShouldBeTrue)
				}
			})

			Convey("Then the same seed reproduces it", func() {
				again, _ := dataset.Generate(cfg)
				var a, b bytes.Buffer
				So(dataset.Write(&a, d), ShouldBeNil)
				So(dataset.Write(&b, again), ShouldBeNil)
				So(a.String(), ShouldEqual, b.String())
			})

			Convey("Then it round-trips through a file", func() {
				path := filepath.Join(t.TempDir(), "data.yaml")
				So(dataset.Save(path, d), ShouldBeNil)
				loaded, err := dataset.Load(path)
				So(err, ShouldBeNil)
				So(loaded.Users, ShouldHaveLength, 5)
				So(loaded.Users[0].ID, ShouldEqual, d.Users[0].ID)
			})
		})

		Convey("When the period is invalid", func() {
			_, err := dataset.Generate(dataset.GenerateConfig{Users: 1})
			So(err, ShouldNotBeNil)
		})
	})
}
