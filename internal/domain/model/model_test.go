package model_test

import (
	"encoding/json"
	"testing"
	"time"

	model "github.com/okian/talentlab/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestPillar(t *testing.T) {
	convey.Convey("Given the pillar enumeration", t, func() {
		convey.Convey("Then the canonical order is physical, technical, tactical, psychological", func() {
			convey.So(model.Pillars(), convey.ShouldResemble, []model.Pillar{
				model.PillarPhysical, model.PillarTechnical, model.PillarTactical, model.PillarPsychological,
			})
		})

		convey.Convey("When parsing names in any case", func() {
			p, err := model.ParsePillar(" tactical ")
			convey.So(err, convey.ShouldBeNil)
			convey.So(p, convey.ShouldEqual, model.PillarTactical)
		})

		convey.Convey("When parsing an unknown name", func() {
			_, err := model.ParsePillar("mental")
			convey.So(err, convey.ShouldWrap, model.ErrUnknownPillar)
		})

		convey.Convey("When round-tripping through JSON", func() {
			b, err := json.Marshal(model.PillarPsychological)
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(b), convey.ShouldEqual, `"PSYCHOLOGICAL"`)

			var p model.Pillar
			convey.So(json.Unmarshal(b, &p), convey.ShouldBeNil)
			convey.So(p, convey.ShouldEqual, model.PillarPsychological)
		})

		convey.Convey("Then an invalid pillar refuses to marshal", func() {
			_, err := json.Marshal(model.Pillar(0))
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestAgeGroupForAge(t *testing.T) {
	convey.Convey("Given ages across the academy range", t, func() {
		cases := map[int]model.AgeGroup{
			7:  "U10",
			9:  "U10",
			10: "U12",
			13: "U14",
			14: "U16",
			15: "U16",
			16: "U18",
			21: "U18",
		}
		for age, want := range cases {
			convey.So(model.AgeGroupForAge(age), convey.ShouldEqual, want)
		}
	})
}

func TestPillarScores(t *testing.T) {
	convey.Convey("Given pillar scores", t, func() {
		s := model.PillarScores{Physical: 61, Technical: 72, Tactical: 53, Psychological: 84}

		convey.Convey("Then Score maps every pillar to its field", func() {
			convey.So(s.Score(model.PillarPhysical), convey.ShouldEqual, 61)
			convey.So(s.Score(model.PillarTechnical), convey.ShouldEqual, 72)
			convey.So(s.Score(model.PillarTactical), convey.ShouldEqual, 53)
			convey.So(s.Score(model.PillarPsychological), convey.ShouldEqual, 84)
			convey.So(s.Score(model.Pillar(9)), convey.ShouldEqual, 0)
		})

		convey.Convey("Then Set returns a modified copy", func() {
			updated := s.Set(model.PillarTactical, 90)
			convey.So(updated.Tactical, convey.ShouldEqual, 90)
			convey.So(s.Tactical, convey.ShouldEqual, 53)
		})

		convey.Convey("Then player metrics flatten pillar scores in JSON", func() {
			m := model.PlayerMetrics{PillarScores: s, OVR: 68, Timestamp: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}
			b, err := json.Marshal(m)
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(b), convey.ShouldContainSubstring, `"physical":61`)
			convey.So(string(b), convey.ShouldContainSubstring, `"ovr":68`)
		})
	})
}

func TestTrainingDrillSuits(t *testing.T) {
	convey.Convey("Given a drill for midfielders aged 12 to 16", t, func() {
		d := model.TrainingDrill{MinAge: 12, MaxAge: 16, Positions: []model.Position{"MID", "DEF"}}

		convey.So(d.Suits(12, "MID"), convey.ShouldBeTrue)
		convey.So(d.Suits(16, "DEF"), convey.ShouldBeTrue)
		convey.So(d.Suits(17, "MID"), convey.ShouldBeFalse)
		convey.So(d.Suits(11, "MID"), convey.ShouldBeFalse)
		convey.So(d.Suits(14, "GK"), convey.ShouldBeFalse)
	})
}

func TestEvaluationBracket(t *testing.T) {
	convey.Convey("Given an evaluation", t, func() {
		convey.Convey("When no age group is set it derives one from age", func() {
			e := model.Evaluation{Age: 15, Position: "ATT"}
			convey.So(e.Bracket(), convey.ShouldEqual, model.AgeGroup("U16"))
			convey.So(e.Profile(), convey.ShouldResemble, model.Profile{Age: 15, Position: "ATT", AgeGroup: "U16"})
		})

		convey.Convey("When an age group is set it wins", func() {
			e := model.Evaluation{Age: 15, AgeGroup: "U14"}
			convey.So(e.Bracket(), convey.ShouldEqual, model.AgeGroup("U14"))
		})
	})
}

func TestParseHelpers(t *testing.T) {
	convey.Convey("Given the parse helpers", t, func() {
		tt, err := model.ParseTestType("objective")
		convey.So(err, convey.ShouldBeNil)
		convey.So(tt, convey.ShouldEqual, model.TestObjective)

		_, err = model.ParseTestType("guess")
		convey.So(err, convey.ShouldWrap, model.ErrUnknownTestType)

		qs, err := model.ParseQuestionSet("FIELD_TEST")
		convey.So(err, convey.ShouldBeNil)
		convey.So(qs, convey.ShouldEqual, model.SetFieldTest)

		_, err = model.ParseQuestionSet("parent_assessment")
		convey.So(err, convey.ShouldWrap, model.ErrUnknownQuestionSet)
	})
}
