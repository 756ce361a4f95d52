package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/talentlab/internal/adapters/http/api"
	"github.com/okian/talentlab/internal/adapters/repository"
	service "github.com/okian/talentlab/internal/app"
	"github.com/okian/talentlab/internal/domain/model"
	"github.com/okian/talentlab/internal/domain/recommend"
	"github.com/okian/talentlab/internal/domain/scoring"
	"github.com/okian/talentlab/internal/domain/types"
	"github.com/okian/talentlab/pkg/logger"
)

func init() {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

// fakeDeps implements api.Dependencies with canned answers.
type fakeDeps struct {
	seen      map[string]bool
	queueFull bool
	submitted []model.Evaluation

	history  map[string][]model.PlayerMetrics
	insights []model.BenchmarkInsight
	plan     recommend.Plan
	topN     []types.Entry
	topNErr  error

	lastPhilosophy string
	lastTopN       int
}

func newFakeDeps() *fakeDeps {
	return &fakeDeps{
		seen: map[string]bool{},
		history: map[string][]model.PlayerMetrics{
			"p-1": {
				{PillarScores: model.PillarScores{Physical: 60, Technical: 70, Tactical: 50, Psychological: 80}, OVR: 64},
				{PillarScores: model.PillarScores{Physical: 65, Technical: 72, Tactical: 55, Psychological: 80}, OVR: 67},
			},
		},
	}
}

func (f *fakeDeps) Submit(_ context.Context, ev model.Evaluation) (service.SubmitResult, error) {
	if ev.PlayerID == "" {
		return service.SubmitResult{}, fmt.Errorf("%w: player_id is required", service.ErrInvalidEvaluation)
	}
	if ev.EvaluationID == "" {
		ev.EvaluationID = "generated-id"
	}
	if f.seen[ev.EvaluationID] {
		return service.SubmitResult{EvaluationID: ev.EvaluationID, Duplicate: true}, nil
	}
	if f.queueFull {
		return service.SubmitResult{}, service.ErrQueueFull
	}
	f.seen[ev.EvaluationID] = true
	f.submitted = append(f.submitted, ev)
	return service.SubmitResult{EvaluationID: ev.EvaluationID}, nil
}

func (f *fakeDeps) Preview(_ context.Context, ev model.Evaluation) (scoring.Result, error) {
	if ev.Age == 0 {
		return scoring.Result{}, fmt.Errorf("%w: age 0 outside 5..25", service.ErrInvalidEvaluation)
	}
	return scoring.Result{
		PlayerID: ev.PlayerID,
		AgeGroup: ev.Bracket(),
		Position: ev.Position,
		Metrics:  model.PlayerMetrics{PillarScores: scoring.DefaultPillarScores(), OVR: 68},
	}, nil
}

func (f *fakeDeps) Insight(_ context.Context, req service.InsightRequest) (model.BenchmarkInsight, error) {
	switch req.TestID {
	case "PHY_FT_01":
		return model.BenchmarkInsight{TestID: req.TestID, Label: "30m Sprint", Percentage: 10, Direction: model.DirectionAbove, AgeGroup: req.AgeGroup, Position: req.Position}, nil
	case "TEC_FT_03":
		return model.BenchmarkInsight{}, service.ErrNoBenchmark
	default:
		return model.BenchmarkInsight{}, service.ErrUnknownTest
	}
}

func (f *fakeDeps) History(_ context.Context, playerID string) ([]model.PlayerMetrics, error) {
	h, ok := f.history[playerID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return h, nil
}

func (f *fakeDeps) Latest(ctx context.Context, playerID string) (model.PlayerMetrics, error) {
	h, err := f.History(ctx, playerID)
	if err != nil {
		return model.PlayerMetrics{}, err
	}
	return h[len(h)-1], nil
}

func (f *fakeDeps) PlayerInsights(ctx context.Context, playerID string) ([]model.BenchmarkInsight, error) {
	if _, err := f.History(ctx, playerID); err != nil {
		return nil, err
	}
	return f.insights, nil
}

func (f *fakeDeps) Recommendations(ctx context.Context, playerID, philosophy string) (recommend.Plan, error) {
	if _, err := f.History(ctx, playerID); err != nil {
		return recommend.Plan{}, err
	}
	f.lastPhilosophy = philosophy
	return f.plan, nil
}

func (f *fakeDeps) Rank(ctx context.Context, playerID string) (types.Entry, error) {
	m, err := f.Latest(ctx, playerID)
	if err != nil {
		return types.Entry{}, err
	}
	return types.Entry{Rank: 1, PlayerID: playerID, OVR: m.OVR}, nil
}

func (f *fakeDeps) TopN(_ context.Context, n int) ([]types.Entry, error) {
	f.lastTopN = n
	if f.topNErr != nil {
		return nil, f.topNErr
	}
	if n > len(f.topN) {
		return f.topN, nil
	}
	return f.topN[:n], nil
}

func (f *fakeDeps) QuestionSet(_ context.Context, name string) ([]model.TestDefinition, error) {
	set, err := model.ParseQuestionSet(name)
	if err != nil {
		return nil, err
	}
	return []model.TestDefinition{{ID: "PHY_FT_01", Label: "30m Sprint", Pillar: model.PillarPhysical, Set: set}}, nil
}

func (f *fakeDeps) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true, "players": 1}
}

type ackResponse struct {
	Status       string `json:"status"`
	EvaluationID string `json:"evaluation_id"`
	Duplicate    bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader = http.NoBody
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](w *httptest.ResponseRecorder) T {
	var v T
	So(json.NewDecoder(w.Body).Decode(&v), ShouldBeNil)
	return v
}

const validEvaluation = `{
	"evaluation_id": "ev-1",
	"player_id": "p-1",
	"age": 15,
	"position": "att",
	"answers": {"PHY_FT_01": 5.5, "PSY_SA_01": 8},
	"ts": "2026-03-01T10:00:00+01:00"
}`

func TestEvaluationRoutes(t *testing.T) {
	Convey("Given an API router", t, func() {
		deps := newFakeDeps()
		router := api.NewServer(deps).Router()

		Convey("When a valid evaluation is posted", func() {
			w := do(router, http.MethodPost, "/evaluations", validEvaluation)

			Convey("Then it is accepted and normalized", func() {
				So(w.Code, ShouldEqual, http.StatusAccepted)
				ack := decode[ackResponse](w)
				So(ack.Status, ShouldEqual, "accepted")
				So(ack.EvaluationID, ShouldEqual, "ev-1")
				So(ack.Duplicate, ShouldBeFalse)

				So(deps.submitted, ShouldHaveLength, 1)
				ev := deps.submitted[0]
				So(ev.Position, ShouldEqual, model.Position("ATT"))
				So(ev.TS.Equal(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)), ShouldBeTrue)
				So(ev.Answers["PHY_FT_01"], ShouldEqual, 5.5)
			})

			Convey("And the same evaluation id is posted again", func() {
				w2 := do(router, http.MethodPost, "/evaluations", validEvaluation)

				Convey("Then it is reported as a duplicate", func() {
					So(w2.Code, ShouldEqual, http.StatusOK)
					ack := decode[ackResponse](w2)
					So(ack.Status, ShouldEqual, "duplicate")
					So(ack.Duplicate, ShouldBeTrue)
					So(deps.submitted, ShouldHaveLength, 1)
				})
			})
		})

		Convey("When the evaluation id is omitted", func() {
			w := do(router, http.MethodPost, "/evaluations", `{"player_id":"p-2","age":12,"position":"MID","answers":{"PSY_SA_01":6}}`)

			Convey("Then the generated id is returned", func() {
				So(w.Code, ShouldEqual, http.StatusAccepted)
				So(decode[ackResponse](w).EvaluationID, ShouldEqual, "generated-id")
				So(deps.submitted[0].TS.IsZero(), ShouldBeTrue)
			})
		})

		Convey("When the body is not JSON", func() {
			w := do(router, http.MethodPost, "/evaluations", `{invalid json`)

			Convey("Then it is rejected as a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode[errorResponse](w).Code, ShouldEqual, "bad_request")
			})
		})

		Convey("When the timestamp is not RFC3339", func() {
			w := do(router, http.MethodPost, "/evaluations", `{"player_id":"p-1","age":15,"position":"ATT","answers":{"PSY_SA_01":6},"ts":"yesterday"}`)

			Convey("Then it is rejected with a message naming the format", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode[errorResponse](w).Message, ShouldContainSubstring, "RFC3339")
			})
		})

		Convey("When validation fails in the service", func() {
			w := do(router, http.MethodPost, "/evaluations", `{"age":15,"position":"ATT","answers":{"PSY_SA_01":6}}`)

			Convey("Then the validation message is returned with 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				resp := decode[errorResponse](w)
				So(resp.Code, ShouldEqual, "bad_request")
				So(resp.Message, ShouldContainSubstring, "player_id is required")
			})
		})

		Convey("When the queue is full", func() {
			deps.queueFull = true
			w := do(router, http.MethodPost, "/evaluations", validEvaluation)

			Convey("Then it answers 429 with a backpressure code", func() {
				So(w.Code, ShouldEqual, http.StatusTooManyRequests)
				So(decode[errorResponse](w).Code, ShouldEqual, "backpressure")
			})
		})

		Convey("When an evaluation is previewed", func() {
			w := do(router, http.MethodPost, "/evaluations/preview", validEvaluation)

			Convey("Then the scoring result is returned without submitting", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				res := decode[scoring.Result](w)
				So(res.AgeGroup, ShouldEqual, model.AgeGroup("U16"))
				So(res.Metrics.OVR, ShouldEqual, 68)
				So(deps.submitted, ShouldBeEmpty)
			})
		})

		Convey("When an invalid evaluation is previewed", func() {
			w := do(router, http.MethodPost, "/evaluations/preview", `{"player_id":"p-1","position":"ATT","answers":{"PSY_SA_01":6}}`)

			Convey("Then it answers 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When GET is used on the submit route", func() {
			w := do(router, http.MethodGet, "/evaluations", "")

			Convey("Then the method is not allowed", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			})
		})
	})
}

func TestInsightRoute(t *testing.T) {
	Convey("Given an API router", t, func() {
		router := api.NewServer(newFakeDeps()).Router()

		Convey("When a benchmarked test is compared", func() {
			w := do(router, http.MethodPost, "/insights", `{"test_id":"PHY_FT_01","raw":4.5,"age_group":"u16","position":"att"}`)

			Convey("Then the insight is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				in := decode[model.BenchmarkInsight](w)
				So(in.Direction, ShouldEqual, model.DirectionAbove)
				So(in.Percentage, ShouldEqual, 10)
				So(in.AgeGroup, ShouldEqual, model.AgeGroup("U16"))
				So(in.Position, ShouldEqual, model.Position("ATT"))
			})
		})

		Convey("When the test has no benchmark", func() {
			w := do(router, http.MethodPost, "/insights", `{"test_id":"TEC_FT_03","raw":12,"age":15,"position":"MID"}`)

			Convey("Then it answers 404", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(decode[errorResponse](w).Code, ShouldEqual, "not_found")
			})
		})

		Convey("When the test is unknown", func() {
			w := do(router, http.MethodPost, "/insights", `{"test_id":"ZZZ","raw":1,"age":15}`)

			Convey("Then it answers 404", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When neither age nor age group is given", func() {
			w := do(router, http.MethodPost, "/insights", `{"test_id":"PHY_FT_01","raw":4.5}`)

			Convey("Then it answers 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When test_id is missing", func() {
			w := do(router, http.MethodPost, "/insights", `{"raw":4.5,"age":15}`)

			Convey("Then it answers 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode[errorResponse](w).Message, ShouldContainSubstring, "test_id")
			})
		})
	})
}

func TestPlayerRoutes(t *testing.T) {
	Convey("Given an API router with one known player", t, func() {
		deps := newFakeDeps()
		deps.insights = []model.BenchmarkInsight{{TestID: "PHY_FT_01", Percentage: 4, Direction: model.DirectionBelow}}
		deps.plan = recommend.Plan{
			WeakestPillar: model.PillarTactical,
			ShortTerm:     []model.TrainingDrill{{ID: "DRL-TAC-01", Pillar: model.PillarTactical}},
			MediumTerm:    []model.TrainingDrill{{ID: "DRL-TAC-01", Pillar: model.PillarTactical}},
			LongTerm:      "Build tactical foundations as a MID.",
		}
		router := api.NewServer(deps).Router()

		Convey("When the history is requested", func() {
			w := do(router, http.MethodGet, "/players/p-1/metrics", "")

			Convey("Then all sessions are returned oldest first", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				history := decode[[]model.PlayerMetrics](w)
				So(history, ShouldHaveLength, 2)
				So(history[0].OVR, ShouldEqual, 64)
				So(history[1].Tactical, ShouldEqual, 55)
			})
		})

		Convey("When the latest metrics are requested", func() {
			w := do(router, http.MethodGet, "/players/p-1/latest", "")

			Convey("Then the newest session is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decode[model.PlayerMetrics](w).OVR, ShouldEqual, 67)
			})
		})

		Convey("When insights are requested", func() {
			w := do(router, http.MethodGet, "/players/p-1/insights", "")

			Convey("Then the latest insights are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				insights := decode[[]model.BenchmarkInsight](w)
				So(insights, ShouldHaveLength, 1)
				So(insights[0].Direction, ShouldEqual, model.DirectionBelow)
			})
		})

		Convey("When a player has no insights", func() {
			deps.insights = nil
			w := do(router, http.MethodGet, "/players/p-1/insights", "")

			Convey("Then an empty array is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(strings.TrimSpace(w.Body.String()), ShouldEqual, "[]")
			})
		})

		Convey("When recommendations are requested with a philosophy", func() {
			w := do(router, http.MethodGet, "/players/p-1/recommendations?philosophy=possession", "")

			Convey("Then the plan is returned and the philosophy forwarded", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				plan := decode[recommend.Plan](w)
				So(plan.WeakestPillar, ShouldEqual, model.PillarTactical)
				So(plan.ShortTerm[0].ID, ShouldEqual, "DRL-TAC-01")
				So(deps.lastPhilosophy, ShouldEqual, "possession")
			})
		})

		Convey("When the plan holds a drill that cannot be encoded", func() {
			deps.plan.ShortTerm = []model.TrainingDrill{{ID: "DRL-BROKEN"}}
			w := do(router, http.MethodGet, "/players/p-1/recommendations", "")

			Convey("Then a 500 with an error body is returned instead of an empty 200", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				body := decode[errorResponse](w)
				So(body.Code, ShouldEqual, "internal_error")
			})
		})

		Convey("When the rank is requested", func() {
			w := do(router, http.MethodGet, "/players/p-1/rank", "")

			Convey("Then the leaderboard row is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				e := decode[types.Entry](w)
				So(e.Rank, ShouldEqual, 1)
				So(e.PlayerID, ShouldEqual, "p-1")
				So(e.OVR, ShouldEqual, 67)
			})
		})

		Convey("When an unknown player is requested", func() {
			for _, path := range []string{"metrics", "latest", "insights", "recommendations", "rank"} {
				w := do(router, http.MethodGet, "/players/nobody/"+path, "")
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(decode[errorResponse](w).Code, ShouldEqual, "not_found")
			}
		})
	})
}

func TestLeaderboardRoute(t *testing.T) {
	Convey("Given an API router with a leaderboard", t, func() {
		deps := newFakeDeps()
		deps.topN = []types.Entry{
			{Rank: 1, PlayerID: "p-1", OVR: 80},
			{Rank: 1, PlayerID: "p-2", OVR: 80},
			{Rank: 3, PlayerID: "p-3", OVR: 71},
		}
		router := api.NewServer(deps, api.WithMaxLeaderboardLimit(50)).Router()

		Convey("When requesting top N entries", func() {
			w := do(router, http.MethodGet, "/leaderboard?limit=2", "")

			Convey("Then the top N entries are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				entries := decode[[]types.Entry](w)
				So(entries, ShouldHaveLength, 2)
				So(entries[0].PlayerID, ShouldEqual, "p-1")
				So(entries[1].Rank, ShouldEqual, 1)
			})
		})

		Convey("When no limit is specified", func() {
			w := do(router, http.MethodGet, "/leaderboard", "")

			Convey("Then the default limit is used", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastTopN, ShouldEqual, 10)
			})
		})

		Convey("When the limit is invalid", func() {
			for _, q := range []string{"0", "-3", "ten"} {
				w := do(router, http.MethodGet, "/leaderboard?limit="+q, "")
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			}
		})

		Convey("When the limit exceeds the maximum", func() {
			w := do(router, http.MethodGet, "/leaderboard?limit=51", "")

			Convey("Then it answers 400 naming the maximum", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode[errorResponse](w).Message, ShouldContainSubstring, "50")
			})
		})

		Convey("When the board is empty", func() {
			deps.topN = nil
			w := do(router, http.MethodGet, "/leaderboard?limit=5", "")

			Convey("Then an empty array is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(strings.TrimSpace(w.Body.String()), ShouldEqual, "[]")
			})
		})

		Convey("When the store fails", func() {
			deps.topNErr = errors.New("boom")
			w := do(router, http.MethodGet, "/leaderboard?limit=5", "")

			Convey("Then it answers 500", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(decode[errorResponse](w).Code, ShouldEqual, "internal_error")
			})
		})
	})
}

func TestCatalogAndOperationalRoutes(t *testing.T) {
	Convey("Given an API router", t, func() {
		router := api.NewServer(newFakeDeps(), api.WithAllowedOrigins([]string{"https://academy.example"})).Router()

		Convey("When a known question set is requested", func() {
			w := do(router, http.MethodGet, "/catalog/question-sets/field_test", "")

			Convey("Then its tests are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				tests := decode[[]model.TestDefinition](w)
				So(tests, ShouldHaveLength, 1)
				So(tests[0].Set, ShouldEqual, model.QuestionSet("field_test"))
			})
		})

		Convey("When an unknown question set is requested", func() {
			w := do(router, http.MethodGet, "/catalog/question-sets/video_review", "")

			Convey("Then it answers 404", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When health is requested", func() {
			w := do(router, http.MethodGet, "/healthz", "")

			Convey("Then Prometheus exposition is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/plain")
			})
		})

		Convey("When stats are requested", func() {
			w := do(router, http.MethodGet, "/stats", "")

			Convey("Then the provider's stats are returned as JSON", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				stats := decode[map[string]interface{}](w)
				So(stats["started"], ShouldEqual, true)
				So(stats["players"], ShouldEqual, 1)
			})
		})

		Convey("When a CORS preflight arrives from an allowed origin", func() {
			req := httptest.NewRequest(http.MethodOptions, "/evaluations", http.NoBody)
			req.Header.Set("Origin", "https://academy.example")
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Convey("Then the origin is echoed back", func() {
				So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "https://academy.example")
			})
		})

		Convey("When an unknown route is requested", func() {
			w := do(router, http.MethodGet, "/dashboard", "")

			Convey("Then it answers 404", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}
