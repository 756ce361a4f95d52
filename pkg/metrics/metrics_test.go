package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given a private registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When a manager is created with custom options", func() {
			m := NewManager(
				WithPrometheusRegistry(registry),
				WithNamespace("academy"),
				WithSubsystem("test"),
				WithHistogramBuckets([]float64{1, 5, 10}),
			)

			Convey("Then the options are applied", func() {
				So(m.namespace, ShouldEqual, "academy")
				So(m.subsystem, ShouldEqual, "test")
				So(m.histogramBuckets, ShouldResemble, []float64{1, 5, 10})
			})

			Convey("Then metrics are registered under the namespace", func() {
				m.evaluationsAccepted.Inc()
				n, err := testutil.GatherAndCount(registry, "academy_test_evaluations_accepted_total")
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 1)
			})
		})

		Convey("When empty option values are given", func() {
			m := NewManager(WithPrometheusRegistry(registry), WithNamespace(""), WithHistogramBuckets(nil))

			Convey("Then defaults are kept", func() {
				So(m.namespace, ShouldEqual, "talentlab")
				So(m.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
			})
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When intake outcomes are recorded", func() {
			before := testutil.ToFloat64(globalManager.evaluationsAccepted)
			RecordEvaluationAccepted()
			RecordEvaluationDuplicate()
			RecordEvaluationRejected("queue_full")

			Convey("Then the counters move", func() {
				So(testutil.ToFloat64(globalManager.evaluationsAccepted), ShouldEqual, before+1)
				So(testutil.ToFloat64(globalManager.evaluationsRejected.WithLabelValues("queue_full")), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When scoring outcomes are recorded", func() {
			RecordEvaluationScored(77)
			RecordScoringLatency(0.4)
			RecordFallback("neutral")
			RecordFallback("neutral")
			RecordSkippedAnswers(3)

			Convey("Then fallbacks are split by kind", func() {
				So(testutil.ToFloat64(globalManager.fallbacks.WithLabelValues("neutral")), ShouldBeGreaterThanOrEqualTo, 2)
				So(testutil.ToFloat64(globalManager.skippedAnswers), ShouldBeGreaterThanOrEqualTo, 3)
			})
		})

		Convey("When gauges are updated", func() {
			UpdateQueueSize(12)
			UpdateQueueCapacity(100)
			UpdateWorkerCount(4)
			UpdateStoreSize(3, 9)

			Convey("Then they hold the last value", func() {
				So(testutil.ToFloat64(globalManager.queueSize), ShouldEqual, 12)
				So(testutil.ToFloat64(globalManager.queueCapacity), ShouldEqual, 100)
				So(testutil.ToFloat64(globalManager.workerCount), ShouldEqual, 4)
				So(testutil.ToFloat64(globalManager.storePlayers), ShouldEqual, 3)
				So(testutil.ToFloat64(globalManager.storeEvaluations), ShouldEqual, 9)
			})
		})

		Convey("When HTTP traffic is recorded", func() {
			So(func() {
				RecordHTTPRequest("/evaluations", "POST", "202")
				RecordHTTPRequestDuration("/evaluations", "POST", "202", 3.5)
				RecordQueueEnqueueError("closed")
				RecordWorkerError()
				RecordWorkerProcessingLatency(1.2)
				RecordStoreAppendLatency(0.1)
			}, ShouldNotPanic)

			Convey("Then the registry gathers without error", func() {
				_, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
			})
		})
	})
}
