package metrics

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	. "github.com/smartystreets/goconvey/convey"
)

func findFamily(families []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a custom registry and options", func() {
			reg := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{1, 5, 10}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(reg),
			)
			manager.evaluations.Inc()

			Convey("Then collectors are registered under the namespace", func() {
				families, err := reg.Gather()
				So(err, ShouldBeNil)
				mf := findFamily(families, "test_unit_evaluations_total")
				So(mf, ShouldNotBeNil)
				So(mf.GetMetric()[0].GetCounter().GetValue(), ShouldEqual, 1)
				So(mf.GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "test")
			})
		})

		Convey("When registering twice on the same registry", func() {
			reg := prometheus.NewRegistry()
			NewManager(WithPrometheusRegistry(reg))

			Convey("Then promauto panics on the duplicate collectors", func() {
				So(func() { NewManager(WithPrometheusRegistry(reg)) }, ShouldPanic)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the package-level recorders", t, func() {
		Convey("When recording an evaluation", func() {
			before, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			prev := 0.0
			if mf := findFamily(before, "gutscore_engine_evaluations_total"); mf != nil {
				prev = mf.GetMetric()[0].GetCounter().GetValue()
			}

			RecordEvaluation(7.5, "amber", 30, 0.2)

			Convey("Then the evaluation counter grows by one", func() {
				after, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				mf := findFamily(after, "gutscore_engine_evaluations_total")
				So(mf, ShouldNotBeNil)
				So(mf.GetMetric()[0].GetCounter().GetValue(), ShouldEqual, prev+1)
			})
		})

		Convey("When recording every other metric", func() {
			Convey("Then nothing panics", func() {
				So(func() {
					RecordEvaluationError("store")
					RecordInvalidInput("height")
					RecordIngested("bowel")
					RecordDuplicate()
					UpdateRepositorySize(3, 90)
					RecordRepositoryQueryLatency(0.5)
					UpdateQueueCapacity(100)
					UpdateQueueSize(10, 100)
					UpdateQueueSize(0, 0)
					RecordQueueEnqueue()
					RecordQueueDequeue()
					RecordQueueRejected("full")
					UpdateWorkerCount(4)
					RecordWorkerProcessingLatency(1.5)
					RecordWorkerError("fetch")
				}, ShouldNotPanic)
			})
		})
	})
}

func TestWriteText(t *testing.T) {
	Convey("Given recorded metrics", t, func() {
		RecordDuplicate()

		Convey("When rendering the registry as text", func() {
			var buf bytes.Buffer
			err := WriteText(&buf, GetRegistry())

			Convey("Then the exposition contains the metric names", func() {
				So(err, ShouldBeNil)
				So(buf.String(), ShouldContainSubstring, "# TYPE gutscore_engine_records_duplicate_total counter")
				So(buf.String(), ShouldContainSubstring, "gutscore_engine_queue_capacity")
			})
		})
	})
}
