package metrics

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "bikelog")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then metric names carry the namespace and subsystem", func() {
				manager.recordsAppended.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "test_namespace_test_subsystem_records_appended_total" {
						found = true
						So(f.GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "test")
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When creating with empty values", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithConstLabels(nil),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "bikelog")
				So(manager.subsystem, ShouldEqual, "maintenance")
				So(manager.histogramBuckets, ShouldNotBeEmpty)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording maintenance metrics", func() {
			before := testutil.ToFloat64(globalManager.recordsAppended)
			RecordAppended()
			RecordAppended()

			Convey("Then the appended counter moves", func() {
				So(testutil.ToFloat64(globalManager.recordsAppended), ShouldEqual, before+2)
			})

			Convey("And store operations are labelled", func() {
				RecordStoreOperation("xlsx", "append", StatusOK, 3)
				So(testutil.ToFloat64(globalManager.storeOperations.WithLabelValues("xlsx", "append", StatusOK)), ShouldBeGreaterThanOrEqualTo, 1)
			})

			Convey("And history gauges are set", func() {
				UpdateHistory(3, 3500)
				So(testutil.ToFloat64(globalManager.historyRecords), ShouldEqual, 3)
				So(testutil.ToFloat64(globalManager.historyTotalCost), ShouldEqual, 3500)
			})
		})

		Convey("When recording search metrics", func() {
			So(func() {
				RecordSearchRequest()
				RecordSearchCacheHit()
				RecordSearchCacheMiss()
				RecordSearchCacheClear()
				UpdateSearchCacheSize(4)
				RecordSearchUpstream(StatusOK, 120)
				RecordSearchUpstream(StatusError, 20000)
			}, ShouldNotPanic)
			So(testutil.ToFloat64(globalManager.searchCacheSize), ShouldEqual, 4)
		})

		Convey("When recording HTTP and error metrics", func() {
			So(func() {
				RecordHTTPRequest("records", "POST", "201")
				RecordHTTPRequestDuration("records", "POST", "201", 12)
				RecordErrorByKind("search", "timeout")
				RecordErrorByType("server_error", "high")
				RecordErrorByEndpoint("records", "POST", "client_error")
				RecordErrorLatency("http", "client_error", 4)
				RecordValidationReject()
				RecordStoreReset()
			}, ShouldNotPanic)
		})

		Convey("When recording system metrics", func() {
			So(func() {
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.3)
			}, ShouldNotPanic)
		})

		Convey("When recording concurrently", func() {
			var wg sync.WaitGroup
			for i := 0; i < 10; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					RecordSearchRequest()
					RecordHTTPRequest("search", "POST", "200")
				}()
			}
			wg.Wait()

			Convey("Then it should handle concurrent access without panics", func() {
				So(GetRegistry(), ShouldNotBeNil)
			})
		})
	})
}
