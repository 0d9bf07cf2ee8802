package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})
			metricsEnabledOpt := WithMetricsEnabled(true)
			refreshIntervalOpt := WithRefreshInterval(5 * time.Second)
			customLabelsOpt := WithCustomLabels(map[string]string{"env": "test"})

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
				So(metricsEnabledOpt, ShouldNotBeNil)
				So(refreshIntervalOpt, ShouldNotBeNil)
				So(customLabelsOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "tally")
				So(manager.subsystem, ShouldEqual, "ledger")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithRefreshInterval(10*time.Second),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should apply the options", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "test-namespace")
				So(manager.subsystem, ShouldEqual, "test-subsystem")
				So(manager.refreshInterval, ShouldEqual, 10*time.Second)
			})
		})

		Convey("When creating with empty option values", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults should be preserved", func() {
				So(manager.namespace, ShouldEqual, "tally")
				So(manager.subsystem, ShouldEqual, "ledger")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording aggregation metrics", func() {
			So(func() {
				RecordAggregationRun()
				RecordAggregationFailure()
				RecordAggregationDuration(12.5)
				RecordRecordsMerged(42)
				UpdateMemberCount(10)
				UpdateSourceCount(4)
			}, ShouldNotPanic)
		})

		Convey("When recording correction metrics", func() {
			So(func() {
				RecordCorrection("email")
				RecordCorrection("name")
				RecordCorrection("delete")
				RecordCorrectionFailure("email")
				RecordCorrectionRecords(3)
			}, ShouldNotPanic)
		})

		Convey("When recording lookup and source metrics", func() {
			So(func() {
				RecordLookupRequest()
				RecordLookupEmpty()
				RecordLookupDuration(3.2)
				RecordSourceReadLatency(1.1)
				RecordSourceWriteLatency(2.2)
				RecordScheduledRecompute()
			}, ShouldNotPanic)
		})

		Convey("When recording HTTP and error metrics", func() {
			So(func() {
				RecordHTTPRequest("ledger", "GET", "200")
				RecordHTTPRequestDuration("ledger", "GET", "200", 5.0)
				RecordErrorByComponent("aggregate", "source_unavailable")
				RecordErrorByEndpoint("ledger", "GET", "server_error")
			}, ShouldNotPanic)
		})

		Convey("When recording system metrics", func() {
			So(func() {
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.5)
			}, ShouldNotPanic)
		})

		Convey("When fetching the registry", func() {
			So(GetRegistry(), ShouldNotBeNil)
		})
	})
}
