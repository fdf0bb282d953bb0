package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/okian/bikelog/internal/adapters/http/api"
	app "github.com/okian/bikelog/internal/app"
	"github.com/okian/bikelog/internal/config"
	"github.com/okian/bikelog/pkg/logger"
	"github.com/okian/bikelog/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("BIKELOG_ADDR", ":8080")
			_ = os.Setenv("BIKELOG_STORE_BACKEND", "memory")
			_ = os.Setenv("BIKELOG_CATEGORY_MODE", "sentinel")
			defer func() {
				_ = os.Unsetenv("BIKELOG_ADDR")
				_ = os.Unsetenv("BIKELOG_STORE_BACKEND")
				_ = os.Unsetenv("BIKELOG_CATEGORY_MODE")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.StoreBackend, convey.ShouldEqual, config.BackendMemory)
				convey.So(cfg.CategoryMode, convey.ShouldEqual, "sentinel")

				convey.Convey("And the service options should build from it", func() {
					opts, err := app.FromConfig(cfg, logger.Get())
					convey.So(err, convey.ShouldBeNil)
					svc := app.New(opts...)
					convey.So(svc.Options().Sentinel, convey.ShouldEqual, cfg.CategorySentinel)
				})
			})
		})

		convey.Convey("When testing HTTP server creation", func() {
			svc := app.New()
			convey.So(api.NewServer(svc, svc), convey.ShouldNotBeNil)
		})

		convey.Convey("When testing metrics initialization", func() {
			manager := metrics.NewManager(metrics.WithPrometheusRegistry(prometheus.NewRegistry()))
			convey.So(manager, convey.ShouldNotBeNil)
		})
	})
}

func TestNewHandler(t *testing.T) {
	convey.Convey("Given the assembled handler", t, func() {
		ctx := context.Background()
		svc := app.New()
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		h, err := newHandler(ctx, svc, logger.Get())
		convey.So(err, convey.ShouldBeNil)

		do := func(method, path, body string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(method, path, strings.NewReader(body))
			if body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			return w
		}

		convey.Convey("Then every surface should answer", func() {
			for _, path := range []string{"/", "/history", "/manual", "/api/records", "/api/options", "/healthz", "/stats", "/api-docs", "/openapi.yaml"} {
				w := do(http.MethodGet, path, "")
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			}
		})

		convey.Convey("Then responses should carry a request id", func() {
			w := do(http.MethodGet, "/healthz", "")
			convey.So(w.Header().Get(api.RequestIDHeader), convey.ShouldNotBeEmpty)
		})

		convey.Convey("Then a record posted to the API shows on the history page", func() {
			w := do(http.MethodPost, "/api/records", `{"date":"2024-02-01","mileage_km":1500,"preset_category":"타이어","cost":90000}`)
			convey.So(w.Code, convey.ShouldEqual, http.StatusCreated)

			page := do(http.MethodGet, "/history", "")
			convey.So(page.Body.String(), convey.ShouldContainSubstring, "90,000원")
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When testing system metrics updater", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			convey.So(func() {
				startSystemMetricsUpdater(ctx)
			}, convey.ShouldNotPanic)
		})

		convey.Convey("When testing service metrics updater", func() {
			svc := app.New()
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			convey.So(func() {
				startServiceMetricsUpdater(ctx, svc)
			}, convey.ShouldNotPanic)
		})

		convey.Convey("When testing metric updates", func() {
			svc := app.New()
			convey.So(func() {
				updateSystemMetrics()
				updateServiceMetrics(svc)
			}, convey.ShouldNotPanic)
		})
	})
}

func TestMainApplicationErrorHandling(t *testing.T) {
	convey.Convey("Given main application error handling", t, func() {
		convey.Convey("When the address is empty", func() {
			_ = os.Setenv("BIKELOG_ADDR", "")
			defer func() { _ = os.Unsetenv("BIKELOG_ADDR") }()

			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})

		convey.Convey("When the backend is unknown", func() {
			_ = os.Setenv("BIKELOG_STORE_BACKEND", "csv")
			defer func() { _ = os.Unsetenv("BIKELOG_STORE_BACKEND") }()

			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})
	})
}
