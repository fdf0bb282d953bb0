package app_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/bikelog/internal/adapters/repository"
	"github.com/okian/bikelog/internal/adapters/search"
	"github.com/okian/bikelog/internal/app"
	"github.com/okian/bikelog/internal/config"
	"github.com/okian/bikelog/internal/domain/category"
	"github.com/okian/bikelog/internal/domain/faults"
	"github.com/okian/bikelog/internal/domain/model"
	"github.com/okian/bikelog/pkg/logger"
	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

var fixedNow = time.Date(2024, time.March, 5, 14, 30, 15, 0, time.Local)

func submission(date string, preset, manual string, cost int64) model.Submission {
	d, _ := time.ParseInLocation(model.DateLayout, date, time.Local)
	return model.Submission{
		Date:           d,
		BikeModel:      "존테스 350D",
		MileageKM:      12000,
		PresetCategory: preset,
		ManualCategory: manual,
		Details:        "정기 점검",
		Cost:           decimal.NewFromInt(cost),
	}
}

func newService(opts ...app.Option) *app.Service {
	opts = append([]app.Option{app.WithClock(func() time.Time { return fixedNow })}, opts...)
	return app.New(opts...)
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := newService()

		Convey("When starting and stopping it", func() {
			ctx := context.Background()
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.GetStats()["started"], ShouldEqual, true)
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})

		Convey("Then the form options use the defaults", func() {
			opts := svc.Options()
			So(opts.CategoryMode, ShouldEqual, "priority")
			So(opts.DefaultCategory, ShouldEqual, "엔진오일")
			So(opts.DefaultBikeModel, ShouldEqual, "존테스 350D")
			So(opts.BikeModels, ShouldContain, "혼다 PCX")
			So(opts.Symptoms, ShouldContain, "브레이크 소음")
			So(opts.SearchEnabled, ShouldBeFalse)
			So(opts.Sentinel, ShouldBeEmpty)
		})
	})
}

func TestService_Submit(t *testing.T) {
	Convey("Given a service in priority mode", t, func() {
		ctx := context.Background()
		svc := newService()

		Convey("When free text is given", func() {
			rec, err := svc.Submit(ctx, submission("2024-03-01", "엔진오일", " 체인 청소 ", 20000))

			Convey("Then it wins over the preset and the record is stamped", func() {
				So(err, ShouldBeNil)
				So(rec.Category, ShouldEqual, "체인 청소")
				So(rec.RecordedAt, ShouldEqual, fixedNow)
				So(rec.Date.Format(model.DateLayout), ShouldEqual, "2024-03-01")
			})
		})

		Convey("When the date and bike model are left empty", func() {
			sub := submission("", "타이어", "", 120000)
			sub.BikeModel = "  "
			rec, err := svc.Submit(ctx, sub)

			Convey("Then today and the default model are used", func() {
				So(err, ShouldBeNil)
				So(rec.Date.Format(model.DateLayout), ShouldEqual, "2024-03-05")
				So(rec.BikeModel, ShouldEqual, "존테스 350D")
			})
		})

		Convey("When the cost is negative", func() {
			_, err := svc.Submit(ctx, submission("2024-03-01", "타이어", "", -1))

			Convey("Then it is a validation error and nothing is stored", func() {
				So(errors.Is(err, faults.ErrValidation), ShouldBeTrue)
				report, err := svc.History(ctx)
				So(err, ShouldBeNil)
				So(report.TotalCount, ShouldEqual, 0)
			})
		})

		Convey("When the mileage is negative", func() {
			sub := submission("2024-03-01", "타이어", "", 1000)
			sub.MileageKM = -5
			_, err := svc.Submit(ctx, sub)

			So(errors.Is(err, faults.ErrValidation), ShouldBeTrue)
		})
	})

	Convey("Given a service in sentinel mode", t, func() {
		ctx := context.Background()
		svc := newService(app.WithResolver(category.New(
			category.WithMode(category.ModeSentinel),
			category.WithSentinel("직접 입력"),
		)))

		Convey("When the sentinel is chosen without free text", func() {
			_, err := svc.Submit(ctx, submission("2024-03-01", "직접 입력", "", 1000))

			Convey("Then it is rejected", func() {
				So(errors.Is(err, faults.ErrValidation), ShouldBeTrue)
			})
		})

		Convey("When a preset is chosen with stray free text", func() {
			rec, err := svc.Submit(ctx, submission("2024-03-01", "배터리", "무시됨", 1000))

			Convey("Then the preset is kept", func() {
				So(err, ShouldBeNil)
				So(rec.Category, ShouldEqual, "배터리")
			})
		})

		Convey("Then the options expose the sentinel", func() {
			opts := svc.Options()
			So(opts.Sentinel, ShouldEqual, "직접 입력")
			So(opts.Presets, ShouldContain, "직접 입력")
		})
	})
}

func TestService_History(t *testing.T) {
	Convey("Given records submitted out of order", t, func() {
		ctx := context.Background()
		svc := newService()
		for _, sub := range []model.Submission{
			submission("2024-01-01", "엔진오일", "", 1000),
			submission("2024-03-01", "타이어", "", 2000),
			submission("2024-02-01", "배터리", "", 500),
		} {
			_, err := svc.Submit(ctx, sub)
			So(err, ShouldBeNil)
		}

		Convey("When the history is loaded", func() {
			report, err := svc.History(ctx)

			Convey("Then it is sorted by date descending with totals", func() {
				So(err, ShouldBeNil)
				So(report.TotalCount, ShouldEqual, 3)
				So(report.TotalCost.String(), ShouldEqual, "3500")
				So(report.MostRecent, ShouldNotBeNil)
				So(report.MostRecent.Category, ShouldEqual, "타이어")
				var dates []string
				for _, r := range report.Records {
					dates = append(dates, r.Date.Format(model.DateLayout))
				}
				So(dates, ShouldResemble, []string{"2024-03-01", "2024-02-01", "2024-01-01"})
			})
		})
	})

	Convey("Given an empty store", t, func() {
		report, err := newService().History(context.Background())

		Convey("Then the report is empty without error", func() {
			So(err, ShouldBeNil)
			So(report.TotalCount, ShouldEqual, 0)
			So(report.TotalCost.IsZero(), ShouldBeTrue)
			So(report.MostRecent, ShouldBeNil)
		})
	})
}

func TestService_ResetStore(t *testing.T) {
	Convey("Given a service backed by a counting opener", t, func() {
		ctx := context.Background()
		var opens atomic.Int64
		shared := repository.NewMemoryStore()
		svc := newService(app.WithStoreOpener(func(context.Context) (repository.Store, error) {
			opens.Add(1)
			return shared, nil
		}))

		_, err := svc.Submit(ctx, submission("2024-03-01", "주유", "", 15000))
		So(err, ShouldBeNil)
		_, err = svc.History(ctx)
		So(err, ShouldBeNil)

		Convey("Then the store is opened once", func() {
			So(opens.Load(), ShouldEqual, 1)
			So(svc.GetStats()["storeOpen"], ShouldEqual, true)
		})

		Convey("When the store is reset", func() {
			svc.ResetStore(ctx)
			So(svc.GetStats()["storeOpen"], ShouldEqual, false)
			report, err := svc.History(ctx)

			Convey("Then the next call reopens it and sees the data", func() {
				So(err, ShouldBeNil)
				So(report.TotalCount, ShouldEqual, 1)
				So(opens.Load(), ShouldEqual, 2)
			})
		})
	})

	Convey("Given an opener that fails", t, func() {
		svc := newService(app.WithStoreOpener(func(context.Context) (repository.Store, error) {
			return nil, faults.Newf("test.open", faults.ErrStoreConnection, "unreachable")
		}))

		_, err := svc.Submit(context.Background(), submission("2024-03-01", "주유", "", 15000))

		Convey("Then submit surfaces the connection error", func() {
			So(errors.Is(err, faults.ErrStoreConnection), ShouldBeTrue)
		})
	})
}

func TestService_Search(t *testing.T) {
	Convey("Given a service with a search endpoint", t, func() {
		ctx := context.Background()
		var calls atomic.Int64
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			_, _ = w.Write([]byte(`{"answer":"플러그 점검"}`))
		}))
		defer srv.Close()
		svc := newService(app.WithSearchClient(search.New(search.WithEndpoint(srv.URL), search.WithAPIKey("k"))))
		q := search.Query{Keyword: "시동", Model: "혼다 PCX", Symptom: "시동 불량"}

		Convey("When the same query is searched twice", func() {
			first, err := svc.Search(ctx, q)
			So(err, ShouldBeNil)
			_, err = svc.Search(ctx, q)
			So(err, ShouldBeNil)

			Convey("Then the endpoint is called once", func() {
				So(first, ShouldResemble, search.Structured{Summary: "플러그 점검", Links: nil})
				So(calls.Load(), ShouldEqual, 1)
				So(svc.GetStats()["searchCacheSize"], ShouldEqual, 1)
			})

			Convey("Then clearing the cache forces a second call", func() {
				svc.ClearSearchCache(ctx)
				_, err := svc.Search(ctx, q)
				So(err, ShouldBeNil)
				So(calls.Load(), ShouldEqual, 2)
			})
		})
	})

	Convey("Given a service without search credentials", t, func() {
		_, err := newService().Search(context.Background(), search.Query{Keyword: "x"})

		Convey("Then search reports a configuration error", func() {
			So(errors.Is(err, faults.ErrConfiguration), ShouldBeTrue)
		})
	})
}

func TestService_FromConfig(t *testing.T) {
	Convey("Given a config with a sqlite store", t, func() {
		ctx := context.Background()
		cfg := config.New()
		cfg.StoreBackend = config.BackendSQLite
		cfg.SQLitePath = filepath.Join(t.TempDir(), "log.db")
		cfg.CategoryMode = "sentinel"

		opts, err := app.FromConfig(cfg, logger.Get())
		So(err, ShouldBeNil)
		svc := app.New(opts...)
		defer svc.Stop()
		So(svc.Start(ctx), ShouldBeNil)

		Convey("When records are submitted concurrently", func() {
			const n = 6
			var wg sync.WaitGroup
			errs := make(chan error, n)
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_, err := svc.Submit(ctx, submission(fmt.Sprintf("2024-03-%02d", i+1), "엔진오일", "", 1000))
					errs <- err
				}(i)
			}
			wg.Wait()
			close(errs)

			Convey("Then all of them are persisted", func() {
				for err := range errs {
					So(err, ShouldBeNil)
				}
				report, err := svc.History(ctx)
				So(err, ShouldBeNil)
				So(report.TotalCount, ShouldEqual, n)
				So(report.TotalCost.String(), ShouldEqual, "6000")
				So(svc.GetStats()["backend"], ShouldEqual, "sqlite")
			})
		})
	})

	Convey("Given a config with an unknown category mode", t, func() {
		cfg := config.New()
		cfg.CategoryMode = "first"

		_, err := app.FromConfig(cfg, nil)

		Convey("Then it is a configuration error", func() {
			So(errors.Is(err, faults.ErrConfiguration), ShouldBeTrue)
		})
	})
}
