package types_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/okian/bikelog/internal/domain/history"
	"github.com/okian/bikelog/internal/domain/model"
	types "github.com/okian/bikelog/internal/domain/types"
	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFromRecord(t *testing.T) {
	Convey("Given a domain record", t, func() {
		r := model.Record{
			Date:       time.Date(2024, time.March, 1, 0, 0, 0, 0, time.Local),
			BikeModel:  "야마하 NMAX",
			MileageKM:  8500.5,
			Category:   "브레이크 패드",
			Cost:       decimal.RequireFromString("45000.50"),
			RecordedAt: time.Date(2024, time.March, 1, 18, 5, 9, 0, time.Local),
		}

		Convey("When converting it", func() {
			out := types.FromRecord(r)

			Convey("Then dates use the storage layouts", func() {
				So(out.Date, ShouldEqual, "2024-03-01")
				So(out.RecordedAt, ShouldEqual, "2024-03-01 18:05:09")
				So(out.Category, ShouldEqual, "브레이크 패드")
			})

			Convey("Then the cost is encoded exactly", func() {
				b, err := json.Marshal(out)
				So(err, ShouldBeNil)
				So(string(b), ShouldContainSubstring, `"cost":"45000.5"`)
			})
		})

		Convey("When the date is missing", func() {
			out := types.FromRecord(model.Record{Category: "주유"})

			Convey("Then it renders empty", func() {
				So(out.Date, ShouldEqual, "")
				So(out.RecordedAt, ShouldEqual, "")
			})
		})
	})
}

func TestFromReport(t *testing.T) {
	Convey("Given an empty report", t, func() {
		out := types.FromReport(history.Build(nil))

		Convey("Then records is an empty list and most recent is null", func() {
			b, err := json.Marshal(out)
			So(err, ShouldBeNil)
			So(string(b), ShouldContainSubstring, `"records":[]`)
			So(string(b), ShouldContainSubstring, `"most_recent":null`)
			So(out.TotalCount, ShouldEqual, 0)
		})
	})

	Convey("Given a report with records", t, func() {
		rep := history.Build([]model.Record{
			{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local), Category: "엔진오일", Cost: decimal.NewFromInt(1000)},
			{Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.Local), Category: "타이어", Cost: decimal.NewFromInt(2000)},
		})
		out := types.FromReport(rep)

		Convey("Then the most recent record is converted too", func() {
			So(out.MostRecent, ShouldNotBeNil)
			So(out.MostRecent.Category, ShouldEqual, "타이어")
			So(out.TotalCost.String(), ShouldEqual, "3000")
			So(out.Records, ShouldHaveLength, 2)
		})
	})
}
