package model_test

import (
	"errors"
	"testing"
	"time"

	model "github.com/okian/bikelog/internal/domain/model"
	"github.com/shopspring/decimal"
	"github.com/smartystreets/goconvey/convey"
)

func sampleRecord() model.Record {
	return model.Record{
		Date:       time.Date(2024, time.March, 1, 0, 0, 0, 0, time.Local),
		BikeModel:  "존테스 350D",
		MileageKM:  12345.5,
		Category:   "엔진오일",
		Details:    "합성유 100% 교환, 공임 포함",
		Cost:       decimal.NewFromInt(45000),
		RecordedAt: time.Date(2024, time.March, 1, 18, 30, 5, 0, time.Local),
	}
}

func TestRecordSerialization(t *testing.T) {
	convey.Convey("Given a record", t, func() {
		r := sampleRecord()

		convey.Convey("When serialized to strings", func() {
			row := r.Strings()

			convey.Convey("Then the columns follow the fixed order", func() {
				convey.So(row, convey.ShouldResemble, []string{
					"2024-03-01", "존테스 350D", "12345.5", "엔진오일", "합성유 100% 교환, 공임 포함", "45000", "2024-03-01 18:30:05",
				})
			})

			convey.Convey("And decoding gives back every field", func() {
				back, err := model.DefaultColumns().Decode(row)
				convey.So(err, convey.ShouldBeNil)
				convey.So(back.Date.Equal(r.Date), convey.ShouldBeTrue)
				convey.So(back.BikeModel, convey.ShouldEqual, r.BikeModel)
				convey.So(back.MileageKM, convey.ShouldEqual, r.MileageKM)
				convey.So(back.Category, convey.ShouldEqual, r.Category)
				convey.So(back.Details, convey.ShouldEqual, r.Details)
				convey.So(back.Cost.Equal(r.Cost), convey.ShouldBeTrue)
				convey.So(back.RecordedAt.Equal(r.RecordedAt), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When serialized to typed cells", func() {
			cells := r.Cells()

			convey.Convey("Then numbers stay numeric", func() {
				convey.So(len(cells), convey.ShouldEqual, model.ColumnCount)
				convey.So(cells[model.ColMileage], convey.ShouldEqual, 12345.5)
				convey.So(cells[model.ColCost], convey.ShouldEqual, 45000.0)
			})
		})

		convey.Convey("When the cost needs more precision than a number cell keeps", func() {
			for _, c := range []string{"0.30000000000000004", "90071992547409931", "1234567890.123456789"} {
				r.Cost = decimal.RequireFromString(c)
				cell := r.Cells()[model.ColCost]

				convey.So(cell, convey.ShouldEqual, c)
				back, err := model.ParseMoney(cell.(string))
				convey.So(err, convey.ShouldBeNil)
				convey.So(back.Equal(r.Cost), convey.ShouldBeTrue)
			}
		})

		convey.Convey("When the cost has cents", func() {
			r.Cost = decimal.RequireFromString("12500.5")
			convey.So(r.Cells()[model.ColCost], convey.ShouldEqual, 12500.5)
		})
	})
}

func TestHeader(t *testing.T) {
	convey.Convey("Given the store header", t, func() {
		convey.So(model.HeaderCells(), convey.ShouldResemble, []any{
			"날짜", "차종", "주행거리(km)", "항목", "내용", "비용(원)", "기록일시",
		})
	})
}

func TestColumnsFromHeader(t *testing.T) {
	convey.Convey("Given a reordered header without the cost column", t, func() {
		cols := model.ColumnsFromHeader([]string{"항목", "날짜", "차종", "비고"})

		convey.Convey("Then fields are found by label", func() {
			convey.So(cols.Has(model.ColCategory), convey.ShouldBeTrue)
			convey.So(cols.Has(model.ColCost), convey.ShouldBeFalse)
		})

		convey.Convey("And decoding reads cells by position", func() {
			r, err := cols.Decode([]string{"타이어", "2024-02-01", "혼다 PCX", "x"})
			convey.So(err, convey.ShouldBeNil)
			convey.So(r.Category, convey.ShouldEqual, "타이어")
			convey.So(r.BikeModel, convey.ShouldEqual, "혼다 PCX")
			convey.So(r.Date.Format(model.DateLayout), convey.ShouldEqual, "2024-02-01")
			convey.So(r.Cost.IsZero(), convey.ShouldBeTrue)
		})
	})

	convey.Convey("Given a short row", t, func() {
		r, err := model.DefaultColumns().Decode([]string{"2024-01-01", "bike"})
		convey.So(err, convey.ShouldBeNil)
		convey.So(r.Category, convey.ShouldEqual, "")
		convey.So(r.MileageKM, convey.ShouldEqual, 0)
	})
}

func TestParseDate(t *testing.T) {
	convey.Convey("Given date cells in several formats", t, func() {
		for _, s := range []string{"2024-03-01", "2024-03-01 23:59:59", "2024/03/01", "2024.03.01", "2024-03-01T10:00:00", "45352"} {
			d, err := model.ParseDate(s)
			convey.So(err, convey.ShouldBeNil)
			convey.So(d.Format(model.DateLayout), convey.ShouldEqual, "2024-03-01")
			convey.So(d.Hour(), convey.ShouldEqual, 0)
		}
	})

	convey.Convey("Given garbage", t, func() {
		_, err := model.ParseDate("yesterday")
		convey.So(errors.Is(err, model.ErrBadDate), convey.ShouldBeTrue)

		r, err := model.DefaultColumns().Decode([]string{"yesterday", "bike", "100", "주유"})
		convey.So(err, convey.ShouldNotBeNil)
		convey.So(r.Date.IsZero(), convey.ShouldBeTrue)
		convey.So(r.Category, convey.ShouldEqual, "주유")
	})
}

func TestParseNumbers(t *testing.T) {
	convey.Convey("Given numeric cells with separators", t, func() {
		v, err := model.ParseNumber("12,300")
		convey.So(err, convey.ShouldBeNil)
		convey.So(v, convey.ShouldEqual, 12300)

		m, err := model.ParseMoney("1,000원")
		convey.So(err, convey.ShouldBeNil)
		convey.So(m.Equal(decimal.NewFromInt(1000)), convey.ShouldBeTrue)

		_, err = model.ParseMoney("abc")
		convey.So(errors.Is(err, model.ErrBadNumber), convey.ShouldBeTrue)
	})

	convey.Convey("Given FormatNumber", t, func() {
		convey.So(model.FormatNumber(1500), convey.ShouldEqual, "1500")
		convey.So(model.FormatNumber(0.25), convey.ShouldEqual, "0.25")
	})
}
