package category_test

import (
	"errors"
	"testing"

	"github.com/okian/bikelog/internal/domain/category"
	"github.com/okian/bikelog/internal/domain/faults"
	. "github.com/smartystreets/goconvey/convey"
)

var inputs = []string{"", "엔진오일", "타이어", "핸들 열선 장착", category.DefaultSentinel, "  "}

func TestResolve_Priority(t *testing.T) {
	Convey("Given a priority resolver", t, func() {
		r := category.New(category.WithMode(category.ModePriority))

		Convey("Then the free text wins whenever it is present", func() {
			for _, p := range inputs[1:3] {
				for _, m := range inputs {
					got, err := r.Resolve(p, m)
					So(err, ShouldBeNil)
					if m == "" || m == "  " {
						So(got, ShouldEqual, p)
					} else {
						So(got, ShouldEqual, m)
					}
				}
			}
		})

		Convey("And an empty preset with empty text falls back to the default preset", func() {
			got, err := r.Resolve("", "")
			So(err, ShouldBeNil)
			So(got, ShouldEqual, "엔진오일")
		})

		Convey("And surrounding spaces are trimmed", func() {
			got, err := r.Resolve("타이어", "  체인 교체 ")
			So(err, ShouldBeNil)
			So(got, ShouldEqual, "체인 교체")
		})

		Convey("And a preset outside the list is rejected even with free text", func() {
			for _, p := range []string{"핸들 열선 장착", category.DefaultSentinel} {
				_, err := r.Resolve(p, "체인 교체")
				So(errors.Is(err, faults.ErrValidation), ShouldBeTrue)
			}
		})
	})
}

func TestResolve_Sentinel(t *testing.T) {
	Convey("Given a sentinel resolver", t, func() {
		r := category.New(category.WithMode(category.ModeSentinel))

		Convey("When the sentinel is selected", func() {
			Convey("Then empty free text is rejected", func() {
				_, err := r.Resolve(category.DefaultSentinel, "")
				So(errors.Is(err, faults.ErrValidation), ShouldBeTrue)

				_, err = r.Resolve(category.DefaultSentinel, "   ")
				So(errors.Is(err, faults.ErrValidation), ShouldBeTrue)
			})

			Convey("And non-empty free text is used", func() {
				got, err := r.Resolve(category.DefaultSentinel, "핸들 열선 장착")
				So(err, ShouldBeNil)
				So(got, ShouldEqual, "핸들 열선 장착")
			})
		})

		Convey("When another preset is selected", func() {
			Convey("Then the preset wins regardless of free text", func() {
				for _, m := range inputs {
					got, err := r.Resolve("타이어", m)
					So(err, ShouldBeNil)
					So(got, ShouldEqual, "타이어")
				}
			})
		})

		Convey("When an unlisted preset is posted", func() {
			Convey("Then it is rejected instead of stored", func() {
				_, err := r.Resolve("아무 항목", "")
				So(errors.Is(err, faults.ErrValidation), ShouldBeTrue)

				_, err = r.Resolve("아무 항목", "핸들 열선 장착")
				So(errors.Is(err, faults.ErrValidation), ShouldBeTrue)
			})
		})

		Convey("Then the sentinel is offered as a preset", func() {
			presets := r.Presets()
			So(presets[len(presets)-1], ShouldEqual, category.DefaultSentinel)
			So(r.Default(), ShouldEqual, "엔진오일")
		})
	})

	Convey("Given a custom sentinel", t, func() {
		r := category.New(
			category.WithMode(category.ModeSentinel),
			category.WithSentinel("기타(직접)"),
			category.WithPresets([]string{"기타(직접)", "체인"}),
		)
		got, err := r.Resolve("기타(직접)", "미러 교체")
		So(err, ShouldBeNil)
		So(got, ShouldEqual, "미러 교체")
		So(r.Default(), ShouldEqual, "체인")
		So(r.Presets(), ShouldResemble, []string{"기타(직접)", "체인"})
	})
}

func TestResolve_NoPresets(t *testing.T) {
	Convey("Given a resolver without usable presets", t, func() {
		r := category.New(category.WithPresets([]string{" "}))
		_, err := r.Resolve("", "")
		So(errors.Is(err, faults.ErrValidation), ShouldBeTrue)
	})
}

func TestParseMode(t *testing.T) {
	Convey("Given mode strings", t, func() {
		m, err := category.ParseMode("Sentinel")
		So(err, ShouldBeNil)
		So(m, ShouldEqual, category.ModeSentinel)

		m, err = category.ParseMode("")
		So(err, ShouldBeNil)
		So(m, ShouldEqual, category.ModePriority)

		_, err = category.ParseMode("random")
		So(errors.Is(err, faults.ErrConfiguration), ShouldBeTrue)
	})
}
