package config_test

import (
	"testing"

	"github.com/okian/bikelog/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8501")
			convey.So(cfg.StoreBackend, convey.ShouldEqual, config.BackendXLSX)
			convey.So(cfg.SearchTimeoutMS, convey.ShouldEqual, 20_000)
			convey.So(cfg.SearchCacheSize, convey.ShouldEqual, 256)
			convey.So(cfg.CategoryMode, convey.ShouldEqual, "priority")
			convey.So(cfg.CategorySentinel, convey.ShouldEqual, "직접 입력")
			convey.So(cfg.DefaultBikeModel, convey.ShouldEqual, "존테스 350D")
			convey.So(cfg.CategoryPresets, convey.ShouldContain, "엔진오일")
			convey.So(cfg.Symptoms, convey.ShouldContain, "시동 불량")
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then search is disabled until both credentials are set", func() {
			convey.So(cfg.SearchEnabled(), convey.ShouldBeFalse)
			cfg.SearchEndpoint = "https://search.example.com"
			convey.So(cfg.SearchEnabled(), convey.ShouldBeFalse)
			cfg.SearchAPIKey = "k"
			convey.So(cfg.SearchEnabled(), convey.ShouldBeTrue)
		})
	})
}
