package icon

import (
	"testing"

	"github.com/clipreel/clipreel/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestGet(t *testing.T) {
	Convey("Given the registered icons", t, func() {
		Convey("Each renders in every variant", func() {
			for _, variant := range AvailableVariants() {
				viper.Set(key.IconsVariant, variant)
				for i := range icons {
					So(Get(i), ShouldNotBeEmpty)
				}
			}
		})

		Convey("Unknown variants render empty", func() {
			viper.Set(key.IconsVariant, "")
			So(Get(Play), ShouldBeEmpty)
		})

		Convey("Unknown icons render empty", func() {
			viper.Set(key.IconsVariant, plain)
			So(Get(Icon(99)), ShouldBeEmpty)
		})

		Reset(func() {
			viper.Set(key.IconsVariant, plain)
		})
	})
}
