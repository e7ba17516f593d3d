package helpers

import (
	"reflect"
	"strings"
	"sync"

	model "auction-marketplace/internal/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidations installs the custom binding rules on gin's validator and
// reports fields by their JSON names
func RegisterValidations() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return f.Name
		})

		_ = v.RegisterValidation("auction_type", func(fl validator.FieldLevel) bool {
			return model.AuctionType(fl.Field().String()).IsValid()
		})
	})
}
