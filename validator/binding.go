package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	playground "github.com/go-playground/validator/v10"
)

var voucherCodeRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{1,20}$`)

// RegisterBindings gắn các tag kiểm tra riêng vào validator của gin
func RegisterBindings() error {
	v, ok := binding.Validator.Engine().(*playground.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("vouchercode", func(fl playground.FieldLevel) bool {
		return voucherCodeRegex.MatchString(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("phone", func(fl playground.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || phoneRegex.MatchString(s)
	})
}
