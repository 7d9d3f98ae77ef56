package router

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Vietnamese mobile numbers: a leading 0 or +84 followed by 9 digits.
var vnPhonePattern = regexp.MustCompile(`^(0|\+84)\d{9}$`)

// registerValidators installs custom binding validations on gin's validator
func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("vn_phone", func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			if value == "" {
				return true
			}
			return vnPhonePattern.MatchString(value)
		})
	}
}
