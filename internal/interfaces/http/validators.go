package http

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// collegeIDField accepts structured registration numbers and loose
// identifiers alike; authentication ultimately decides validity. The check
// only rejects values that cannot be a login identifier at all.
var collegeIDField = regexp.MustCompile(`^[A-Za-z0-9@._-]{3,32}$`)

// RegisterValidators installs custom binding validators on the gin engine.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("collegeid", func(fl validator.FieldLevel) bool {
			return collegeIDField.MatchString(fl.Field().String())
		})
	}
}
