package serverutils

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		var errs validator.ValidationErrors
		if ok := AsValidationErrors(err, &errs); ok && len(errs) > 0 {
			first := errs[0]
			return NewHttpError(fiber.StatusBadRequest,
				fmt.Sprintf("Field '%s' failed on '%s' rule", first.Field(), first.Tag()))
		}
		return NewHttpError(fiber.StatusBadRequest, "Invalid request body")
	}
	return nil
}

func AsValidationErrors(err error, target *validator.ValidationErrors) bool {
	if ve, ok := err.(validator.ValidationErrors); ok {
		*target = ve
		return true
	}
	return false
}
