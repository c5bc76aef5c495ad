package handlers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/opencashbook/cashbook_backend/internal/core/domain"
)

// RegisterValidations installs the custom binding rules on gin's validator.
// "cashdate" accepts the dd/mm/yy wire format used for every date field.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("cashdate", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseCashDate(fl.Field().String())
		return err == nil
	})
}
