package handler

import (
	"sync"

	"attendance-leave/internal/models"
	"attendance-leave/pkg/workdays"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var validatorsOnce sync.Once

// registerValidators adds the domain tags used in request bodies to gin's
// validator engine.
func registerValidators() {
	validatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("leavetype", func(fl validator.FieldLevel) bool {
			return models.LeaveType(fl.Field().String()).IsValid()
		})
		_ = v.RegisterValidation("decision", func(fl validator.FieldLevel) bool {
			s := models.LeaveStatus(fl.Field().String())
			return s == models.LeaveApproved || s == models.LeaveRejected
		})
		_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
			_, err := workdays.ParseDate(fl.Field().String())
			return err == nil
		})
	})
}
