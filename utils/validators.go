package utils

import (
	"fmt"

	"github.com/TheFahmi/Laundry-Systems-sub005/models"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the domain enum tags to v:
// laundry_stage, work_order_status, step_status and order_status
func RegisterValidators(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"laundry_stage": func(fl validator.FieldLevel) bool {
			return models.StepType(fl.Field().String()).Valid()
		},
		"work_order_status": func(fl validator.FieldLevel) bool {
			return models.WorkOrderStatus(fl.Field().String()).Valid()
		},
		"step_status": func(fl validator.FieldLevel) bool {
			return models.StepStatus(fl.Field().String()).Valid()
		},
		"order_status": func(fl validator.FieldLevel) bool {
			return models.OrderStatus(fl.Field().String()).Valid()
		},
	}

	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %s validator: %w", tag, err)
		}
	}
	return nil
}

// RegisterBindingValidators installs the domain tags on gin's binding engine
func RegisterBindingValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
	}
	return RegisterValidators(v)
}
