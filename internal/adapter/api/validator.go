package api

import (
	"github.com/go-playground/validator/v10"
)

type Validator struct {
	validator *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{
		validator: validator.New(),
	}
}

// Validate returns the raw validator error so the response layer can turn
// field errors into structured details.
func (v *Validator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}
