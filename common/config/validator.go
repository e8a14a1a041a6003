package config

import (
	"cmp"
	"fmt"
	"slices"
)

// FieldError reports one rejected setting.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Validator accumulates FieldErrors so every bad setting is reported at once.
type Validator struct {
	errs []error
}

func NewValidator() *Validator {
	return new(Validator)
}

func (v *Validator) AddError(field, message string) {
	v.errs = append(v.errs, &FieldError{Field: field, Message: message})
}

// Check records message against field unless ok holds.
func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

func (v *Validator) RequireNonEmpty(field, value string) {
	v.Check(value != "", field, "cannot be empty")
}

func (v *Validator) RequireOneOf(field, value string, allowed []string) {
	v.Check(slices.Contains(allowed, value), field, fmt.Sprintf("must be one of %v", allowed))
}

// RequireInRange checks lo <= value <= hi.
func RequireInRange[T cmp.Ordered](v *Validator, field string, value, lo, hi T) {
	v.Check(value >= lo && value <= hi, field, fmt.Sprintf("must be within [%v, %v]", lo, hi))
}

func (v *Validator) Errors() []error {
	return v.errs
}
