package utils

import (
	"lending/models"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

func IsCategoryValid(category string) bool {
	for _, c := range models.Categories {
		if string(c) == category {
			return true
		}
	}
	return false
}

func IsConditionValid(condition string) bool {
	for _, c := range models.Conditions {
		if string(c) == condition {
			return true
		}
	}
	return false
}

// NewValidator returns a validator that also understands the `category`
// and `condition` tags and reports fields by their json names.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return IsCategoryValid(fl.Field().String())
	})
	_ = v.RegisterValidation("condition", func(fl validator.FieldLevel) bool {
		return IsConditionValid(fl.Field().String())
	})
	return v
}
