// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"merlin/internal/models"
)

// monthNames are the month choices offered when creating an assessment.
var monthNames = map[string]bool{
	"january": true, "february": true, "march": true, "april": true,
	"may": true, "june": true, "july": true, "august": true,
	"september": true, "october": true, "november": true, "december": true,
}

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn registers the custom validators on v.
func RegisterOn(v *validator.Validate) {
	_ = v.RegisterValidation("entry_kind", validateEntryKind)
	_ = v.RegisterValidation("month_name", validateMonthName)
	_ = v.RegisterValidation("iso_date", validateISODate)
}

func validateEntryKind(fl validator.FieldLevel) bool {
	switch models.EntryKind(fl.Field().String()) {
	case models.EntryKindIncome, models.EntryKindExpense:
		return true
	}
	return false
}

func validateMonthName(fl validator.FieldLevel) bool {
	return monthNames[strings.ToLower(fl.Field().String())]
}

func validateISODate(fl validator.FieldLevel) bool {
	_, err := time.Parse(time.DateOnly, fl.Field().String())
	return err == nil
}
