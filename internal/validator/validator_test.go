package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

type form struct {
	Kind  string `validate:"entry_kind"`
	Month string `validate:"omitempty,month_name"`
	Date  string `validate:"omitempty,iso_date"`
}

func TestCustomValidators(t *testing.T) {
	v := validator.New()
	RegisterOn(v)

	tests := []struct {
		name  string
		input form
		valid bool
	}{
		{"income", form{Kind: "+"}, true},
		{"expense", form{Kind: "-"}, true},
		{"bad_kind", form{Kind: "income"}, false},
		{"empty_kind", form{}, false},
		{"month", form{Kind: "+", Month: "March"}, true},
		{"month_lowercase", form{Kind: "+", Month: "december"}, true},
		{"bad_month", form{Kind: "+", Month: "Marchember"}, false},
		{"date", form{Kind: "+", Date: "2025-03-14"}, true},
		{"bad_date", form{Kind: "+", Date: "14/03/2025"}, false},
		{"impossible_date", form{Kind: "+", Date: "2025-02-30"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.input)
			if tt.valid && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.valid && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
