package schema

import (
	"encoding/json"
	"testing"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("failed to decode test payload: %v", err)
	}
	return v
}

func TestValidatorAcceptsWellFormedStatement(t *testing.T) {
	validator, err := NewValidator()
	if err != nil {
		t.Fatalf("NewValidator returned error: %v", err)
	}

	payload := decode(t, `{
		"account_holder": "Jane Tester",
		"open_balance": 1000.5,
		"ending_balance": 2200.75,
		"currency": "CAD",
		"transactions": [
			{"date": "2025-10-01", "description": "payroll", "amount": 2400},
			{"date": "2025-10-15", "description": "rent", "amount": -1800}
		]
	}`)

	if err := validator.Validate(payload); err != nil {
		t.Errorf("well-formed statement rejected: %v", err)
	}
}

func TestValidatorRejectsBadPayloads(t *testing.T) {
	validator, err := NewValidator()
	if err != nil {
		t.Fatalf("NewValidator returned error: %v", err)
	}

	tests := []struct {
		name string
		raw  string
	}{
		{"missing currency", `{
			"account_holder": "Jane Tester",
			"open_balance": 1,
			"ending_balance": 2,
			"transactions": []
		}`},
		{"balance as string", `{
			"account_holder": "Jane Tester",
			"open_balance": "1000",
			"ending_balance": 2,
			"currency": "CAD",
			"transactions": []
		}`},
		{"transaction missing amount", `{
			"account_holder": "Jane Tester",
			"open_balance": 1,
			"ending_balance": 2,
			"currency": "CAD",
			"transactions": [{"date": "2025-10-01", "description": "payroll"}]
		}`},
		{"unknown top-level field", `{
			"account_holder": "Jane Tester",
			"open_balance": 1,
			"ending_balance": 2,
			"currency": "CAD",
			"transactions": [],
			"iban": "DE00"
		}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := validator.Validate(decode(t, tt.raw)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
