// Package schema defines the fixed extraction schema for bank statements.
// The schema is declared once and never mutated at runtime; it is both sent
// to the extraction vendor as the structured-output constraint and compiled
// locally to validate what the vendor returns.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BankStatement returns the JSON-Schema describing the fields the extraction
// call should return for one bank statement.
func BankStatement() map[string]any {
	transaction := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"date":        map[string]any{"type": "string", "description": "The date of the transaction"},
			"description": map[string]any{"type": "string", "description": "The description of the transaction"},
			"amount":      map[string]any{"type": "number", "description": "The value of the transaction (use negative for withdrawals)"},
		},
		"required": []string{"date", "description", "amount"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"account_holder": map[string]any{"type": "string", "description": "Full name of the account holder"},
			"open_balance":   map[string]any{"type": "number", "description": "The opening balance at the start of the period"},
			"ending_balance": map[string]any{"type": "number", "description": "The final balance at the end of the period"},
			"currency":       map[string]any{"type": "string", "description": "The currency of the balances (e.g., CAD, USD)"},
			"transactions": map[string]any{
				"type":        "array",
				"description": "A list of all transactions found in the statement",
				"items":       transaction,
			},
		},
		"required": []string{"account_holder", "open_balance", "ending_balance", "currency", "transactions"},
	}
}

// Validator wraps the compiled bank-statement schema.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles the bank-statement schema.
func NewValidator() (*Validator, error) {
	raw, err := json.Marshal(BankStatement())
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("bank_statement.json", bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}

	compiled, err := compiler.Compile("bank_statement.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	return &Validator{schema: compiled}, nil
}

// Validate checks a decoded extraction payload against the schema.
func (v *Validator) Validate(value any) error {
	return v.schema.Validate(value)
}
