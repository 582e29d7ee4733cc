package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// Recognized violation reasons, enumerated per field rule.
const (
	ReasonMissing   = "is required"
	ReasonNotString = "must be a string"
	ReasonEmpty     = "must not be empty"
	ReasonNotNumber = "must be a number"
)

// FieldViolation ties a request body field to the rule it broke.
type FieldViolation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Violations is the complete ordered list of field-level failures
// collected for a single create or update request.
type Violations []FieldViolation

// Error renders the whole violation set as a single message.
func (v Violations) Error() string {
	parts := make([]string, 0, len(v))
	for _, fv := range v {
		parts = append(parts, fv.Field+" "+fv.Reason)
	}
	return strings.Join(parts, ", ")
}

// bookTextFields lists the required text fields in the order their
// violations must be reported.
var bookTextFields = []string{"name", "author", "description"}

// DecodeBookRequestBody reads the free-form content of a book creation
// or update request. The payload stays untyped until validated.
func DecodeBookRequestBody(r *http.Request, payload *map[string]any) error {
	if r.Body == nil {
		return errors.New("invalid book request body")
	}
	return json.NewDecoder(r.Body).Decode(payload)
}

// ValidateBookRequestBody checks a decoded body against the rule set
// shared by create and update. It collects every violation instead of
// stopping at the first and produces a typed BookInput only when the
// whole set passes. Text fields are trimmed before the emptiness check
// and stored trimmed.
func ValidateBookRequestBody(payload map[string]any) (BookInput, Violations) {
	var input BookInput
	var violations Violations

	for _, field := range bookTextFields {
		raw, present := payload[field]
		if !present {
			violations = append(violations, FieldViolation{field, ReasonMissing})
			continue
		}
		text, isString := raw.(string)
		if !isString {
			violations = append(violations, FieldViolation{field, ReasonNotString})
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			violations = append(violations, FieldViolation{field, ReasonEmpty})
			continue
		}
		switch field {
		case "name":
			input.Name = text
		case "author":
			input.Author = text
		case "description":
			input.Description = text
		}
	}

	raw, present := payload["price"]
	switch {
	case !present:
		violations = append(violations, FieldViolation{"price", ReasonMissing})
	default:
		price, isNumber := raw.(float64)
		if !isNumber {
			violations = append(violations, FieldViolation{"price", ReasonNotNumber})
			break
		}
		input.Price = price
	}

	if len(violations) != 0 {
		return BookInput{}, violations
	}
	return input, nil
}
