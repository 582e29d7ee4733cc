package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestDecodeBookRequestBody ensures the free-form decoding of a book payload.
func TestDecodeBookRequestBody(t *testing.T) {
	t.Run("should pass: well-formed json", func(t *testing.T) {
		body := `{"name":"Go in Action", "author":"William Kennedy", "description":"Learn Go.", "price":25}`
		req := httptest.NewRequest(http.MethodPost, "/books/add", bytes.NewBufferString(body))
		payload := map[string]any{}
		err := DecodeBookRequestBody(req, &payload)
		assert.NoError(t, err)
		assert.Equal(t, "Go in Action", payload["name"])
		assert.Equal(t, float64(25), payload["price"])
	})

	t.Run("should fail: malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/books/add", bytes.NewBufferString(`{"name":`))
		payload := map[string]any{}
		err := DecodeBookRequestBody(req, &payload)
		assert.Error(t, err)
	})
}

// TestValidateBookRequestBody ensures each field rule is enforced and
// every broken field is reported at once in a stable order.
//
//nolint:funlen
func TestValidateBookRequestBody(t *testing.T) {
	t.Run("should pass: valid payload", func(t *testing.T) {
		payload := map[string]any{
			"name":        "Go in Action",
			"author":      "William Kennedy",
			"description": "Learn Go the practical way.",
			"price":       float64(25),
		}
		input, violations := ValidateBookRequestBody(payload)
		assert.Nil(t, violations)
		assert.Equal(t, "Go in Action", input.Name)
		assert.Equal(t, "William Kennedy", input.Author)
		assert.Equal(t, "Learn Go the practical way.", input.Description)
		assert.Equal(t, float64(25), input.Price)
	})

	t.Run("should pass: text fields are trimmed", func(t *testing.T) {
		payload := map[string]any{
			"name":        "  Go in Action  ",
			"author":      "\tWilliam Kennedy\n",
			"description": " Learn Go. ",
			"price":       float64(25),
		}
		input, violations := ValidateBookRequestBody(payload)
		assert.Nil(t, violations)
		assert.Equal(t, "Go in Action", input.Name)
		assert.Equal(t, "William Kennedy", input.Author)
		assert.Equal(t, "Learn Go.", input.Description)
	})

	t.Run("should pass: negative price is accepted", func(t *testing.T) {
		payload := map[string]any{
			"name":        "Remainders",
			"author":      "Unknown",
			"description": "Discounted below zero.",
			"price":       float64(-5),
		}
		input, violations := ValidateBookRequestBody(payload)
		assert.Nil(t, violations)
		assert.Equal(t, float64(-5), input.Price)
	})

	t.Run("should fail: all fields missing", func(t *testing.T) {
		input, violations := ValidateBookRequestBody(map[string]any{})
		assert.Equal(t, BookInput{}, input)
		assert.Equal(t, Violations{
			{"name", ReasonMissing},
			{"author", ReasonMissing},
			{"description", ReasonMissing},
			{"price", ReasonMissing},
		}, violations)
	})

	t.Run("should fail: wrong types", func(t *testing.T) {
		payload := map[string]any{
			"name":        float64(1),
			"author":      true,
			"description": []any{"x"},
			"price":       "25",
		}
		input, violations := ValidateBookRequestBody(payload)
		assert.Equal(t, BookInput{}, input)
		assert.Equal(t, Violations{
			{"name", ReasonNotString},
			{"author", ReasonNotString},
			{"description", ReasonNotString},
			{"price", ReasonNotNumber},
		}, violations)
	})

	t.Run("should fail: blank after trimming", func(t *testing.T) {
		payload := map[string]any{
			"name":        "   ",
			"author":      "\t\n",
			"description": "",
			"price":       float64(10),
		}
		input, violations := ValidateBookRequestBody(payload)
		assert.Equal(t, BookInput{}, input)
		assert.Equal(t, Violations{
			{"name", ReasonEmpty},
			{"author", ReasonEmpty},
			{"description", ReasonEmpty},
		}, violations)
	})

	t.Run("should fail: single broken field keeps others out of report", func(t *testing.T) {
		payload := map[string]any{
			"name":        "Go in Action",
			"author":      "William Kennedy",
			"description": "Learn Go.",
			"price":       "not-a-number",
		}
		input, violations := ValidateBookRequestBody(payload)
		assert.Equal(t, BookInput{}, input)
		assert.Equal(t, Violations{{"price", ReasonNotNumber}}, violations)
	})
}

// TestViolationsError ensures the aggregated error message rendering.
func TestViolationsError(t *testing.T) {
	v := Violations{
		{"name", ReasonMissing},
		{"price", ReasonNotNumber},
	}
	assert.Equal(t, "name is required, price must be a number", v.Error())
}
