// internal/api/schema.go
package api

import "github.com/xeipuuv/gojsonschema"

// bundleSchema validates the transport-level shape of an incoming event
// bundle: non-negative amounts, RFC 3339 timestamps, known loan statuses.
// Statistical sufficiency is the engine's concern, not the schema's.
const bundleSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "incomes":      {"$ref": "#/definitions/events"},
    "deposits":     {"$ref": "#/definitions/events"},
    "expenditures": {"$ref": "#/definitions/events"},
    "withdrawals":  {"$ref": "#/definitions/events"},
    "loans": {
      "type": "array",
      "items": {"$ref": "#/definitions/loan"}
    }
  },
  "additionalProperties": false,
  "definitions": {
    "events": {
      "type": "array",
      "items": {"$ref": "#/definitions/event"}
    },
    "event": {
      "type": "object",
      "properties": {
        "amount":    {"type": ["number", "string"]},
        "timestamp": {"type": "string", "format": "date-time"},
        "label":     {"type": "string"},
        "category":  {"type": "string"}
      },
      "required": ["amount", "timestamp"],
      "additionalProperties": false
    },
    "loan": {
      "type": "object",
      "properties": {
        "amount":       {"type": ["number", "string"]},
        "credit_limit": {"type": ["number", "string"]},
        "status":       {"type": "string", "enum": ["active", "closed", "defaulted"]},
        "opened_at":    {"type": "string", "format": "date-time"},
        "payments": {
          "type": "array",
          "items": {
            "type": "object",
            "properties": {
              "amount":  {"type": ["number", "string"]},
              "paid_at": {"type": "string", "format": "date-time"},
              "on_time": {"type": "boolean"}
            },
            "required": ["amount", "paid_at", "on_time"],
            "additionalProperties": false
          }
        }
      },
      "required": ["amount", "status"],
      "additionalProperties": false
    }
  }
}`

var compiledBundleSchema = gojsonschema.NewStringLoader(bundleSchema)

// validateBundle checks a raw request body against the bundle schema and
// returns the human-readable violations, if any.
func validateBundle(body []byte) ([]string, error) {
	result, err := gojsonschema.Validate(compiledBundleSchema, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, err
	}
	if result.Valid() {
		return nil, nil
	}
	violations := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		violations = append(violations, e.String())
	}
	return violations, nil
}
