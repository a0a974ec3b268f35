package api

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// contract names a response shape and its JSON schema. Responses for the
// stateful flows (assessment, grading, exercise) are validated against their
// contract before unmarshalling, so a drifting backend fails loudly at the
// boundary instead of producing half-filled structs.
type contract struct {
	Name       string
	Definition map[string]any
}

var assessmentContract = &contract{
	Name: "assessment-detail",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":          map[string]any{"type": "integer"},
			"title":       map[string]any{"type": "string"},
			"description": map[string]any{"type": "string"},
			"time_limit":  map[string]any{"type": "integer", "minimum": 0},
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{"type": "string"},
						"options": map[string]any{
							"type":     "array",
							"items":    map[string]any{"type": "string"},
							"minItems": 2,
						},
					},
					"required": []any{"question", "options"},
				},
			},
		},
		"required": []any{"id", "title", "questions"},
	},
}

var gradingContract = &contract{
	Name: "grading-result",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score":      map[string]any{"type": "integer", "minimum": 0},
			"total":      map[string]any{"type": "integer", "minimum": 0},
			"percentage": map[string]any{"type": "number", "minimum": 0, "maximum": 100},
			"results": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"correct":     map[string]any{"type": "boolean"},
						"user_answer": map[string]any{"type": []any{"integer", "null"}},
					},
					"required": []any{"correct"},
				},
			},
		},
		"required": []any{"score", "total", "percentage", "results"},
	},
}

var exerciseContract = &contract{
	Name: "exercise-detail",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":           map[string]any{"type": "integer"},
			"title":        map[string]any{"type": "string"},
			"starter_code": map[string]any{"type": "string"},
			"language":     map[string]any{"type": "string"},
			"test_cases": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"input":  map[string]any{"type": "string"},
						"output": map[string]any{"type": "string"},
					},
				},
			},
		},
		"required": []any{"id", "title", "starter_code", "language"},
	},
}

var loginContract = &contract{
	Name: "login-response",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"user": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":  map[string]any{"type": "string"},
					"email": map[string]any{"type": "string"},
					"role":  map[string]any{"type": "string"},
				},
			},
			"access":       map[string]any{"type": "string"},
			"refresh":      map[string]any{"type": "string"},
			"mfa_required": map[string]any{"type": "boolean"},
			"message":      map[string]any{"type": "string"},
		},
	},
}

// contractCache caches compiled schemas by contract name.
var contractCache sync.Map // map[string]*jsonschema.Schema

// validateContract checks raw against the contract's schema.
func validateContract(c *contract, raw json.RawMessage) error {
	if c == nil {
		return nil
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("contract %s: invalid JSON: %w", c.Name, err)
	}

	compiled, err := compiledContract(c)
	if err != nil {
		return fmt.Errorf("contract %s: %w", c.Name, err)
	}

	if err := compiled.Validate(parsed); err != nil {
		return fmt.Errorf("contract %s: response shape mismatch: %w", c.Name, err)
	}
	return nil
}

func compiledContract(c *contract) (*jsonschema.Schema, error) {
	if cached, ok := contractCache.Load(c.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The compiler wants a parsed JSON value, not Go maps with typed
	// values. Round-trip through encoding/json to normalize.
	defBytes, err := json.Marshal(c.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", c.Name)
	if err := compiler.AddResource(url, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	contractCache.Store(c.Name, compiled)
	return compiled, nil
}
