package lint

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrSchemaInvalid is returned when the configured front matter schema does
// not compile.
var ErrSchemaInvalid = errors.New("lint: front matter schema invalid")

// SchemaIssue captures a single schema validation failure.
type SchemaIssue struct {
	Location string
	Message  string
}

func compileCheck(schema map[string]any) error {
	if _, err := compileSchema(schema); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	return nil
}

// validateAgainstSchema checks the front matter mapping against the compiled
// schema and returns individual findings. The payload round-trips through JSON
// so YAML-native values (timestamps in particular) validate as JSON types.
func validateAgainstSchema(schema, payload map[string]any) ([]SchemaIssue, error) {
	compiled, err := compileSchema(schema)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}

	if payload == nil {
		payload = map[string]any{}
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("lint: encode front matter: %w", err)
	}
	var decoded any
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		return nil, fmt.Errorf("lint: decode front matter: %w", err)
	}

	if err := compiled.Validate(decoded); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return collectSchemaIssues(validationErr), nil
		}
		return []SchemaIssue{{Message: err.Error()}}, nil
	}
	return nil, nil
}

func compileSchema(schema map[string]any) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("frontmatter.json", bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	return compiler.Compile("frontmatter.json")
}

func collectSchemaIssues(err *jsonschema.ValidationError) []SchemaIssue {
	if err == nil {
		return nil
	}
	issues := []SchemaIssue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, SchemaIssue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
