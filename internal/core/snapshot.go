package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/valter-silva-au/pocket-todo/pkg/models"
)

// snapshotSchema describes the persisted value: an array of task records
// holding only strings and booleans. Unknown properties are allowed so a
// snapshot written by the rich list can still be read by the simple one.
const snapshotSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "title", "completed"],
    "properties": {
      "id":        {"type": "string", "minLength": 1},
      "title":     {"type": "string"},
      "completed": {"type": "boolean"},
      "subject":   {"type": "string"},
      "deadline":  {"type": "string"},
      "priority":  {"enum": ["low", "medium", "high", ""]}
    }
  }
}`

const snapshotSchemaURL = "mem://pocket-todo/snapshot.schema.json"

var compiledSnapshotSchema = jsonschema.MustCompileString(snapshotSchemaURL, snapshotSchema)

// EncodeSnapshot serializes the whole collection into the persisted form.
func EncodeSnapshot(tasks []models.Task) (string, error) {
	if tasks == nil {
		tasks = []models.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("encoding snapshot: %w", err)
	}
	return string(data), nil
}

// DecodeSnapshot parses a persisted value. The blob is validated against the
// snapshot schema first, so malformed data yields a *SnapshotError instead
// of a partially decoded collection.
func DecodeSnapshot(value string) ([]models.Task, error) {
	var raw interface{}
	dec := json.NewDecoder(strings.NewReader(value))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, &SnapshotError{Reason: "not valid JSON", Err: err}
	}

	if err := compiledSnapshotSchema.Validate(raw); err != nil {
		return nil, schemaError(err)
	}

	var tasks []models.Task
	if err := json.Unmarshal([]byte(value), &tasks); err != nil {
		return nil, &SnapshotError{Reason: "decoding tasks", Err: err}
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

// schemaError reduces a jsonschema validation tree to its first leaf cause.
func schemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &SnapshotError{Reason: err.Error(), Err: err}
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return &SnapshotError{Path: ve.InstanceLocation, Reason: ve.Message, Err: err}
}
