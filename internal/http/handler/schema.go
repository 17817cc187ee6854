package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const maxBodyBytes = 1 << 20

const nullableString = `{"type": ["string", "null"]}`

// Request body schemas, keyed by resource name.
var schemaSources = map[string]string{
	"create_project.json": `{
		"type": "object",
		"properties": {
			"name": {"type": "string"},
			"description": ` + nullableString + `
		},
		"required": ["name"],
		"additionalProperties": false
	}`,
	"rename_project.json": `{
		"type": "object",
		"properties": {"name": {"type": "string"}},
		"required": ["name"],
		"additionalProperties": false
	}`,
	"project_description.json": `{
		"type": "object",
		"properties": {"description": ` + nullableString + `},
		"required": ["description"],
		"additionalProperties": false
	}`,
	"todo_description.json": `{
		"type": "object",
		"properties": {"description": {"type": "string"}},
		"required": ["description"],
		"additionalProperties": false
	}`,
	"todo_details.json": `{
		"type": "object",
		"properties": {"details": ` + nullableString + `},
		"required": ["details"],
		"additionalProperties": false
	}`,
	"move_todo.json": `{
		"type": "object",
		"properties": {"direction": {"enum": ["up", "down"]}},
		"required": ["direction"],
		"additionalProperties": false
	}`,
}

var (
	createProjectSchema      = mustCompile("create_project.json")
	renameProjectSchema      = mustCompile("rename_project.json")
	projectDescriptionSchema = mustCompile("project_description.json")
	todoDescriptionSchema    = mustCompile("todo_description.json")
	todoDetailsSchema        = mustCompile("todo_details.json")
	moveTodoSchema           = mustCompile("move_todo.json")
)

func mustCompile(name string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	url := "mem://docket/" + name
	if err := compiler.AddResource(url, strings.NewReader(schemaSources[name])); err != nil {
		panic(fmt.Sprintf("adding schema %s: %v", name, err))
	}
	return compiler.MustCompile(url)
}

// decodeBody reads the request body, validates it against schema and
// decodes it into dst. On failure it writes a 400 response and returns
// false.
func decodeBody(w http.ResponseWriter, r *http.Request, schema *jsonschema.Schema, dst any) bool {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "could not read request body")
		return false
	}

	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return false
	}

	if err := schema.Validate(doc); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", schemaMessage(err))
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return false
	}
	return true
}

// schemaMessage flattens a validation error into "location: message"
// pairs, one per leaf cause.
func schemaMessage(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	var parts []string
	collectCauses(ve, &parts)
	return strings.Join(parts, "; ")
}

func collectCauses(ve *jsonschema.ValidationError, parts *[]string) {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		*parts = append(*parts, loc+": "+ve.Message)
		return
	}
	for _, cause := range ve.Causes {
		collectCauses(cause, parts)
	}
}
