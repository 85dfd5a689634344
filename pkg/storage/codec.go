package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dshills/blockpad/pkg/document"
	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"
)

// ErrMalformed is returned by Decode for payloads that do not describe a
// document.
var ErrMalformed = errors.New("malformed document payload")

// documentSchema describes the persisted form {title, blocks: [{id, type, text}]}.
// Unknown block types and missing IDs are tolerated here and repaired by
// document.Normalize after decoding.
const documentSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["blocks"],
	"properties": {
		"title": {"type": "string"},
		"blocks": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"id": {"type": "string"},
					"type": {"type": "string"},
					"text": {"type": "string"}
				}
			}
		}
	}
}`

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(documentSchema))
	})
	return schema, schemaErr
}

// Encode serializes a document to its persisted JSON form.
func Encode(doc document.Document) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	return data, nil
}

// Decode parses a persisted payload. The payload must be a JSON object with
// an array-valued "blocks" member whose entries match the document schema.
// Valid documents are normalized so that they satisfy the document
// invariants. Every rejection wraps ErrMalformed.
func Decode(raw []byte) (document.Document, error) {
	if !gjson.ValidBytes(raw) {
		return document.Document{}, fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}

	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return document.Document{}, fmt.Errorf("%w: payload is not an object", ErrMalformed)
	}
	if !root.Get("blocks").IsArray() {
		return document.Document{}, fmt.Errorf("%w: blocks is not an array", ErrMalformed)
	}

	s, err := compiledSchema()
	if err != nil {
		return document.Document{}, fmt.Errorf("failed to compile document schema: %w", err)
	}

	result, err := s.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return document.Document{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
		}
		return document.Document{}, fmt.Errorf("%w: %s", ErrMalformed, strings.Join(msgs, "; "))
	}

	var doc document.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return document.Document{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	return doc.Normalize(), nil
}
