package site

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v5"

	serrors "git.home.luguber.info/inful/jekyll-studio/internal/errors"
)

const schemaName = "site-structure.schema.json"

//go:embed schemas/site-structure.schema.json
var schemaFiles embed.FS

var (
	documentSchema     *jsonschema.Schema
	documentSchemaOnce sync.Once
	documentSchemaErr  error
)

func loadSchema() (*jsonschema.Schema, error) {
	documentSchemaOnce.Do(func() {
		raw, err := schemaFiles.ReadFile("schemas/" + schemaName)
		if err != nil {
			documentSchemaErr = err
			return
		}
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(schemaName, bytes.NewReader(raw)); err != nil {
			documentSchemaErr = err
			return
		}
		documentSchema, documentSchemaErr = compiler.Compile(schemaName)
	})
	return documentSchema, documentSchemaErr
}

// Decode validates data against the document schema and decodes it.
// A document wrapped as {"structure": {...}} is unwrapped first.
// Any shape problem is reported as a single validation error.
func Decode(data []byte) (*Document, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, serrors.InvalidDocument(fmt.Errorf("not valid JSON: %w", err))
	}
	if obj, ok := raw.(map[string]any); ok {
		if inner, wrapped := obj["structure"]; wrapped && len(obj) == 1 {
			unwrapped, err := json.Marshal(inner)
			if err != nil {
				return nil, serrors.InvalidDocument(err)
			}
			raw, data = inner, unwrapped
		}
	}

	if err := Validate(raw); err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, serrors.InvalidDocument(err)
	}
	return &doc, nil
}

// Validate checks an already-decoded JSON value against the document schema.
func Validate(raw any) error {
	schema, err := loadSchema()
	if err != nil {
		return serrors.InternalError("load site structure schema", err)
	}
	if err := schema.Validate(raw); err != nil {
		if ve, ok := err.(*jsonschema.ValidationError); ok {
			return serrors.InvalidDocument(fmt.Errorf("%s", ve.Error()))
		}
		return serrors.InvalidDocument(err)
	}
	return nil
}

// Read decodes a document from r.
func Read(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, serrors.InvalidDocument(fmt.Errorf("read document: %w", err))
	}
	return Decode(data)
}

// Load decodes the document stored at path.
func Load(path string) (*Document, error) {
	// #nosec G304 -- path is an explicit CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, serrors.Wrap(err, serrors.CategoryValidation, serrors.SeverityFatal, "cannot read site structure document").
			WithContext("path", path)
	}
	return Decode(data)
}
