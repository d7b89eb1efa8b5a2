package blockmodel

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "https://voxelmesh.local/schemas/model.schema.json"

//go:embed schema/model.schema.json
var modelSchemaJSON []byte

var modelSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft7
	if err := c.AddResource(schemaURL, bytes.NewReader(modelSchemaJSON)); err != nil {
		return nil, err
	}
	return c.Compile(schemaURL)
})

// validate decodes data generically and checks it against the model schema.
// Malformed JSON yields ErrParse, structural problems a *SchemaError.
func validate(name string, data []byte) error {
	schema, err := modelSchema()
	if err != nil {
		return fmt.Errorf("could not compile model schema: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		log.Printf("%s is not valid json", name)
		return fmt.Errorf("%w: %s: %w", ErrParse, name, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		log.Printf("%s is not valid json", name)
		return fmt.Errorf("%w: %s: trailing data after document", ErrParse, name)
	}

	err = schema.Validate(doc)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return fmt.Errorf("%w: %s: %w", ErrSchemaViolation, name, err)
	}

	leaf := deepestCause(ve)
	se := &SchemaError{
		Path:    leaf.InstanceLocation,
		Keyword: path.Base(leaf.KeywordLocation),
		Message: leaf.Message,
	}
	log.Printf("Model %s is invalid according to schema", name)
	log.Printf("\tpath    : %s", se.Path)
	log.Printf("\tkeyword : %s", se.Keyword)
	log.Printf("\tmessage : %s", se.Message)
	return se
}

func deepestCause(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve
}
