package blockmodel

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedFileType = errors.New("unsupported model file type")
	ErrSchemaViolation     = errors.New("model violates schema")
	ErrParse               = errors.New("could not parse model")
	ErrIndexOutOfRange     = errors.New("face vertex index out of range")
)

// SchemaError describes the first structural violation found in a model.
type SchemaError struct {
	Path    string // JSON pointer into the document
	Keyword string // failing schema keyword
	Message string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s at %q (keyword %q): %s", ErrSchemaViolation, e.Path, e.Keyword, e.Message)
}

func (e *SchemaError) Unwrap() error { return ErrSchemaViolation }

// IndexError is returned when a face references a vertex that does not exist.
type IndexError struct {
	Face  int
	Index int64
	Count int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("face %d: vertex index %d out of range (%d vertices)", e.Face, e.Index, e.Count)
}

func (e *IndexError) Unwrap() error { return ErrIndexOutOfRange }
