// Package store defines the document-store contract the repositories are
// built on. A driver exposes one Collection per entity type; documents are
// JSON-shaped maps keyed by their "id" field.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/lifelog/internal/common"
)

// IDField is the document key every collection is keyed by.
const IDField = "id"

// Document is a JSON-shaped record: string keys, values of type string,
// float64, bool, nil, []any or map[string]any.
type Document map[string]any

func (d Document) ID() string {
	id, _ := d[IDField].(string)
	return id
}

var (
	ErrNotFound  = fmt.Errorf("store: %w", common.ErrorNotFound)
	ErrDuplicate = fmt.Errorf("store: %w", common.ErrorAlreadyExists)
)

// Collection is a single logical collection. Every call is atomic on its
// own document; nothing spans documents.
type Collection interface {
	// Insert stores a new document. The document must carry an id.
	Insert(ctx context.Context, doc Document) error

	// Get returns the document with the given id or ErrNotFound.
	Get(ctx context.Context, id string) (Document, error)

	// Update merges patch into the stored document and returns the result.
	// A nil value in patch removes the key. Keys absent from patch are
	// left untouched.
	Update(ctx context.Context, id string, patch Document) (Document, error)

	// Delete removes the document or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Find returns the documents matching q.Where in q.Sort order. Without
	// a sort, documents come back in insertion order.
	Find(ctx context.Context, q Query) ([]Document, error)
}

// Driver hands out collections by name.
type Driver interface {
	Collection(name string) Collection
	Close(ctx context.Context) error
}

// Encode converts a typed record into a Document.
func Encode(v any) (Document, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return doc, nil
}

// Decode fills v from doc.
func Decode(doc Document, v any) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

// Schema declares per-collection constraints. Drivers without DDL
// (memory, mongo) enforce it directly; SQL drivers mirror it in migrations.
type Schema struct {
	Name    string
	Unique  [][]string
	Indexes [][]string
}
