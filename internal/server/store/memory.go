package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Memory is a process-local Driver. Documents are deep-copied on the way in
// and out, so callers never share state with the store.
type Memory struct {
	mu          sync.Mutex
	schemas     map[string]Schema
	collections map[string]*memoryCollection
}

func NewMemory(schemas ...Schema) *Memory {
	m := &Memory{
		schemas:     make(map[string]Schema, len(schemas)),
		collections: make(map[string]*memoryCollection),
	}
	for _, s := range schemas {
		m.schemas[s.Name] = s
	}
	return m
}

func (m *Memory) Collection(name string) Collection {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.collections[name]
	if !ok {
		c = &memoryCollection{schema: m.schemas[name], byID: make(map[string]int)}
		m.collections[name] = c
	}
	return c
}

func (m *Memory) Close(context.Context) error { return nil }

type memoryCollection struct {
	mu     sync.RWMutex
	schema Schema
	docs   []Document
	byID   map[string]int
}

func (c *memoryCollection) Insert(ctx context.Context, doc Document) error {
	id := doc.ID()
	if id == "" {
		return fmt.Errorf("insert: document has no %s", IDField)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.byID[id]; ok {
		return fmt.Errorf("%w: id %s", ErrDuplicate, id)
	}
	stored := cloneDocument(doc)
	if err := c.checkUnique(stored, -1); err != nil {
		return err
	}
	c.byID[id] = len(c.docs)
	c.docs = append(c.docs, stored)
	return nil
}

func (c *memoryCollection) Get(ctx context.Context, id string) (Document, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneDocument(c.docs[i]), nil
}

func (c *memoryCollection) Update(ctx context.Context, id string, patch Document) (Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i, ok := c.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	merged := cloneDocument(c.docs[i])
	for k, v := range patch {
		if k == IDField {
			continue
		}
		if v == nil {
			delete(merged, k)
			continue
		}
		merged[k] = cloneValue(v)
	}
	if err := c.checkUnique(merged, i); err != nil {
		return nil, err
	}
	c.docs[i] = merged
	return cloneDocument(merged), nil
}

func (c *memoryCollection) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i, ok := c.byID[id]
	if !ok {
		return ErrNotFound
	}
	c.docs = slices.Delete(c.docs, i, i+1)
	delete(c.byID, id)
	for j := i; j < len(c.docs); j++ {
		c.byID[c.docs[j].ID()] = j
	}
	return nil
}

func (c *memoryCollection) Find(ctx context.Context, q Query) ([]Document, error) {
	c.mu.RLock()
	out := make([]Document, 0)
	for _, d := range c.docs {
		if q.Where == nil || q.Where.Eval(d) {
			out = append(out, cloneDocument(d))
		}
	}
	c.mu.RUnlock()

	if len(q.Sort) > 0 {
		slices.SortStableFunc(out, func(a, b Document) int {
			for _, s := range q.Sort {
				r := compare(a[s.Field], b[s.Field])
				if s.Desc {
					r = -r
				}
				if r != 0 {
					return r
				}
			}
			return 0
		})
	}
	return out, nil
}

// checkUnique must be called with the write lock held. skip is the index
// of the document being replaced, or -1.
func (c *memoryCollection) checkUnique(doc Document, skip int) error {
	for _, key := range c.schema.Unique {
		for i, other := range c.docs {
			if i == skip {
				continue
			}
			if sameKey(doc, other, key) {
				return fmt.Errorf("%w: %s", ErrDuplicate, strings.Join(key, ","))
			}
		}
	}
	return nil
}

func sameKey(a, b Document, fields []string) bool {
	for _, f := range fields {
		av, ok := a[f]
		if !ok {
			return false
		}
		bv, ok := b[f]
		if !ok || !equal(av, bv) {
			return false
		}
	}
	return true
}

func cloneDocument(d Document) Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return map[string]any(cloneDocument(t))
	case Document:
		return cloneDocument(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = e
		}
		return out
	}
	return Normalize(v)
}
