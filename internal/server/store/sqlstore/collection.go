package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/lifelog/internal/dbx"
	"github.com/dmitrijs2005/lifelog/internal/server/store"
)

type collection struct {
	db    *sql.DB
	d     Dialect
	table string
}

func (c *collection) wrap(op string, err error) error {
	if c.d.IsDuplicate(err) {
		return fmt.Errorf("%s %s: %w", op, c.table, store.ErrDuplicate)
	}
	return fmt.Errorf("db error: %s %s: %w", op, c.table, err)
}

func (c *collection) Insert(ctx context.Context, doc store.Document) error {
	if err := validIdent(c.table); err != nil {
		return err
	}
	id := doc.ID()
	if id == "" {
		return fmt.Errorf("insert %s: document has no %s", c.table, store.IDField)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("insert %s: %w", c.table, err)
	}
	q := fmt.Sprintf("INSERT INTO %s (id, doc) VALUES (%s, %s)",
		c.table, c.d.Placeholder(1), c.d.DocParam(c.d.Placeholder(2)))
	if _, err := c.db.ExecContext(ctx, q, id, string(raw)); err != nil {
		return c.wrap("insert", err)
	}
	return nil
}

func (c *collection) Get(ctx context.Context, id string) (store.Document, error) {
	if err := validIdent(c.table); err != nil {
		return nil, err
	}
	return c.get(ctx, c.db, id)
}

func (c *collection) get(ctx context.Context, db dbx.DBTX, id string) (store.Document, error) {
	q := fmt.Sprintf("SELECT doc FROM %s WHERE id = %s", c.table, c.d.Placeholder(1))
	var raw []byte
	err := db.QueryRowContext(ctx, q, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, c.wrap("get", err)
	}
	return decode(raw)
}

// Update runs the merge and the read-back in one transaction so the
// returned document is the one this call produced.
func (c *collection) Update(ctx context.Context, id string, patch store.Document) (store.Document, error) {
	if err := validIdent(c.table); err != nil {
		return nil, err
	}
	p := make(store.Document, len(patch))
	for k, v := range patch {
		if k != store.IDField {
			p[k] = v
		}
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", c.table, err)
	}

	var out store.Document
	err = dbx.WithTx(ctx, c.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		q := fmt.Sprintf("UPDATE %s SET doc = %s WHERE id = %s",
			c.table, c.d.Merge(c.d.Placeholder(1)), c.d.Placeholder(2))
		res, err := tx.ExecContext(ctx, q, string(raw), id)
		if err != nil {
			return c.wrap("update", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return c.wrap("update", err)
		}
		if n == 0 {
			return store.ErrNotFound
		}
		out, err = c.get(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *collection) Delete(ctx context.Context, id string) error {
	if err := validIdent(c.table); err != nil {
		return err
	}
	q := fmt.Sprintf("DELETE FROM %s WHERE id = %s", c.table, c.d.Placeholder(1))
	res, err := c.db.ExecContext(ctx, q, id)
	if err != nil {
		return c.wrap("delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return c.wrap("delete", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (c *collection) Find(ctx context.Context, q store.Query) ([]store.Document, error) {
	query, args, err := c.selectSQL(q)
	if err != nil {
		return nil, err
	}
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, c.wrap("find", err)
	}
	defer rows.Close()

	out := make([]store.Document, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, c.wrap("find", err)
		}
		doc, err := decode(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, c.wrap("find", err)
	}
	return out, nil
}

func (c *collection) selectSQL(q store.Query) (string, []any, error) {
	if err := validIdent(c.table); err != nil {
		return "", nil, err
	}
	var sb strings.Builder
	var args []any
	fmt.Fprintf(&sb, "SELECT doc FROM %s", c.table)
	if q.Where != nil {
		where, err := c.predicate(q.Where, &args)
		if err != nil {
			return "", nil, err
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
	}
	sb.WriteString(" ORDER BY ")
	for _, s := range q.Sort {
		if err := validIdent(s.Field); err != nil {
			return "", nil, err
		}
		// Missing values are lowest: last when descending, first when ascending.
		if s.Desc {
			fmt.Fprintf(&sb, "%s DESC NULLS LAST, ", c.d.SortKey(s.Field))
		} else {
			fmt.Fprintf(&sb, "%s ASC NULLS FIRST, ", c.d.SortKey(s.Field))
		}
	}
	sb.WriteString("seq")
	return sb.String(), args, nil
}

func (c *collection) predicate(p store.Predicate, args *[]any) (string, error) {
	next := func(v any) string {
		*args = append(*args, v)
		return c.d.Placeholder(len(*args))
	}

	switch t := p.(type) {
	case store.Eq:
		if err := validIdent(t.Field); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s = %s", c.d.Field(t.Field), next(param(c.d, t.Value))), nil
	case store.Has:
		if err := validIdent(t.Field); err != nil {
			return "", err
		}
		return c.d.Has(t.Field, next(param(c.d, t.Value))), nil
	case store.Substr:
		if err := validIdent(t.Field); err != nil {
			return "", err
		}
		return c.d.Substr(t.Field, next(t.Text)), nil
	case store.And:
		return c.join(t, " AND ", "1=1", args)
	case store.Or:
		return c.join(t, " OR ", "1=1", args)
	}
	return "", fmt.Errorf("sqlstore: unsupported predicate %T", p)
}

func (c *collection) join(preds []store.Predicate, sep, empty string, args *[]any) (string, error) {
	parts := make([]string, 0, len(preds))
	for _, sub := range preds {
		if sub == nil {
			continue
		}
		s, err := c.predicate(sub, args)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	if len(parts) == 0 {
		return empty, nil
	}
	return "(" + strings.Join(parts, sep) + ")", nil
}

func decode(raw []byte) (store.Document, error) {
	var doc store.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}
