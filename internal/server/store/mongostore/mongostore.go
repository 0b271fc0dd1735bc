// Package mongostore implements store.Driver on MongoDB. Documents are
// stored as-is with _id mirroring the "id" field.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/dmitrijs2005/lifelog/internal/server/store"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// seqField holds an ObjectID stamped on insert; it orders documents by
// insertion and never leaves the driver.
const seqField = "_seq"

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Open connects to uri and selects database.
func Open(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return &Store{client: client, db: client.Database(database)}, nil
}

// EnsureIndexes creates the unique keys and secondary indexes declared by
// schemas. Existing indexes with the same keys are left alone.
func (s *Store) EnsureIndexes(ctx context.Context, schemas []store.Schema) error {
	for _, sc := range schemas {
		models := make([]mongo.IndexModel, 0, len(sc.Unique)+len(sc.Indexes))
		for _, key := range sc.Unique {
			models = append(models, mongo.IndexModel{Keys: indexKeys(key), Options: options.Index().SetUnique(true)})
		}
		for _, key := range sc.Indexes {
			models = append(models, mongo.IndexModel{Keys: indexKeys(key)})
		}
		if len(models) == 0 {
			continue
		}
		if _, err := s.db.Collection(sc.Name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("mongo indexes for %s: %w", sc.Name, err)
		}
	}
	return nil
}

func indexKeys(fields []string) bson.D {
	keys := make(bson.D, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, bson.E{Key: f, Value: 1})
	}
	return keys
}

func (s *Store) Collection(name string) store.Collection {
	return &collection{c: s.db.Collection(name)}
}

func (s *Store) Close(ctx context.Context) error { return s.client.Disconnect(ctx) }

type collection struct {
	c *mongo.Collection
}

func (c *collection) wrap(op string, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s %s: %w", op, c.c.Name(), store.ErrDuplicate)
	}
	return fmt.Errorf("mongo error: %s %s: %w", op, c.c.Name(), err)
}

func (c *collection) Insert(ctx context.Context, doc store.Document) error {
	id := doc.ID()
	if id == "" {
		return fmt.Errorf("insert %s: document has no %s", c.c.Name(), store.IDField)
	}
	m := bson.M{"_id": id}
	for k, v := range doc {
		m[k] = v
	}
	m[seqField] = bson.NewObjectID()
	if _, err := c.c.InsertOne(ctx, m); err != nil {
		return c.wrap("insert", err)
	}
	return nil
}

func (c *collection) Get(ctx context.Context, id string) (store.Document, error) {
	var m bson.M
	err := c.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, c.wrap("get", err)
	}
	return fromBSON(m), nil
}

func (c *collection) Update(ctx context.Context, id string, patch store.Document) (store.Document, error) {
	update := toUpdate(patch)
	if len(update) == 0 {
		return c.Get(ctx, id)
	}
	var m bson.M
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := c.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, c.wrap("update", err)
	}
	return fromBSON(m), nil
}

func (c *collection) Delete(ctx context.Context, id string) error {
	res, err := c.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return c.wrap("delete", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Find without a sort relies on natural order, which is insertion order
// for collections that only grow and shrink through this package.
func (c *collection) Find(ctx context.Context, q store.Query) ([]store.Document, error) {
	filter, err := toFilter(q.Where)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(toSort(q.Sort))
	cur, err := c.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, c.wrap("find", err)
	}
	var ms []bson.M
	if err := cur.All(ctx, &ms); err != nil {
		return nil, c.wrap("find", err)
	}
	out := make([]store.Document, 0, len(ms))
	for _, m := range ms {
		out = append(out, fromBSON(m))
	}
	return out, nil
}

func toFilter(p store.Predicate) (bson.M, error) {
	switch t := p.(type) {
	case nil:
		return bson.M{}, nil
	case store.Eq:
		return bson.M{t.Field: store.Normalize(t.Value)}, nil
	case store.Has:
		// An equality match on an array field matches any element.
		return bson.M{t.Field: store.Normalize(t.Value)}, nil
	case store.Substr:
		return bson.M{t.Field: bson.M{"$regex": regexp.QuoteMeta(t.Text), "$options": "i"}}, nil
	case store.And:
		return combine("$and", t)
	case store.Or:
		return combine("$or", t)
	}
	return nil, fmt.Errorf("mongostore: unsupported predicate %T", p)
}

func combine(op string, preds []store.Predicate) (bson.M, error) {
	parts := bson.A{}
	for _, sub := range preds {
		if sub == nil {
			continue
		}
		f, err := toFilter(sub)
		if err != nil {
			return nil, err
		}
		parts = append(parts, f)
	}
	if len(parts) == 0 {
		return bson.M{}, nil
	}
	return bson.M{op: parts}, nil
}

// toSort relies on MongoDB ordering missing fields lowest, like the other drivers.
// toSort appends insertion order as the final key so ties come back the
// way the SQL and memory drivers return them.
func toSort(sorts []store.Sort) bson.D {
	d := make(bson.D, 0, len(sorts)+1)
	for _, s := range sorts {
		dir := 1
		if s.Desc {
			dir = -1
		}
		d = append(d, bson.E{Key: s.Field, Value: dir})
	}
	return append(d, bson.E{Key: seqField, Value: 1})
}

func toUpdate(patch store.Document) bson.M {
	set, unset := bson.M{}, bson.M{}
	for k, v := range patch {
		if k == store.IDField || k == "_id" || k == seqField {
			continue
		}
		if v == nil {
			unset[k] = ""
			continue
		}
		set[k] = v
	}
	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update
}

// fromBSON maps a decoded document back onto the JSON value space.
func fromBSON(m bson.M) store.Document {
	doc := make(store.Document, len(m))
	for k, v := range m {
		if k == "_id" || k == seqField {
			continue
		}
		doc[k] = fromBSONValue(v)
	}
	return doc
}

func fromBSONValue(v any) any {
	switch t := v.(type) {
	case bson.M:
		return map[string]any(fromBSON(t))
	case bson.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = fromBSONValue(e.Value)
		}
		return out
	case bson.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = fromBSONValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = fromBSONValue(e)
		}
		return out
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	}
	return v
}
