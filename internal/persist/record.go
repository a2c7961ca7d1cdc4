// Package persist stores typed application records as JSON in a store.KV.
// Every record has a JSON Schema; a missing, unparseable or invalid record
// loads as the record's default instead of failing.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.uber.org/zap"

	"github.com/abhisek/zibao/internal/logging"
	"github.com/abhisek/zibao/internal/store"
)

// Outcome describes how Load produced its value.
type Outcome int

const (
	Loaded  Outcome = iota // stored record decoded and valid
	Missing                // no stored record, default used
	Corrupt                // stored record rejected, default used
	Failed                 // backend read failed, default used
)

func (o Outcome) String() string {
	switch o {
	case Loaded:
		return "loaded"
	case Missing:
		return "missing"
	case Corrupt:
		return "corrupt"
	default:
		return "failed"
	}
}

// Record is a typed, schema-checked value stored under one key.
type Record[T any] struct {
	kv     store.KV
	key    string
	schema *jsonschema.Schema
	def    func() T
	log    *zap.Logger
}

// NewRecord binds key in kv to type T. def must return a fresh default value
// on every call.
func NewRecord[T any](kv store.KV, key string, schema *jsonschema.Schema, def func() T, log *zap.Logger) *Record[T] {
	return &Record[T]{
		kv:     kv,
		key:    key,
		schema: schema,
		def:    def,
		log:    logging.OrNop(log).With(zap.String("record", key)),
	}
}

// Load reads the record, falling back to the default on any problem.
func (r *Record[T]) Load(ctx context.Context) (T, Outcome) {
	raw, err := r.kv.Get(ctx, r.key)
	if errors.Is(err, store.ErrNotFound) {
		return r.def(), Missing
	}
	if err != nil {
		r.log.Error("read record failed, using default", zap.Error(err))
		return r.def(), Failed
	}

	v, err := r.decode(raw)
	if err != nil {
		r.log.Warn("stored record rejected, using default", zap.Error(err))
		return r.def(), Corrupt
	}
	return v, Loaded
}

// Save writes v.
func (r *Record[T]) Save(ctx context.Context, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", r.key, err)
	}
	if err := r.kv.Put(ctx, r.key, data); err != nil {
		return fmt.Errorf("write %s: %w", r.key, err)
	}
	return nil
}

// Clear removes the stored record so the next Load returns the default.
func (r *Record[T]) Clear(ctx context.Context) error {
	return r.kv.Delete(ctx, r.key)
}

func (r *Record[T]) decode(raw []byte) (T, error) {
	var zero T

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return zero, fmt.Errorf("invalid JSON: %w", err)
	}
	if r.schema != nil {
		if err := r.schema.Validate(parsed); err != nil {
			return zero, fmt.Errorf("schema validation failed: %w", err)
		}
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return zero, fmt.Errorf("decode: %w", err)
	}
	return v, nil
}
