// Package gdatakv stores records in the platform's per-user application data
// directory through quasilyte/gdata, as an alternative to the SQLite records
// table.
package gdatakv

import (
	"context"
	"fmt"

	"github.com/quasilyte/gdata/v2"

	"github.com/abhisek/zibao/internal/store"
)

// object groups every record under one gdata object.
const object = "progress"

// KV implements store.KV on a gdata manager.
type KV struct {
	m *gdata.Manager
}

var _ store.KV = (*KV)(nil)

// Open opens the gdata storage for appName.
func Open(appName string) (*KV, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("open gdata %q: %w", appName, err)
	}
	return New(m), nil
}

// New wraps an existing manager.
func New(m *gdata.Manager) *KV {
	return &KV{m: m}
}

// Get returns the record, or store.ErrNotFound. An empty record counts as
// missing because Delete truncates rather than removes.
func (k *KV) Get(_ context.Context, key string) ([]byte, error) {
	if !k.m.ObjectPropExists(object, key) {
		return nil, store.ErrNotFound
	}
	data, err := k.m.LoadObjectProp(object, key)
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", key, err)
	}
	if len(data) == 0 {
		return nil, store.ErrNotFound
	}
	return data, nil
}

func (k *KV) Put(_ context.Context, key string, value []byte) error {
	if err := k.m.SaveObjectProp(object, key, value); err != nil {
		return fmt.Errorf("save %q: %w", key, err)
	}
	return nil
}

func (k *KV) Delete(_ context.Context, key string) error {
	if !k.m.ObjectPropExists(object, key) {
		return nil
	}
	if err := k.m.SaveObjectProp(object, key, nil); err != nil {
		return fmt.Errorf("clear %q: %w", key, err)
	}
	return nil
}
