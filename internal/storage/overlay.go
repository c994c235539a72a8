package storage

import (
	"sort"
	"strings"
)

// Overlay buffers writes on top of an inner DB. Reads see the buffered
// writes first. Nothing reaches the inner DB until Commit, which applies
// every buffered write in one batch; Discard drops them.
//
// The ledger runs each call against a fresh Overlay so a failed call
// leaves no trace in the underlying store.
type Overlay struct {
	inner   DB
	writes  map[string][]byte // nil value = tombstone
	touched int
}

// NewOverlay creates an empty overlay over inner.
func NewOverlay(inner DB) *Overlay {
	return &Overlay{inner: inner, writes: make(map[string][]byte)}
}

// Get returns the buffered value if present, otherwise the inner value.
func (o *Overlay) Get(key []byte) ([]byte, error) {
	if v, ok := o.writes[string(key)]; ok {
		if v == nil {
			return nil, ErrNotFound
		}
		return copyBytes(v), nil
	}
	return o.inner.Get(key)
}

// Put buffers a write.
func (o *Overlay) Put(key, value []byte) error {
	v := copyBytes(value)
	if v == nil {
		v = []byte{}
	}
	o.writes[string(key)] = v
	o.touched++
	return nil
}

// Delete buffers a tombstone.
func (o *Overlay) Delete(key []byte) error {
	o.writes[string(key)] = nil
	o.touched++
	return nil
}

// Has reports whether key exists in the overlay view.
func (o *Overlay) Has(key []byte) (bool, error) {
	if v, ok := o.writes[string(key)]; ok {
		return v != nil, nil
	}
	return o.inner.Has(key)
}

// ForEach iterates the merged view in ascending key order.
func (o *Overlay) ForEach(prefix []byte, fn func(key, value []byte) error) error {
	merged := make(map[string][]byte)
	err := o.inner.ForEach(prefix, func(key, value []byte) error {
		merged[string(key)] = copyBytes(value)
		return nil
	})
	if err != nil {
		return err
	}
	p := string(prefix)
	for k, v := range o.writes {
		if !strings.HasPrefix(k, p) {
			continue
		}
		if v == nil {
			delete(merged, k)
			continue
		}
		merged[k] = copyBytes(v)
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := fn([]byte(k), merged[k]); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of buffered writes, counting overwrites.
func (o *Overlay) Len() int {
	return o.touched
}

// Commit applies the buffered writes to the inner DB. When the inner DB
// is a Batcher the writes land atomically.
func (o *Overlay) Commit() error {
	keys := make([]string, 0, len(o.writes))
	for k := range o.writes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b Batch
	if batcher, ok := o.inner.(Batcher); ok {
		b = batcher.NewBatch()
	} else {
		b = &directBatch{db: o.inner}
	}
	for _, k := range keys {
		v := o.writes[k]
		var err error
		if v == nil {
			err = b.Delete([]byte(k))
		} else {
			err = b.Put([]byte(k), v)
		}
		if err != nil {
			return err
		}
	}
	if err := b.Commit(); err != nil {
		return err
	}
	o.Discard()
	return nil
}

// Discard drops every buffered write.
func (o *Overlay) Discard() {
	o.writes = make(map[string][]byte)
	o.touched = 0
}

// Close is a no-op; the inner DB owns its lifecycle.
func (o *Overlay) Close() error {
	return nil
}

// directBatch writes straight through to a DB without atomicity.
type directBatch struct {
	db  DB
	ops []batchOp
}

func (d *directBatch) Put(key, value []byte) error {
	d.ops = append(d.ops, batchOp{key: key, value: value})
	return nil
}

func (d *directBatch) Delete(key []byte) error {
	d.ops = append(d.ops, batchOp{key: key})
	return nil
}

func (d *directBatch) Commit() error {
	for _, op := range d.ops {
		var err error
		if op.value == nil {
			err = d.db.Delete(op.key)
		} else {
			err = d.db.Put(op.key, op.value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
