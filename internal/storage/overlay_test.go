package storage

import (
	"errors"
	"testing"
)

func TestOverlay_SharedSuite(t *testing.T) {
	testDB(t, NewOverlay(NewMemory()))
}

func TestOverlay_WritesInvisibleUntilCommit(t *testing.T) {
	inner := NewMemory()
	inner.Put([]byte("k"), []byte("base"))

	o := NewOverlay(inner)
	o.Put([]byte("k"), []byte("new"))
	o.Put([]byte("n"), []byte("fresh"))

	got, _ := o.Get([]byte("k"))
	if string(got) != "new" {
		t.Fatalf("overlay Get = %q, want %q", got, "new")
	}
	got, _ = inner.Get([]byte("k"))
	if string(got) != "base" {
		t.Fatalf("inner Get before commit = %q, want %q", got, "base")
	}
	if ok, _ := inner.Has([]byte("n")); ok {
		t.Fatal("inner sees uncommitted key")
	}

	if err := o.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	got, _ = inner.Get([]byte("k"))
	if string(got) != "new" {
		t.Fatalf("inner Get after commit = %q, want %q", got, "new")
	}
	if o.Len() != 0 {
		t.Fatalf("Len after commit = %d, want 0", o.Len())
	}
}

func TestOverlay_Discard(t *testing.T) {
	inner := NewMemory()
	inner.Put([]byte("keep"), []byte("1"))

	o := NewOverlay(inner)
	o.Put([]byte("drop"), []byte("x"))
	o.Delete([]byte("keep"))
	o.Discard()

	if ok, _ := o.Has([]byte("drop")); ok {
		t.Fatal("discarded write still visible")
	}
	if ok, _ := o.Has([]byte("keep")); !ok {
		t.Fatal("discarded delete still applied")
	}
	if err := o.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if ok, _ := inner.Has([]byte("drop")); ok {
		t.Fatal("discarded write reached inner DB")
	}
}

func TestOverlay_DeleteShadowsInner(t *testing.T) {
	inner := NewMemory()
	inner.Put([]byte("p/a"), []byte("1"))
	inner.Put([]byte("p/b"), []byte("2"))

	o := NewOverlay(inner)
	o.Delete([]byte("p/a"))

	if _, err := o.Get([]byte("p/a")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get deleted = %v, want ErrNotFound", err)
	}

	var keys []string
	o.ForEach([]byte("p/"), func(k, _ []byte) error {
		keys = append(keys, string(k))
		return nil
	})
	if len(keys) != 1 || keys[0] != "p/b" {
		t.Fatalf("ForEach keys = %v, want [p/b]", keys)
	}

	if err := o.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if ok, _ := inner.Has([]byte("p/a")); ok {
		t.Fatal("delete not committed")
	}
}

func TestOverlay_ForEachMergedSorted(t *testing.T) {
	inner := NewMemory()
	inner.Put([]byte("s/b"), []byte("inner"))
	inner.Put([]byte("s/d"), []byte("inner"))

	o := NewOverlay(inner)
	o.Put([]byte("s/a"), []byte("over"))
	o.Put([]byte("s/b"), []byte("over"))
	o.Put([]byte("s/c"), []byte("over"))
	o.Put([]byte("x/z"), []byte("other"))

	var got []string
	err := o.ForEach([]byte("s/"), func(k, v []byte) error {
		got = append(got, string(k)+"="+string(v))
		return nil
	})
	if err != nil {
		t.Fatalf("ForEach: %v", err)
	}
	want := []string{"s/a=over", "s/b=over", "s/c=over", "s/d=inner"}
	if len(got) != len(want) {
		t.Fatalf("ForEach = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ForEach[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestOverlay_PrefixOnTop(t *testing.T) {
	inner := NewMemory()
	o := NewOverlay(inner)
	ns := NewPrefixDB(o, []byte("r/"))

	ns.Put([]byte("sale"), []byte("v"))
	if ok, _ := inner.Has([]byte("r/sale")); ok {
		t.Fatal("prefixed write leaked before commit")
	}
	if err := o.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	got, err := inner.Get([]byte("r/sale"))
	if err != nil || string(got) != "v" {
		t.Fatalf("inner Get = %q, %v", got, err)
	}
}

func TestOverlay_CommitWithoutBatcher(t *testing.T) {
	inner := &plainDB{NewMemory()}
	o := NewOverlay(inner)
	o.Put([]byte("a"), []byte("1"))
	if err := o.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if ok, _ := inner.Has([]byte("a")); !ok {
		t.Fatal("write not applied through fallback path")
	}
}

// plainDB hides the Batcher implementation of the wrapped DB.
type plainDB struct{ m *MemoryDB }

func (p *plainDB) Get(k []byte) ([]byte, error) { return p.m.Get(k) }
func (p *plainDB) Put(k, v []byte) error        { return p.m.Put(k, v) }
func (p *plainDB) Delete(k []byte) error        { return p.m.Delete(k) }
func (p *plainDB) Has(k []byte) (bool, error)   { return p.m.Has(k) }
func (p *plainDB) ForEach(pr []byte, fn func(k, v []byte) error) error {
	return p.m.ForEach(pr, fn)
}
func (p *plainDB) Close() error { return nil }
