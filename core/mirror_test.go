package core

import "testing"

func TestMirrorKvStoreReadThrough(t *testing.T) {
	parent := NewMemStore()
	if err := parent.BatchPutRaw([]KvEntry{{Key: []byte("a"), Value: []byte("1")}}); err != nil {
		t.Fatalf("seed parent: %v", err)
	}

	tests := []struct {
		name     string
		setup    func(m *MirrorKvStore)
		key      string
		wantVal  string
		wantOK   bool
	}{
		{
			name:    "miss falls through to parent",
			setup:   func(m *MirrorKvStore) {},
			key:     "a",
			wantVal: "1",
			wantOK:  true,
		},
		{
			name: "overlay write shadows parent",
			setup: func(m *MirrorKvStore) {
				_ = m.BatchPutRaw([]KvEntry{{Key: []byte("a"), Value: []byte("2")}})
			},
			key:     "a",
			wantVal: "2",
			wantOK:  true,
		},
		{
			name: "overlay deletion never falls back to parent",
			setup: func(m *MirrorKvStore) {
				_ = m.BatchPutRaw([]KvEntry{{Key: []byte("a"), Del: true}})
			},
			key:    "a",
			wantOK: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := NewMirrorKvStore(parent)
			tc.setup(m)
			v, ok := m.GetRaw([]byte(tc.key))
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if ok && string(v) != tc.wantVal {
				t.Fatalf("value = %q, want %q", v, tc.wantVal)
			}
			// the parent must never be mutated by a mirror
			pv, pok := parent.GetRaw([]byte("a"))
			if !pok || string(pv) != "1" {
				t.Fatalf("parent mutated: %q, %v", pv, pok)
			}
		})
	}
}

func TestAtomicCommitsOnSuccessDiscardsOnError(t *testing.T) {
	parent := NewMemStore()
	_ = parent.BatchPutRaw([]KvEntry{{Key: []byte("k"), Value: []byte("orig")}})

	_, _, err := Atomic(parent, func(m *MirrorKvStore) (struct{}, error) {
		_ = m.BatchPutRaw([]KvEntry{{Key: []byte("k"), Value: []byte("changed")}})
		return struct{}{}, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := parent.GetRaw([]byte("k"))
	if string(v) != "changed" {
		t.Fatalf("commit did not apply: got %q", v)
	}

	wantErr := errAddressLength
	_, _, err = Atomic(parent, func(m *MirrorKvStore) (struct{}, error) {
		_ = m.BatchPutRaw([]KvEntry{{Key: []byte("k"), Value: []byte("should-not-apply")}})
		return struct{}{}, wantErr
	})
	if err != wantErr {
		t.Fatalf("expected propagated error, got %v", err)
	}
	v, _ = parent.GetRaw([]byte("k"))
	if string(v) != "changed" {
		t.Fatalf("failed atomic mutated parent: got %q", v)
	}
}

func TestMirrorRollbackReverseDelta(t *testing.T) {
	parent := NewMemStore()
	_ = parent.BatchPutRaw([]KvEntry{{Key: []byte("existing"), Value: []byte("orig")}})

	m := NewMirrorKvStore(parent)
	_ = m.BatchPutRaw([]KvEntry{
		{Key: []byte("existing"), Value: []byte("new")},
		{Key: []byte("fresh"), Value: []byte("created")},
	})
	delta := m.Rollback()
	_ = parent.BatchPutRaw(m.Buffer())

	// re-applying the reverse delta must restore the pre-fork state exactly
	if err := parent.BatchPutRaw(delta); err != nil {
		t.Fatalf("apply reverse delta: %v", err)
	}
	v, ok := parent.GetRaw([]byte("existing"))
	if !ok || string(v) != "orig" {
		t.Fatalf("existing key not restored: %q, %v", v, ok)
	}
	if _, ok := parent.GetRaw([]byte("fresh")); ok {
		t.Fatalf("freshly created key not removed by reverse delta")
	}
}
