package core

import "sort"

// overlayEntry is the sentinel-tombstone shape the spec explicitly allows in
// place of a boxed Option<value>: Deleted distinguishes "locally removed"
// from "not present in the overlay at all" (absence from the map).
type overlayEntry struct {
	deleted bool
	value   []byte
}

// MirrorKvStore is a copy-on-write overlay over a parent KvStore. Reads
// consult the overlay first, falling through to the parent on miss. Writes
// go to the overlay only; the parent is never mutated directly by a mirror.
type MirrorKvStore struct {
	parent  KvStore
	overlay map[string]overlayEntry
}

// NewMirrorKvStore forks parent. The mirror borrows parent for its lifetime;
// the caller must not mutate parent until the mirror is committed or
// discarded.
func NewMirrorKvStore(parent KvStore) *MirrorKvStore {
	return &MirrorKvStore{parent: parent, overlay: make(map[string]overlayEntry)}
}

func (m *MirrorKvStore) GetRaw(key []byte) ([]byte, bool) {
	if e, ok := m.overlay[string(key)]; ok {
		if e.deleted {
			return nil, false
		}
		out := make([]byte, len(e.value))
		copy(out, e.value)
		return out, true
	}
	return m.parent.GetRaw(key)
}

func (m *MirrorKvStore) BatchPutRaw(entries []KvEntry) error {
	for _, e := range entries {
		k := string(e.Key)
		if e.Del {
			m.overlay[k] = overlayEntry{deleted: true}
			continue
		}
		v := make([]byte, len(e.Value))
		copy(v, e.Value)
		m.overlay[k] = overlayEntry{value: v}
	}
	return nil
}

// Buffer returns the overlay's entries in deterministic (sorted-key) order;
// the overlay itself is left as it is.
func (m *MirrorKvStore) Buffer() []KvEntry {
	keys := make([]string, 0, len(m.overlay))
	for k := range m.overlay {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]KvEntry, 0, len(keys))
	for _, k := range keys {
		e := m.overlay[k]
		out = append(out, KvEntry{Key: []byte(k), Value: e.value, Del: e.deleted})
	}
	return out
}

// Rollback returns the reverse delta for this mirror's overlay: for every
// overlaid key, the value currently held by the parent (possibly absent).
// Applying the reverse delta to the parent after a commit restores the
// pre-fork state.
func (m *MirrorKvStore) Rollback() []KvEntry {
	keys := make([]string, 0, len(m.overlay))
	for k := range m.overlay {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]KvEntry, 0, len(keys))
	for _, k := range keys {
		prior, ok := m.parent.GetRaw([]byte(k))
		out = append(out, KvEntry{Key: []byte(k), Value: prior, Del: !ok})
	}
	return out
}

// Atomic runs fn against a fresh mirror of parent. On success the mirror's
// overlay is flushed into parent as a single batched write and the reverse
// delta (computed before the flush) is returned alongside fn's result. On
// error the mirror is discarded and parent is left untouched.
func Atomic[T any](parent KvStore, fn func(m *MirrorKvStore) (T, error)) (T, []KvEntry, error) {
	mirror := NewMirrorKvStore(parent)
	result, err := fn(mirror)
	if err != nil {
		var zero T
		return zero, nil, err
	}
	delta := mirror.Rollback()
	if putErr := parent.BatchPutRaw(mirror.Buffer()); putErr != nil {
		var zero T
		return zero, nil, putErr
	}
	return result, delta, nil
}
