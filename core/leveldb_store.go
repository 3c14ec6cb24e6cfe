package core

import (
	"github.com/sirupsen/logrus"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

// LevelDBStore is the on-disk LSM KvStore backing. It is opened once with a
// fixed block-cache size and held for the process lifetime, per the spec's
// resource policy (§5).
type LevelDBStore struct {
	db *leveldb.DB
}

// DefaultLevelDBCacheMB is the fixed block-cache size the store is opened
// with, matching the "fixed cache size" resource policy of spec §5.
const DefaultLevelDBCacheMB = 64

// OpenLevelDBStore opens (or creates) the LSM store at path.
func OpenLevelDBStore(path string) (*LevelDBStore, error) {
	db, err := leveldb.OpenFile(path, &opt.Options{
		BlockCacheCapacity: DefaultLevelDBCacheMB * opt.MiB,
	})
	if err != nil {
		return nil, err
	}
	logrus.WithField("path", path).Info("leveldb store opened")
	return &LevelDBStore{db: db}, nil
}

func (l *LevelDBStore) Close() error { return l.db.Close() }

func (l *LevelDBStore) GetRaw(key []byte) ([]byte, bool) {
	v, err := l.db.Get(key, nil)
	if err != nil {
		return nil, false
	}
	return v, true
}

func (l *LevelDBStore) BatchPutRaw(entries []KvEntry) error {
	batch := new(leveldb.Batch)
	for _, e := range entries {
		if e.Del {
			batch.Delete(e.Key)
			continue
		}
		batch.Put(e.Key, e.Value)
	}
	return l.db.Write(batch, nil)
}

func (l *LevelDBStore) Buffer() []KvEntry { return nil }
