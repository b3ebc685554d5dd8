package session

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	bolt "go.etcd.io/bbolt"
)

var bucketSessions = []byte("sessions")

const (
	boltFileMode      = 0o600
	boltOpenTimeout   = time.Second
	defaultGCInterval = 10 * time.Minute
)

// boltEntry is the stored form of one value.
type boltEntry struct {
	Value     []byte `json:"v"`
	ExpiresAt int64  `json:"e,omitempty"` // unix nanos, 0 never expires
}

func (e boltEntry) expired(now time.Time) bool {
	return e.ExpiresAt != 0 && now.UnixNano() >= e.ExpiresAt
}

// BoltStorage is a fiber.Storage kept in a single bbolt file so sessions
// survive a restart without an SQL server.
type BoltStorage struct {
	db     *bolt.DB
	stopCh chan struct{}
}

// NewBoltStorage opens or creates the file at path. Expired entries are
// swept every gcInterval, 0 selects the default.
func NewBoltStorage(path string, gcInterval time.Duration) (*BoltStorage, error) {
	db, err := bolt.Open(path, boltFileMode, &bolt.Options{Timeout: boltOpenTimeout})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open session file %s", path)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSessions)

		return err
	})
	if err != nil {
		_ = db.Close()

		return nil, errors.Wrap(err, "failed to create sessions bucket")
	}

	if gcInterval <= 0 {
		gcInterval = defaultGCInterval
	}

	s := &BoltStorage{db: db, stopCh: make(chan struct{})}

	go s.gcLoop(gcInterval)

	return s, nil
}

// Get returns the value for key, nil when missing or expired.
func (s *BoltStorage) Get(key string) ([]byte, error) {
	var out []byte

	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketSessions).Get([]byte(key))
		if raw == nil {
			return nil
		}

		var e boltEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil // unreadable entries count as missing
		}

		if !e.expired(time.Now()) {
			out = e.Value
		}

		return nil
	})

	return out, err
}

// Set stores val for key. exp 0 keeps it until deleted.
func (s *BoltStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}

	e := boltEntry{Value: val}
	if exp > 0 {
		e.ExpiresAt = time.Now().Add(exp).UnixNano()
	}

	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSessions).Put([]byte(key), raw)
	})
}

// Delete removes key.
func (s *BoltStorage) Delete(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSessions).Delete([]byte(key))
	})
}

// Reset removes every session.
func (s *BoltStorage) Reset() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketSessions); err != nil {
			return err
		}

		_, err := tx.CreateBucket(bucketSessions)

		return err
	})
}

// Close stops the sweeper and closes the file.
func (s *BoltStorage) Close() error {
	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}

	return s.db.Close()
}

// Sweep deletes expired entries and returns how many were removed.
func (s *BoltStorage) Sweep() (int, error) {
	var removed int

	now := time.Now()

	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketSessions)

		var stale [][]byte

		err := bucket.ForEach(func(k, v []byte) error {
			var e boltEntry
			if json.Unmarshal(v, &e) != nil || e.expired(now) {
				stale = append(stale, append([]byte(nil), k...))
			}

			return nil
		})
		if err != nil {
			return err
		}

		for _, k := range stale {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}

		removed = len(stale)

		return nil
	})

	return removed, err
}

func (s *BoltStorage) gcLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			removed, err := s.Sweep()
			if err != nil {
				log.Warn().Err(err).Msg("failed to sweep expired sessions")

				continue
			}

			if removed > 0 {
				log.Debug().Int("sessions", removed).Msg("swept expired sessions")
			}
		}
	}
}
