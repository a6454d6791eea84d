package catalog

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

const FileName = "catalog.db"

var (
	tilesBucket = []byte("tiles")
	runsBucket  = []byte("runs")
)

var ErrNotFound = errors.New("catalog entry not found")

// Run summarises one pipeline run
type Run struct {
	ID       uuid.UUID `json:"id"`
	Command  string    `json:"command"`
	Format   string    `json:"format"`
	Database string    `json:"database"`
	Tiles    int       `json:"tiles"`
	Finished time.Time `json:"finished"`
}

func NewRun(command string, format string, database string, tiles int) Run {
	return Run{
		ID:       uuid.Must(uuid.NewV7()),
		Command:  command,
		Format:   format,
		Database: database,
		Tiles:    tiles,
		Finished: time.Now().UTC(),
	}
}

// Catalog is a bbolt store of the tile artifacts of the latest run and the history of runs
type Catalog struct {
	db *bolt.DB
}

func Open(path string) (*Catalog, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("cannot open catalog %s: %w", path, err)
	}
	return &Catalog{db: db}, nil
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

// Record replaces the tile entries with the given ones and appends the run, in one transaction
func (c *Catalog) Record(run Run, entries []Entry) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(tilesBucket) != nil {
			if err := tx.DeleteBucket(tilesBucket); err != nil {
				return err
			}
		}
		tiles, err := tx.CreateBucket(tilesBucket)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			value, err := json.Marshal(entry)
			if err != nil {
				return err
			}
			if err := tiles.Put(tileKey(entry.Row, entry.Col), value); err != nil {
				return err
			}
		}

		runs, err := tx.CreateBucketIfNotExists(runsBucket)
		if err != nil {
			return err
		}
		value, err := json.Marshal(run)
		if err != nil {
			return err
		}
		return runs.Put([]byte(run.ID.String()), value)
	})
}

// Tiles lists the tile entries ordered by row and col
func (c *Catalog) Tiles() ([]Entry, error) {
	var entries []Entry
	err := c.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(tilesBucket)
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(_, value []byte) error {
			var entry Entry
			if err := json.Unmarshal(value, &entry); err != nil {
				return err
			}
			entries = append(entries, entry)
			return nil
		})
	})
	return entries, err
}

func (c *Catalog) Tile(row, col int) (Entry, error) {
	var entry Entry
	err := c.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(tilesBucket)
		if bucket == nil {
			return ErrNotFound
		}
		value := bucket.Get(tileKey(row, col))
		if value == nil {
			return ErrNotFound
		}
		return json.Unmarshal(value, &entry)
	})
	return entry, err
}

// Runs lists every recorded run, oldest first. Run ids are time ordered so the key order is
// the run order.
func (c *Catalog) Runs() ([]Run, error) {
	var runs []Run
	err := c.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(runsBucket)
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(_, value []byte) error {
			var run Run
			if err := json.Unmarshal(value, &run); err != nil {
				return err
			}
			runs = append(runs, run)
			return nil
		})
	})
	return runs, err
}

// big endian keys keep the bucket ordered by row then col
func tileKey(row, col int) []byte {
	key := make([]byte, 16)
	binary.BigEndian.PutUint64(key[:8], uint64(row))
	binary.BigEndian.PutUint64(key[8:], uint64(col))
	return key
}
