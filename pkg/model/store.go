package model

import (
	"database/sql"
	"os"
	"strconv"
	"sync"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/kdudkov/tilecull/pkg/geometry"
)

// Store keeps precomputed feature coverage in an sqlite file. Rows use tms
// numbering like mbtiles.
type Store struct {
	db   *sql.DB
	path string
	meta map[string]string

	mx   sync.RWMutex
	keys map[string]bool
}

type StoredHit struct {
	Key     string           `json:"key"`
	Overlap geometry.Overlap `json:"overlap"`
	Tile    Tile             `json:"tile"`
}

// CreateStore makes an empty store, replacing any file at path.
func CreateStore(path string) (*Store, error) {
	_ = os.Remove(path)

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create tables")
	}

	return &Store{db: db, path: path, meta: make(map[string]string), keys: make(map[string]bool)}, nil
}

func OpenStore(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}

	s := &Store{db: db, path: path}

	if err := s.getMetadata(); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "read metadata from %s", path)
	}

	if err := s.getKeys(); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "read feature keys from %s", path)
	}

	return s, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec("CREATE TABLE IF NOT EXISTS coverage (feature_key TEXT NOT NULL,zoom_level INTEGER NOT NULL,tile_column INTEGER NOT NULL,tile_row INTEGER NOT NULL,overlap TEXT NOT NULL,UNIQUE (feature_key, zoom_level, tile_column, tile_row));")

	if err != nil {
		return err
	}

	_, err = db.Exec("CREATE INDEX IF NOT EXISTS coverage_tile ON coverage (zoom_level, tile_column, tile_row);")

	if err != nil {
		return err
	}

	_, err = db.Exec("CREATE TABLE IF NOT EXISTS metadata (name TEXT, value TEXT);")

	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Put(key string, hits []TileHit) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO coverage (feature_key, zoom_level, tile_column, tile_row, overlap) values (?,?,?,?,?)")
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	defer stmt.Close()

	for _, h := range hits {
		t := h.Tile.Flip()
		if _, err := stmt.Exec(key, t.Z, t.X, t.Y, h.Overlap.String()); err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "put %s %s", key, h.Tile)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.mx.Lock()
	s.keys[key] = true
	s.mx.Unlock()

	return nil
}

// Has reports whether coverage of the feature key was stored.
func (s *Store) Has(key string) bool {
	s.mx.RLock()
	defer s.mx.RUnlock()

	return s.keys[key]
}

func (s *Store) getKeys() error {
	row, err := s.db.Query("SELECT DISTINCT feature_key FROM coverage")
	if err != nil {
		return err
	}

	defer row.Close()

	keys := make(map[string]bool)
	for row.Next() {
		var key string
		if err = row.Scan(&key); err != nil {
			return err
		}
		keys[key] = true
	}

	s.mx.Lock()
	s.keys = keys
	s.mx.Unlock()

	return row.Err()
}

func (s *Store) PutMeta(meta map[string]string) error {
	for k, v := range meta {
		if _, err := s.db.Exec("DELETE FROM metadata WHERE name=?", k); err != nil {
			return err
		}

		if _, err := s.db.Exec("INSERT INTO metadata (name, value) values (?,?)", k, v); err != nil {
			return err
		}

		s.meta[k] = v
	}

	return nil
}

func (s *Store) Meta() map[string]string {
	return s.meta
}

func (s *Store) getMetadata() error {
	row, err := s.db.Query("SELECT name,value FROM metadata ORDER BY name")
	if err != nil {
		return err
	}

	s.meta = make(map[string]string)

	defer row.Close()
	for row.Next() {
		var name string
		var value string
		if err = row.Scan(&name, &value); err != nil {
			return err
		}
		s.meta[name] = value
	}

	return row.Err()
}

// MaxZoom returns the deepest zoom the store was computed for.
func (s *Store) MaxZoom() int {
	if v, ok := s.meta["maxzoom"]; ok {
		if vv, err := strconv.Atoi(v); err == nil {
			return vv
		}
	}

	return MaxZoom
}

// At returns the features touching t. Tiles deeper than the stored ones, or
// below a stored inside tile, are answered from their ancestors, so hits may
// carry an ancestor tile. Each key is returned once, with its deepest hit.
func (s *Store) At(t Tile) ([]StoredHit, error) {
	z := min(t.Z, s.MaxZoom())

	res, err := s.query(t.Ancestor(z), "")
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(res))
	for _, h := range res {
		seen[h.Key] = true
	}

	for az := z - 1; az >= 0; az-- {
		hits, err := s.query(t.Ancestor(az), geometry.Inside.String())
		if err != nil {
			return nil, err
		}

		for _, h := range hits {
			if !seen[h.Key] {
				seen[h.Key] = true
				res = append(res, h)
			}
		}
	}

	return res, nil
}

func (s *Store) query(t Tile, overlap string) ([]StoredHit, error) {
	tms := t.Flip()

	q := "SELECT feature_key, overlap FROM coverage WHERE zoom_level=? and tile_column=? and tile_row=?"
	args := []any{tms.Z, tms.X, tms.Y}

	if overlap != "" {
		q += " and overlap=?"
		args = append(args, overlap)
	}

	row, err := s.db.Query(q, args...)
	if err != nil {
		return nil, err
	}

	defer row.Close()

	var res []StoredHit
	for row.Next() {
		h := StoredHit{Tile: t}
		var o string

		if err = row.Scan(&h.Key, &o); err != nil {
			return nil, err
		}

		if err = h.Overlap.UnmarshalText([]byte(o)); err != nil {
			return nil, err
		}

		res = append(res, h)
	}

	return res, row.Err()
}
