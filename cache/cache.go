// Package cache persists difficulty attributes in a sqlite database so
// they can be reused across performance evaluations that share the
// same (map, mods, passed objects) triple.
package cache

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/osuperf/osuperf/api"
	"github.com/osuperf/osuperf/beatmap"
	"github.com/osuperf/osuperf/difficulty"
)

const schema = `
CREATE TABLE IF NOT EXISTS attributes (
	map_id INTEGER NOT NULL,
	mods INTEGER NOT NULL,
	passed_objects INTEGER NOT NULL,
	total REAL NOT NULL,
	aim REAL NOT NULL,
	speed REAL NOT NULL,
	speed_note_count REAL NOT NULL,
	aim_difficult_strain_count REAL NOT NULL,
	speed_difficult_strain_count REAL NOT NULL,
	flashlight REAL NOT NULL,
	slider_factor REAL NOT NULL,
	ar REAL NOT NULL,
	od REAL NOT NULL,
	cs REAL NOT NULL,
	hp REAL NOT NULL,
	object_count INTEGER NOT NULL,
	circles INTEGER NOT NULL,
	sliders INTEGER NOT NULL,
	spinners INTEGER NOT NULL,
	max_combo INTEGER NOT NULL,
	PRIMARY KEY (map_id, mods, passed_objects)
)`

// Store is a sqlite-backed attribute cache.
type Store struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening attribute cache: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating attribute cache schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Get looks up the attributes for a (map, mods, passed objects)
// triple. The second return value reports whether the cache held them.
func (s *Store) Get(mapID int, mods difficulty.Modifier, passedObjects int) (api.Attributes, bool, error) {
	row := s.db.QueryRow(`
		SELECT total, aim, speed, speed_note_count,
			aim_difficult_strain_count, speed_difficult_strain_count,
			flashlight, slider_factor, ar, od, cs, hp,
			object_count, circles, sliders, spinners, max_combo
		FROM attributes
		WHERE map_id = ? AND mods = ? AND passed_objects = ?`,
		mapID, int64(mods), passedObjects)

	var attribs api.Attributes

	err := row.Scan(
		&attribs.Total, &attribs.Aim, &attribs.Speed, &attribs.SpeedNoteCount,
		&attribs.AimDifficultStrainCount, &attribs.SpeedDifficultStrainCount,
		&attribs.Flashlight, &attribs.SliderFactor,
		&attribs.AR, &attribs.OD, &attribs.CS, &attribs.HP,
		&attribs.ObjectCount, &attribs.Circles, &attribs.Sliders,
		&attribs.Spinners, &attribs.MaxCombo,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return api.Attributes{}, false, nil
	}
	if err != nil {
		return api.Attributes{}, false, fmt.Errorf("reading attribute cache: %w", err)
	}

	return attribs, true, nil
}

// Put stores the attributes for a (map, mods, passed objects) triple,
// replacing any previous entry.
func (s *Store) Put(mapID int, mods difficulty.Modifier, passedObjects int, attribs api.Attributes) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO attributes (
			map_id, mods, passed_objects,
			total, aim, speed, speed_note_count,
			aim_difficult_strain_count, speed_difficult_strain_count,
			flashlight, slider_factor, ar, od, cs, hp,
			object_count, circles, sliders, spinners, max_combo
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		mapID, int64(mods), passedObjects,
		attribs.Total, attribs.Aim, attribs.Speed, attribs.SpeedNoteCount,
		attribs.AimDifficultStrainCount, attribs.SpeedDifficultStrainCount,
		attribs.Flashlight, attribs.SliderFactor,
		attribs.AR, attribs.OD, attribs.CS, attribs.HP,
		attribs.ObjectCount, attribs.Circles, attribs.Sliders,
		attribs.Spinners, attribs.MaxCombo,
	)
	if err != nil {
		return fmt.Errorf("writing attribute cache: %w", err)
	}

	return nil
}

// CachedCalculator wraps a difficulty calculator with a Store so that
// repeated single calculations hit the database instead of the
// derivation. Gradual sequences are not cached; they are forwarded to
// the wrapped calculator.
type CachedCalculator struct {
	store *Store
	inner api.IDifficultyCalculator
}

func NewCachedCalculator(store *Store, inner api.IDifficultyCalculator) *CachedCalculator {
	return &CachedCalculator{store: store, inner: inner}
}

func (c *CachedCalculator) CalculateSingle(mp *beatmap.Map, d *difficulty.Difficulty, passedObjects int) api.Attributes {
	if attribs, ok, err := c.store.Get(mp.ID, d.Mods, passedObjects); err == nil && ok {
		return attribs
	}

	attribs := c.inner.CalculateSingle(mp, d, passedObjects)

	// Caching is best effort; a failed write only costs a re-derivation.
	_ = c.store.Put(mp.ID, d.Mods, passedObjects, attribs)

	return attribs
}

func (c *CachedCalculator) CalculateGradual(mp *beatmap.Map, d *difficulty.Difficulty) api.AttributeSource {
	return c.inner.CalculateGradual(mp, d)
}
