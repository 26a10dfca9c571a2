// Package preset persists named loop regions per song. Records are
// tiny JSON lists in BoltDB with a sync.Map mirror so reads on the
// playback path never touch disk.
package preset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"chordsync-go/logcolors"
	"chordsync-go/utils"

	log "github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"
)

const bucketName = "loop_presets"

// ErrNotFound is returned when deleting a preset that does not exist.
var ErrNotFound = errors.New("preset: not found")

// Region is one named loop window within a song.
type Region struct {
	Name  string  `json:"name"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Store wraps BoltDB with an in-memory mirror keyed by normalized song
// id.
type Store struct {
	db         *bolt.DB
	mem        sync.Map // normalized song id -> []Region
	dbPath     string
	backupPath string
	mu         sync.Mutex // serializes read-modify-write of a song's region list
}

// NewStore opens (or creates) the preset database.
func NewStore(dbPath string, backupPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create preset directory: %v", err)
	}
	if err := os.MkdirAll(backupPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %v", err)
	}

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open preset database: %v", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create preset bucket: %v", err)
	}

	s := &Store{
		db:         db,
		dbPath:     dbPath,
		backupPath: backupPath,
	}

	if err := s.loadToMemory(); err != nil {
		log.Warnf("%s Failed to preload presets to memory: %v", logcolors.LogPresets, err)
	}

	log.Infof("%s Preset store initialized at %s", logcolors.LogPresetsInit, dbPath)
	return s, nil
}

// loadToMemory loads every song's region list from disk into the mirror.
func (s *Store) loadToMemory() error {
	count := 0
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var regions []Region
			if err := json.Unmarshal(v, &regions); err != nil {
				log.Warnf("%s Failed to unmarshal presets for song %s: %v", logcolors.LogPresets, string(k), err)
				return nil // continue to next entry
			}
			s.mem.Store(string(k), regions)
			count++
			return nil
		})
	})
	if err != nil {
		return err
	}

	log.Infof("%s Loaded presets for %d songs", logcolors.LogPresets, count)
	return nil
}

// List returns the regions saved for a song, sorted by start time.
func (s *Store) List(songID string) []Region {
	key := utils.NormalizeSongID(songID)
	val, ok := s.mem.Load(key)
	if !ok {
		return nil
	}
	regions := val.([]Region)
	out := make([]Region, len(regions))
	copy(out, regions)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// Save adds or replaces a region by name. A reversed region is stored
// with its bounds swapped so start <= end always holds on read.
func (s *Store) Save(songID string, region Region) error {
	if region.Start > region.End {
		region.Start, region.End = region.End, region.Start
	}
	if region.Start < 0 {
		region.Start = 0
	}

	key := utils.NormalizeSongID(songID)

	s.mu.Lock()
	defer s.mu.Unlock()

	var regions []Region
	if val, ok := s.mem.Load(key); ok {
		existing := val.([]Region)
		regions = make([]Region, 0, len(existing)+1)
		for _, r := range existing {
			if r.Name != region.Name {
				regions = append(regions, r)
			}
		}
	}
	regions = append(regions, region)

	if err := s.write(key, regions); err != nil {
		return err
	}
	s.mem.Store(key, regions)
	log.Infof("%s Saved preset %q for song %s [%.2f, %.2f]", logcolors.LogPresets, region.Name, key, region.Start, region.End)
	return nil
}

// Delete removes a region by name.
func (s *Store) Delete(songID, name string) error {
	key := utils.NormalizeSongID(songID)

	s.mu.Lock()
	defer s.mu.Unlock()

	val, ok := s.mem.Load(key)
	if !ok {
		return ErrNotFound
	}
	existing := val.([]Region)

	regions := make([]Region, 0, len(existing))
	found := false
	for _, r := range existing {
		if r.Name == name {
			found = true
			continue
		}
		regions = append(regions, r)
	}
	if !found {
		return ErrNotFound
	}

	if len(regions) == 0 {
		if err := s.erase(key); err != nil {
			return err
		}
		s.mem.Delete(key)
		return nil
	}

	if err := s.write(key, regions); err != nil {
		return err
	}
	s.mem.Store(key, regions)
	return nil
}

// Clear removes every preset for a song.
func (s *Store) Clear(songID string) error {
	key := utils.NormalizeSongID(songID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.erase(key); err != nil {
		return err
	}
	s.mem.Delete(key)
	return nil
}

func (s *Store) write(key string, regions []Region) error {
	data, err := json.Marshal(regions)
	if err != nil {
		return fmt.Errorf("failed to marshal presets: %v", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(key), data)
	})
}

func (s *Store) erase(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Delete([]byte(key))
	})
}

// Backup writes a timestamped copy of the database into the backup
// directory and returns its path.
func (s *Store) Backup() (string, error) {
	name := fmt.Sprintf("presets-%s.db", time.Now().Format("20060102-150405"))
	path := filepath.Join(s.backupPath, name)

	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.CopyFile(path, 0600)
	})
	if err != nil {
		return "", fmt.Errorf("failed to back up preset database: %v", err)
	}

	log.Infof("%s Backed up preset database to %s", logcolors.LogPresetsBackup, path)
	return path, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
