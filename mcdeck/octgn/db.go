package octgn

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	"github.com/sahilm/fuzzy"
)

const imageCacheSize = 256

// Set is one card set loaded from the OCTGN database.
type Set struct {
	Data  *CardSetData
	Cards []*CardData

	byID map[string]*CardData
}

// Card returns the card with the given image ID, or nil.
func (s *Set) Card(imageID string) *CardData {
	return s.byID[imageID]
}

// SetDatabase loads and indexes the card sets installed under an
// OCTGN Data directory, with an image index over the ImageDatabase
// tree and an LRU cache for loaded image bytes.
//
// Load parses once; later calls are no-ops unless forced. The
// database is not safe for concurrent use.
type SetDatabase struct {
	dataPath string
	loaded   bool
	sets     map[string]*Set
	setIDs   []string
	images   map[string]string
	cache    *lru.Cache
}

// NewSetDatabase creates a database over dataPath. The path is not
// touched until Load.
func NewSetDatabase(dataPath string) *SetDatabase {
	cache, _ := lru.New(imageCacheSize)
	return &SetDatabase{dataPath: dataPath, cache: cache}
}

// DataPath returns the Data directory the database reads from.
func (db *SetDatabase) DataPath() string { return db.dataPath }

// Reset drops all loaded state so the next Load parses from disk.
func (db *SetDatabase) Reset() {
	db.loaded = false
	db.sets = nil
	db.setIDs = nil
	db.images = nil
	db.cache.Purge()
}

// Load parses the GameDatabase set.xml files and indexes the
// ImageDatabase image files. A repeated Load is a no-op unless force
// is set. Sets that fail to parse are logged and skipped.
func (db *SetDatabase) Load(force bool) error {
	if db.loaded && !force {
		return nil
	}
	db.Reset()
	if err := ValidateDataPath(db.dataPath); err != nil {
		return err
	}

	db.sets = make(map[string]*Set)
	setsRoot := filepath.Join(db.dataPath, "GameDatabase", GameID, "Sets")
	err := filepath.WalkDir(setsRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(d.Name(), "set.xml") {
			return nil
		}
		dirName := filepath.Base(filepath.Dir(path))
		setID, err := uuid.Parse(dirName)
		if err != nil {
			return nil
		}
		set, loadErr := loadSetFile(path, setID.String())
		if loadErr != nil {
			slog.Warn("Skipping card set",
				slog.String("type", "db"),
				slog.String("file", path),
				slog.Any("error", loadErr))
			return nil
		}
		db.sets[set.Data.SetID()] = set
		return nil
	})
	if err != nil {
		return err
	}
	db.setIDs = make([]string, 0, len(db.sets))
	for id := range db.sets {
		db.setIDs = append(db.setIDs, id)
	}
	sort.Strings(db.setIDs)

	db.images = make(map[string]string)
	imageRoot := filepath.Join(db.dataPath, "ImageDatabase", GameID, "Sets")
	err = filepath.WalkDir(imageRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".png" && ext != ".jpg" {
			return nil
		}
		base := strings.TrimSuffix(name, filepath.Ext(name))
		guid := base
		if i := strings.LastIndex(base, "."); i >= 0 {
			guid = base[:i]
		}
		if _, err := uuid.Parse(guid); err != nil {
			return nil
		}
		db.images[strings.ToLower(base)] = path
		return nil
	})
	if err != nil {
		return err
	}

	db.loaded = true
	slog.Info("Loaded OCTGN card database",
		slog.String("type", "db"),
		slog.Int("sets", len(db.sets)),
		slog.Int("images", len(db.images)))
	return nil
}

func loadSetFile(path, setID string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, cards, err := DecodeSetXML(f)
	if err != nil {
		return nil, err
	}
	if data.SetID() != setID {
		return nil, validationErrorf("set.xml set ID does not match folder")
	}
	set := &Set{Data: data, Cards: cards, byID: make(map[string]*CardData, len(cards))}
	for _, card := range cards {
		set.byID[card.ImageID()] = card
	}
	return set, nil
}

// Sets returns the loaded sets in set ID order.
func (db *SetDatabase) Sets() []*Set {
	sets := make([]*Set, 0, len(db.setIDs))
	for _, id := range db.setIDs {
		sets = append(sets, db.sets[id])
	}
	return sets
}

// Set returns the loaded set with the given ID, or nil.
func (db *SetDatabase) Set(setID string) *Set {
	return db.sets[setID]
}

// FindCard looks a card up by image ID across all loaded sets.
func (db *SetDatabase) FindCard(imageID string) (*Set, *CardData) {
	for _, id := range db.setIDs {
		set := db.sets[id]
		if card := set.Card(imageID); card != nil {
			return set, card
		}
	}
	return nil, nil
}

// CardImage loads the image bytes for an image ID from the image
// index, caching loaded files. It implements ImageProvider.
func (db *SetDatabase) CardImage(imageID string) ([]byte, bool) {
	key := strings.ToLower(imageID)
	if v, ok := db.cache.Get(key); ok {
		return v.([]byte), true
	}
	path, ok := db.images[key]
	if !ok {
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("Failed reading card image",
			slog.String("type", "db"),
			slog.String("file", path),
			slog.Any("error", err))
		return nil, false
	}
	db.cache.Add(key, data)
	return data, true
}

// SearchNames runs a fuzzy search over the names of all loaded cards
// and returns the best matches, capped at limit (unlimited if <= 0).
func (db *SetDatabase) SearchNames(query string, limit int) []*CardData {
	var cards []*CardData
	var names []string
	for _, id := range db.setIDs {
		for _, card := range db.sets[id].Cards {
			cards = append(cards, card)
			names = append(names, card.Name())
		}
	}
	matches := fuzzy.Find(query, names)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	result := make([]*CardData, 0, len(matches))
	for _, m := range matches {
		result = append(result, cards[m.Index])
	}
	return result
}

// ResolvedCard is a deck list card matched against the database.
type ResolvedCard struct {
	Card    *CardData
	Qty     int
	Name    string
	O8DType int
}

// ResolveO8D matches a decoded deck list against the loaded database.
// Sections resolve in the fixed player-then-global order; cards not
// present in any set are returned in missing. It is an error when
// nothing resolves at all. Resolved cards are copies with their
// export type tag set from the section they came from.
func (db *SetDatabase) ResolveO8D(deck *O8DDeck) (resolved []ResolvedCard, missing []O8DCard, err error) {
	bySection := make(map[string]*O8DSection)
	for i := range deck.Sections {
		s := &deck.Sections[i]
		key := s.Name
		if s.Shared {
			key = "g:" + key
		}
		bySection[key] = s
	}
	numPlayer := len(O8DPlayerSections)
	for t := 0; t < numPlayer+len(O8DGlobalSections); t++ {
		name, shared, _ := O8DSectionFor(t)
		key := name
		if shared {
			key = "g:" + key
		}
		section := bySection[key]
		if section == nil {
			continue
		}
		for _, ref := range section.Cards {
			_, card := db.FindCard(strings.ToLower(ref.ID))
			if card == nil {
				missing = append(missing, ref)
				continue
			}
			c := card.Copy()
			c.O8DType = t
			resolved = append(resolved, ResolvedCard{Card: c, Qty: ref.Qty, Name: ref.Name, O8DType: t})
		}
	}
	if len(resolved) == 0 {
		return nil, nil, validationErrorf("none of the cards are in the OCTGN database")
	}
	return resolved, missing, nil
}
