package octgn

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FanMadeDeck is a deck list shipped in a set archive's FanMade tree.
type FanMadeDeck struct {
	// Dir is the FanMade subdirectory: Heroes, Modulars or Villains.
	Dir  string
	File string
}

// SetFileInfo is the result of validating a set archive.
type SetFileInfo struct {
	SetID   string
	FanMade []FanMadeDeck
}

// fanMadeDirs are the FanMade subdirectories policed for deck lists.
var fanMadeDirs = []string{"Heroes", "Modulars", "Villains"}

// zipNode is one directory of a zip entry tree.
type zipNode struct {
	dirs  map[string]*zipNode
	files []*zip.File
}

func newZipNode() *zipNode {
	return &zipNode{dirs: make(map[string]*zipNode)}
}

func buildZipTree(files []*zip.File) *zipNode {
	root := newZipNode()
	for _, f := range files {
		parts := strings.Split(f.Name, "/")
		if parts[len(parts)-1] == "" {
			parts = parts[:len(parts)-1]
		}
		if len(parts) == 0 {
			continue
		}
		node := root
		for _, dir := range parts[:len(parts)-1] {
			child := node.dirs[dir]
			if child == nil {
				child = newZipNode()
				node.dirs[dir] = child
			}
			node = child
		}
		last := parts[len(parts)-1]
		if f.FileInfo().IsDir() {
			if node.dirs[last] == nil {
				node.dirs[last] = newZipNode()
			}
		} else {
			node.files = append(node.files, f)
		}
	}
	return root
}

func (n *zipNode) only() (string, *zipNode) {
	for name, child := range n.dirs {
		return name, child
	}
	return "", nil
}

// ValidateSetFile opens a card set archive on disk and validates its
// layout. See ValidateSetArchive.
func ValidateSetFile(path string, allowNonO8D bool) (*SetFileInfo, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, &ArchiveLayoutError{Reason: "Not a file: " + path}
	}
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, &ArchiveLayoutError{Reason: err.Error()}
	}
	defer zr.Close()
	return ValidateSetArchive(zr.File, allowNonO8D)
}

// ValidateSetArchive validates the directory tree of a card set
// archive against the layout OCTGN expects when the archive is
// unzipped into a Data directory. Each structural rule short-circuits
// with its own reason string. With allowNonO8D false, files under the
// policed FanMade subdirectories must be .o8d deck lists, which are
// collected into the result.
func ValidateSetArchive(files []*zip.File, allowNonO8D bool) (*SetFileInfo, error) {
	fail := func(reason string) (*SetFileInfo, error) {
		return nil, &ArchiveLayoutError{Reason: reason}
	}
	tree := buildZipTree(files)

	if len(tree.dirs) != 2 || tree.dirs["GameDatabase"] == nil ||
		tree.dirs["ImageDatabase"] == nil || len(tree.files) > 0 {
		return fail("Invalid top directory structure")
	}

	gameDB := tree.dirs["GameDatabase"]
	imageDB := tree.dirs["ImageDatabase"]
	for _, db := range []*zipNode{gameDB, imageDB} {
		if len(db.dirs) != 1 || db.dirs[GameID] == nil || len(db.files) > 0 {
			return fail("Databases must contain a single MC game directory")
		}
	}
	gameDB = gameDB.dirs[GameID]
	imageDB = imageDB.dirs[GameID]

	if len(gameDB.files) > 0 || gameDB.dirs["Sets"] == nil || len(gameDB.dirs) > 2 ||
		(len(gameDB.dirs) == 2 && gameDB.dirs["FanMade"] == nil) {
		return fail("Invalid structure of GameDatabase dir for game")
	}
	if len(imageDB.dirs) != 1 || imageDB.dirs["Sets"] == nil || len(imageDB.files) > 0 {
		return fail("Invalid structure of ImageDatabase game directory")
	}

	gameSets := gameDB.dirs["Sets"]
	imageSets := imageDB.dirs["Sets"]
	setIDs := make(map[string]bool)
	for _, db := range []*zipNode{gameSets, imageSets} {
		if len(db.dirs) != 1 {
			return fail("Database set dir(s) must contain single directory")
		}
		name, _ := db.only()
		name = strings.ToLower(name)
		if _, err := uuid.Parse(name); err != nil {
			return fail("set ID directory name is not correct GUID format")
		}
		setIDs[name] = true
	}
	if len(setIDs) != 1 {
		return fail("Set ID mismatch for GameDatabase and ImageDatabase")
	}
	var setID string
	for id := range setIDs {
		setID = id
	}

	_, gameSet := gameSets.only()
	if len(gameSet.dirs) > 0 || len(gameSet.files) != 1 {
		return fail("GameDatabase Sets must contain a single file")
	}
	setXMLFile := gameSet.files[0]
	if !strings.EqualFold(baseName(setXMLFile.Name), "set.xml") {
		return fail("GameDatabase Sets must contain set.xml")
	}

	_, imageSet := imageSets.only()
	if len(imageSet.dirs) != 1 || imageSet.dirs["Cards"] == nil || len(imageSet.files) > 0 {
		return fail("Image database set must include a single dir Cards")
	}
	imageCards := imageSet.dirs["Cards"]
	if len(imageCards.dirs) > 0 {
		return fail("ImageDatabase Sets cannot have subfolders")
	}
	for _, f := range imageCards.files {
		ext := strings.ToLower(filepath.Ext(f.Name))
		if ext != ".png" && ext != ".jpg" {
			return fail("All ImageDatabase Sets files must be .png or .jpg")
		}
	}

	var fanMade []FanMadeDeck
	if fanDB := gameDB.dirs["FanMade"]; fanDB != nil && !allowNonO8D {
		for _, sub := range fanMadeDirs {
			dir := fanDB.dirs[sub]
			if dir == nil {
				continue
			}
			for _, f := range dir.files {
				if strings.ToLower(filepath.Ext(f.Name)) != ".o8d" {
					return fail("FanMade folder includes non-.o8d files")
				}
				fanMade = append(fanMade, FanMadeDeck{Dir: sub, File: baseName(f.Name)})
			}
		}
	}

	rc, err := setXMLFile.Open()
	if err != nil {
		return fail("Invalid set.xml structure or mismatching set ID")
	}
	defer rc.Close()
	var root struct {
		XMLName xml.Name `xml:"set"`
		ID      string   `xml:"id,attr"`
	}
	if err := xml.NewDecoder(rc).Decode(&root); err != nil || root.ID != setID {
		return fail("Invalid set.xml structure or mismatching set ID")
	}

	return &SetFileInfo{SetID: setID, FanMade: fanMade}, nil
}

// ExportSet writes a deck as a card set archive: set.xml in the
// GameDatabase tree and every card image, alt sides included, in the
// ImageDatabase tree. The deck is validated first and every image
// must resolve through the provider.
func ExportSet(deck DeckView, images ImageProvider, w io.Writer) error {
	if err := ValidateDeck(deck); err != nil {
		return err
	}
	if len(deck.Cards()) == 0 {
		return validationErrorf("the deck has no cards")
	}
	setID := deck.SetData().SetID()
	xmlStr, err := EncodeSetXML(deck)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	setXMLPath := strings.Join([]string{"GameDatabase", GameID, "Sets", setID, "set.xml"}, "/")
	f, err := zw.Create(setXMLPath)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(f, xmlStr); err != nil {
		return err
	}
	cardsDir := strings.Join([]string{"ImageDatabase", GameID, "Sets", setID, "Cards"}, "/")
	for _, card := range deck.Cards() {
		data := card.Data()
		ids := []string{data.ImageID()}
		if alt := data.Alt(); alt != nil {
			ids = append(ids, alt.ImageID())
		}
		for _, id := range ids {
			img, ok := images.CardImage(id)
			if !ok {
				return validationErrorf("no image available for card %q (id %s)", data.Name(), id)
			}
			f, err := zw.Create(cardsDir + "/" + id + ".png")
			if err != nil {
				return err
			}
			if _, err := f.Write(img); err != nil {
				return err
			}
		}
	}
	return zw.Close()
}

// InstallDeck installs a deck directly into an OCTGN Data directory:
// set.xml plus all card images. An existing installation of the same
// set is removed first; a partial installation is rolled back on
// failure.
func InstallDeck(deck DeckView, images ImageProvider, dataPath string) error {
	if err := ValidateDeck(deck); err != nil {
		return err
	}
	if len(deck.Cards()) == 0 {
		return validationErrorf("the deck has no cards")
	}
	if err := ValidateDataPath(dataPath); err != nil {
		return err
	}
	setID := deck.SetData().SetID()
	gameSetPath := filepath.Join(dataPath, "GameDatabase", GameID, "Sets", setID)
	imageSetPath := filepath.Join(dataPath, "ImageDatabase", GameID, "Sets", setID)
	if err := UninstallSet(dataPath, setID); err != nil {
		return err
	}

	install := func() error {
		cardsPath := filepath.Join(imageSetPath, "Cards")
		for _, dir := range []string{gameSetPath, imageSetPath, cardsPath} {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		xmlStr, err := EncodeSetXML(deck)
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(gameSetPath, "set.xml"), []byte(xmlStr), 0o644); err != nil {
			return err
		}
		for _, card := range deck.Cards() {
			data := card.Data()
			ids := []string{data.ImageID()}
			if alt := data.Alt(); alt != nil {
				ids = append(ids, alt.ImageID())
			}
			for _, id := range ids {
				img, ok := images.CardImage(id)
				if !ok {
					return validationErrorf("no image available for card %q (id %s)", data.Name(), id)
				}
				if err := os.WriteFile(filepath.Join(cardsPath, id+".png"), img, 0o644); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := install(); err != nil {
		os.RemoveAll(gameSetPath)
		os.RemoveAll(imageSetPath)
		return err
	}
	return nil
}

// UninstallSet removes a set's GameDatabase and ImageDatabase
// directories from a Data directory. Removing a set that is not
// installed is a no-op.
func UninstallSet(dataPath, setID string) error {
	if err := ValidateDataPath(dataPath); err != nil {
		return err
	}
	for _, dir := range []string{
		filepath.Join(dataPath, "GameDatabase", GameID, "Sets", setID),
		filepath.Join(dataPath, "ImageDatabase", GameID, "Sets", setID),
	} {
		if err := os.RemoveAll(dir); err != nil {
			return err
		}
	}
	return nil
}

// InstallSetFile validates a card set archive and unzips it into a
// Data directory, replacing any existing installation of the same
// set. It returns the installed set ID.
func InstallSetFile(dataPath, path string, allowNonO8D bool) (string, error) {
	if err := ValidateDataPath(dataPath); err != nil {
		return "", err
	}
	info, err := ValidateSetFile(path, allowNonO8D)
	if err != nil {
		return "", err
	}
	if _, err := UninstallSetFile(dataPath, path, allowNonO8D); err != nil {
		return "", err
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", err
	}
	defer zr.Close()
	for _, f := range zr.File {
		name := f.Name
		if strings.Contains(name, "..") {
			return "", &ArchiveLayoutError{Reason: "Archive entry escapes the target directory"}
		}
		target := filepath.Join(dataPath, filepath.FromSlash(name))
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return "", err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return "", err
		}
		if err := extractZipFile(f, target); err != nil {
			return "", err
		}
	}
	return info.SetID, nil
}

// UninstallSetFile removes the installed content of a card set
// archive from a Data directory: the set's database directories plus
// any FanMade deck lists the archive shipped. It returns the set ID.
func UninstallSetFile(dataPath, path string, allowNonO8D bool) (string, error) {
	if err := ValidateDataPath(dataPath); err != nil {
		return "", err
	}
	info, err := ValidateSetFile(path, allowNonO8D)
	if err != nil {
		return "", err
	}
	if err := UninstallSet(dataPath, info.SetID); err != nil {
		return "", err
	}
	for _, fm := range info.FanMade {
		p := filepath.Join(dataPath, "GameDatabase", GameID, "FanMade", fm.Dir, fm.File)
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return "", err
		}
	}
	return info.SetID, nil
}

func extractZipFile(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	out, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func baseName(zipName string) string {
	parts := strings.Split(zipName, "/")
	return parts[len(parts)-1]
}
