package octgn

import (
	"os"
	"path/filepath"
)

// DefaultDataPath returns the standard location of the OCTGN Data
// directory under the user's home directory.
func DefaultDataPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, "AppData", "Local", "Programs", "OCTGN", "Data")
}

// ValidateDataPath checks that dataPath holds an OCTGN Data directory
// with Marvel Champions support enabled: GameDatabase and
// ImageDatabase subdirectories, each with a game directory holding a
// Sets directory.
func ValidateDataPath(dataPath string) error {
	if !isDir(dataPath) {
		return validationErrorf("no such directory %s", dataPath)
	}
	for _, sub := range []string{"GameDatabase", "ImageDatabase"} {
		if !isDir(filepath.Join(dataPath, sub)) {
			return validationErrorf("%s appears not to be a valid OCTGN data directory, "+
				"it has no subdir %s", dataPath, sub)
		}
	}
	for _, sub := range []string{"GameDatabase", "ImageDatabase"} {
		if !isDir(filepath.Join(dataPath, sub, GameID)) {
			return validationErrorf("support for MC: TCG seems not to have been enabled " +
				"in the OCTGN installation, see https://twistedsistem.wixsite.com/" +
				"octgnmarvelchampions/ for instructions")
		}
	}
	for _, sub := range []string{"GameDatabase", "ImageDatabase"} {
		p := filepath.Join(dataPath, sub, GameID, "Sets")
		if !isDir(p) {
			return validationErrorf("directory does not exist: %s", p)
		}
	}
	return nil
}

// CreateVirtualDataPath creates a skeleton OCTGN Data directory at
// dataPath: empty GameDatabase and ImageDatabase trees for the game,
// including the FanMade deck folders. The path must not already
// exist; a partially created tree is removed on failure.
func CreateVirtualDataPath(dataPath string) error {
	if _, err := os.Stat(dataPath); err == nil {
		return validationErrorf("path %s already exists", dataPath)
	}
	dirs := []string{
		filepath.Join(dataPath, "GameDatabase", GameID, "Sets"),
		filepath.Join(dataPath, "GameDatabase", GameID, "FanMade", "Heroes"),
		filepath.Join(dataPath, "GameDatabase", GameID, "FanMade", "Modulars"),
		filepath.Join(dataPath, "GameDatabase", GameID, "FanMade", "Villains"),
		filepath.Join(dataPath, "ImageDatabase", GameID, "Sets"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			os.RemoveAll(dataPath)
			return err
		}
	}
	if err := ValidateDataPath(dataPath); err != nil {
		os.RemoveAll(dataPath)
		return err
	}
	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
