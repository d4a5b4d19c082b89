package paths

import (
	"os"
	"path/filepath"
)

// AppName names the per-user configuration directory
const AppName = "v8shim"

// Files looked up in ConfigDir, in order
var ConfigFiles = []string{"config.toml", "config.yaml", "config.yml"}

const historyName = ".v8shim_history"

// ConfigDir returns the per-user configuration directory. It is empty when
// neither XDG_CONFIG_HOME nor HOME is set.
func ConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, AppName)
}

// HistoryFile returns the REPL history path in the home directory, or in
// the working directory when there is no home
func HistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return historyName
	}
	return filepath.Join(home, historyName)
}

// FindConfig returns the first regular file of ConfigFiles in ConfigDir
func FindConfig() (string, bool) {
	dir := ConfigDir()
	if dir == "" {
		return "", false
	}
	for _, name := range ConfigFiles {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, true
		}
	}
	return "", false
}
