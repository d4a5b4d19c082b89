// Package paths provides the standard filesystem locations of the CLI.
//
// # Directory Structure
//
//	$XDG_CONFIG_HOME/v8shim/   (os.UserConfigDir)
//	  ├── config.toml
//	  └── config.yaml
//	$HOME/.v8shim_history      (REPL history)
//
// # Usage
//
//	import "github.com/GriffinCanCode/v8goja/internal/shared/paths"
//
//	// First existing default config file, if any
//	if path, ok := paths.FindConfig(); ok {
//	    cfg, err = config.LoadFile(path)
//	}
//
//	// REPL history
//	hist := paths.HistoryFile()
package paths
