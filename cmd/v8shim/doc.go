// Package main is the v8shim command line tool.
//
// v8shim runs JavaScript through the V8-style embedding API implemented by
// internal/v8. Every script gets a fresh context on a pooled isolate, with
// a console object and a host object installed through the embedding API
// itself (host functions, accessors, templates, internal fields and
// private properties).
//
// Usage:
//
//	# Run files, directories or glob patterns concurrently
//	v8shim app.js 'lib/**/*.js' scripts/
//
//	# Evaluate an expression
//	v8shim -e '[1, 2, 3].map(x => x * 2)'
//
//	# JSON results, timing over ten runs, metrics on exit
//	v8shim -json -repeat 10 -metrics bench.js
//
//	# Interactive session (stdin is a terminal and no scripts are given)
//	v8shim
//
// Configuration:
//   - Environment variables prefixed V8SHIM_ (see internal/infrastructure/config)
//   - A TOML or YAML file given with -config, overlaid on the environment.
//     Without -config, config.toml or config.yaml in the user config
//     directory (for example ~/.config/v8shim) is used when present.
//   - -dev switches to colored debug logging
//
// Exit status is 0 when every script succeeds, 1 when a script throws and
// 2 for usage or configuration errors.
package main
