// Package scripts locates and loads script sources for the CLI.
//
// Arguments may name files, directories or doublestar glob patterns:
//
//	v8shim app.js 'lib/**/*.js' testdata/
//
// Directories are walked with fastwalk and filtered by extension. Each
// source is decompressed when it ends in .gz or .zst, checked to be text,
// converted to UTF-8 from its detected charset and stripped of a BOM. A
// leading shebang line is commented out so line numbers are preserved.
package scripts
