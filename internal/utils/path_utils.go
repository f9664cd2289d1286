// Package utils holds small path helpers shared by the CLI and REPL.
package utils

import (
	"path/filepath"

	"github.com/papyruslang/papyrus/internal/config"
)

// ExtractStem derives a source file's base name with its recognized YulLite
// extension stripped, used to name the corresponding *.masm output file
// (spec.md §6: "../masm/<stem>.masm").
func ExtractStem(path string) string {
	name := filepath.Base(path)
	return config.TrimSourceExt(name)
}

// OutputPath joins outputDir with stem's generated assembly filename.
func OutputPath(outputDir, stem string) string {
	return filepath.Join(outputDir, stem+config.OutputFileExt)
}

// ResolveRelative resolves a possibly-relative path against baseDir,
// leaving absolute paths untouched.
func ResolveRelative(baseDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if baseDir == "." || baseDir == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}
