// Package config carries the transpiler's fixed constants, in a flat
// const/var style, plus a yaml.v3-backed project file for settings that
// vary per invocation (see project.go).
package config

// Version is the current papyrus version, set at build time via -ldflags.
var Version = "0.1.0"

const SourceFileExt = ".yul"

// SourceFileExtensions are all recognized YulLite source extensions.
var SourceFileExtensions = []string{".yul"}

// TrimSourceExt removes a recognized source extension from name, returning
// name unchanged if none matches.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// HasSourceExt reports whether path ends with a recognized source extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// OutputFileExt is the extension transpile gives generated assembly files
// (spec.md §6: "../masm/<stem>.masm").
const OutputFileExt = ".masm"

// DefaultContractsDir and DefaultOutputDir are the transpiler's default
// source/destination directories (spec.md §6), overridable per-project via
// papyrus.yaml (see project.go).
const (
	DefaultContractsDir = "contracts"
	DefaultOutputDir    = "../masm"
)

// HistoryFileName is the REPL's plain-text history export on exit,
// kept alongside internal/replstore's SQLite-backed history for anything
// that reads the session log as text (spec.md §6).
const HistoryFileName = "history.txt"

// ProjectFileName is the optional per-project YAML config file (see
// project.go) the CLI looks for in the working directory.
const ProjectFileName = "papyrus.yaml"

// IsTestMode is a process-wide test-mode flag. It defaults to false and
// nothing in this module sets it.
var IsTestMode = false
