package connectors

import (
	"path/filepath"
	"strings"

	"github.com/vezlo/src-to-kb/internal/core/domain"
)

// fileKind pairs a language name with its document classification.
type fileKind struct {
	language string
	docType  domain.DocumentType
}

// kindsByExtension maps lowercase file extensions to their kind.
// Extensions not listed fall back to DocumentTypeOther.
var kindsByExtension = map[string]fileKind{
	// Code
	".js":    {"JavaScript", domain.DocumentTypeCode},
	".jsx":   {"JavaScript", domain.DocumentTypeCode},
	".mjs":   {"JavaScript", domain.DocumentTypeCode},
	".cjs":   {"JavaScript", domain.DocumentTypeCode},
	".ts":    {"TypeScript", domain.DocumentTypeCode},
	".tsx":   {"TypeScript", domain.DocumentTypeCode},
	".go":    {"Go", domain.DocumentTypeCode},
	".py":    {"Python", domain.DocumentTypeCode},
	".rb":    {"Ruby", domain.DocumentTypeCode},
	".java":  {"Java", domain.DocumentTypeCode},
	".kt":    {"Kotlin", domain.DocumentTypeCode},
	".scala": {"Scala", domain.DocumentTypeCode},
	".c":     {"C", domain.DocumentTypeCode},
	".h":     {"C", domain.DocumentTypeCode},
	".cpp":   {"C++", domain.DocumentTypeCode},
	".cc":    {"C++", domain.DocumentTypeCode},
	".hpp":   {"C++", domain.DocumentTypeCode},
	".cs":    {"C#", domain.DocumentTypeCode},
	".rs":    {"Rust", domain.DocumentTypeCode},
	".php":   {"PHP", domain.DocumentTypeCode},
	".swift": {"Swift", domain.DocumentTypeCode},
	".sh":    {"Shell", domain.DocumentTypeCode},
	".bash":  {"Shell", domain.DocumentTypeCode},
	".zsh":   {"Shell", domain.DocumentTypeCode},
	".sql":   {"SQL", domain.DocumentTypeCode},
	".r":     {"R", domain.DocumentTypeCode},
	".lua":   {"Lua", domain.DocumentTypeCode},
	".ex":    {"Elixir", domain.DocumentTypeCode},
	".exs":   {"Elixir", domain.DocumentTypeCode},

	// Web markup and styling
	".html":   {"HTML", domain.DocumentTypeWeb},
	".htm":    {"HTML", domain.DocumentTypeWeb},
	".css":    {"CSS", domain.DocumentTypeWeb},
	".scss":   {"SCSS", domain.DocumentTypeWeb},
	".sass":   {"SCSS", domain.DocumentTypeWeb},
	".less":   {"Less", domain.DocumentTypeWeb},
	".vue":    {"Vue", domain.DocumentTypeWeb},
	".svelte": {"Svelte", domain.DocumentTypeWeb},

	// Configuration
	".json":       {"JSON", domain.DocumentTypeConfig},
	".yaml":       {"YAML", domain.DocumentTypeConfig},
	".yml":        {"YAML", domain.DocumentTypeConfig},
	".toml":       {"TOML", domain.DocumentTypeConfig},
	".xml":        {"XML", domain.DocumentTypeConfig},
	".ini":        {"INI", domain.DocumentTypeConfig},
	".env":        {"Env", domain.DocumentTypeConfig},
	".conf":       {"Config", domain.DocumentTypeConfig},
	".properties": {"Properties", domain.DocumentTypeConfig},

	// Prose
	".md":       {"Markdown", domain.DocumentTypeText},
	".markdown": {"Markdown", domain.DocumentTypeText},
	".txt":      {"Text", domain.DocumentTypeText},
	".rst":      {"reStructuredText", domain.DocumentTypeText},
	".adoc":     {"AsciiDoc", domain.DocumentTypeText},
}

// binaryExtensions lists extensions that are never ingested.
var binaryExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true,
	".ico": true, ".webp": true, ".tiff": true,
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
	".ppt": true, ".pptx": true,
	".zip": true, ".tar": true, ".gz": true, ".bz2": true, ".xz": true,
	".7z": true, ".rar": true,
	".exe": true, ".dll": true, ".so": true, ".dylib": true, ".bin": true,
	".o": true, ".a": true, ".class": true, ".jar": true, ".pyc": true,
	".wasm": true,
	".woff": true, ".woff2": true, ".ttf": true, ".eot": true, ".otf": true,
	".mp3": true, ".mp4": true, ".avi": true, ".mov": true, ".wav": true,
	".flac": true, ".mkv": true, ".webm": true,
	".db": true, ".sqlite": true,
}

// DetectKind classifies a file path into a language name and document
// type based on its extension. Unknown extensions yield an empty
// language and DocumentTypeOther.
func DetectKind(path string) (language string, docType domain.DocumentType) {
	ext := strings.ToLower(filepath.Ext(path))
	if kind, ok := kindsByExtension[ext]; ok {
		return kind.language, kind.docType
	}
	return "", domain.DocumentTypeOther
}

// IsBinaryPath reports whether the file extension marks content that is
// never worth indexing (images, archives, compiled artifacts).
func IsBinaryPath(path string) bool {
	return binaryExtensions[strings.ToLower(filepath.Ext(path))]
}

// IsHiddenPath reports whether any segment of the slash-separated
// relative path is a dotfile or dot-directory.
func IsHiddenPath(relPath string) bool {
	for _, segment := range strings.Split(relPath, "/") {
		if len(segment) > 1 && strings.HasPrefix(segment, ".") {
			return true
		}
	}
	return false
}
