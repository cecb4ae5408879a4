// Package classify maps repository file paths to a content category and
// language tag. Classification is a total function: any path yields a
// value, falling back to unknown/unknown.
package classify

import (
	"path"
	"path/filepath"
	"strings"

	"repolens/internal/chunk"
)

// Language tags for code files.
const (
	LangPython     = "python"
	LangJavaScript = "javascript"
	LangTypeScript = "typescript"
	LangJava       = "java"
	LangGo         = "go"
	LangRuby       = "ruby"
	LangRust       = "rust"
	LangCPP        = "cpp"
	LangCSharp     = "csharp"
	LangUnknown    = "unknown"
)

var docExts = map[string]bool{
	".md": true, ".rst": true, ".txt": true, ".docx": true, ".pdf": true,
}

var configExts = map[string]bool{
	".json": true, ".yaml": true, ".yml": true, ".toml": true,
	".ini": true, ".cfg": true, ".conf": true,
}

var codeExts = map[string]string{
	".py":   LangPython,
	".js":   LangJavaScript,
	".ts":   LangTypeScript,
	".tsx":  LangTypeScript,
	".java": LangJava,
	".go":   LangGo,
	".rb":   LangRuby,
	".rs":   LangRust,
	".cpp":  LangCPP,
	".cc":   LangCPP,
	".cxx":  LangCPP,
	".c":    LangCPP,
	".h":    LangCPP,
	".hpp":  LangCPP,
	".cs":   LangCSharp,
}

// File classifies a path relative to the repository root. Rules are
// evaluated in order with later rules overriding earlier ones, so the
// most specific match wins (e.g. ".github/" beats the plain YAML rule).
func File(p string) (chunk.Category, string) {
	p = filepath.ToSlash(p)
	ext := strings.ToLower(path.Ext(p))
	base := path.Base(p)

	category, language := chunk.Unknown, LangUnknown

	switch {
	case docExts[ext]:
		category, language = chunk.Documentation, ext[1:]
	case configExts[ext]:
		category, language = chunk.Configuration, ext[1:]
	default:
		if lang, ok := codeExts[ext]; ok {
			category, language = chunk.Code, lang
		}
	}

	switch base {
	case "Dockerfile":
		category, language = chunk.Configuration, "dockerfile"
	case ".gitignore", ".dockerignore":
		category, language = chunk.Configuration, "ignore"
	case "Makefile", "makefile":
		category, language = chunk.Configuration, "makefile"
	}

	if strings.Contains(p, ".github/workflows") && (ext == ".yml" || ext == ".yaml") {
		category, language = chunk.Configuration, "github_workflow"
	}

	switch base {
	case "package.json", "package-lock.json", "yarn.lock":
		category, language = chunk.Configuration, "npm"
	case "requirements.txt", "Pipfile", "Pipfile.lock", "pyproject.toml", "setup.py":
		category, language = chunk.Configuration, "python_package"
	}

	// Checked last: anything else under .github/ is GitHub configuration.
	// Workflow YAML already matched the more specific rule above and keeps
	// its tag.
	if strings.Contains(p, ".github/") && language != "github_workflow" {
		category, language = chunk.Configuration, "github"
	}

	return category, language
}
