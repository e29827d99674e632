package parser

import (
	"path/filepath"
	"strings"
)

// Language represents a grammar the manager can parse: the component
// document itself (HTML) or one of its script languages.
type Language int

const (
	// LanguageJavaScript is the default language of a component script.
	LanguageJavaScript Language = iota
	// LanguageTypeScript is selected by lang="ts" on the script tag.
	LanguageTypeScript
	// LanguageHTML reads the component document to locate its blocks.
	LanguageHTML
	// LanguageUnknown represents an unsupported language
	LanguageUnknown
)

// String returns the string representation of the language.
func (l Language) String() string {
	switch l {
	case LanguageTypeScript:
		return "typescript"
	case LanguageJavaScript:
		return "javascript"
	case LanguageHTML:
		return "html"
	default:
		return "unknown"
	}
}

// ScriptLanguage maps the value of a script tag's lang attribute to a
// Language. An empty attribute means JavaScript.
func ScriptLanguage(lang string) Language {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "", "js", "javascript", "text/javascript", "module":
		return LanguageJavaScript
	case "ts", "typescript", "text/typescript":
		return LanguageTypeScript
	default:
		return LanguageUnknown
	}
}

// ComponentExtension is the file extension of analyzable components.
const ComponentExtension = ".svelte"

// IsComponentFile reports whether filePath names a component source file.
func IsComponentFile(filePath string) bool {
	return strings.EqualFold(filepath.Ext(filePath), ComponentExtension)
}

// SupportedLanguages returns a list of all supported languages.
func SupportedLanguages() []Language {
	return []Language{
		LanguageJavaScript,
		LanguageTypeScript,
		LanguageHTML,
	}
}
