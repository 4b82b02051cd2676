// Package locale exposes the closed set of guide languages and the string table
// used for the few phrases the core itself emits.
package locale

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/FACorreiaa/bharat-guide/internal/types"
)

var ErrUnsupported = errors.New("unsupported language")

// Languages lists the supported languages in display order.
var Languages = []types.LanguageInfo{
	{Code: types.LanguageEnglish, Label: "English", NativeLabel: "English"},
	{Code: types.LanguageHindi, Label: "Hindi", NativeLabel: "हिन्दी"},
	{Code: types.LanguageMarathi, Label: "Marathi", NativeLabel: "मराठी"},
	{Code: types.LanguageBengali, Label: "Bengali", NativeLabel: "বাংলা"},
	{Code: types.LanguageTamil, Label: "Tamil", NativeLabel: "தமிழ்"},
	{Code: types.LanguageTelugu, Label: "Telugu", NativeLabel: "తెలుగు"},
}

// Translator resolves a phrase key for an explicit language.
type Translator interface {
	Translate(lang types.Language, key string) string
}

// Parse canonicalizes a locale code ("hi-IN", "TA", "te_IN") to a supported language.
func Parse(code string) (types.Language, error) {
	code = strings.TrimSpace(strings.ReplaceAll(code, "_", "-"))
	if code == "" {
		return "", fmt.Errorf("%w: empty code", ErrUnsupported)
	}
	tag, err := language.Parse(code)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrUnsupported, code, err)
	}
	base, _ := tag.Base()
	lang := types.Language(base.String())
	if !Supported(lang) {
		return "", fmt.Errorf("%w: %q", ErrUnsupported, code)
	}
	return lang, nil
}

// ParseOr returns the parsed language or fallback when code is empty or unsupported.
func ParseOr(code string, fallback types.Language) types.Language {
	lang, err := Parse(code)
	if err != nil {
		return fallback
	}
	return lang
}

func Supported(lang types.Language) bool {
	for _, l := range Languages {
		if l.Code == lang {
			return true
		}
	}
	return false
}

// Table is a static Translator backed by an in-memory phrase table.
type Table struct {
	phrases  map[types.Language]map[string]string
	fallback types.Language
}

// NewTable returns the built-in phrase table with English as fallback.
func NewTable() *Table {
	return &Table{phrases: phrases, fallback: types.LanguageEnglish}
}

// Translate looks the key up in lang, then in the fallback language, and finally returns the key itself.
func (t *Table) Translate(lang types.Language, key string) string {
	if p, ok := t.phrases[lang][key]; ok {
		return p
	}
	if p, ok := t.phrases[t.fallback][key]; ok {
		return p
	}
	return key
}

// Phrases returns a copy of every phrase for lang, falling back to English for missing keys.
func (t *Table) Phrases(lang types.Language) map[string]string {
	out := make(map[string]string, len(t.phrases[t.fallback]))
	for k, v := range t.phrases[t.fallback] {
		out[k] = v
	}
	for k, v := range t.phrases[lang] {
		out[k] = v
	}
	return out
}
