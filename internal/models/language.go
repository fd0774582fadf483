package models

import (
	"errors"
	"strings"
)

// Language is a display language. Its value is the BCP 47 tag handed to the
// map script and to the geocoder's accept-language parameter.
type Language string

const (
	English  Language = "en"
	Japanese Language = "ja"
)

// ErrUnknownLanguage is returned by ParseLanguage for anything but the two supported languages.
var ErrUnknownLanguage = errors.New("unknown language")

// Languages lists the selectable languages in settings order.
func Languages() []Language {
	return []Language{English, Japanese}
}

// Label is the name shown in the language selector.
func (l Language) Label() string {
	if l == Japanese {
		return "日本語"
	}

	return "English"
}

// ParseLanguage accepts either the tag or the selector label.
func ParseLanguage(value string) (Language, error) {
	switch strings.TrimSpace(value) {
	case "en", "English", "english":
		return English, nil
	case "ja", "日本語", "Japanese", "japanese":
		return Japanese, nil
	default:
		return "", ErrUnknownLanguage
	}
}
