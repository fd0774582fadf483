package view

import (
	"github.com/UnknownOlympus/herroute/internal/models"
	"golang.org/x/text/language"
)

var languageMatcher = language.NewMatcher([]language.Tag{language.English, language.Japanese})

// MatchLanguage picks the initial language from an Accept-Language header.
// Anything that does not clearly prefer Japanese gets English.
func MatchLanguage(acceptLanguage string) models.Language {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return models.English
	}

	_, index, confidence := languageMatcher.Match(tags...)
	if confidence == language.No || index != 1 {
		return models.English
	}

	return models.Japanese
}
