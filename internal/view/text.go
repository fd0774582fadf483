package view

import "github.com/UnknownOlympus/herroute/internal/models"

// Text is the set of user-visible strings for one language.
type Text struct {
	HeadingDay        string `json:"headingDay"`
	HeadingNight      string `json:"headingNight"`
	SearchPlaceholder string `json:"searchPlaceholder"`
	InitialPosition   string `json:"initialPosition"`
	LanguageSettings  string `json:"languageSettings"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	Message           string `json:"message"`
	Send              string `json:"send"`
	ContactThanks     string `json:"contactThanks"`
	ContactInvalid    string `json:"contactInvalid"`
	NotFound          string `json:"notFound"`
	MapUnavailable    string `json:"mapUnavailable"`
}

var texts = map[models.Language]Text{
	models.English: {
		HeadingDay:        "Where are you going during the day?",
		HeadingNight:      "Where are you going at night?",
		SearchPlaceholder: "Search location...",
		InitialPosition:   "Change of initial position",
		LanguageSettings:  "Language settings",
		Name:              "Name",
		Email:             "Email address",
		Message:           "Message",
		Send:              "Send",
		ContactThanks:     "Thank you for your message.",
		ContactInvalid:    "Please check the form and try again.",
		NotFound:          "Location not found!",
		MapUnavailable:    "The map is unavailable: no Maps API key is configured.",
	},
	models.Japanese: {
		HeadingDay:        "お昼はどこ行く？",
		HeadingNight:      "夜はどこ行く？",
		SearchPlaceholder: "場所を検索...",
		InitialPosition:   "初期位置設定",
		LanguageSettings:  "言語設定",
		Name:              "お名前",
		Email:             "メールアドレス",
		Message:           "お問い合わせ内容",
		Send:              "送信",
		ContactThanks:     "お問い合わせありがとうございます。",
		ContactInvalid:    "入力内容を確認してください。",
		NotFound:          "場所が見つかりませんでした！",
		MapUnavailable:    "地図を表示できません：Maps APIキーが設定されていません。",
	},
}

// TextFor returns the strings for lang, falling back to English.
func TextFor(lang models.Language) Text {
	if t, ok := texts[lang]; ok {
		return t
	}

	return texts[models.English]
}
