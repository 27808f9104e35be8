package i18n

import (
	"embed"
	"encoding/json"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

var (
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
	mu        sync.RWMutex
)

func init() {
	bundle = newBundle()
	localizer = i18n.NewLocalizer(bundle, language.AmericanEnglish.String())
}

func newBundle() *i18n.Bundle {
	b := i18n.NewBundle(language.AmericanEnglish)
	b.RegisterUnmarshalFunc("json", json.Unmarshal)

	// Missing files only mean fewer translations
	b.LoadMessageFileFS(localeFS, "locales/en-us.json")
	b.LoadMessageFileFS(localeFS, "locales/ko-kr.json")
	return b
}

// Init selects the locale used by T
func Init(lang string) {
	SetLocale(lang)
}

// T translates a message by its ID with optional template data and plural count
func T(messageID string, templateData map[string]any, pluralCount ...int) string {
	config := &i18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: templateData,
	}
	if len(pluralCount) > 0 {
		config.PluralCount = pluralCount[0]
	}

	mu.RLock()
	l := localizer
	mu.RUnlock()

	msg, err := l.Localize(config)
	if err != nil {
		// Return message ID if translation fails
		return messageID
	}
	return msg
}

// SetLocale changes the current locale
func SetLocale(lang string) {
	mu.Lock()
	defer mu.Unlock()
	localizer = i18n.NewLocalizer(bundle, lang)
}
