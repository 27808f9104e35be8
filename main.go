package main

import (
	"github.com/jeandeaual/go-locale"

	"github.com/egoavara/plughub/cmd"
	"github.com/egoavara/plughub/internal/config"
	"github.com/egoavara/plughub/internal/i18n"
)

func main() {
	i18n.Init(getLocale())
	cmd.Execute()
}

// getLocale returns the locale based on config
func getLocale() string {
	configLocale := config.GetLocale()

	// If "auto", detect system locale
	if configLocale == "auto" {
		userLocale, err := locale.GetLocale()
		if err != nil || userLocale == "" {
			return "en-US"
		}
		return userLocale
	}

	return configLocale
}
