package jsontree

import (
	"embed"

	"github.com/kaptinlin/go-i18n"
)

//go:embed locales/*.json
var localesFS embed.FS

// GetI18n returns an initialized internationalization bundle with the
// embedded rule-message locales, for localizing EvaluationError values
// (and the results that carry them) at the edge of an application.
func GetI18n() (*i18n.I18n, error) {
	bundle := i18n.NewBundle(
		i18n.WithDefaultLocale("en"),
		i18n.WithLocales("en"),
	)
	err := bundle.LoadFS(localesFS, "locales/*.json")
	return bundle, err
}
