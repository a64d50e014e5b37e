package i18n

import "embed"

// LocaleFS — embedded JSON translation catalogs.
//
//go:embed locales/*.json
var LocaleFS embed.FS
