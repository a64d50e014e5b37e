// loader.go — loading translation catalogs from embed.FS.
package i18n

import (
	"fmt"
	"log/slog"
)

// LoadFromEmbedFS loads every translation catalog from the embedded
// file system. Expected files: locales/sv.json, locales/en.json.
func LoadFromEmbedFS(bundle *Bundle, logger *slog.Logger) error {
	langs := []string{"sv", "en"}

	for _, lang := range langs {
		path := fmt.Sprintf("locales/%s.json", lang)
		data, err := LocaleFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("i18n: reading %s: %w", path, err)
		}

		if err := bundle.LoadMessages(lang, data); err != nil {
			return err
		}
	}

	logger.Info("i18n catalogs loaded", slog.Int("languages", len(langs)))
	return nil
}
