// Package i18n localizes portlet titles and the fixed strings of the rendering engine.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/AtRiskMedia/opc-go/internal/domain/entities/opc"
)

// Keys are the English source strings; English needs no entry unless it differs.
var german = map[string]string{
	opc.MsgMissingPortlet: "Fehlendes Portlet: %s",
	opc.MsgMissingHTML:    "Das Portlet hat kein HTML erzeugt",
	"Missing portlet":     "Fehlendes Portlet",
	"Heading":             "Überschrift",
	"Text":                "Text",
	"Image":               "Bild",
	"Button":              "Schaltfläche",
	"Row":                 "Zeile",
	"Container":           "Container",
	"Contact form":        "Kontaktformular",
	"General":             "Allgemein",
	"Styles":              "Stile",
	"Animation":           "Animation",
	"Link":                "Verlinkung",
	"Layout":              "Layout",
	"Name":                "Name",
	"Email":               "E-Mail",
	"Phone":               "Telefon",
	"Message":             "Nachricht",
	"Send":                "Senden",
}

// Catalog resolves UI strings for one language
type Catalog struct {
	tag     language.Tag
	printer *message.Printer
}

// NewCatalog returns a catalog for the closest supported match of lang (en, de)
func NewCatalog(lang string) *Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key := range german {
		_ = b.SetString(language.English, key, key)
	}
	for key, value := range german {
		_ = b.SetString(language.German, key, value)
	}

	requested, err := language.Parse(lang)
	if err != nil {
		requested = language.English
	}
	matcher := language.NewMatcher([]language.Tag{language.English, language.German})
	_, index, _ := matcher.Match(requested)
	tag := []language.Tag{language.English, language.German}[index]

	return &Catalog{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(b)),
	}
}

// Language returns the matched language tag
func (c *Catalog) Language() language.Tag {
	return c.tag
}

// Translate formats key in the catalog language. Unknown keys are used as the format
// string itself.
func (c *Catalog) Translate(key string, args ...any) string {
	return c.printer.Sprintf(key, args...)
}
