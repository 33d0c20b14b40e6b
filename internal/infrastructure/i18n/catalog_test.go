package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"github.com/AtRiskMedia/opc-go/internal/domain/entities/opc"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		lang string
		key  string
		args []any
		want string
	}{
		{lang: "en", key: opc.MsgMissingPortlet, args: []any{"Gone"}, want: "Missing portlet: Gone"},
		{lang: "de", key: opc.MsgMissingPortlet, args: []any{"Gone"}, want: "Fehlendes Portlet: Gone"},
		{lang: "de-AT", key: "Image", want: "Bild"},
		{lang: "de", key: "Not in catalog", want: "Not in catalog"},
		{lang: "fr", key: "Heading", want: "Heading"},
		{lang: "not a tag!", key: "Row", want: "Row"},
	}

	for _, tt := range tests {
		t.Run(tt.lang+"/"+tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, NewCatalog(tt.lang).Translate(tt.key, tt.args...))
		})
	}
}

func TestLanguageMatching(t *testing.T) {
	assert.Equal(t, language.German, NewCatalog("de-CH").Language())
	assert.Equal(t, language.English, NewCatalog("fr").Language())
}
