package dialog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLink(t *testing.T) {
	assert.Equal(t, "https://example.com", NormalizeLink("example.com"))
	assert.Equal(t, "https://example.com", NormalizeLink("https://example.com"))
	assert.Equal(t, "http://example.com", NormalizeLink("http://example.com"))
}

func TestLinkify(t *testing.T) {
	out := Linkify("click burada now", "burada", "example.com")
	assert.Equal(t, `click <a href="https://example.com">burada</a> now`, out)
}

func TestLinkifyMatchesInflectedForms(t *testing.T) {
	out := Linkify("buradan keçin", "burada", "example.com")
	assert.Equal(t, `<a href="https://example.com">buradan</a> keçin`, out)
}

func TestLinkifyCaseInsensitive(t *testing.T) {
	out := Linkify("Burada", "burada", "example.com")
	assert.Equal(t, `<a href="https://example.com">Burada</a>`, out)
}

func TestLinkifyRussianMarker(t *testing.T) {
	out := Linkify("нажмите здесь", "здесь", "t.me/bot")
	assert.Equal(t, `нажмите <a href="https://t.me/bot">здесь</a>`, out)
}

func TestLinkifyNoMarkerOrLink(t *testing.T) {
	assert.Equal(t, "text", Linkify("text", "", "example.com"))
	assert.Equal(t, "text", Linkify("text", "burada", ""))
}
