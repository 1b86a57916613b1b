package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeFoldsUnicodeCase(t *testing.T) {
	assert.Equal(t, Normalize("Café"), Normalize("CAFÉ"))
	assert.Equal(t, Normalize("Café"), Normalize("café"))
}

func TestNormalizeTrimsAndCollapsesWhitespace(t *testing.T) {
	assert.Equal(t, "hello world", Normalize("  Hello   World  "))
}

func TestNormalizeEmptyString(t *testing.T) {
	assert.Equal(t, "", Normalize("   "))
}
