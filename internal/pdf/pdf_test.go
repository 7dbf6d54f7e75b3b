package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTextUnopenableDocument(t *testing.T) {
	assert.Equal(t, "", ExtractText([]byte("this is not a pdf")))
}

func TestExtractTextEmptyBuffer(t *testing.T) {
	assert.Equal(t, "", ExtractText(nil))
}

func TestExtractLinksUnopenableDocument(t *testing.T) {
	assert.Empty(t, ExtractLinks([]byte("this is not a pdf")))
}

func TestExtractLinksEmptyBuffer(t *testing.T) {
	assert.Empty(t, ExtractLinks(nil))
}

func TestExtractLinksTruncatedHeader(t *testing.T) {
	// A valid magic number followed by garbage must not panic.
	assert.Empty(t, ExtractLinks([]byte("%PDF-1.7\ngarbage")))
}
