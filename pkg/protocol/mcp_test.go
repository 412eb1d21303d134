package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSupportedProtocolVersion(t *testing.T) {
	assert.True(t, IsSupportedProtocolVersion("2025-03-26"))
	assert.True(t, IsSupportedProtocolVersion("2024-11-05"))
	assert.False(t, IsSupportedProtocolVersion("1999-01-01"))
	assert.False(t, IsSupportedProtocolVersion(""))
}

func TestLogLevelValid(t *testing.T) {
	assert.True(t, LogLevelDebug.Valid())
	assert.True(t, LogLevelError.Valid())
	assert.False(t, LogLevel("verbose").Valid())
}

func TestLogLevelAtLeast(t *testing.T) {
	assert.True(t, LogLevelError.AtLeast(LogLevelInfo))
	assert.True(t, LogLevelInfo.AtLeast(LogLevelInfo))
	assert.False(t, LogLevelDebug.AtLeast(LogLevelWarning))
}

func TestContentConstructors(t *testing.T) {
	text := NewTextContent("hi")
	assert.Equal(t, "text", text.Type)
	assert.Equal(t, "hi", text.Text)

	img := NewImageContent("aGk=", "image/png")
	assert.Equal(t, "image", img.Type)
	assert.Equal(t, "image/png", img.MimeType)

	res := NewResourceContent(ResourceContents{URI: "file:///x", Text: "x"})
	assert.Equal(t, "resource", res.Type)
	assert.Equal(t, "file:///x", res.Resource.URI)
}
