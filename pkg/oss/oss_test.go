package oss

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectURLRoundTrip(t *testing.T) {
	url := ObjectURL("http://cdn.local/", "picture", "picture/abc.png")
	assert.Equal(t, "http://cdn.local/picture/picture/abc.png", url)

	object, ok := ObjectFromURL("http://cdn.local", "picture", url)
	assert.True(t, ok)
	assert.Equal(t, "picture/abc.png", object)

	_, ok = ObjectFromURL("http://cdn.local", "video", url)
	assert.False(t, ok)
	_, ok = ObjectFromURL("http://cdn.local", "picture", "http://elsewhere/picture/x.png")
	assert.False(t, ok)
}
