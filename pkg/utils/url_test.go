package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsVideoURL(t *testing.T) {
	valid := []string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"http://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://youtube.com/watch?v=dQw4w9WgXcQ",
		"https://m.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ",
		"youtube.com/watch?v=dQw4w9WgXcQ",
		"www.youtube.com/watch?v=dQw4w9WgXcQ",
		"youtu.be/dQw4w9WgXcQ",
	}
	for _, u := range valid {
		assert.True(t, IsVideoURL(u), "expected %q to be accepted", u)
	}

	invalid := []string{
		"",
		"not a url",
		"https://example.com/watch?v=dQw4w9WgXcQ",
		"https://vimeo.com/123456",
		"https://notyoutube.com/watch?v=x",
		"https://youtube.com",
		"youtu.be/",
		"ftp://youtube.com/watch?v=x",
	}
	for _, u := range invalid {
		assert.False(t, IsVideoURL(u), "expected %q to be rejected", u)
	}
}
