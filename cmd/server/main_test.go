package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCORSConfig(t *testing.T) {
	c := corsConfig([]string{"http://localhost:5173"})
	assert.False(t, c.AllowAllOrigins)
	assert.Equal(t, []string{"http://localhost:5173"}, c.AllowOrigins)
	assert.Equal(t, []string{"GET", "POST", "OPTIONS"}, c.AllowMethods)
	assert.NoError(t, c.Validate())

	c = corsConfig([]string{"http://a.test", "*"})
	assert.True(t, c.AllowAllOrigins)
	assert.Empty(t, c.AllowOrigins)
	assert.NoError(t, c.Validate())
}
