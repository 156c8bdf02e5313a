package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateNewSessionID(t *testing.T) {
	first := GenerateNewSessionID()
	second := GenerateNewSessionID()

	assert.NotEqual(t, first, second)
	assert.True(t, IsSessionID(first))
	assert.True(t, IsSessionID(second))
}

func TestIsSessionID(t *testing.T) {
	assert.False(t, IsSessionID(""))
	assert.False(t, IsSessionID("123"))
	assert.False(t, IsSessionID("<script>"))
}
