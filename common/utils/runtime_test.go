package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

//go:noinline
func whoCalledMe() string {
	return GetCallerFunctionName(3)
}

func TestGetCallerFunctionName(t *testing.T) {
	assert.Equal(t, "TestGetCallerFunctionName", whoCalledMe())
	assert.Equal(t, "<unknown>", GetCallerFunctionName(1000))
}
