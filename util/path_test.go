package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitPath(t *testing.T) {
	assert.Nil(t, SplitPath(""))
	assert.Nil(t, SplitPath("/"))
	assert.Equal(t, []string{"a", "b", "c"}, SplitPath("/a/b/c"))
	assert.Equal(t, []string{"a", "b", "c"}, SplitPath("a/b/c/"))
	assert.Equal(t, []string{"a", "b"}, SplitPath("//a//b//"))
}

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "/", JoinPath(nil))
	assert.Equal(t, "/a/b/c", JoinPath([]string{"a", "b", "c"}))
}
