package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewReference_Format(t *testing.T) {
	ref := NewReference()

	assert.True(t, strings.HasPrefix(ref, "DNCV-"))
	assert.Len(t, ref, 15)
	for _, c := range ref[5:] {
		assert.Contains(t, referenceAlphabet, string(c))
	}
}

func TestNewReference_Unique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		ref := NewReference()
		assert.False(t, seen[ref], "duplicate reference %s", ref)
		seen[ref] = true
	}
}
