package transiterr

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_IsMatchesItsOwnKind(t *testing.T) {
	err := New(NoRoute, "no path from %d to %d", 1, 2)
	assert.True(t, Is(err, NoRoute))
	assert.False(t, Is(err, InvalidInput))
	assert.Contains(t, err.Error(), "no path from 1 to 2")
}

func TestIs_FalseForPlainError(t *testing.T) {
	assert.False(t, Is(fmt.Errorf("boom"), NoRoute))
}

func TestIs_NilErrorIsFalse(t *testing.T) {
	assert.False(t, Is(nil, NoRoute))
}

func TestIs_WorksThroughStdlibWrapping(t *testing.T) {
	base := New(TimeWentBackwards, "clock regressed")
	wrapped := fmt.Errorf("advancing sim: %w", base)
	assert.True(t, Is(wrapped, TimeWentBackwards))
}

func TestKind_StringMatchesName(t *testing.T) {
	assert.Equal(t, "NoRoute", NoRoute.String())
	assert.Equal(t, "PassengerDesync", PassengerDesync.String())
	assert.Equal(t, "Unknown", Kind(999).String())
}
