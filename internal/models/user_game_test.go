package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseGameStatus(t *testing.T) {
	for _, allowed := range AllowedStatuses {
		got, ok := ParseGameStatus(string(allowed))
		assert.True(t, ok)
		assert.Equal(t, allowed, got)
	}

	for _, raw := range []string{"", "finished", "OWNED", "Playing", "backlog"} {
		_, ok := ParseGameStatus(raw)
		assert.False(t, ok, "status %q must be rejected", raw)
	}
}
