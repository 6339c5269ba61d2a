package severity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	for want, s := range map[string]Severity{
		"error":    SeverityError,
		"warning":  SeverityWarning,
		"info":     SeverityInfo,
		"critical": SeverityCritical,
		"unknown":  Severity(42),
	} {
		assert.Equal(t, want, s.String())
	}
}

func TestRank(t *testing.T) {
	ordered := []Severity{SeverityInfo, SeverityWarning, SeverityError, SeverityCritical}
	for i := 1; i < len(ordered); i++ {
		assert.Less(t, ordered[i-1].Rank(), ordered[i].Rank(), "%s should rank below %s", ordered[i-1], ordered[i])
	}
	assert.Equal(t, -1, Severity(-3).Rank())
}
