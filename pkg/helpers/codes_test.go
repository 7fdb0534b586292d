package helpers

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenOrderNumber(t *testing.T) {
	now := time.Date(2025, 1, 25, 23, 30, 0, 0, time.UTC)
	n := GenOrderNumber(now)

	assert.Regexp(t, regexp.MustCompile(`^JM20250125[0-9A-F]{6}$`), n)
	assert.NotEqual(t, n, GenOrderNumber(now))
}
