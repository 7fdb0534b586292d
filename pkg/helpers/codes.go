package helpers

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenOrderNumber builds "JM" + YYYYMMDD + six upper-case hex characters.
func GenOrderNumber(now time.Time) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "JM" + now.UTC().Format("20060102") + strings.ToUpper(raw[:6])
}
