package referrals

import (
	"fmt"
	"time"

	"practice-backend/internal/shared/util"
)

// StorageKey derives the object key for a referral PDF:
// {unixMillis}_{name lowercased, non [a-z0-9] runes as '_'}.pdf
func StorageKey(at time.Time, fullName string) string {
	return fmt.Sprintf("%d_%s.pdf", at.UnixMilli(), util.SlugASCII(fullName))
}
