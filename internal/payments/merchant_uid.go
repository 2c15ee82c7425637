package payments

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const merchantUIDPrefix = "ORD"

// NewMerchantUID builds the merchant reference shared with the payment
// gateway, e.g. ORD-20260830-134500-9f2c1a. The random suffix keeps two
// quotes issued in the same second distinct.
func NewMerchantUID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("%s-%s-%s", merchantUIDPrefix, now.Format("20060102-150405"), suffix)
}
