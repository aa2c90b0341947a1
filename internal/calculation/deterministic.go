package calculation

import (
	"time"

	"github.com/nuhgnoej/rofle/pkg/dateutil"
)

// nowFunc returns the current time (override in tests for determinism).
var nowFunc = time.Now

// SetNowFunc overrides the time provider (use only in tests).
func SetNowFunc(f func() time.Time) {
	if f == nil {
		f = time.Now
	}
	nowFunc = f
}

// currentMonth is the first month of every projection.
func currentMonth() dateutil.YearMonth {
	return dateutil.FromTime(nowFunc())
}
