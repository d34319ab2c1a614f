package hub

import (
	"fmt"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/blackicesecure-space/Valtheron/internal/models"
)

// TestHistoryBoundedProperties verifies the ring buffer invariants: length
// never exceeds the cap, and once the cap is exceeded the buffer holds
// exactly the most recent records in arrival order.
func TestHistoryBoundedProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	genLimit := gen.IntRange(1, 50)
	genTotal := gen.IntRange(0, 200)

	properties.Property("Length never exceeds the cap", prop.ForAll(
		func(limit, total int) bool {
			h := NewHistory(limit)
			for i := 0; i < total; i++ {
				h.Add(models.LogRecord{Message: fmt.Sprintf("m%d", i)})
			}
			want := total
			if want > limit {
				want = limit
			}
			return h.Len() == want
		},
		genLimit,
		genTotal,
	))

	properties.Property("Buffer holds the newest records in arrival order", prop.ForAll(
		func(limit, total int) bool {
			h := NewHistory(limit)
			for i := 0; i < total; i++ {
				h.Add(models.LogRecord{Message: fmt.Sprintf("m%d", i)})
			}
			recent := h.Recent()
			first := total - len(recent)
			for i, rec := range recent {
				if rec.Message != fmt.Sprintf("m%d", first+i) {
					return false
				}
			}
			return true
		},
		genLimit,
		genTotal,
	))

	properties.TestingRun(t)
}
