package payments

import (
	"context"
	"math"
	"time"
)

// MRR computes the monthly recurring revenue from the gateway's active
// subscriptions created at or before the given time. Yearly plans contribute
// one twelfth; the result is in whole currency units.
func (s *Service) MRR(ctx context.Context, at time.Time) (int64, error) {
	subs, err := s.gw.ActiveSubscriptions(ctx, at.Unix())
	if err != nil {
		return 0, err
	}

	var total float64
	for _, sub := range subs {
		if sub.Items == nil || len(sub.Items.Data) == 0 {
			continue
		}
		plan := sub.Items.Data[0].Plan
		if plan == nil {
			continue
		}
		switch plan.Interval {
		case "month":
			total += float64(plan.Amount)
		case "year":
			total += float64(plan.Amount) / 12
		}
	}

	return int64(math.Round(total / 100)), nil
}
