package report

import (
	"github.com/cleared-dev/ledgerbook/internal/date"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

// TrendPoint is the net worth at the end of a bucket.
type TrendPoint struct {
	Label    string
	End      date.Date
	NetWorth int64
}

// NetWorthTrend returns the net worth at the end of every bucket of p in
// [from, to], ascending. The last point is a replayed snapshot at to; earlier
// points are derived by walking back through each bucket's net change.
func NetWorthTrend(l model.Ledger, from, to date.Date, p Period) ([]TrendPoint, error) {
	from, to = bounds(l, from, to)
	if from.IsZero() {
		return nil, nil
	}
	snap, err := BalanceSnapshot(l, to)
	if err != nil {
		return nil, err
	}

	series := TimeSeries(l, from, to, p)
	points := make([]TrendPoint, len(series))
	worth := snap.NetWorth
	for i := len(series) - 1; i >= 0; i-- {
		end := series[i].End
		if end.After(to) {
			end = to
		}
		points[i] = TrendPoint{Label: series[i].Label, End: end, NetWorth: worth}
		worth -= series[i].NetChange
	}
	return points, nil
}
