package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/mesh-intelligence/mala/pkg/types"
)

// DayTotal aggregates the history of one UTC day.
type DayTotal struct {
	Day             string `json:"day"`
	Increments      int    `json:"increments"`
	Decrements      int    `json:"decrements"`
	CyclesCompleted int    `json:"cycles_completed"`
}

// DailyTotals returns per-day totals for the last days days (including
// today), oldest first. Days without activity are omitted.
func (b *Backend) DailyTotals(ctx context.Context, days int) ([]DayTotal, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil, types.ErrStoreClosed
	}
	if days <= 0 {
		days = 7
	}
	since := time.Now().UTC().AddDate(0, 0, -(days - 1)).Format("2006-01-02")

	// A cycle completed when an increment left the completed count higher
	// than the previous row's.
	rows, err := b.db.QueryContext(ctx, `
SELECT day,
       SUM(CASE WHEN operation = ? THEN 1 ELSE 0 END),
       SUM(CASE WHEN operation = ? THEN 1 ELSE 0 END),
       SUM(CASE WHEN operation = ? AND completed_cycles > prev_completed THEN 1 ELSE 0 END)
FROM (
    SELECT substr(created_at, 1, 10) AS day,
           operation,
           completed_cycles,
           COALESCE(LAG(completed_cycles) OVER (ORDER BY created_at, rowid), 0) AS prev_completed
    FROM history
)
WHERE day >= ?
GROUP BY day
ORDER BY day`,
		types.OpIncrement, types.OpDecrement, types.OpIncrement, since,
	)
	if err != nil {
		return nil, fmt.Errorf("querying daily totals: %w", err)
	}
	defer rows.Close()

	var totals []DayTotal
	for rows.Next() {
		var d DayTotal
		if err := rows.Scan(&d.Day, &d.Increments, &d.Decrements, &d.CyclesCompleted); err != nil {
			return nil, fmt.Errorf("scanning daily totals: %w", err)
		}
		totals = append(totals, d)
	}
	return totals, rows.Err()
}
