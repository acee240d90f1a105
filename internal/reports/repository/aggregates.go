package repository

import "context"

// SummaryBucket is one row of a grouped count.
type SummaryBucket struct {
	Key   string
	Count int
}

// Summary holds report counts grouped by status, category and district.
type Summary struct {
	Total      int
	ByStatus   []SummaryBucket
	ByCategory []SummaryBucket
	ByDistrict []SummaryBucket
}

// GetSummary returns the admin dashboard counts.
func (r *Repository) GetSummary(ctx context.Context) (Summary, error) {
	var summary Summary

	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reports`).Scan(&summary.Total); err != nil {
		return Summary{}, err
	}

	grouped := []struct {
		column string
		dest   *[]SummaryBucket
	}{
		{"status", &summary.ByStatus},
		{"category", &summary.ByCategory},
		{"district", &summary.ByDistrict},
	}

	for _, g := range grouped {
		rows, err := r.pool.Query(ctx, `
			SELECT `+g.column+`, COUNT(*)
			FROM reports
			GROUP BY `+g.column+`
			ORDER BY COUNT(*) DESC
		`)
		if err != nil {
			return Summary{}, err
		}

		buckets := make([]SummaryBucket, 0)
		for rows.Next() {
			var b SummaryBucket
			if err := rows.Scan(&b.Key, &b.Count); err != nil {
				rows.Close()
				return Summary{}, err
			}
			buckets = append(buckets, b)
		}
		rows.Close()
		if rows.Err() != nil {
			return Summary{}, rows.Err()
		}
		*g.dest = buckets
	}

	return summary, nil
}
