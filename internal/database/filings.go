package database

// GetSeenFilings returns the snapshot persisted by the previous run.
func (db *DB) GetSeenFilings() ([]FilingRef, error) {
	rows, err := db.conn.Query(
		`SELECT url, title, filing_date, summary, ticker_hint
		FROM seen_filings ORDER BY seen_at DESC, url`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []FilingRef
	for rows.Next() {
		var r FilingRef
		if err := rows.Scan(&r.URL, &r.Title, &r.FilingDate, &r.Summary, &r.TickerHint); err != nil {
			return nil, err
		}
		refs = append(refs, r)
	}
	return refs, rows.Err()
}

// ReplaceSeenFilings overwrites the snapshot with the current scan result.
// The table always holds exactly the most recent scan, never an accumulation.
func (db *DB) ReplaceSeenFilings(refs []FilingRef) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM seen_filings"); err != nil {
		return err
	}
	for _, r := range refs {
		_, err := tx.Exec(
			`INSERT OR IGNORE INTO seen_filings (url, title, filing_date, summary, ticker_hint)
			VALUES (?, ?, ?, ?, ?)`,
			r.URL, r.Title, r.FilingDate, r.Summary, r.TickerHint,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}
