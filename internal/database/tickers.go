package database

import "strings"

// GetTrackedTickers returns all tracked symbols in alphabetical order.
// An empty result means no filtering: every filing is of interest.
func (db *DB) GetTrackedTickers() ([]string, error) {
	rows, err := db.conn.Query("SELECT symbol FROM tracked_tickers ORDER BY symbol")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		symbols = append(symbols, s)
	}
	return symbols, rows.Err()
}

// TrackedTickerSet returns the tracked symbols as a membership set.
func (db *DB) TrackedTickerSet() (map[string]struct{}, error) {
	symbols, err := db.GetTrackedTickers()
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		set[s] = struct{}{}
	}
	return set, nil
}

// AddTicker adds a symbol to the tracked set. Symbols are stored
// uppercase. Returns false if the symbol was already tracked.
func (db *DB) AddTicker(symbol string) (bool, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return false, nil
	}
	result, err := db.conn.Exec(
		"INSERT OR IGNORE INTO tracked_tickers (symbol) VALUES (?)", symbol,
	)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	return n > 0, err
}

// RemoveTicker removes a symbol from the tracked set. Returns false if
// the symbol was not tracked.
func (db *DB) RemoveTicker(symbol string) (bool, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	result, err := db.conn.Exec("DELETE FROM tracked_tickers WHERE symbol = ?", symbol)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	return n > 0, err
}

// ClearTickers removes all tracked symbols and returns how many were removed.
func (db *DB) ClearTickers() (int, error) {
	result, err := db.conn.Exec("DELETE FROM tracked_tickers")
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	return int(n), err
}
