package storage

import (
	"database/sql"
	"fmt"
)

// RecordNewGame asynchronously records a new game
func (s *Store) RecordNewGame(record GameRecord) error {
	return s.enqueue("game record", func(tx *sql.Tx) error {
		query := `INSERT INTO games (
			game_id, initial_layout, starting_turn, seated, start_time_utc
		) VALUES (?, ?, ?, ?, ?)`

		_, err := tx.Exec(query,
			record.GameID, record.InitialLayout, record.StartingTurn,
			record.Seated, record.StartTimeUTC,
		)
		return err
	})
}

// RecordResult asynchronously records the outcome of a finished round
func (s *Store) RecordResult(record ResultRecord) error {
	return s.enqueue("result record", func(tx *sql.Tx) error {
		query := `INSERT INTO results (
			game_id, round, winner, winner_pieces, moves, finished_time_utc
		) VALUES (?, ?, ?, ?, ?, ?)`

		_, err := tx.Exec(query,
			record.GameID, record.Round, record.Winner,
			record.WinnerPieces, record.Moves, record.FinishedTimeUTC,
		)
		return err
	})
}

// DeleteGame asynchronously removes a game and, by cascade, its results
func (s *Store) DeleteGame(gameID string) error {
	return s.enqueue("game deletion", func(tx *sql.Tx) error {
		_, err := tx.Exec(`DELETE FROM games WHERE game_id = ?`, gameID)
		return err
	})
}

// QueryGames retrieves games, all of them when gameID is empty or "*"
func (s *Store) QueryGames(gameID string) ([]GameRecord, error) {
	query := `SELECT
		game_id, initial_layout, starting_turn, seated, start_time_utc
	FROM games WHERE 1=1`

	var args []interface{}
	if gameID != "" && gameID != "*" {
		query += " AND game_id = ?"
		args = append(args, gameID)
	}
	query += " ORDER BY start_time_utc DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var games []GameRecord
	for rows.Next() {
		var g GameRecord
		if err := rows.Scan(&g.GameID, &g.InitialLayout, &g.StartingTurn, &g.Seated, &g.StartTimeUTC); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		games = append(games, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return games, nil
}

// QueryResults retrieves round results with optional game and winner filters
func (s *Store) QueryResults(gameID, winner string) ([]ResultRecord, error) {
	query := `SELECT
		result_id, game_id, round, winner, winner_pieces, moves, finished_time_utc
	FROM results WHERE 1=1`

	var args []interface{}
	if gameID != "" && gameID != "*" {
		query += " AND game_id = ?"
		args = append(args, gameID)
	}
	if winner != "" && winner != "*" {
		query += " AND winner = ?"
		args = append(args, winner)
	}
	query += " ORDER BY game_id, round"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var results []ResultRecord
	for rows.Next() {
		var r ResultRecord
		err := rows.Scan(
			&r.ResultID, &r.GameID, &r.Round, &r.Winner,
			&r.WinnerPieces, &r.Moves, &r.FinishedTimeUTC,
		)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return results, nil
}
