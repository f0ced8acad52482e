package storage

import "time"

// GameRecord represents a row in the games table
type GameRecord struct {
	GameID        string    `db:"game_id"`
	InitialLayout string    `db:"initial_layout"`
	StartingTurn  string    `db:"starting_turn"` // "red" or "black"
	Seated        bool      `db:"seated"`
	StartTimeUTC  time.Time `db:"start_time_utc"`
}

// ResultRecord represents a finished round in the results table
type ResultRecord struct {
	ResultID        int64     `db:"result_id"`
	GameID          string    `db:"game_id"`
	Round           int       `db:"round"`
	Winner          string    `db:"winner"`
	WinnerPieces    int       `db:"winner_pieces"`
	Moves           int       `db:"moves"`
	FinishedTimeUTC time.Time `db:"finished_time_utc"`
}

// Schema defines the SQLite database structure
const Schema = `
CREATE TABLE IF NOT EXISTS games (
	game_id TEXT PRIMARY KEY,
	initial_layout TEXT NOT NULL,
	starting_turn TEXT NOT NULL CHECK(starting_turn IN ('red', 'black')),
	seated INTEGER NOT NULL DEFAULT 0,
	start_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS results (
	result_id INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id TEXT NOT NULL,
	round INTEGER NOT NULL,
	winner TEXT NOT NULL CHECK(winner IN ('red', 'black')),
	winner_pieces INTEGER NOT NULL,
	moves INTEGER NOT NULL,
	finished_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (game_id) REFERENCES games(game_id) ON DELETE CASCADE,
	UNIQUE(game_id, round)
);

CREATE INDEX IF NOT EXISTS idx_results_game_id ON results(game_id);
CREATE INDEX IF NOT EXISTS idx_results_winner ON results(winner);
`
