package profile

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"fodinha-server/pkg/db"
	"fodinha-server/pkg/playable"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// ErrNotFound is returned when no profile exists for the name
var ErrNotFound = errors.New("profile not found")

const profileColumns = `
profiles.name,
profiles.games_played,
profiles.games_won,
profiles.created,
profiles.updated`

// Profile is a record in the `profiles` table
type Profile struct {
	Name        string    `json:"name"`
	GamesPlayed int       `json:"gamesPlayed"`
	GamesWon    int       `json:"gamesWon"`
	Created     time.Time `json:"created"`
	Updated     time.Time `json:"updated"`
}

// Store persists player profiles
type Store struct {
	db *sql.DB
}

// NewStore returns a store backed by the database
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func getProfileByRow(row db.Scanner) (*Profile, error) {
	var p Profile
	if err := row.Scan(&p.Name, &p.GamesPlayed, &p.GamesWon, &p.Created, &p.Updated); err != nil {
		return nil, err
	}

	return &p, nil
}

// Get returns the profile for the player name
func (s *Store) Get(ctx context.Context, name string) (*Profile, error) {
	const query = `
SELECT ` + profileColumns + `
FROM profiles
WHERE name = $1`

	p, err := getProfileByRow(s.db.QueryRowContext(ctx, query, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}

	return p, err
}

// Top returns the profiles with the most wins
func (s *Store) Top(ctx context.Context, limit int) ([]*Profile, error) {
	const query = `
SELECT ` + profileColumns + `
FROM profiles
ORDER BY games_won DESC, games_played ASC, name ASC
LIMIT $1`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make([]*Profile, 0, limit)
	for rows.Next() {
		p, err := getProfileByRow(rows)
		if err != nil {
			return nil, err
		}

		profiles = append(profiles, p)
	}

	return profiles, rows.Err()
}

// RecordGame adds a played game to every seated player and a win to each winner
func (s *Store) RecordGame(ctx context.Context, details *playable.GameOverDetails) error {
	const query = `
INSERT INTO profiles (name, games_played, games_won)
SELECT name, 1, CASE WHEN name = ANY($2::text[]) THEN 1 ELSE 0 END
FROM unnest($1::text[]) AS name
ON CONFLICT (name) DO UPDATE
SET games_played = profiles.games_played + 1,
    games_won = profiles.games_won + EXCLUDED.games_won,
    updated = (NOW() AT TIME ZONE 'utc')`

	names, winners := namesAndWinners(details)
	if len(names) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	commit := false
	defer func() {
		if !commit {
			if err := tx.Rollback(); err != nil {
				logrus.WithError(err).Error("could not rollback transaction")
			}
		}
	}()

	if _, err := tx.ExecContext(ctx, query, pq.Array(names), pq.Array(winners)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	commit = true
	return nil
}

// namesAndWinners returns the distinct seated names and winning names, sorted
// Two seats with the same name share one profile
func namesAndWinners(details *playable.GameOverDetails) ([]string, []string) {
	seen := make(map[string]bool)
	names := make([]string, 0, len(details.Players))
	for _, name := range details.Players {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	winners := make([]string, 0, len(details.Winners))
	for _, id := range details.Winners {
		if name, ok := details.Players[id]; ok {
			winners = append(winners, name)
		}
	}

	sort.Strings(names)
	sort.Strings(winners)
	return names, winners
}
