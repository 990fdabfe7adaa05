// Package store persists settled blackjack rounds in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/lox/blackjack/blackjack"
	"github.com/lox/blackjack/internal/game"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS rounds (
  id            TEXT PRIMARY KEY,
  number        INTEGER NOT NULL,
  dealer_cards  TEXT    NOT NULL,
  dealer_points INTEGER NOT NULL,
  dealer_bust   INTEGER NOT NULL,
  started_at    INTEGER NOT NULL,
  finished_at   INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS hands (
  round_id  TEXT    NOT NULL REFERENCES rounds(id) ON DELETE CASCADE,
  seat      INTEGER NOT NULL,
  player    TEXT    NOT NULL,
  cards     TEXT    NOT NULL,
  points    INTEGER NOT NULL,
  bust      INTEGER NOT NULL,
  blackjack INTEGER NOT NULL,
  outcome   TEXT    NOT NULL,
  PRIMARY KEY (round_id, seat)
);

CREATE INDEX IF NOT EXISTS hands_player ON hands(player);
`

// ErrDuplicateRound is returned when a round ID has already been recorded.
var ErrDuplicateRound = errors.New("round already recorded")

// Store persists round history in SQLite. It implements game.Recorder.
type Store struct {
	sqlDB *sql.DB
}

var _ game.Recorder = (*Store)(nil)

// Standing is one player's record across every stored round.
type Standing struct {
	Player string
	Rounds int
	Wins   int
	Losses int
	Pushes int
}

// RoundSummary is a stored round without per-hand detail.
type RoundSummary struct {
	ID           string
	Number       int
	DealerPoints int
	DealerBust   bool
	Players      int
	Winners      int
	FinishedAt   time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens (or creates) the database at path and applies the schema.
// The path ":memory:" opens a private in-memory database.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := ":memory:"
	if path != ":memory:" {
		dsn = "file:" + filepath.Clean(path)
	}
	dsn += "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection keeps ":memory:" a single database and serialises writers.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// RecordRound stores a settled round and its hands in one transaction.
func (s *Store) RecordRound(ctx context.Context, result game.RoundResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(result.ID) == "" {
		return fmt.Errorf("round id is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM rounds WHERE id = ?`, result.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check round: %w", err)
	}
	if exists > 0 {
		return fmt.Errorf("round %s: %w", result.ID, ErrDuplicateRound)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO rounds (id, number, dealer_cards, dealer_points, dealer_bust, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		result.ID,
		result.Round,
		formatCards(result.Dealer.Cards),
		result.Dealer.Points,
		result.Dealer.Bust,
		toMillis(result.Started),
		toMillis(result.Finished),
	)
	if err != nil {
		return fmt.Errorf("insert round: %w", err)
	}

	for seat, hand := range result.Players {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO hands (round_id, seat, player, cards, points, bust, blackjack, outcome)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			result.ID,
			seat,
			hand.Name,
			formatCards(hand.Cards),
			hand.Points,
			hand.Bust,
			hand.Blackjack,
			hand.Outcome.String(),
		)
		if err != nil {
			return fmt.Errorf("insert hand for %s: %w", hand.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit round: %w", err)
	}
	return nil
}

// Standings returns every player's record, most wins first.
func (s *Store) Standings(ctx context.Context) ([]Standing, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT player,
		        COUNT(*),
		        COALESCE(SUM(outcome = 'win'), 0),
		        COALESCE(SUM(outcome = 'lose'), 0),
		        COALESCE(SUM(outcome = 'push'), 0)
		   FROM hands
		  GROUP BY player
		  ORDER BY 3 DESC, player ASC`)
	if err != nil {
		return nil, fmt.Errorf("query standings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Standing
	for rows.Next() {
		var st Standing
		if err := rows.Scan(&st.Player, &st.Rounds, &st.Wins, &st.Losses, &st.Pushes); err != nil {
			return nil, fmt.Errorf("scan standing: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// RecentRounds returns up to limit rounds, newest first.
func (s *Store) RecentRounds(ctx context.Context, limit int) ([]RoundSummary, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT r.id, r.number, r.dealer_points, r.dealer_bust, r.finished_at,
		        COUNT(h.seat),
		        COALESCE(SUM(h.outcome = 'win'), 0)
		   FROM rounds r
		   LEFT JOIN hands h ON h.round_id = r.id
		  GROUP BY r.id
		  ORDER BY r.finished_at DESC, r.id DESC
		  LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query rounds: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []RoundSummary
	for rows.Next() {
		var (
			rs       RoundSummary
			finished int64
		)
		if err := rows.Scan(&rs.ID, &rs.Number, &rs.DealerPoints, &rs.DealerBust, &finished, &rs.Players, &rs.Winners); err != nil {
			return nil, fmt.Errorf("scan round: %w", err)
		}
		rs.FinishedAt = fromMillis(finished)
		out = append(out, rs)
	}
	return out, rows.Err()
}

// RoundCards returns the dealer's and each seat's cards for a stored round.
func (s *Store) RoundCards(ctx context.Context, id string) (dealer []blackjack.Card, seats map[string][]blackjack.Card, err error) {
	var dealerCards string
	err = s.sqlDB.QueryRowContext(ctx, `SELECT dealer_cards FROM rounds WHERE id = ?`, id).Scan(&dealerCards)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("round %s not found", id)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("query round: %w", err)
	}
	if dealer, err = parseCards(dealerCards); err != nil {
		return nil, nil, err
	}

	rows, err := s.sqlDB.QueryContext(ctx, `SELECT player, cards FROM hands WHERE round_id = ? ORDER BY seat`, id)
	if err != nil {
		return nil, nil, fmt.Errorf("query hands: %w", err)
	}
	defer func() { _ = rows.Close() }()

	seats = make(map[string][]blackjack.Card)
	for rows.Next() {
		var player, cards string
		if err := rows.Scan(&player, &cards); err != nil {
			return nil, nil, fmt.Errorf("scan hand: %w", err)
		}
		parsed, err := parseCards(cards)
		if err != nil {
			return nil, nil, err
		}
		seats[player] = parsed
	}
	return dealer, seats, rows.Err()
}

// formatCards stores cards in ParseCard notation, e.g. "As Th".
func formatCards(cards []blackjack.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.Code()
	}
	return strings.Join(parts, " ")
}

func parseCards(s string) ([]blackjack.Card, error) {
	fields := strings.Fields(s)
	cards := make([]blackjack.Card, 0, len(fields))
	for _, f := range fields {
		c, err := blackjack.ParseCard(f)
		if err != nil {
			return nil, fmt.Errorf("stored card %q: %w", f, err)
		}
		cards = append(cards, c)
	}
	return cards, nil
}
