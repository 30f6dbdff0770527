package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/courtside/tournament-server/models"
)

var ErrPlayerNotFound = errors.New("player not found")

type ListPlayersFilter struct {
	Active *bool
	Limit  int
	Offset int
}

// PlayerRepository is the player directory. Players are deactivated, never
// deleted; achievements and match history accumulate in the history column.
type PlayerRepository interface {
	Create(ctx context.Context, p *models.Player) error
	GetByID(ctx context.Context, id int) (*models.Player, error)
	List(ctx context.Context, filter ListPlayersFilter) ([]*models.Player, error)
	Update(ctx context.Context, p *models.Player) error
	SetActive(ctx context.Context, id int, active bool) error
	UpdateAvatarKey(ctx context.Context, id int, avatarKey *string) error

	// FindExistingIDs returns the subset of ids that exist in the directory.
	FindExistingIDs(ctx context.Context, ids []int) (map[int]bool, error)
	AppendHistory(ctx context.Context, id int, entry models.HistoryEntry) error
}

type postgresPlayerRepository struct {
	db SQLExecutor
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

const playerColumns = `
	id, first_name, last_name, email, phone, dominant_hand, racket_brand,
	active, user_id, avatar_key, history, created_at`

func (r *postgresPlayerRepository) Create(ctx context.Context, p *models.Player) error {
	history, err := marshalHistory(p.History)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO players (
			first_name, last_name, email, phone, dominant_hand, racket_brand,
			active, user_id, avatar_key, history
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		p.FirstName, p.LastName, p.Email, p.Phone, p.DominantHand, p.RacketBrand,
		p.Active, p.UserID, p.AvatarKey, history,
	).Scan(&p.ID, &p.CreatedAt)
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := `SELECT` + playerColumns + ` FROM players WHERE id = $1`
	p, err := scanPlayer(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresPlayerRepository) List(ctx context.Context, filter ListPlayersFilter) ([]*models.Player, error) {
	query := `SELECT` + playerColumns + ` FROM players WHERE 1=1`
	args := []interface{}{}
	argID := 1

	if filter.Active != nil {
		query += fmt.Sprintf(" AND active = $%d", argID)
		args = append(args, *filter.Active)
		argID++
	}
	query += " ORDER BY last_name, first_name"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, filter.Limit)
		argID++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := []*models.Player{}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (r *postgresPlayerRepository) Update(ctx context.Context, p *models.Player) error {
	query := `
		UPDATE players
		SET first_name = $1, last_name = $2, email = $3, phone = $4,
		    dominant_hand = $5, racket_brand = $6, user_id = $7
		WHERE id = $8`

	result, err := r.db.ExecContext(ctx, query,
		p.FirstName, p.LastName, p.Email, p.Phone,
		p.DominantHand, p.RacketBrand, p.UserID, p.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) SetActive(ctx context.Context, id int, active bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE players SET active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) UpdateAvatarKey(ctx context.Context, id int, avatarKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE players SET avatar_key = $1 WHERE id = $2`, avatarKey, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) FindExistingIDs(ctx context.Context, ids []int) (map[int]bool, error) {
	existing := make(map[int]bool, len(ids))
	if len(ids) == 0 {
		return existing, nil
	}

	rows, err := r.db.QueryContext(ctx, `SELECT id FROM players WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		existing[id] = true
	}
	return existing, rows.Err()
}

func (r *postgresPlayerRepository) AppendHistory(ctx context.Context, id int, entry models.HistoryEntry) error {
	doc, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal history entry: %w", err)
	}

	query := `
		UPDATE players
		SET history = COALESCE(history, '[]'::jsonb) || $1::jsonb
		WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, doc, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPlayer(row rowScanner) (*models.Player, error) {
	var (
		p       models.Player
		history []byte
	)
	err := row.Scan(
		&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.Phone,
		&p.DominantHand, &p.RacketBrand, &p.Active, &p.UserID,
		&p.AvatarKey, &history, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &p.History); err != nil {
			return nil, fmt.Errorf("failed to unmarshal history for player %d: %w", p.ID, err)
		}
	}
	return &p, nil
}

func marshalHistory(entries []models.HistoryEntry) ([]byte, error) {
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	doc, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal player history: %w", err)
	}
	return doc, nil
}
