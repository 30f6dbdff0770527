package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/courtside/tournament-server/models"
)

var (
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentNameConflict = errors.New("tournament name already exists")

	// ErrConcurrentUpdate is returned when Save observes a revision other
	// than the one the aggregate was loaded with. The caller lost a
	// read-modify-write race and must reload before retrying.
	ErrConcurrentUpdate = errors.New("tournament was modified concurrently")
)

type ListTournamentsFilter struct {
	Status *models.TournamentStatus
	Type   *models.TournamentType
	Draft  *bool
	Limit  int
	Offset int
}

// TournamentRepository stores each tournament as a single document. Save
// writes the whole aggregate guarded by an optimistic revision check; no
// sub-document is ever written independently.
type TournamentRepository interface {
	Create(ctx context.Context, t *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, filter ListTournamentsFilter) ([]*models.Tournament, error)
	Save(ctx context.Context, t *models.Tournament) error
	Delete(ctx context.Context, id int) error
	ListDueForStart(ctx context.Context) ([]*models.Tournament, error)
}

type postgresTournamentRepository struct {
	db SQLExecutor
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	doc, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to marshal tournament: %w", err)
	}

	query := `
		INSERT INTO tournaments (name, data, revision)
		VALUES ($1, $2, 1)
		RETURNING id, created_at`

	err = r.db.QueryRowContext(ctx, query, t.Name, doc).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrTournamentNameConflict
		}
		return err
	}
	t.Revision = 1

	// The document embeds its own id; rewrite it now that the row exists.
	return r.Save(ctx, t)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `SELECT id, data, revision, created_at FROM tournaments WHERE id = $1`

	var (
		doc      []byte
		revision int
		t        models.Tournament
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &doc, &revision, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	rowID, createdAt := t.ID, t.CreatedAt
	if err := json.Unmarshal(doc, &t); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tournament %d: %w", id, err)
	}
	t.ID, t.CreatedAt, t.Revision = rowID, createdAt, revision
	return &t, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context, filter ListTournamentsFilter) ([]*models.Tournament, error) {
	query := `SELECT id, data, revision, created_at FROM tournaments WHERE 1=1`
	args := []interface{}{}
	argID := 1

	if filter.Status != nil {
		query += fmt.Sprintf(" AND data->>'status' = $%d", argID)
		args = append(args, string(*filter.Status))
		argID++
	}
	if filter.Type != nil {
		query += fmt.Sprintf(" AND data->>'type' = $%d", argID)
		args = append(args, string(*filter.Type))
		argID++
	}
	if filter.Draft != nil {
		query += fmt.Sprintf(" AND (data->>'draft')::boolean = $%d", argID)
		args = append(args, *filter.Draft)
		argID++
	}
	query += " ORDER BY created_at DESC"
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

	return scanTournaments(rows)
}

// Save persists the full aggregate. A zero affected-row count with an
// existing id means the revision check failed.
func (r *postgresTournamentRepository) Save(ctx context.Context, t *models.Tournament) error {
	doc, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to marshal tournament %d: %w", t.ID, err)
	}

	query := `
		UPDATE tournaments
		SET name = $1, data = $2, revision = revision + 1
		WHERE id = $3 AND revision = $4`

	result, err := r.db.ExecContext(ctx, query, t.Name, doc, t.ID, t.Revision)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrTournamentNameConflict
		}
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		if _, getErr := r.GetByID(ctx, t.ID); errors.Is(getErr, ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return ErrConcurrentUpdate
	}
	t.Revision++
	return nil
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

// ListDueForStart returns non-draft pending tournaments whose start date has
// passed, for the auto-start scheduler.
func (r *postgresTournamentRepository) ListDueForStart(ctx context.Context) ([]*models.Tournament, error) {
	query := `
		SELECT id, data, revision, created_at FROM tournaments
		WHERE data->>'status' = $1
		  AND (data->>'draft')::boolean = false
		  AND (data->>'start_date')::timestamptz <= now()`

	rows, err := r.db.QueryContext(ctx, query, string(models.StatusPending))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTournaments(rows)
}

func scanTournaments(rows *sql.Rows) ([]*models.Tournament, error) {
	tournaments := []*models.Tournament{}
	for rows.Next() {
		var (
			doc      []byte
			revision int
			t        models.Tournament
		)
		if err := rows.Scan(&t.ID, &doc, &revision, &t.CreatedAt); err != nil {
			return nil, err
		}
		rowID, createdAt := t.ID, t.CreatedAt
		if err := json.Unmarshal(doc, &t); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tournament %d: %w", rowID, err)
		}
		t.ID, t.CreatedAt, t.Revision = rowID, createdAt, revision
		tournaments = append(tournaments, &t)
	}
	return tournaments, rows.Err()
}
