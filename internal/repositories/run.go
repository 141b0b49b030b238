package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/qpm/internal/models"
	"github.com/desertthunder/qpm/internal/shared"
)

// RunRepository implements models.Repository[*models.GenerationRun] for generation history.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

const runColumns = `id, sequence, title, author, output_path, song_count, status, error_message, created_at, deleted_at`

// Create inserts a run with a generated ID and the next sequence number
func (r *RunRepository) Create(run *models.GenerationRun) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidRun, err)
	}

	sequence, err := NextSequence(r.db, "generation_runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	var errorMessage any = run.ErrorMessage()
	if errorMessage == "" {
		errorMessage = nil
	}

	_, err = r.db.Exec(`
		INSERT INTO generation_runs (id, sequence, title, author, output_path, song_count, status, error_message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		id,
		sequence,
		run.Title(),
		run.Author(),
		run.OutputPath(),
		run.SongCount(),
		string(run.Status()),
		errorMessage,
		run.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert generation run: %w", err)
	}

	run.SetID(id)
	run.SetSequence(sequence)
	return nil
}

// Get retrieves a run by ID, excluding soft-deleted runs
func (r *RunRepository) Get(id string) (*models.GenerationRun, error) {
	row := r.db.QueryRow(`SELECT `+runColumns+` FROM generation_runs WHERE id = ? AND deleted_at IS NULL`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrRunNotFound, id)
	}
	return run, err
}

// Delete soft-deletes a run by ID
func (r *RunRepository) Delete(id string) error {
	result, err := r.db.Exec(`UPDATE generation_runs SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete generation run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrRunNotFound, id)
	}
	return nil
}

// List retrieves runs newest first.
//
// Supported criteria: "status" (string) and "limit" (int).
func (r *RunRepository) List(criteria map[string]any) ([]*models.GenerationRun, error) {
	query := `SELECT ` + runColumns + ` FROM generation_runs WHERE deleted_at IS NULL`
	args := []any{}

	if status, ok := criteria["status"].(string); ok && status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query generation runs: %w", err)
	}
	defer rows.Close()

	runs := []*models.GenerationRun{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

// scanner is satisfied by both [sql.Row] and [sql.Rows]
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*models.GenerationRun, error) {
	var (
		id           string
		sequence     int
		title        string
		author       string
		outputPath   string
		songCount    int
		status       string
		errorMessage sql.NullString
		createdAt    time.Time
		deletedAt    sql.NullTime
	)

	err := s.Scan(&id, &sequence, &title, &author, &outputPath, &songCount, &status, &errorMessage, &createdAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan generation run: %w", err)
	}

	run := models.NewGenerationRun(title, author, outputPath, songCount, models.RunStatus(status))
	run.SetID(id)
	run.SetSequence(sequence)
	run.SetCreatedAt(createdAt)
	if errorMessage.Valid {
		run.SetErrorMessage(errorMessage.String)
	}
	if deletedAt.Valid {
		run.SetDeletedAt(&deletedAt.Time)
	}

	return run, nil
}
