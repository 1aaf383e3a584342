package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/bolao/internal/models"
)

var ErrSubmitterNotFound = errors.New("submitter not found")

type TicketStore interface {
	Close() error
	ApplyMigrations(dir string) error

	BeginSubmission(ctx context.Context) (SubmissionTx, error)

	ListSubmitters() ([]models.Submitter, error)
	GetSubmitter(id int64) (*models.Submitter, error)
	DeleteSubmitter(id int64) error
	FetchStats() (*models.Stats, error)
}

// SubmissionTx writes one submission. Nothing is visible to readers
// until Commit, and Rollback discards every write made through it.
type SubmissionTx interface {
	InsertSubmitter(fullName string) (int64, error)
	InsertPick(submitterID int64, numbers string) error
	Commit() error
	Rollback() error
}

// BaseStore provides common functionality for different DB implementations
type BaseStore struct {
	DB        *sqlx.DB
	Converter func(string) string
}

func (s *BaseStore) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

// ApplyMigrations applies SQL migrations from a directory, translating dialect if needed
func (s *BaseStore) ApplyMigrations(dir string, translateSQL func(string) string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, file := range files {
		if !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		content, err := os.ReadFile(fmt.Sprintf("%s/%s", dir, file.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file.Name(), err)
		}

		sql := string(content)
		if translateSQL != nil {
			sql = translateSQL(sql)
		}

		logger.Debug.Printf("Applying migration: %s", file.Name())
		if _, err := s.DB.Exec(sql); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file.Name(), err)
		}
	}

	return nil
}

func (s *BaseStore) BeginSubmission(ctx context.Context) (SubmissionTx, error) {
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &submissionTx{tx: tx, convert: s.Converter, now: time.Now().UTC()}, nil
}

type submissionTx struct {
	tx      *sqlx.Tx
	convert func(string) string
	now     time.Time
}

func (t *submissionTx) InsertSubmitter(fullName string) (int64, error) {
	var id int64
	query := t.convert(`
		INSERT INTO submitters (full_name, created_at)
		VALUES (?, ?)
		RETURNING id
	`)
	if err := t.tx.QueryRowx(query, fullName, t.now).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert submitter: %w", err)
	}
	return id, nil
}

func (t *submissionTx) InsertPick(submitterID int64, numbers string) error {
	query := t.convert(`
		INSERT INTO picks (submitter_id, numbers, created_at)
		VALUES (?, ?, ?)
	`)
	if _, err := t.tx.Exec(query, submitterID, numbers, t.now); err != nil {
		return fmt.Errorf("failed to insert pick: %w", err)
	}
	return nil
}

func (t *submissionTx) Commit() error {
	return t.tx.Commit()
}

func (t *submissionTx) Rollback() error {
	return t.tx.Rollback()
}

// ListSubmitters returns every submitter, newest first, with picks attached.
func (s *BaseStore) ListSubmitters() ([]models.Submitter, error) {
	var submitters []models.Submitter
	err := s.DB.Select(&submitters, `
		SELECT id, full_name, created_at
		FROM submitters
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list submitters: %w", err)
	}

	var picks []models.Pick
	err = s.DB.Select(&picks, `
		SELECT id, submitter_id, numbers, created_at
		FROM picks
		ORDER BY submitter_id, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list picks: %w", err)
	}

	bySubmitter := make(map[int64][]models.Pick)
	for _, p := range picks {
		bySubmitter[p.SubmitterID] = append(bySubmitter[p.SubmitterID], p)
	}
	for i := range submitters {
		submitters[i].Picks = bySubmitter[submitters[i].ID]
	}

	return submitters, nil
}

func (s *BaseStore) GetSubmitter(id int64) (*models.Submitter, error) {
	var submitter models.Submitter
	query := s.Converter(`
		SELECT id, full_name, created_at
		FROM submitters
		WHERE id = ?
	`)
	err := s.DB.Get(&submitter, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get submitter: %w", err)
	}

	query = s.Converter(`
		SELECT id, submitter_id, numbers, created_at
		FROM picks
		WHERE submitter_id = ?
		ORDER BY id
	`)
	if err := s.DB.Select(&submitter.Picks, query, id); err != nil {
		return nil, fmt.Errorf("failed to get picks for submitter %d: %w", id, err)
	}

	return &submitter, nil
}

// DeleteSubmitter removes a submitter; its picks follow through ON DELETE CASCADE.
func (s *BaseStore) DeleteSubmitter(id int64) error {
	res, err := s.DB.Exec(s.Converter(`DELETE FROM submitters WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete submitter %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete submitter %d: %w", id, err)
	}
	if n == 0 {
		return ErrSubmitterNotFound
	}
	return nil
}

func (s *BaseStore) FetchStats() (*models.Stats, error) {
	var stats models.Stats
	err := s.DB.Get(&stats, `
		SELECT
			(SELECT COUNT(*) FROM submitters) AS submitters,
			(SELECT COUNT(*) FROM picks) AS picks
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stats: %w", err)
	}
	return &stats, nil
}
