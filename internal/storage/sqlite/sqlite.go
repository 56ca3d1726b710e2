package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/appdraft/appdraft/internal/log"
	"github.com/appdraft/appdraft/internal/model"
	"github.com/appdraft/appdraft/internal/storage/sqlite/migrations"
)

// RepositoryConfig is the configuration for the SQLite repository.
type RepositoryConfig struct {
	DBPath string
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.DBPath == "" {
		return fmt.Errorf("db path is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.SQLite"})
	return nil
}

// Repository is a SQLite implementation of storage.Repository. Projects live
// on a single row with the build state as a JSON column; transcript messages
// live on an append-only side table ordered by sequence.
type Repository struct {
	db     *sql.DB
	logger log.Logger
}

// NewRepository creates a new SQLite repository.
func NewRepository(ctx context.Context, cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	dir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("could not create db directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", cfg.DBPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	migrator, err := migrations.NewMigrator(db, cfg.Logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create migrator: %w", err)
	}
	if err := migrator.Up(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not run migrations: %w", err)
	}

	cfg.Logger.Debugf("SQLite repository initialized at %s", cfg.DBPath)

	return &Repository{db: db, logger: cfg.Logger}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error { return r.db.Close() }

// CreateProject creates a new project in the repository.
func (r *Repository) CreateProject(ctx context.Context, p model.Project) error {
	if err := p.Validate(); err != nil {
		return err
	}

	buildState, err := buildStateJSON(p.Build)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // Rollback is safe to call after Commit

	query := `
		INSERT INTO projects (
			id, owner_id, owner_email, name, code, status, build_state,
			created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = tx.ExecContext(
		ctx,
		query,
		p.ID,
		p.OwnerID,
		p.OwnerEmail,
		p.Name,
		p.Code,
		p.Status,
		buildState,
		p.CreatedAt.Unix(),
		p.UpdatedAt.Unix(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: projects.") {
			return fmt.Errorf("project already exists: %w", model.ErrAlreadyExists)
		}
		return fmt.Errorf("could not insert project: %w", err)
	}

	if err := r.insertMessages(ctx, tx, p.ID, p.Messages); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	r.logger.Debugf("Created project in repository: %s", p.ID)
	return nil
}

// GetProject retrieves a project by ID.
func (r *Repository) GetProject(ctx context.Context, id string) (*model.Project, error) {
	query := `
		SELECT
			id, owner_id, owner_email, name, code, status, build_state,
			created_at, updated_at
		FROM projects
		WHERE id = ?
	`

	project, err := r.scanOne(ctx, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("project %s: %w", id, model.ErrNotFound)
		}
		return nil, fmt.Errorf("could not query project: %w", err)
	}

	if err := r.loadMessages(ctx, project); err != nil {
		return nil, err
	}

	return project, nil
}

// GetProjectByName retrieves a project by name.
func (r *Repository) GetProjectByName(ctx context.Context, name string) (*model.Project, error) {
	query := `
		SELECT
			id, owner_id, owner_email, name, code, status, build_state,
			created_at, updated_at
		FROM projects
		WHERE name = ?
	`

	project, err := r.scanOne(ctx, query, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("project with name %s: %w", name, model.ErrNotFound)
		}
		return nil, fmt.Errorf("could not query project: %w", err)
	}

	if err := r.loadMessages(ctx, project); err != nil {
		return nil, err
	}

	return project, nil
}

// ListProjects returns all projects with their transcripts.
func (r *Repository) ListProjects(ctx context.Context) ([]model.Project, error) {
	query := `
		SELECT
			id, owner_id, owner_email, name, code, status, build_state,
			created_at, updated_at
		FROM projects
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("could not query projects: %w", err)
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		project, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan row: %w", err)
		}
		projects = append(projects, project)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	for i := range projects {
		if err := r.loadMessages(ctx, &projects[i]); err != nil {
			return nil, err
		}
	}

	return projects, nil
}

// UpdateProject updates an existing project. Transcript messages are
// append-only: rows already present keep their stored form and only new
// messages are inserted.
func (r *Repository) UpdateProject(ctx context.Context, p model.Project) error {
	if err := p.Validate(); err != nil {
		return err
	}

	buildState, err := buildStateJSON(p.Build)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // Rollback is safe to call after Commit

	query := `
		UPDATE projects
		SET
			owner_id = ?,
			owner_email = ?,
			name = ?,
			code = ?,
			status = ?,
			build_state = ?,
			updated_at = ?
		WHERE id = ?
	`

	result, err := tx.ExecContext(
		ctx,
		query,
		p.OwnerID,
		p.OwnerEmail,
		p.Name,
		p.Code,
		p.Status,
		buildState,
		p.UpdatedAt.Unix(),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("could not update project: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("project %s: %w", p.ID, model.ErrNotFound)
	}

	if err := r.insertMessages(ctx, tx, p.ID, p.Messages); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	r.logger.Debugf("Updated project in repository: %s", p.ID)
	return nil
}

// DeleteProject deletes a project and its transcript.
func (r *Repository) DeleteProject(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("could not delete project: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("project %s: %w", id, model.ErrNotFound)
	}

	r.logger.Debugf("Deleted project from repository: %s", id)
	return nil
}

func (r *Repository) scanOne(ctx context.Context, query string, arg any) (*model.Project, error) {
	row := r.db.QueryRowContext(ctx, query, arg)
	project, err := r.scanRow(row)
	if err != nil {
		return nil, err
	}
	return &project, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *Repository) scanRow(s scanner) (model.Project, error) {
	var project model.Project
	var buildState sql.NullString
	var createdAt, updatedAt int64

	err := s.Scan(
		&project.ID,
		&project.OwnerID,
		&project.OwnerEmail,
		&project.Name,
		&project.Code,
		&project.Status,
		&buildState,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return model.Project{}, err
	}

	if buildState.Valid {
		b := model.BuildState{}
		if err := json.Unmarshal([]byte(buildState.String), &b); err != nil {
			return model.Project{}, fmt.Errorf("could not unmarshal build state: %w", err)
		}
		project.Build = &b
	}

	project.CreatedAt = timeFromUnix(createdAt)
	project.UpdatedAt = timeFromUnix(updatedAt)

	return project, nil
}

func buildStateJSON(b *model.BuildState) (sql.NullString, error) {
	if b == nil {
		return sql.NullString{}, nil
	}

	data, err := json.Marshal(b)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("could not marshal build state: %w", err)
	}

	return sql.NullString{String: string(data), Valid: true}, nil
}

func timeFromUnix(unix int64) time.Time { return time.Unix(unix, 0).UTC() }
