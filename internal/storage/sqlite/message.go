package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/appdraft/appdraft/internal/model"
)

// insertMessages persists the transcript tail. Messages already stored are
// skipped by their ID, so replaying the whole in-memory transcript on every
// project update stays append-only and idempotent.
func (r *Repository) insertMessages(ctx context.Context, tx *sql.Tx, projectID string, messages []model.Message) error {
	if len(messages) == 0 {
		return nil
	}

	query := `
		INSERT OR IGNORE INTO messages (
			id, project_id, sequence, role, type, content, images, summary, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("could not prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, m := range messages {
		images, err := jsonNullString(m.Images)
		if err != nil {
			return fmt.Errorf("could not marshal message images: %w", err)
		}
		summary, err := jsonNullString(m.Summary)
		if err != nil {
			return fmt.Errorf("could not marshal message summary: %w", err)
		}

		_, err = stmt.ExecContext(ctx, m.ID, projectID, i, m.Role, m.Type, m.Content, images, summary, m.CreatedAt.Unix())
		if err != nil {
			return fmt.Errorf("could not insert message: %w", err)
		}
	}

	return nil
}

// loadMessages fills the project transcript in sequence order.
func (r *Repository) loadMessages(ctx context.Context, p *model.Project) error {
	query := `
		SELECT id, role, type, content, images, summary, created_at
		FROM messages
		WHERE project_id = ?
		ORDER BY sequence ASC
	`

	rows, err := r.db.QueryContext(ctx, query, p.ID)
	if err != nil {
		return fmt.Errorf("could not query messages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m model.Message
		var images, summary sql.NullString
		var createdAt int64

		err := rows.Scan(&m.ID, &m.Role, &m.Type, &m.Content, &images, &summary, &createdAt)
		if err != nil {
			return fmt.Errorf("could not scan message row: %w", err)
		}

		if images.Valid {
			if err := json.Unmarshal([]byte(images.String), &m.Images); err != nil {
				return fmt.Errorf("could not unmarshal message images: %w", err)
			}
		}
		if summary.Valid {
			s := model.JobSummary{}
			if err := json.Unmarshal([]byte(summary.String), &s); err != nil {
				return fmt.Errorf("could not unmarshal message summary: %w", err)
			}
			m.Summary = &s
		}
		m.CreatedAt = timeFromUnix(createdAt)

		p.Messages = append(p.Messages, m)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating message rows: %w", err)
	}

	return nil
}

func jsonNullString(v any) (sql.NullString, error) {
	switch t := v.(type) {
	case []string:
		if t == nil {
			return sql.NullString{}, nil
		}
	case *model.JobSummary:
		if t == nil {
			return sql.NullString{}, nil
		}
	}

	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}

	return sql.NullString{String: string(data), Valid: true}, nil
}
