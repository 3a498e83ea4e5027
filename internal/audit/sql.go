package audit

import (
	"context"
	"database/sql"
	"fmt"

	"talentai/internal/shared/storage/db"
)

// SQLStore writes records to the audit_logs table.
type SQLStore struct {
	DB      *sql.DB
	Dialect db.Dialect
}

// Log inserts rec.
func (s *SQLStore) Log(ctx context.Context, rec LogRecord) error {
	p := s.Dialect.Placeholder
	query := fmt.Sprintf(`
INSERT INTO audit_logs (request_id, user_id, logged_at, query, result)
VALUES (%s, %s, %s, %s, %s)`, p(1), p(2), p(3), p(4), p(5))
	_, err := s.DB.ExecContext(ctx, query,
		rec.RequestID,
		rec.UserID,
		rec.Timestamp,
		rec.Query,
		rec.Result,
	)
	if err != nil {
		return fmt.Errorf("insert audit log request_id=%s: %w", rec.RequestID, err)
	}
	return nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

func (s *SQLStore) Close(ctx context.Context) error {
	return s.DB.Close()
}

var _ Store = (*SQLStore)(nil)
