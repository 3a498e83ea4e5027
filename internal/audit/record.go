// Package audit records completed analysis requests for compliance and traceability.
package audit

import (
	"context"
	"time"
)

// LogRecord is the single canonical shape of an audit entry.
// It is written once per completed request and never updated.
type LogRecord struct {
	RequestID string `json:"request_id" bson:"request_id"`
	UserID    string `json:"user_id" bson:"user_id"`
	Timestamp string `json:"timestamp" bson:"timestamp"`
	Query     string `json:"query" bson:"query"`
	Result    string `json:"result" bson:"result"`
}

// NewRecord stamps a record with now in UTC. result is the serialized analysis result.
func NewRecord(requestID, userID, query, result string, now time.Time) LogRecord {
	return LogRecord{
		RequestID: requestID,
		UserID:    userID,
		Timestamp: now.UTC().Format(time.RFC3339Nano),
		Query:     query,
		Result:    result,
	}
}

// Logger writes audit records.
type Logger interface {
	Log(ctx context.Context, rec LogRecord) error
}

// Store is a Logger with a lifecycle owned by the process.
type Store interface {
	Logger
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
