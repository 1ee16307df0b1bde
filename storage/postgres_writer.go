package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"loan-dashboard/models"
	"loan-dashboard/utils"
)

// PostgresWriter keeps a history of predictions returned by the service.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string, logger *utils.Logger) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	retry := utils.RetryConfig{MaxAttempts: 10, BaseDelay: 500 * time.Millisecond, Logger: logger}
	if err := retry.Do(context.Background(), "postgres ping", func(ctx context.Context) error {
		return db.PingContext(ctx)
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS predictions (
			id                   BIGSERIAL PRIMARY KEY,
			session_id           VARCHAR(64)   NOT NULL DEFAULT '',
			source               VARCHAR(16)   NOT NULL,
			income               NUMERIC(14,2) NOT NULL,
			loan_amount          NUMERIC(14,2) NOT NULL,
			loan_int_rate        NUMERIC(6,2)  NOT NULL DEFAULT 0,
			credit_score         NUMERIC(8,2)  NOT NULL DEFAULT 0,
			age                  INTEGER       NOT NULL,
			previous_defaults    VARCHAR(8)    NOT NULL,
			home_ownership       VARCHAR(16)   NOT NULL,
			result               VARCHAR(16)   NOT NULL,
			approval_probability NUMERIC(5,2)  NOT NULL,
			created_at           TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_predictions_session ON predictions(session_id);
		CREATE INDEX IF NOT EXISTS idx_predictions_result  ON predictions(result);
		CREATE INDEX IF NOT EXISTS idx_predictions_created ON predictions(created_at);
	`)
	return err
}

// Clear deletes all stored predictions.
func (pw *PostgresWriter) Clear() error {
	_, err := pw.db.Exec("DELETE FROM predictions")
	if err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// Write batch-inserts the records.
func (pw *PostgresWriter) Write(records []models.StoredPrediction) error {
	const batchSize = 50
	for i := 0; i < len(records); i += batchSize {
		end := min(i+batchSize, len(records))
		if err := pw.insertBatch(records[i:end]); err != nil {
			return err
		}
	}
	return nil
}

const insertColumns = 11

func insertQuery(rows int) string {
	valueStrings := make([]string, 0, rows)
	for idx := 0; idx < rows; idx++ {
		base := idx * insertColumns
		ph := make([]string, insertColumns)
		for c := range ph {
			ph[c] = fmt.Sprintf("$%d", base+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(ph, ",")+")")
	}

	return fmt.Sprintf(`
		INSERT INTO predictions (session_id, source, income, loan_amount, loan_int_rate, credit_score,
			age, previous_defaults, home_ownership, result, approval_probability)
		VALUES %s
	`, strings.Join(valueStrings, ","))
}

func (pw *PostgresWriter) insertBatch(batch []models.StoredPrediction) error {
	valueArgs := make([]interface{}, 0, len(batch)*insertColumns)
	for _, r := range batch {
		valueArgs = append(valueArgs,
			r.SessionID, r.Source, r.Income, r.LoanAmount, r.LoanIntRate, r.CreditScore,
			r.Age, r.PreviousDefaults, r.HomeOwnership, r.Result, r.ApprovalProbability)
	}

	if _, err := pw.db.Exec(insertQuery(len(batch)), valueArgs...); err != nil {
		return fmt.Errorf("postgres: insert batch: %w", err)
	}
	return nil
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// FetchRecent retrieves the most recent predictions, newest first.
func (pw *PostgresWriter) FetchRecent(limit int) ([]models.StoredPrediction, error) {
	rows, err := pw.db.Query(`
		SELECT id, session_id, source, income, loan_amount, loan_int_rate, credit_score,
			age, previous_defaults, home_ownership, result, approval_probability, created_at
		FROM predictions
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch recent: %w", err)
	}
	defer rows.Close()

	var records []models.StoredPrediction
	for rows.Next() {
		var r models.StoredPrediction
		if err := rows.Scan(
			&r.ID, &r.SessionID, &r.Source, &r.Income, &r.LoanAmount, &r.LoanIntRate, &r.CreditScore,
			&r.Age, &r.PreviousDefaults, &r.HomeOwnership, &r.Result, &r.ApprovalProbability, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
