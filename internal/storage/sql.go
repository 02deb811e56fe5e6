package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/xaenox/flatprice-bot/internal/models"
)

//go:embed migrations/*.sql
var migrations embed.FS

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// SQLStorage persists sessions and estimates in PostgreSQL or SQLite.
type SQLStorage struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewPostgresStorage(config DatabaseConfig, logger *zap.Logger) (*SQLStorage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sqlx.Connect("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return newSQLStorage(db, "migrations/postgres.sql", logger)
}

// NewSQLiteStorage opens the database file at path; ":memory:" gives a
// private in-memory database.
func NewSQLiteStorage(path string, logger *zap.Logger) (*SQLStorage, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	// SQLite allows a single writer; one connection also keeps ":memory:" shared.
	db.SetMaxOpenConns(1)

	return newSQLStorage(db, "migrations/sqlite.sql", logger)
}

func newSQLStorage(db *sqlx.DB, migration string, logger *zap.Logger) (*SQLStorage, error) {
	storage := &SQLStorage{db: db, logger: logger}
	if err := storage.initializeSchema(migration); err != nil {
		db.Close()
		return nil, fmt.Errorf("error initializing database schema: %w", err)
	}
	return storage, nil
}

func (s *SQLStorage) initializeSchema(name string) error {
	migrationSQL, err := migrations.ReadFile(name)
	if err != nil {
		return fmt.Errorf("error reading migrations file: %w", err)
	}
	if _, err := s.db.Exec(string(migrationSQL)); err != nil {
		return fmt.Errorf("error executing migrations: %w", err)
	}
	return nil
}

func (s *SQLStorage) GetSession(ctx context.Context, chatID int64) (*models.Session, error) {
	var payload string
	err := s.db.GetContext(ctx, &payload, s.db.Rebind(`SELECT payload FROM sessions WHERE chat_id = ?`), chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying session: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal([]byte(payload), &session); err != nil {
		s.logger.Warn("Discarding unreadable session",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
		return nil, ErrNotFound
	}
	return &session, nil
}

func (s *SQLStorage) SaveSession(ctx context.Context, session *models.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("error encoding session: %w", err)
	}

	query := s.db.Rebind(`
		INSERT INTO sessions (chat_id, user_id, state, payload, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (chat_id) DO UPDATE SET
			user_id = excluded.user_id,
			state = excluded.state,
			payload = excluded.payload,
			updated_at = excluded.updated_at`)

	_, err = s.db.ExecContext(ctx, query,
		session.ChatID,
		session.UserID,
		string(session.State),
		string(payload),
		session.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("error saving session: %w", err)
	}
	return nil
}

func (s *SQLStorage) DeleteSession(ctx context.Context, chatID int64) error {
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM sessions WHERE chat_id = ?`), chatID); err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}
	return nil
}

type estimateRow struct {
	models.Estimate
	CreatedAtNanos int64 `db:"created_at"`
}

func (s *SQLStorage) SaveEstimate(ctx context.Context, estimate *models.Estimate) error {
	if estimate.CreatedAt.IsZero() {
		estimate.CreatedAt = time.Now()
	}
	row := estimateRow{Estimate: *estimate, CreatedAtNanos: estimate.CreatedAt.UnixNano()}

	query := `
		INSERT INTO estimates (
			id, chat_id, user_id, district_code, district_name,
			apartment_type_code, apartment_type_name, area, current_floor, total_floors,
			price, deviation, model_version, created_at
		) VALUES (
			:id, :chat_id, :user_id, :district_code, :district_name,
			:apartment_type_code, :apartment_type_name, :area, :current_floor, :total_floors,
			:price, :deviation, :model_version, :created_at
		)`
	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("error creating estimate: %w", err)
	}
	return nil
}

func (s *SQLStorage) GetUserEstimates(ctx context.Context, userID int64, limit, offset int) ([]*models.Estimate, error) {
	if limit <= 0 {
		limit = 100
	}
	query := s.db.Rebind(`
		SELECT id, chat_id, user_id, district_code, district_name,
			apartment_type_code, apartment_type_name, area, current_floor, total_floors,
			price, deviation, model_version, created_at
		FROM estimates
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`)

	var rows []estimateRow
	if err := s.db.SelectContext(ctx, &rows, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("error querying estimates: %w", err)
	}

	estimates := make([]*models.Estimate, 0, len(rows))
	for _, row := range rows {
		e := row.Estimate
		e.CreatedAt = time.Unix(0, row.CreatedAtNanos)
		estimates = append(estimates, &e)
	}
	return estimates, nil
}

func (s *SQLStorage) Close() error {
	return s.db.Close()
}
