package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/docproof/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/docproof/internal/core/domain"
	"github.com/custodia-labs/docproof/internal/core/ports/driven"
)

// jsonNull is the JSON representation of null.
const jsonNull = "null"

// Store is a unified SQLite-based storage that provides access to
// the session and upload stores through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.docproof/data/state.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docproof", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "state.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// SessionStore returns a SessionStore interface backed by this store.
func (s *Store) SessionStore() driven.SessionStore {
	return &sessionStore{store: s}
}

// UploadStore returns an UploadStore interface backed by this store.
func (s *Store) UploadStore() driven.UploadStore {
	return &uploadStore{store: s}
}

// SchemaVersion returns the highest applied migration.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	row := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&version); err != nil {
		return 0, fmt.Errorf("getting schema version: %w", err)
	}
	return version, nil
}

// migrate runs all pending migrations, each in its own transaction.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	currentVersion, err := s.SchemaVersion(context.Background())
	if err != nil {
		return err
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if err := s.apply(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

func (s *Store) apply(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

// ==================== Session Store ====================

// sessionStore implements driven.SessionStore.
type sessionStore struct {
	store *Store
}

var _ driven.SessionStore = (*sessionStore)(nil)

// Get returns the value for key.
func (s *sessionStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.store.db.QueryRowContext(ctx,
		"SELECT value FROM session_values WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("getting session value: %w", err)
	}
	return value, nil
}

// Set stores value under key.
func (s *sessionStore) Set(ctx context.Context, key, value string) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO session_values (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("setting session value: %w", err)
	}
	return nil
}

// Delete removes key.
func (s *sessionStore) Delete(ctx context.Context, key string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM session_values WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("deleting session value: %w", err)
	}
	return nil
}

// ==================== Upload Store ====================

// uploadStore implements driven.UploadStore.
type uploadStore struct {
	store *Store
}

var _ driven.UploadStore = (*uploadStore)(nil)

const uploadColumns = `id, operation, account, file_name, fingerprint, content_id, receipt,
	phase, error, verify_url, balance, started_at, finished_at`

// Save stores or updates an upload session.
func (s *uploadStore) Save(ctx context.Context, session *domain.UploadSession) error {
	if session == nil || session.ID == "" {
		return domain.ErrInvalidInput
	}

	receiptJSON, err := json.Marshal(session.Receipt)
	if err != nil {
		return fmt.Errorf("marshalling receipt: %w", err)
	}

	var fingerprint string
	if !session.Fingerprint.IsZero() {
		fingerprint = session.Fingerprint.Hex()
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO uploads (`+uploadColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			content_id = excluded.content_id,
			receipt = excluded.receipt,
			phase = excluded.phase,
			error = excluded.error,
			verify_url = excluded.verify_url,
			balance = excluded.balance,
			finished_at = excluded.finished_at
	`, session.ID, session.Operation.String(), session.Account.String(),
		nullString(session.FileName), nullString(fingerprint), nullString(session.ContentID.String()),
		string(receiptJSON), session.Phase.String(), nullString(session.ErrorMessage()),
		nullString(session.VerifyURL), nullString(session.Balance),
		session.StartedAt.UTC(), nullTime(session.FinishedAt))
	if err != nil {
		return fmt.Errorf("saving upload: %w", err)
	}
	return nil
}

// Get retrieves a session by ID.
func (s *uploadStore) Get(ctx context.Context, id string) (*domain.UploadSession, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT "+uploadColumns+" FROM uploads WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("getting upload: %w", err)
	}
	sessions, err := scanUploads(rows)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, domain.ErrNotFound
	}
	return &sessions[0], nil
}

// List returns the most recent sessions first.
func (s *uploadStore) List(ctx context.Context, limit int) ([]domain.UploadSession, error) {
	query := "SELECT " + uploadColumns + " FROM uploads ORDER BY started_at DESC, id"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing uploads: %w", err)
	}
	return scanUploads(rows)
}

// FindByFingerprint returns sessions that recorded the fingerprint.
func (s *uploadStore) FindByFingerprint(ctx context.Context, fp domain.Fingerprint) ([]domain.UploadSession, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT "+uploadColumns+" FROM uploads WHERE fingerprint = ? ORDER BY started_at DESC", fp.Hex())
	if err != nil {
		return nil, fmt.Errorf("finding uploads: %w", err)
	}
	return scanUploads(rows)
}

// ==================== Helpers ====================

func scanUploads(rows *sql.Rows) ([]domain.UploadSession, error) {
	defer rows.Close()

	var sessions []domain.UploadSession
	for rows.Next() {
		var (
			sess                                          domain.UploadSession
			operation, account, phase                     string
			fileName, fingerprint, contentID, receiptJSON sql.NullString
			errMsg, verifyURL, balance                    sql.NullString
			startedAt                                     time.Time
			finishedAt                                    sql.NullTime
		)
		if err := rows.Scan(&sess.ID, &operation, &account, &fileName, &fingerprint, &contentID,
			&receiptJSON, &phase, &errMsg, &verifyURL, &balance, &startedAt, &finishedAt); err != nil {
			return nil, fmt.Errorf("scanning upload: %w", err)
		}

		sess.Operation = domain.ContractMethod(operation)
		sess.Account = domain.Account(account)
		sess.FileName = fileName.String
		sess.ContentID = domain.ContentID(contentID.String)
		sess.Phase = domain.ParsePhase(phase)
		sess.VerifyURL = verifyURL.String
		sess.Balance = balance.String
		sess.StartedAt = startedAt
		if finishedAt.Valid {
			sess.FinishedAt = finishedAt.Time
		}
		if errMsg.Valid && errMsg.String != "" {
			sess.Err = errors.New(errMsg.String)
		}
		if fingerprint.Valid && fingerprint.String != "" {
			fp, err := domain.ParseFingerprint(fingerprint.String)
			if err != nil {
				return nil, fmt.Errorf("parsing fingerprint of %s: %w", sess.ID, err)
			}
			sess.Fingerprint = fp
		}
		if receiptJSON.Valid && receiptJSON.String != "" && receiptJSON.String != jsonNull {
			var receipt domain.TransactionReceipt
			if err := json.Unmarshal([]byte(receiptJSON.String), &receipt); err != nil {
				return nil, fmt.Errorf("unmarshalling receipt of %s: %w", sess.ID, err)
			}
			sess.Receipt = &receipt
		}

		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating uploads: %w", err)
	}
	return sessions, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t.UTC(), Valid: !t.IsZero()}
}
