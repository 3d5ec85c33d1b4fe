package store

import (
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mmr-tortoise/repoyard/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store handles SQLite persistence of Workspace rows.
type Store struct {
	db *sql.DB
}

// New opens (creating if necessary) the database at dbPath and applies
// migrations.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema, err := migrationsFS.ReadFile("migrations/001_initial.sql")
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}
	if _, err := s.db.Exec(string(schema)); err != nil {
		return fmt.Errorf("exec migration: %w", err)
	}
	return nil
}

// Insert persists a new workspace row. The store assigns the id and the
// creation timestamp; the uniqueness of (repository_url, branch) and of
// local_path is enforced by the schema, so a conflicting insert fails
// here rather than later on disk.
func (s *Store) Insert(ws *model.Workspace) (*model.Workspace, error) {
	out := *ws
	out.ID = uuid.NewString()
	if out.ClonedAt.IsZero() {
		out.ClonedAt = time.Now().UTC()
	}
	if out.CloneStatus == "" {
		out.CloneStatus = model.StatusCloning
	}

	_, err := s.db.Exec(`
		INSERT INTO workspaces (id, repository_url, local_path, branch, default_branch,
		                        clone_status, cloned_at, last_pulled, config_name, is_worktree)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		out.ID,
		out.RepositoryURL,
		out.LocalPath,
		out.Branch,
		out.DefaultBranch,
		out.CloneStatus.String(),
		out.ClonedAt,
		nullTime(out.LastPulled),
		nullString(out.ConfigName),
		out.IsWorktree,
	)
	if err != nil {
		return nil, fmt.Errorf("insert workspace: %w", err)
	}

	return &out, nil
}

const workspaceColumns = `id, repository_url, local_path, branch, default_branch,
       clone_status, cloned_at, last_pulled, config_name, is_worktree`

// GetByID retrieves a workspace by id. Returns (nil, nil) when no row
// matches.
func (s *Store) GetByID(id string) (*model.Workspace, error) {
	row := s.db.QueryRow(`SELECT `+workspaceColumns+` FROM workspaces WHERE id = ?`, id)
	return scanWorkspace(row)
}

// GetByURLAndBranch retrieves the workspace for a (repository URL,
// branch) pair. An empty branch addresses the "default branch, no pin"
// bucket. Returns (nil, nil) when no row matches.
func (s *Store) GetByURLAndBranch(url, branch string) (*model.Workspace, error) {
	row := s.db.QueryRow(`
		SELECT `+workspaceColumns+` FROM workspaces
		WHERE repository_url = ? AND branch = ?
	`, url, branch)
	return scanWorkspace(row)
}

// GetByPath retrieves the workspace whose local path equals localPath.
// Returns (nil, nil) when no row matches.
func (s *Store) GetByPath(localPath string) (*model.Workspace, error) {
	row := s.db.QueryRow(`SELECT `+workspaceColumns+` FROM workspaces WHERE local_path = ?`, localPath)
	return scanWorkspace(row)
}

// ListAll retrieves every workspace row ordered by creation time.
func (s *Store) ListAll() ([]model.Workspace, error) {
	rows, err := s.db.Query(`SELECT ` + workspaceColumns + ` FROM workspaces ORDER BY cloned_at, local_path`)
	if err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var workspaces []model.Workspace
	for rows.Next() {
		ws, err := scanWorkspaceRow(rows)
		if err != nil {
			return nil, err
		}
		workspaces = append(workspaces, *ws)
	}

	return workspaces, rows.Err()
}

// UpdateStatus sets the clone status of a workspace.
func (s *Store) UpdateStatus(id string, status model.CloneStatus) error {
	_, err := s.db.Exec(`UPDATE workspaces SET clone_status = ? WHERE id = ?`, status.String(), id)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	return nil
}

// UpdateDefaultBranch records the branch the working copy was created
// against, resolved during provisioning.
func (s *Store) UpdateDefaultBranch(id, defaultBranch string) error {
	_, err := s.db.Exec(`UPDATE workspaces SET default_branch = ? WHERE id = ?`, defaultBranch, id)
	if err != nil {
		return fmt.Errorf("update default branch: %w", err)
	}
	return nil
}

// UpdateLastPulled records the time of the most recent successful pull.
func (s *Store) UpdateLastPulled(id string, t time.Time) error {
	_, err := s.db.Exec(`UPDATE workspaces SET last_pulled = ? WHERE id = ?`, t.UTC(), id)
	if err != nil {
		return fmt.Errorf("update last pulled: %w", err)
	}
	return nil
}

// UpdateConfigName records the config profile assigned to a workspace.
func (s *Store) UpdateConfigName(id, name string) error {
	_, err := s.db.Exec(`UPDATE workspaces SET config_name = ? WHERE id = ?`, nullString(name), id)
	if err != nil {
		return fmt.Errorf("update config name: %w", err)
	}
	return nil
}

// Delete removes a workspace row by id. Deleting a missing row is not
// an error.
func (s *Store) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM workspaces WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete workspace: %w", err)
	}
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for shared scanning.
type scanner interface {
	Scan(dest ...any) error
}

func scanWorkspace(row *sql.Row) (*model.Workspace, error) {
	ws, err := scanWorkspaceRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return ws, err
}

func scanWorkspaceRow(sc scanner) (*model.Workspace, error) {
	var ws model.Workspace
	var status string
	var lastPulled sql.NullTime
	var configName sql.NullString

	err := sc.Scan(
		&ws.ID,
		&ws.RepositoryURL,
		&ws.LocalPath,
		&ws.Branch,
		&ws.DefaultBranch,
		&status,
		&ws.ClonedAt,
		&lastPulled,
		&configName,
		&ws.IsWorktree,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan workspace: %w", err)
	}

	ws.CloneStatus = model.CloneStatus(status)
	if lastPulled.Valid {
		t := lastPulled.Time
		ws.LastPulled = &t
	}
	if configName.Valid {
		ws.ConfigName = configName.String
	}

	return &ws, nil
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
