package registry

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Registry errors.
var (
	ErrNotFound    = errors.New("command set not found")
	ErrNameTaken   = errors.New("name already in use")
	ErrInvalidName = errors.New("invalid name")
	ErrNoCommands  = errors.New("command set has no commands")
)

// Repository provides CRUD operations for command sets and commands.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository using db.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Close closes the underlying DB connection.
func (r *Repository) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// CreateCommandSet inserts a new command set with its commands and returns its
// ID. Blank commands are skipped; at least one command is required.
func (r *Repository) CreateCommandSet(name string, description string, commands []string) (int64, error) {
	name, _ = SanitizeName(name)
	if err := ValidateName(name); err != nil {
		return 0, err
	}
	cmds := nonBlank(commands)
	if len(cmds) == 0 {
		return 0, ErrNoCommands
	}

	trx, err := r.db.Begin()
	if err != nil {
		return 0, err
	}
	defer func() { _ = trx.Rollback() }()

	var desc sql.NullString
	if d := strings.TrimSpace(description); d != "" {
		desc = sql.NullString{String: d, Valid: true}
	}
	// the existence check happens inside the insert to avoid races between
	// processes
	res, err := trx.Exec(`INSERT INTO command_sets (name, description, created_at)
			SELECT ?, ?, datetime('now')
			WHERE NOT EXISTS(SELECT 1 FROM command_sets WHERE name = ?)`, name, desc, name)
	if err != nil {
		return 0, fmt.Errorf("insert command_set: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if rows == 0 {
		return 0, fmt.Errorf("%w: %q", ErrNameTaken, name)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	for i, c := range cmds {
		if _, err := trx.Exec("INSERT INTO commands (command_set_id, position, command) VALUES (?, ?, ?)", id, i+1, c); err != nil {
			return 0, fmt.Errorf("insert command: %w", err)
		}
	}
	if err := trx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// Put stores a copy of cs, with its commands and tags, under cs.Name.
func (r *Repository) Put(cs CommandSet) (int64, error) {
	id, err := r.CreateCommandSet(cs.Name, cs.Description.String, cs.Texts())
	if err != nil {
		return 0, err
	}
	for _, t := range cs.Tags {
		if err := r.AddTag(cs.Name, t); err != nil {
			return id, err
		}
	}
	return id, nil
}

func nonBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, c := range in {
		if s := strings.TrimSpace(c); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// GetCommandSetByName retrieves a command set with its commands and tags.
func (r *Repository) GetCommandSetByName(name string) (*CommandSet, error) {
	row := r.db.QueryRow("SELECT id, name, description, created_at FROM command_sets WHERE name = ?", name)
	var cs CommandSet
	if err := row.Scan(&cs.ID, &cs.Name, &cs.Description, &cs.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		return nil, err
	}
	if err := r.attachCommands(&cs); err != nil {
		return nil, err
	}
	if err := r.attachTags(&cs); err != nil {
		return nil, err
	}
	return &cs, nil
}

// ListCommandSets returns all command sets ordered by name, with their tags.
// When withCommands is set the commands are loaded too.
func (r *Repository) ListCommandSets(withCommands bool) ([]CommandSet, error) {
	return r.list(withCommands, "SELECT id, name, description, created_at FROM command_sets ORDER BY name ASC")
}

// ListCommandSetsByTag returns the command sets carrying tag, ordered by
// name.
func (r *Repository) ListCommandSetsByTag(tag string) ([]CommandSet, error) {
	return r.list(false, `
		SELECT cs.id, cs.name, cs.description, cs.created_at
		FROM command_sets cs
		JOIN command_set_tags cst ON cs.id = cst.command_set_id
		JOIN tags t ON t.id = cst.tag_id
		WHERE t.name = ?
		ORDER BY cs.name ASC
	`, tag)
}

func (r *Repository) list(withCommands bool, query string, args ...any) ([]CommandSet, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	var out []CommandSet
	for rows.Next() {
		var cs CommandSet
		if err := rows.Scan(&cs.ID, &cs.Name, &cs.Description, &cs.CreatedAt); err != nil {
			_ = rows.Close()
			return nil, err
		}
		out = append(out, cs)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	// the connection pool holds one connection; release it before the
	// per-set queries below
	_ = rows.Close()

	for i := range out {
		if err := r.attachTags(&out[i]); err != nil {
			return nil, err
		}
		if withCommands {
			if err := r.attachCommands(&out[i]); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// DeleteCommandSet removes a command set, its commands and tag associations.
func (r *Repository) DeleteCommandSet(name string) error {
	res, err := r.db.Exec("DELETE FROM command_sets WHERE name = ?", name)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}

func (r *Repository) attachCommands(cs *CommandSet) error {
	rows, err := r.db.Query("SELECT id, command_set_id, position, command FROM commands WHERE command_set_id = ? ORDER BY position ASC", cs.ID)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var c Command
		if err := rows.Scan(&c.ID, &c.CommandSetID, &c.Position, &c.Command); err != nil {
			return err
		}
		cs.Commands = append(cs.Commands, c)
	}
	return rows.Err()
}

// attachTags loads tags for a command set into the provided CommandSet.
func (r *Repository) attachTags(cs *CommandSet) error {
	rows, err := r.db.Query("SELECT t.name FROM tags t JOIN command_set_tags cst ON t.id = cst.tag_id WHERE cst.command_set_id = ? ORDER BY t.name", cs.ID)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		cs.Tags = append(cs.Tags, name)
	}
	return rows.Err()
}

// AddTag associates tag with the named command set, creating the tag if
// necessary.
func (r *Repository) AddTag(name, tag string) error {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return fmt.Errorf("%w: empty tag", ErrInvalidName)
	}
	trx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = trx.Rollback() }()

	var setID int64
	if err := trx.QueryRow("SELECT id FROM command_sets WHERE name = ?", name).Scan(&setID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		return err
	}
	if _, err := trx.Exec("INSERT OR IGNORE INTO tags (name) VALUES (?)", tag); err != nil {
		return err
	}
	var tagID int64
	if err := trx.QueryRow("SELECT id FROM tags WHERE name = ?", tag).Scan(&tagID); err != nil {
		return err
	}
	if _, err := trx.Exec("INSERT OR IGNORE INTO command_set_tags (command_set_id, tag_id) VALUES (?, ?)", setID, tagID); err != nil {
		return err
	}
	return trx.Commit()
}

// RemoveTag removes the association between tag and the named command set.
// Removing a tag that is not set is not an error.
func (r *Repository) RemoveTag(name, tag string) error {
	res, err := r.db.Exec(`DELETE FROM command_set_tags
		WHERE command_set_id = (SELECT id FROM command_sets WHERE name = ?)
		AND tag_id = (SELECT id FROM tags WHERE name = ?)`, name, tag)
	if err != nil {
		return err
	}
	_, err = res.RowsAffected()
	return err
}
