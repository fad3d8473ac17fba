package db

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/hpungsan/mnemo/internal/errors"
	"github.com/hpungsan/mnemo/internal/memory"
)

// Execer is the write surface shared by *sql.DB and *sql.Tx, so the
// mutation queries below can run standalone or inside a transaction.
type Execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// InsertMemory stores a new memory record.
func InsertMemory(db Execer, m *memory.Memory) error {
	fieldsJSON, err := marshalFields(m.Fields)
	if err != nil {
		return errors.NewInternal(err)
	}

	query := `
		INSERT INTO memories (
			id, text, category, confidence, fields_json,
			source_tool, project_id, session_id, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = db.Exec(query,
		m.ID, m.Text, string(m.Category), m.Confidence, fieldsJSON,
		toNullString(m.SourceTool), toNullString(m.ProjectID),
		toNullString(m.SessionID), m.CreatedAt,
	)
	if err != nil {
		return errors.NewStorageFault(err)
	}

	return nil
}

// GetMemory retrieves a stored memory by id.
func GetMemory(db *sql.DB, id string) (*memory.Memory, error) {
	query := `
		SELECT id, text, category, confidence, fields_json,
			source_tool, project_id, session_id, created_at
		FROM memories
		WHERE id = ?
	`

	var m memory.Memory
	var cat string
	var fieldsJSON, sourceTool, projectID, sessionID sql.NullString

	err := db.QueryRow(query, id).Scan(
		&m.ID, &m.Text, &cat, &m.Confidence, &fieldsJSON,
		&sourceTool, &projectID, &sessionID, &m.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	m.Category = memory.Category(cat)
	m.SourceTool = sourceTool.String
	m.ProjectID = projectID.String
	m.SessionID = sessionID.String
	if m.Fields, err = unmarshalFields(fieldsJSON); err != nil {
		return nil, errors.NewInternal(err)
	}

	return &m, nil
}

// RecentTexts returns the text of the most recently stored memories and
// created suggestions, newest first, up to limit entries. This is the
// recent-window the duplicate filter compares new samples against.
func RecentTexts(db *sql.DB, limit int) ([]string, error) {
	query := `
		SELECT text, created_at FROM memories
		UNION ALL
		SELECT text, created_at FROM suggestions
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := db.Query(query, limit)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var texts []string
	for rows.Next() {
		var text string
		var createdAt int64
		if err := rows.Scan(&text, &createdAt); err != nil {
			return nil, errors.NewInternal(err)
		}
		texts = append(texts, text)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return texts, nil
}

// InsertSuggestion stores a new pending suggestion.
func InsertSuggestion(db *sql.DB, s *memory.Suggestion) error {
	fieldsJSON, err := marshalFields(s.Fields)
	if err != nil {
		return errors.NewInternal(err)
	}

	query := `
		INSERT INTO suggestions (
			id, session_id, text, source_tool, project_id,
			category, confidence, fields_json, reason, status,
			created_at, decided_at, feedback_note
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL, NULL)
	`

	_, err = db.Exec(query,
		s.ID, s.SessionID, s.Text,
		toNullString(s.SourceTool), toNullString(s.ProjectID),
		string(s.Category), s.Confidence, fieldsJSON,
		toNullString(s.Reason), string(s.Status), s.CreatedAt,
	)
	if err != nil {
		return errors.NewStorageFault(err)
	}

	return nil
}

// GetSuggestion retrieves a suggestion by id.
func GetSuggestion(db *sql.DB, id string) (*memory.Suggestion, error) {
	query := suggestionSelect + ` WHERE id = ?`

	row := db.QueryRow(query, id)
	s, err := scanSuggestion(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return s, nil
}

// ListSuggestions returns suggestions filtered by status and optionally
// by session, newest first.
func ListSuggestions(db *sql.DB, status memory.Status, sessionID string) ([]memory.Suggestion, error) {
	query := suggestionSelect + ` WHERE status = ?`
	args := []any{string(status)}

	if sessionID != "" {
		query += ` AND session_id = ?`
		args = append(args, sessionID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var suggestions []memory.Suggestion
	for rows.Next() {
		s, err := scanSuggestion(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		suggestions = append(suggestions, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return suggestions, nil
}

// TransitionSuggestion moves a suggestion out of pending. The WHERE
// clause on status makes the transition optimistic: of two concurrent
// decisions only the first can match the pending row, so decided_at is
// written exactly once. Returns true if this call won the transition.
func TransitionSuggestion(db Execer, id string, to memory.Status, feedbackNote *string) (bool, error) {
	query := `
		UPDATE suggestions
		SET status = ?, decided_at = ?, feedback_note = ?
		WHERE id = ? AND status = ?
	`

	result, err := db.Exec(query,
		string(to), time.Now().Unix(), toNullStringPtr(feedbackNote),
		id, string(memory.StatusPending),
	)
	if err != nil {
		return false, errors.NewInternal(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, errors.NewInternal(err)
	}

	return affected == 1, nil
}

// StalePendingIDs returns the ids of pending suggestions created before
// the cutoff, oldest first.
func StalePendingIDs(db *sql.DB, cutoff int64) ([]string, error) {
	query := `
		SELECT id FROM suggestions
		WHERE status = ? AND created_at < ?
		ORDER BY created_at ASC
	`

	rows, err := db.Query(query, string(memory.StatusPending), cutoff)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.NewInternal(err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return ids, nil
}

// CountSessionSuggestions counts every suggestion ever created in a
// session, regardless of current status. The session cap is on
// creation, not on what is still pending.
func CountSessionSuggestions(db *sql.DB, sessionID string) (int, error) {
	var count int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM suggestions WHERE session_id = ?`, sessionID,
	).Scan(&count)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return count, nil
}

// GetSetting returns a setting value. The second return is false if the
// key has never been written.
func GetSetting(db *sql.DB, key string) (string, bool, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.NewInternal(err)
	}
	return value, true, nil
}

// SetSetting writes a setting value, inserting or replacing.
func SetSetting(db *sql.DB, key, value string) error {
	query := `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := db.Exec(query, key, value, time.Now().Unix()); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// AllSettings returns every persisted setting.
func AllSettings(db *sql.DB) (map[string]string, error) {
	rows, err := db.Query(`SELECT key, value FROM settings`)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, errors.NewInternal(err)
		}
		settings[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return settings, nil
}

// DeleteSettingsPrefix removes every setting whose key starts with the
// given prefix. Used by settings reset.
func DeleteSettingsPrefix(db *sql.DB, prefix string) (int, error) {
	result, err := db.Exec(`DELETE FROM settings WHERE key LIKE ? || '%'`, prefix)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return int(affected), nil
}

// CountSuggestionsByStatus returns counts per status, optionally
// restricted to a single category. Used by the insights op.
func CountSuggestionsByStatus(db *sql.DB, category string) (map[string]int, error) {
	query := `SELECT status, COUNT(*) FROM suggestions`
	var args []any
	if category != "" {
		query += ` WHERE category = ?`
		args = append(args, category)
	}
	query += ` GROUP BY status`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, errors.NewInternal(err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return counts, nil
}

// suggestionSelect is the shared column list for suggestion scans.
const suggestionSelect = `
	SELECT id, session_id, text, source_tool, project_id,
		category, confidence, fields_json, reason, status,
		created_at, decided_at, feedback_note
	FROM suggestions`

// scanner abstracts *sql.Row and *sql.Rows for scanSuggestion.
type scanner interface {
	Scan(dest ...any) error
}

// scanSuggestion scans a suggestion row.
func scanSuggestion(row scanner) (*memory.Suggestion, error) {
	var s memory.Suggestion
	var cat, status string
	var fieldsJSON, sourceTool, projectID, reason, feedbackNote sql.NullString
	var decidedAt sql.NullInt64

	err := row.Scan(
		&s.ID, &s.SessionID, &s.Text, &sourceTool, &projectID,
		&cat, &s.Confidence, &fieldsJSON, &reason, &status,
		&s.CreatedAt, &decidedAt, &feedbackNote,
	)
	if err != nil {
		return nil, err
	}

	s.Category = memory.Category(cat)
	s.Status = memory.Status(status)
	s.SourceTool = sourceTool.String
	s.ProjectID = projectID.String
	s.Reason = reason.String
	if decidedAt.Valid {
		s.DecidedAt = &decidedAt.Int64
	}
	if feedbackNote.Valid {
		s.FeedbackNote = &feedbackNote.String
	}
	if s.Fields, err = unmarshalFields(fieldsJSON); err != nil {
		return nil, err
	}

	return &s, nil
}

// marshalFields converts an extracted-fields map to nullable JSON.
func marshalFields(fields map[string]any) (sql.NullString, error) {
	if len(fields) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// unmarshalFields converts nullable JSON back to an extracted-fields map.
func unmarshalFields(fieldsJSON sql.NullString) (map[string]any, error) {
	if !fieldsJSON.Valid {
		return nil, nil
	}
	var fields map[string]any
	if err := json.Unmarshal([]byte(fieldsJSON.String), &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// toNullString converts an empty string to SQL NULL.
func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// toNullStringPtr converts a nil pointer to SQL NULL.
func toNullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
