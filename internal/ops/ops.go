package ops

import (
	"crypto/rand"
	"database/sql"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/mnemo/internal/config"
	"github.com/hpungsan/mnemo/internal/dedup"
	"github.com/hpungsan/mnemo/internal/errors"
	"github.com/hpungsan/mnemo/internal/memory"
	"github.com/hpungsan/mnemo/internal/suggest"
)

// Env bundles the shared dependencies every operation needs: the
// database, the application config, the persisted engine settings, the
// suggestion lifecycle manager, and the duplicate filter.
type Env struct {
	DB          *sql.DB
	Cfg         *config.Config
	Settings    *config.Store
	Suggestions *suggest.Manager
	Filter      *dedup.Filter
}

// NewEnv wires an Env with the default duplicate scorer.
func NewEnv(database *sql.DB, cfg *config.Config, settings *config.Store) *Env {
	return &Env{
		DB:          database,
		Cfg:         cfg,
		Settings:    settings,
		Suggestions: suggest.NewManager(database, settings),
		Filter:      dedup.NewFilter(nil),
	}
}

// buildSample validates and assembles the analysis input shared by the
// analyze and suggest operations.
func buildSample(text, sourceTool, projectID, sessionID string) (memory.Sample, error) {
	if strings.TrimSpace(text) == "" {
		return memory.Sample{}, errors.NewInvalidRequest("text is required")
	}
	if strings.TrimSpace(sessionID) == "" {
		return memory.Sample{}, errors.NewInvalidRequest("session_id is required")
	}

	return memory.Sample{
		Text:       text,
		SourceTool: strings.TrimSpace(sourceTool),
		ProjectID:  strings.TrimSpace(projectID),
		SessionID:  strings.TrimSpace(sessionID),
	}, nil
}

// generateULID generates a new ULID.
func generateULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
