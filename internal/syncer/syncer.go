// Package syncer pulls meeting documents from Granola and writes them
// into the vault as Markdown notes.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"sync/atomic"
	"time"

	"github.com/starford/mannaz/internal/apperr"
	"github.com/starford/mannaz/internal/granola"
	"github.com/starford/mannaz/internal/note"
	"github.com/starford/mannaz/internal/people"
	"github.com/starford/mannaz/internal/storage"
)

// Fetcher retrieves documents from the Granola API.
type Fetcher interface {
	FetchDocuments(ctx context.Context) ([]granola.Document, error)
}

// Indexer brings a newly written note into the search index.
type Indexer interface {
	IndexFile(path string, data []byte) error
}

// NotifyFunc publishes a sync lifecycle event. data may be nil.
type NotifyFunc func(event string, data map[string]any)

// Config holds the sync target settings.
type Config struct {
	// Folder is the vault-relative output folder for synced notes.
	Folder string
	// Org is the company name linked from the org frontmatter field.
	Org string
	// PipeAliases renders people as [[Name|email]] instead of [[email]].
	PipeAliases bool
	// Notify, when set, receives sync.started, note.synced, and
	// sync.completed events.
	Notify NotifyFunc
}

// Result summarizes one sync pass.
type Result struct {
	Total   int `json:"total"`
	Synced  int `json:"synced"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Syncer runs sync passes. At most one pass runs at a time; a second
// concurrent call fails with apperr.ErrSyncRunning.
type Syncer struct {
	fetcher Fetcher
	store   storage.Provider
	indexer Indexer
	names   *people.NameMap
	logger  *slog.Logger
	cfg     Config

	running atomic.Bool
}

// New creates a Syncer. indexer may be nil when no index is attached.
func New(fetcher Fetcher, store storage.Provider, indexer Indexer, names *people.NameMap, logger *slog.Logger, cfg Config) *Syncer {
	if cfg.Folder == "" {
		cfg.Folder = "Granola"
	}
	return &Syncer{
		fetcher: fetcher,
		store:   store,
		indexer: indexer,
		names:   names,
		logger:  logger,
		cfg:     cfg,
	}
}

// Sync runs one sync pass. An authentication failure aborts the pass
// and is returned; any other fetch failure degrades to an empty result
// with a warning. Per-document failures are counted and logged, never
// fatal. Notes whose target file already exists are skipped.
func (s *Syncer) Sync(ctx context.Context) (Result, error) {
	if !s.running.CompareAndSwap(false, true) {
		return Result{}, apperr.ErrSyncRunning
	}
	defer s.running.Store(false)

	s.notify("sync.started", nil)

	docs, err := s.fetcher.FetchDocuments(ctx)
	if err != nil {
		if errors.Is(err, apperr.ErrAuthentication) {
			s.logger.Error("sync: authentication failed", slog.String("error", err.Error()))
			return Result{}, err
		}
		s.logger.Warn("sync: fetch failed, skipping pass", slog.String("error", err.Error()))
		s.notify("sync.completed", map[string]any{"total": 0, "synced": 0, "failed": 0})
		return Result{}, nil
	}

	res := Result{Total: len(docs)}
	if len(docs) == 0 {
		s.logger.Info("sync: no documents")
		s.notify("sync.completed", map[string]any{"total": 0, "synced": 0, "failed": 0})
		return res, nil
	}

	if err := s.store.EnsureDir(s.cfg.Folder); err != nil {
		return res, fmt.Errorf("syncer: ensure output folder: %w", err)
	}

	for _, doc := range docs {
		relPath, err := s.processDocument(doc)
		switch {
		case errors.Is(err, apperr.ErrAlreadyExists):
			res.Skipped++
			s.logger.Debug("sync: note exists, skipping", slog.String("path", relPath))
		case err != nil:
			res.Failed++
			s.logger.Error("sync: document failed",
				slog.String("id", doc.ID),
				slog.String("title", doc.Title),
				slog.String("error", err.Error()))
		default:
			res.Synced++
			s.notify("note.synced", map[string]any{"path": relPath, "id": doc.ID})
		}
	}

	s.logger.Info("sync: completed",
		slog.Int("total", res.Total),
		slog.Int("synced", res.Synced),
		slog.Int("skipped", res.Skipped),
		slog.Int("failed", res.Failed))
	s.notify("sync.completed", map[string]any{
		"total":  res.Total,
		"synced": res.Synced,
		"failed": res.Failed,
	})
	return res, nil
}

// processDocument converts one document to Markdown and writes it. It
// returns the vault-relative note path along with any error; on an
// existing target it returns the path with apperr.ErrAlreadyExists.
func (s *Syncer) processDocument(doc granola.Document) (string, error) {
	id := doc.ID
	if id == "" {
		id = "unknown_id"
	}
	createdAt := doc.CreatedAt
	if createdAt == "" {
		createdAt = time.Now().UTC().Format(time.RFC3339)
	}

	// The note title is the date-prefixed document title. It names the
	// file and lands verbatim in the frontmatter title field.
	title := doc.Title
	if title == "" {
		title = "Untitled Granola Note"
	}
	title = datePrefix(createdAt) + " " + title

	if doc.LastViewedPanel == nil || doc.LastViewedPanel.Content == nil ||
		doc.LastViewedPanel.Content.Type != "doc" {
		return "", fmt.Errorf("document %s: %w", id, apperr.ErrNoContent)
	}
	body := granola.Render(doc.LastViewedPanel.Content)

	persons := s.resolveAttendees(doc)

	fm := note.Frontmatter(title, createdAt, s.cfg.Org, persons, s.cfg.PipeAliases, id)

	filename := note.SanitizeFilename(title + ".md")
	relPath := path.Join(s.cfg.Folder, filename)

	exists, err := s.store.Exists(relPath)
	if err != nil {
		return relPath, fmt.Errorf("syncer: stat %s: %w", relPath, err)
	}
	if exists {
		return relPath, apperr.ErrAlreadyExists
	}

	data := []byte(fm + body)
	if err := s.store.Write(relPath, data); err != nil {
		return relPath, fmt.Errorf("syncer: write %s: %w", relPath, err)
	}

	if s.indexer != nil {
		if err := s.indexer.IndexFile(relPath, data); err != nil {
			s.logger.Warn("sync: index failed", slog.String("path", relPath), slog.String("error", err.Error()))
		}
	}
	return relPath, nil
}

// resolveAttendees extracts participants and maps emails to display names.
func (s *Syncer) resolveAttendees(doc granola.Document) []note.Person {
	contacts := granola.ExtractAttendees(doc.Raw)
	if len(contacts) == 0 {
		return nil
	}
	persons := make([]note.Person, len(contacts))
	for i, c := range contacts {
		persons[i] = note.Person{Email: c.Email, DisplayName: s.names.Resolve(c.Email)}
	}
	return persons
}

// datePrefix derives the YYYY-MM-DD filename prefix from a created_at
// timestamp, in UTC. An unparsable timestamp falls back to today.
func datePrefix(createdAt string) string {
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		t = time.Now()
	}
	return t.UTC().Format("2006-01-02")
}

func (s *Syncer) notify(event string, data map[string]any) {
	if s.cfg.Notify != nil {
		s.cfg.Notify(event, data)
	}
}
