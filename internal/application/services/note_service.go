package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/prodsmart/core/internal/domain/entities"
	"github.com/prodsmart/core/internal/infrastructure/logger"
	"github.com/prodsmart/core/internal/ports"
	storesync "github.com/prodsmart/core/internal/sync"
)

// NoteService handles rich-text notes. Content arrives as HTML from the
// editor widget and is sanitized before it is persisted; attachments are
// data-URL blobs and are kept only when their scheme is well formed.
type NoteService struct {
	store     ports.NoteStore
	bus       *storesync.Coordinator
	sanitizer *bluemonday.Policy
	logger    *logger.Logger
}

// NewNoteService creates a new note service
func NewNoteService(store ports.NoteStore, bus *storesync.Coordinator, logger *logger.Logger) *NoteService {
	return &NoteService{
		store:     store,
		bus:       bus,
		sanitizer: bluemonday.UGCPolicy(),
		logger:    logger,
	}
}

// ListNotes returns the collection in insertion order.
func (s *NoteService) ListNotes(ctx context.Context) ([]entities.Note, error) {
	notes, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load notes: %w", err)
	}
	return notes, nil
}

// SearchNotes filters notes by a case-insensitive query against title and
// content.
func (s *NoteService) SearchNotes(ctx context.Context, query string) ([]entities.Note, error) {
	notes, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load notes: %w", err)
	}
	matched := []entities.Note{}
	for _, n := range notes {
		if n.MatchesQuery(query) {
			matched = append(matched, n)
		}
	}
	return matched, nil
}

// CreateNote sanitizes and persists a note.
func (s *NoteService) CreateNote(ctx context.Context, req ports.CreateNoteRequest) (*entities.Note, error) {
	note := entities.Note{
		Title:       req.Title,
		Content:     s.sanitizer.Sanitize(req.Content),
		Attachments: validAttachments(req.Attachments),
	}

	created, err := s.store.Add(ctx, note)
	if err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	s.logger.Infow("Note created", "note_id", created.ID)
	s.bus.Publish(storesync.Event{Collection: entities.CollectionNotes, Op: storesync.OpAdd, ID: created.ID.String()})
	return created, nil
}

// UpdateNote applies a partial update, re-sanitizing patched content.
func (s *NoteService) UpdateNote(ctx context.Context, id uuid.UUID, patch ports.NotePatch) error {
	if patch.Content != nil {
		clean := s.sanitizer.Sanitize(*patch.Content)
		patch.Content = &clean
	}
	if patch.Attachments != nil {
		kept := validAttachments(*patch.Attachments)
		patch.Attachments = &kept
	}
	if err := s.store.Update(ctx, id, patch); err != nil {
		return err
	}
	s.bus.Publish(storesync.Event{Collection: entities.CollectionNotes, Op: storesync.OpUpdate, ID: id.String()})
	return nil
}

// DeleteNote removes a note.
func (s *NoteService) DeleteNote(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Remove(ctx, id); err != nil {
		return err
	}
	s.bus.Publish(storesync.Event{Collection: entities.CollectionNotes, Op: storesync.OpRemove, ID: id.String()})
	return nil
}

// ClearNotes empties the collection.
func (s *NoteService) ClearNotes(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear notes: %w", err)
	}
	s.bus.Publish(storesync.Event{Collection: entities.CollectionNotes, Op: storesync.OpClear})
	return nil
}

func validAttachments(in []entities.Attachment) []entities.Attachment {
	kept := []entities.Attachment{}
	for _, a := range in {
		if strings.HasPrefix(a.DataURL, "data:") {
			kept = append(kept, a)
		}
	}
	return kept
}
