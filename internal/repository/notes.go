package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campushq/campus-records/internal/models"
)

// NoteRepository is the student-note store. Confidential notes live in the
// same collection as ordinary ones; is_confidential is a per-record flag
// returned to callers as a handling hint. Author-only visibility of
// confidential notes is enforced at the presentation boundary, not here;
// the data layer guarantees tenant scoping only. Hardening this would mean
// filtering by an explicit visibility set inside ListForStudent and Get,
// which would change observable behavior for existing callers.
type NoteRepository struct {
	store *Store[models.StudentNote, *models.StudentNote]
}

// NewNoteRepository creates a note repository.
func NewNoteRepository(db *gorm.DB) *NoteRepository {
	return &NoteRepository{
		store: NewStore[models.StudentNote, *models.StudentNote](db, "student_note"),
	}
}

// List returns one page of notes in the session's tenant.
func (r *NoteRepository) List(ctx context.Context, sess models.Session, opts ListOptions) (Page[*models.StudentNote], error) {
	return r.store.List(ctx, sess, opts)
}

// ListForStudent returns a student's notes. The requester's own notes are
// always included regardless of any confidentiality filter the caller
// layered on.
func (r *NoteRepository) ListForStudent(ctx context.Context, sess models.Session, studentID, requesterID uuid.UUID, opts ListOptions) (Page[*models.StudentNote], error) {
	if opts.Filters == nil {
		opts.Filters = map[string]any{}
	}
	opts.Filters["student_id"] = studentID

	page, err := r.store.List(ctx, sess, opts)
	if err != nil {
		return Page[*models.StudentNote]{}, err
	}

	// A confidentiality filter must never hide the requester's own notes.
	if _, filtered := opts.Filters["is_confidential"]; filtered {
		own, err := r.store.List(ctx, sess, ListOptions{
			Filters: map[string]any{"student_id": studentID, "author_id": requesterID},
			Limit:   opts.Limit,
		})
		if err != nil {
			return Page[*models.StudentNote]{}, err
		}
		page.Items = mergeNotes(page.Items, own.Items)
	}
	return page, nil
}

// Get fetches one note with tenant checking.
func (r *NoteRepository) Get(ctx context.Context, sess models.Session, id uuid.UUID) (*models.StudentNote, error) {
	return r.store.Get(ctx, sess, id)
}

// Create inserts a note and its note_created audit entry atomically.
func (r *NoteRepository) Create(ctx context.Context, sess models.Session, note *models.StudentNote) error {
	return r.store.Create(ctx, sess, note, models.ActionNoteCreated, map[string]any{
		"student_id":      note.StudentID.String(),
		"is_confidential": note.IsConfidential,
	})
}

// Update applies a patch under note_updated.
func (r *NoteRepository) Update(ctx context.Context, sess models.Session, id uuid.UUID, apply func(*models.StudentNote) error) (*models.StudentNote, error) {
	return r.store.Update(ctx, sess, id, models.ActionNoteUpdated, apply)
}

// Delete hard-deletes a note; there is no tombstone or undo. The explicit
// confirmation step belongs to the caller boundary.
func (r *NoteRepository) Delete(ctx context.Context, sess models.Session, id uuid.UUID) error {
	return r.store.Delete(ctx, sess, id, models.ActionNoteDeleted)
}

// mergeNotes unions two result sets by id, keeping newest-first order.
func mergeNotes(a, b []*models.StudentNote) []*models.StudentNote {
	seen := make(map[uuid.UUID]bool, len(a))
	merged := make([]*models.StudentNote, 0, len(a)+len(b))
	for _, n := range a {
		seen[n.ID] = true
		merged = append(merged, n)
	}
	for _, n := range b {
		if !seen[n.ID] {
			merged = append(merged, n)
		}
	}
	SortByCreatedAtDesc(merged)
	return merged
}
