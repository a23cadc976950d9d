package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/campushq/campus-records/internal/middleware"
	"github.com/campushq/campus-records/internal/models"
	"github.com/campushq/campus-records/internal/repository"
)

// NoteStore is the slice of the note repository the handler needs.
type NoteStore interface {
	List(ctx context.Context, sess models.Session, opts repository.ListOptions) (repository.Page[*models.StudentNote], error)
	ListForStudent(ctx context.Context, sess models.Session, studentID, requesterID uuid.UUID, opts repository.ListOptions) (repository.Page[*models.StudentNote], error)
	Get(ctx context.Context, sess models.Session, id uuid.UUID) (*models.StudentNote, error)
	Create(ctx context.Context, sess models.Session, note *models.StudentNote) error
	Update(ctx context.Context, sess models.Session, id uuid.UUID, apply func(*models.StudentNote) error) (*models.StudentNote, error)
	Delete(ctx context.Context, sess models.Session, id uuid.UUID) error
}

type NoteHandler struct {
	notes NoteStore
}

func NewNoteHandler(notes NoteStore) *NoteHandler {
	return &NoteHandler{notes: notes}
}

var noteFilters = map[string]string{
	"priority":        "priority",
	"is_confidential": "is_confidential",
}

// List returns one page of notes in the acting tenant.
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSession(r.Context())

	page, err := h.notes.List(r.Context(), sess, parseListOptions(r, noteFilters))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// ListForStudent returns a student's notes. The requester's own notes are
// always present, whatever confidentiality filter was applied.
func (h *NoteHandler) ListForStudent(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSession(r.Context())

	studentID, err := uuid.Parse(chi.URLParam(r, "studentID"))
	if err != nil {
		http.Error(w, "Invalid student ID", http.StatusBadRequest)
		return
	}

	page, err := h.notes.ListForStudent(r.Context(), sess, studentID, sess.UserID, parseListOptions(r, noteFilters))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Get returns one note.
func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSession(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid note ID", http.StatusBadRequest)
		return
	}

	note, err := h.notes.Get(r.Context(), sess, id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// Create records a new note authored by the acting session.
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSession(r.Context())

	var req models.CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	priority := req.Priority
	if priority == "" {
		priority = models.NotePriorityMedium
	}
	note := &models.StudentNote{
		TenantID:       sess.TenantID,
		StudentID:      req.StudentID,
		AuthorID:       sess.UserID,
		Title:          req.Title,
		Content:        req.Content,
		IsConfidential: req.IsConfidential,
		Priority:       priority,
		Tags:           req.Tags,
	}
	if err := h.notes.Create(r.Context(), sess, note); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// Update patches a note.
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSession(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid note ID", http.StatusBadRequest)
		return
	}

	var req models.UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	note, err := h.notes.Update(r.Context(), sess, id, func(n *models.StudentNote) error {
		if req.Title != nil {
			n.Title = *req.Title
		}
		if req.Content != nil {
			n.Content = *req.Content
		}
		if req.IsConfidential != nil {
			n.IsConfidential = *req.IsConfidential
		}
		if req.Priority != nil {
			n.Priority = *req.Priority
		}
		if req.Tags != nil {
			n.Tags = req.Tags
		}
		return nil
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// Delete hard-deletes a note. The UI owns the confirmation dialog; there
// is no undo.
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSession(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid note ID", http.StatusBadRequest)
		return
	}

	if err := h.notes.Delete(r.Context(), sess, id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
