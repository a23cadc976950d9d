package repository

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campushq/campus-records/internal/models"
)

// DefaultPageSize is the page size used when a list request does not name
// one.
const DefaultPageSize = 25

// Entity is implemented by every tenant-scoped record kind.
type Entity interface {
	GetID() uuid.UUID
	GetTenantID() uuid.UUID
	GetCreatedAt() time.Time
	// SearchFields returns the string fields matched by free-text
	// filtering. The backing store has no full-text search, so matching
	// happens here after the page is fetched.
	SearchFields() []string
}

// ListOptions is the common filter shape shared by every collection.
type ListOptions struct {
	// Search is matched case-insensitively as a substring over the
	// entity's SearchFields.
	Search string
	// Filters are exact-match column filters (role, status, action, ...).
	Filters map[string]any
	// CreatedFrom/CreatedTo bound the created_at column.
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
}

// Page is one page of results.
type Page[E any] struct {
	Items   []E  `json:"items"`
	HasMore bool `json:"has_more"`
}

// ApproximateHasMore is the pagination strategy: a page is presumed to
// have a successor whenever it came back full. With exactly limit matching
// rows this reports true even though the next page is empty. Known,
// intentional imprecision kept for compatibility; swap this function to
// move to exact cursors.
func ApproximateHasMore(returned, limit int) bool {
	return limit > 0 && returned == limit
}

var columnPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Store provides tenant-scoped access to one entity collection. T is the
// record struct, PT its pointer type. Every operation takes the acting
// session explicitly and scopes by its tenant.
type Store[T any, PT interface {
	*T
	Entity
}] struct {
	db         *gorm.DB
	entityType string
}

// NewStore creates a store for one collection. entityType names the
// collection in audit entries.
func NewStore[T any, PT interface {
	*T
	Entity
}](db *gorm.DB, entityType string) *Store[T, PT] {
	return &Store[T, PT]{db: db, entityType: entityType}
}

// EntityType returns the audit name of this collection.
func (s *Store[T, PT]) EntityType() string { return s.entityType }

// DB exposes the underlying handle for specialized stores built on top.
func (s *Store[T, PT]) DB() *gorm.DB { return s.db }

func requireSession(sess models.Session) error {
	if !sess.Authenticated() || sess.TenantID == uuid.Nil {
		return ErrPermission
	}
	return nil
}

// List returns one page of the collection, scoped to the session's tenant.
func (s *Store[T, PT]) List(ctx context.Context, sess models.Session, opts ListOptions) (Page[PT], error) {
	if err := requireSession(sess); err != nil {
		return Page[PT]{}, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}

	query := s.db.WithContext(ctx).
		Where("tenant_id = ?", sess.TenantID).
		Order("created_at DESC").
		Limit(limit)

	for col, val := range opts.Filters {
		if !columnPattern.MatchString(col) {
			return Page[PT]{}, NewValidationError(FieldError{Field: col, Message: "unknown filter"})
		}
		query = query.Where(fmt.Sprintf("%s = ?", col), val)
	}
	if opts.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *opts.CreatedFrom)
	}
	if opts.CreatedTo != nil {
		query = query.Where("created_at <= ?", *opts.CreatedTo)
	}

	var rows []T
	if err := query.Find(&rows).Error; err != nil {
		return Page[PT]{}, translateStoreError(err)
	}

	// hasMore is judged on the fetched page, before the client-side
	// substring filter is applied.
	hasMore := ApproximateHasMore(len(rows), limit)

	items := make([]PT, 0, len(rows))
	for i := range rows {
		item := PT(&rows[i])
		if opts.Search != "" && !matchesSearch(item, opts.Search) {
			continue
		}
		items = append(items, item)
	}
	SortByCreatedAtDesc(items)

	return Page[PT]{Items: items, HasMore: hasMore}, nil
}

// Get fetches one entity by id. A target owned by another tenant is a
// permission error, never a silent miss.
func (s *Store[T, PT]) Get(ctx context.Context, sess models.Session, id uuid.UUID) (PT, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}

	var row T
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, translateStoreError(err)
	}
	item := PT(&row)
	if item.GetTenantID() != sess.TenantID {
		return nil, ErrPermission
	}
	return item, nil
}

// Create inserts the entity and its audit entry as one recorded write: if
// the audit insert fails the data insert is rolled back with it.
func (s *Store[T, PT]) Create(ctx context.Context, sess models.Session, e PT, action string, details map[string]any) error {
	if err := requireSession(sess); err != nil {
		return err
	}
	if e.GetTenantID() != sess.TenantID {
		return ErrPermission
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(e).Error; err != nil {
			return err
		}
		return recordAuditTx(tx, sess, action, s.entityType, e.GetID().String(), details)
	})
	return translateStoreError(err)
}

// Update applies a read-modify-write inside one transaction, pairing the
// save with its audit entry. Concurrent updates are last-write-wins; no
// version field is checked.
func (s *Store[T, PT]) Update(ctx context.Context, sess models.Session, id uuid.UUID, action string, apply func(PT) error) (PT, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}

	var row T
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&row, "id = ?", id).Error; err != nil {
			return err
		}
		item := PT(&row)
		if item.GetTenantID() != sess.TenantID {
			return ErrPermission
		}
		if err := apply(item); err != nil {
			return err
		}
		if item.GetTenantID() != sess.TenantID {
			// a patch cannot move an entity across the isolation boundary
			return ErrPermission
		}
		if err := tx.Save(item).Error; err != nil {
			return err
		}
		return recordAuditTx(tx, sess, action, s.entityType, id.String(), nil)
	})
	if err != nil {
		return nil, translateStoreError(err)
	}
	return PT(&row), nil
}

// Delete hard-deletes the entity and records the deletion. Only
// collections whose contract allows hard deletes (student notes) expose
// this through their typed store; the caller boundary owns any
// confirmation step.
func (s *Store[T, PT]) Delete(ctx context.Context, sess models.Session, id uuid.UUID, action string) error {
	if err := requireSession(sess); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row T
		if err := tx.First(&row, "id = ?", id).Error; err != nil {
			return err
		}
		item := PT(&row)
		if item.GetTenantID() != sess.TenantID {
			return ErrPermission
		}
		if err := tx.Delete(&row).Error; err != nil {
			return err
		}
		return recordAuditTx(tx, sess, action, s.entityType, id.String(), nil)
	})
	return translateStoreError(err)
}

// matchesSearch reports whether any search field contains the term,
// case-insensitively.
func matchesSearch(e Entity, term string) bool {
	term = strings.ToLower(term)
	for _, f := range e.SearchFields() {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// SortByCreatedAtDesc stable-sorts items newest first. Stability preserves
// the store's insertion order for equal timestamps, which display code
// relies on.
func SortByCreatedAtDesc[E Entity](items []E) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].GetCreatedAt().After(items[j].GetCreatedAt())
	})
}
