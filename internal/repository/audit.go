package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campushq/campus-records/internal/models"
)

// recordAuditTx appends an audit entry inside an open transaction. Every
// mutating repository operation calls this so the data write and its audit
// entry commit or roll back together.
func recordAuditTx(tx *gorm.DB, sess models.Session, action, entityType, entityID string, details map[string]any) error {
	entry := models.AuditLogEntry{
		TenantID:   sess.TenantID,
		ActorID:    sess.UserID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
	}
	return tx.Create(&entry).Error
}

// AuditRepository reads and appends audit log entries. The public contract
// is append-only: there is no update or delete.
type AuditRepository struct {
	store *Store[models.AuditLogEntry, *models.AuditLogEntry]
	db    *gorm.DB
}

// NewAuditRepository creates an audit repository.
func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{
		store: NewStore[models.AuditLogEntry, *models.AuditLogEntry](db, "audit_log_entry"),
		db:    db,
	}
}

// Record appends one standalone entry (used outside recorded writes, e.g.
// failed logins).
func (r *AuditRepository) Record(ctx context.Context, tenantID, actorID uuid.UUID, action, entityType, entityID string, details map[string]any) error {
	entry := models.AuditLogEntry{
		TenantID:   tenantID,
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
	}
	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return translateStoreError(err)
	}
	return nil
}

// List returns audit entries for the session's tenant, newest first, with
// the same filter shape as every other collection.
func (r *AuditRepository) List(ctx context.Context, sess models.Session, opts ListOptions) (Page[*models.AuditLogEntry], error) {
	return r.store.List(ctx, sess, opts)
}

// Stats counts entries by outcome. Failure is a substring match on the
// action name; the activity dashboard depends on this rule.
func (r *AuditRepository) Stats(ctx context.Context, sess models.Session) (models.AuditStats, error) {
	if err := requireSession(sess); err != nil {
		return models.AuditStats{}, err
	}

	var total, failures int64
	base := r.db.WithContext(ctx).Model(&models.AuditLogEntry{}).
		Where("tenant_id = ?", sess.TenantID)
	if err := base.Count(&total).Error; err != nil {
		return models.AuditStats{}, translateStoreError(err)
	}
	// underscore escaped so the SQL match agrees with ClassifyAction's
	// literal "_failed" rule
	if err := r.db.WithContext(ctx).Model(&models.AuditLogEntry{}).
		Where("tenant_id = ?", sess.TenantID).
		Where(`action LIKE ? ESCAPE '\'`, `%\_failed%`).
		Count(&failures).Error; err != nil {
		return models.AuditStats{}, translateStoreError(err)
	}

	return models.AuditStats{
		Total:    total,
		Success:  total - failures,
		Failures: failures,
	}, nil
}
