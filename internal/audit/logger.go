package audit

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/homefix/internal/models"
)

// Sink persists audit events.
type Sink interface {
	Log(ev Event) error
}

type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Log(ev Event) error {
	var metaJSON string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metaJSON = string(b)
		}
	}

	log := models.AuditLog{
		ActorEmail: ev.ActorEmail,
		ActorRole:  ev.ActorRole,
		Action:     ev.Action,
		Entity:     ev.Entity,
		EntityID:   ev.EntityID,
		Metadata:   metaJSON,
	}

	return l.db.Create(&log).Error
}

// PurgeOlderThan deletes entries created before cutoff.
func (l *Logger) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := l.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.AuditLog{})
	return res.RowsAffected, res.Error
}

type Filter struct {
	Action string
	Entity string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// Reader lists stored audit entries, newest first.
type Reader interface {
	List(ctx context.Context, f Filter) ([]models.AuditLog, int64, error)
}

func (l *Logger) List(ctx context.Context, f Filter) ([]models.AuditLog, int64, error) {
	q := l.db.WithContext(ctx).Model(&models.AuditLog{})

	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.Entity != "" {
		q = q.Where("entity = ?", f.Entity)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", *f.To)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := q.Session(&gorm.Session{}).Order("created_at DESC")
	if f.Limit > 0 {
		page = page.Limit(f.Limit).Offset(f.Offset)
	}

	var logs []models.AuditLog
	if err := page.Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

var (
	_ Sink   = (*Logger)(nil)
	_ Reader = (*Logger)(nil)
)
