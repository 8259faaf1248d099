package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sessionRecord is the persistence row; the aggregate itself travels as JSON
// so schema churn never touches state-machine logic.
type sessionRecord struct {
	ID        string `gorm:"primaryKey"`
	Data      []byte `gorm:"type:jsonb;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (sessionRecord) TableName() string {
	return "checkout_sessions"
}

// GormStore persists aggregates in Postgres.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if db == nil {
		return nil, fmt.Errorf("gorm connection required")
	}
	return &GormStore{db: db}, nil
}

func (g *GormStore) Get(ctx context.Context, id string) (*Session, error) {
	var record sessionRecord
	err := g.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading session %s: %w", id, err)
	}
	var stored Session
	if err := json.Unmarshal(record.Data, &stored); err != nil {
		return nil, fmt.Errorf("decoding session %s: %w", id, err)
	}
	return &stored, nil
}

func (g *GormStore) Put(ctx context.Context, session *Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encoding session %s: %w", session.ID, err)
	}
	record := sessionRecord{
		ID:        session.ID,
		Data:      raw,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}
	err = g.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).
		Create(&record).Error
	if err != nil {
		return fmt.Errorf("writing session %s: %w", session.ID, err)
	}
	return nil
}

func (g *GormStore) Remove(ctx context.Context, id string) error {
	if err := g.db.WithContext(ctx).Delete(&sessionRecord{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("removing session %s: %w", id, err)
	}
	return nil
}
