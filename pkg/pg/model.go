package pg

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Model is embedded by entities that get a server-assigned id and
// timestamps. Ids are UUIDv7 so they sort by creation time, which gives
// rows created in the same instant a deterministic order.
type Model struct {
	ID        string    `gorm:"primaryKey;type:varchar(36);column:id"`
	CreatedAt time.Time `gorm:"column:created_at;not null;index"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (m *Model) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		id, err := NewID()
		if err != nil {
			return err
		}
		m.ID = id
	}
	return nil
}

func NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
