package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Article is the canonical, query-ready representation of one knowledge-base
// topic. Rows are created and updated only by an admin-triggered reindex, which
// upserts by slug; they are never auto-deleted.
type Article struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Slug         string         `gorm:"size:128;not null;uniqueIndex" json:"slug"`
	Title        string         `gorm:"size:255;not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	Body         string         `gorm:"type:text;not null" json:"body,omitempty"`
	Category     string         `gorm:"size:64;index" json:"category"`
	AudienceTags datatypes.JSON `gorm:"column:audience_tags" json:"audience_tags"`
	SourceRef    string         `gorm:"size:255" json:"source_ref"`
	Published    bool           `gorm:"default:true;index" json:"published"`
	CreatedAt    time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null" json:"updated_at"`
}

func (Article) TableName() string {
	return "help_article"
}
