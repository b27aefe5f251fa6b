package model

import "time"

// Resource is a catalog record for a document in the knowledge base.
// Chunks reference resources by ID; the catalog itself is maintained by the
// admin side of the site, this service only reads it.
type Resource struct {
	ID          string    `gorm:"primaryKey;size:64" json:"id"`
	Title       string    `gorm:"size:256;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	FileType    string    `gorm:"size:32" json:"file_type"`
	FileSize    int64     `json:"file_size"`
	Category    string    `gorm:"size:64;index" json:"category"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
