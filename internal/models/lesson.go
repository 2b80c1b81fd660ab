package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Lesson belongs to exactly one course. Position is a display ordering only;
// completion logic never depends on it.
type Lesson struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	CourseID uint   `json:"course_id" gorm:"not null;index" validate:"required"`
	Title    string `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	VideoURL string `json:"video_url" gorm:"not null;size:500" validate:"required,url"`
	Position int    `json:"position" gorm:"not null;default:0" validate:"min=0"`

	// ResourceLinks holds []ResourceLink as jsonb.
	ResourceLinks datatypes.JSON `json:"resource_links,omitempty" gorm:"type:jsonb"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

type ResourceLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

func (Lesson) TableName() string {
	return "lessons"
}
