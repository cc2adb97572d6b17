package model

// swagger:model Lesson
// OrderBy 在同一课程内定义全序，最大 OrderBy 的激活课时即"最后一课"
type Lesson struct {
	UUIDBase
	CourseID     string `gorm:"type:varchar(36);index;not null" json:"courseId"`
	Title        string `gorm:"size:255;not null" json:"title"`
	Content      string `gorm:"type:text" json:"content"`
	OrderBy      int    `gorm:"default:0" json:"orderBy"`
	VideoURL     string `gorm:"size:512" json:"videoUrl"`
	ThumbnailURL string `gorm:"size:512" json:"thumbnailUrl"`
	IsActive     bool   `gorm:"default:true" json:"isActive"`
	CreatedBy    string `gorm:"type:varchar(36)" json:"createdBy"`
	UpdatedBy    string `gorm:"type:varchar(36)" json:"updatedBy"`
}

func (Lesson) TableName() string {
	return "lessons"
}
