package model

type CourseType string

const (
	CourseFree CourseType = "free"
	CoursePaid CourseType = "paid"
)

// swagger:model Course
type Course struct {
	UUIDBase
	Title        string     `gorm:"size:255;not null" json:"title"`
	Type         CourseType `gorm:"size:10;default:'free'" json:"type"`
	Duration     int        `gorm:"default:0" json:"duration"`
	DurationUnit string     `gorm:"size:20;default:'hours'" json:"durationUnit"` // hours, days, weeks
	Detail       string     `gorm:"type:text" json:"detail"`
	ImageURL     string     `gorm:"size:512" json:"imageUrl"`
	VideoURL     string     `gorm:"size:512" json:"videoUrl"`
	IsActive     bool       `gorm:"default:true" json:"isActive"`
	CreatedBy    string     `gorm:"type:varchar(36)" json:"createdBy"`
	UpdatedBy    string     `gorm:"type:varchar(36)" json:"updatedBy"`
	Tags         []Tag      `gorm:"many2many:course_tags" json:"tags,omitempty"`
	Lessons      []Lesson   `gorm:"foreignKey:CourseID" json:"lessons,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// swagger:model Tag
type Tag struct {
	UUIDBase
	Name string `gorm:"size:100;unique;not null" json:"name"`
}

func (Tag) TableName() string {
	return "tags"
}
