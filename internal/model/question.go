package model

// QuestionOption 单个选项，文本在题目内唯一
type QuestionOption struct {
	Text     string `json:"text"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// swagger:model Question
// CorrectAnswer 按选项文本值匹配，必须与且仅与一个选项的 Text 相等
type Question struct {
	UUIDBase
	LessonID      string           `gorm:"type:varchar(36);index;not null" json:"lessonId"`
	CourseID      string           `gorm:"type:varchar(36);index;not null" json:"courseId"` // 冗余字段，完成上报时免去一次查询
	QuestionText  string           `gorm:"type:text;not null" json:"questionText"`
	Options       []QuestionOption `gorm:"serializer:json;type:json" json:"options"`
	CorrectAnswer string           `gorm:"size:512;not null" json:"-"`
	Points        int              `gorm:"default:1" json:"points"`
	OrderBy       int              `gorm:"default:0" json:"orderBy"`
	Explanation   string           `gorm:"type:text" json:"explanation,omitempty"`
	IsActive      bool             `gorm:"default:true" json:"isActive"`
}

func (Question) TableName() string {
	return "questions"
}
