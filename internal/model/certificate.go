package model

import "time"

// swagger:model Certificate
// 每个 (user, course) 至多一张证书，完成课程后按需签发
type Certificate struct {
	ID       string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID   string    `gorm:"type:varchar(36);uniqueIndex:idx_user_course_cert;not null" json:"userId"`
	CourseID string    `gorm:"type:varchar(36);uniqueIndex:idx_user_course_cert;not null" json:"courseId"`
	SerialNo string    `gorm:"size:64;unique;not null" json:"serialNo"`
	FileURL  string    `gorm:"size:512" json:"fileUrl"`
	IssuedAt time.Time `json:"issuedAt"`
}

func (Certificate) TableName() string {
	return "certificates"
}
