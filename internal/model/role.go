package model

// swagger:model Role
type Role struct {
	UUIDBase
	Name        string       `gorm:"size:100;unique;not null" json:"name"`
	Description string       `gorm:"size:255" json:"description"`
	Permissions []Permission `gorm:"many2many:role_permissions" json:"permissions,omitempty"`
}

func (Role) TableName() string {
	return "roles"
}

// swagger:model Permission
type Permission struct {
	UUIDBase
	Code        string `gorm:"size:100;unique;not null" json:"code"` // 如 course:write
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
}

func (Permission) TableName() string {
	return "permissions"
}
