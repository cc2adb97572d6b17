package database

import (
	"fmt"
	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
		cfg.Host,
		cfg.User,
		cfg.Password,
		cfg.DBName,
		cfg.Port,
		cfg.SSLMode,
		cfg.TimeZone,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	return db, nil
}

// Migrate 建表并写入默认数据，测试库也走同一入口
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Tag{},
		&model.Course{},
		&model.Lesson{},
		&model.Question{},
		&model.UserCourseResponse{},
		&model.UserLessonResponse{},
		&model.Certificate{},
		&model.Role{},
		&model.Permission{},
	)
	if err != nil {
		return err
	}

	seedDefaults(db)
	return nil
}

func seedDefaults(db *gorm.DB) {
	// 默认权限
	var permCount int64
	db.Model(&model.Permission{}).Count(&permCount)
	if permCount == 0 {
		defaultPermissions := []model.Permission{
			{Code: "course:read", Name: "课程查看", Description: "浏览课程与课时"},
			{Code: "course:write", Name: "课程管理", Description: "创建、编辑、下架课程"},
			{Code: "question:write", Name: "题目管理", Description: "维护课时测验题目"},
			{Code: "user:manage", Name: "用户管理", Description: "禁用账号、分配角色"},
			{Code: "certificate:issue", Name: "证书签发", Description: "查看与补发结业证书"},
		}
		for _, p := range defaultPermissions {
			db.Create(&p)
		}
	}

	// 默认角色
	var roleCount int64
	db.Model(&model.Role{}).Count(&roleCount)
	if roleCount == 0 {
		var allPerms []model.Permission
		db.Find(&allPerms)

		var readPerms []model.Permission
		db.Where("code = ?", "course:read").Find(&readPerms)

		db.Create(&model.Role{Name: "content_admin", Description: "内容管理员", Permissions: allPerms})
		db.Create(&model.Role{Name: "viewer", Description: "只读访问", Permissions: readPerms})
	}

	// 默认课程标签
	var tagCount int64
	db.Model(&model.Tag{}).Count(&tagCount)
	if tagCount == 0 {
		defaultTags := []model.Tag{
			{Name: "编程基础"},
			{Name: "数据结构"},
			{Name: "前端开发"},
			{Name: "后端开发"},
			{Name: "数据库"},
		}
		for _, t := range defaultTags {
			db.Create(&t)
		}
	}
}
