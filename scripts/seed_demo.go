// 演示数据初始化脚本
//
// 建一门三课时的示例课程，每个课时带若干单选题，
// 另建一个管理员账号（admin@example.com / admin12345）。
//
// 用法: go run scripts/seed_demo.go

package main

import (
	"log"
	"os"

	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/pkg/database"
	"lms_backend/pkg/logger"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	logger.InitLogger(cfg.Server.Mode)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	// 管理员账号
	var adminCount int64
	db.Model(&model.User{}).Where("email = ?", "admin@example.com").Count(&adminCount)
	if adminCount == 0 {
		hash, _ := bcrypt.GenerateFromPassword([]byte("admin12345"), bcrypt.DefaultCost)
		db.Create(&model.User{
			Name:     "Admin",
			Email:    "admin@example.com",
			Password: string(hash),
			Role:     model.Admin,
			Provider: model.ProviderLocal,
		})
		log.Println("管理员账号已创建: admin@example.com")
	}

	var courseCount int64
	db.Model(&model.Course{}).Where("title = ?", "Go 语言入门").Count(&courseCount)
	if courseCount > 0 {
		log.Println("演示课程已存在，跳过")
		return
	}

	course := &model.Course{
		Title:        "Go 语言入门",
		Type:         model.CourseFree,
		Duration:     6,
		DurationUnit: "hours",
		Detail:       "从零开始的 Go 语言基础课程：语法、并发与工程实践。",
		IsActive:     true,
	}
	if err := db.Create(course).Error; err != nil {
		log.Fatalf("创建课程失败: %v", err)
	}

	lessons := []struct {
		title   string
		content string
		order   int
	}{
		{"基础语法", "变量、类型与控制流", 1},
		{"函数与方法", "函数、方法与接口", 2},
		{"并发编程", "goroutine 与 channel", 3},
	}

	questionSets := [][]model.Question{
		{
			{
				QuestionText: "Go 的短变量声明使用哪个符号？",
				Options: []model.QuestionOption{
					{Text: ":="}, {Text: "="}, {Text: "<-"}, {Text: "=="},
				},
				CorrectAnswer: ":=",
				Points:        1,
				OrderBy:       1,
				Explanation:   ":= 在函数内部声明并初始化变量。",
				IsActive:      true,
			},
			{
				QuestionText: "Go 源文件的第一条语句是什么？",
				Options: []model.QuestionOption{
					{Text: "package 声明"}, {Text: "import 声明"}, {Text: "func main"},
				},
				CorrectAnswer: "package 声明",
				Points:        1,
				OrderBy:       2,
				IsActive:      true,
			},
		},
		{
			{
				QuestionText: "以下哪项是 Go 的接口满足方式？",
				Options: []model.QuestionOption{
					{Text: "隐式实现"}, {Text: "implements 关键字"}, {Text: "继承"},
				},
				CorrectAnswer: "隐式实现",
				Points:        1,
				OrderBy:       1,
				IsActive:      true,
			},
		},
		{
			{
				QuestionText: "启动 goroutine 使用哪个关键字？",
				Options: []model.QuestionOption{
					{Text: "go"}, {Text: "async"}, {Text: "spawn"}, {Text: "thread"},
				},
				CorrectAnswer: "go",
				Points:        1,
				OrderBy:       1,
				IsActive:      true,
			},
			{
				QuestionText: "channel 的发送操作符是？",
				Options: []model.QuestionOption{
					{Text: "<-"}, {Text: "->"}, {Text: "<<"},
				},
				CorrectAnswer: "<-",
				Points:        2,
				OrderBy:       2,
				Explanation:   "ch <- v 发送，v := <-ch 接收。",
				IsActive:      true,
			},
		},
	}

	for i, l := range lessons {
		lesson := &model.Lesson{
			CourseID: course.ID,
			Title:    l.title,
			Content:  l.content,
			OrderBy:  l.order,
			IsActive: true,
		}
		if err := db.Create(lesson).Error; err != nil {
			log.Fatalf("创建课时失败: %v", err)
		}

		for _, q := range questionSets[i] {
			q.LessonID = lesson.ID
			q.CourseID = course.ID
			if err := db.Create(&q).Error; err != nil {
				log.Fatalf("创建题目失败: %v", err)
			}
		}
	}

	log.Println("演示数据初始化完成！")
}
