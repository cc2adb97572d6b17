package app

import (
	"lms_backend/docs"
	"lms_backend/internal/config"
	"lms_backend/internal/middleware"
	"lms_backend/internal/model"

	"lms_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c, repos, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.Check)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.GET("/oauth/google", c.auth.GoogleAuthURL)
		public.GET("/oauth/google/callback", c.auth.GoogleCallback)

		// 课程目录对游客开放
		public.GET("/courses", middleware.TryAuthMiddleware(a.Config), c.course.ListCourses)
		public.GET("/courses/:id", middleware.TryAuthMiddleware(a.Config), c.course.GetCourse)
		public.GET("/lessons/:id", middleware.TryAuthMiddleware(a.Config), c.course.GetLesson)

		// 证书验真无需登录
		public.GET("/certificates/verify/:serial", c.certificate.Verify)
	}
}

func (a *App) registerStudentRoutes(authGroup *gin.RouterGroup, c *controllers) {
	// 个人资料
	authGroup.GET("/profile", c.auth.GetProfile)
	authGroup.PUT("/profile", c.user.UpdateProfile)
	authGroup.POST("/profile/avatar", c.user.UploadAvatar)

	// 报名
	authGroup.POST("/courses/:id/enroll", c.enrollment.Enroll)
	authGroup.GET("/courses/:id/enrollment", c.enrollment.GetEnrollment)

	// 课时测验
	authGroup.POST("/lessons/:id/quiz/start", c.quiz.Start)
	authGroup.GET("/lessons/:id/quiz", c.quiz.Current)
	authGroup.POST("/lessons/:id/quiz/answer", c.quiz.Answer)
	authGroup.POST("/lessons/:id/quiz/next", c.quiz.Next)
	authGroup.POST("/lessons/:id/quiz/restart", c.quiz.Restart)

	// 面板与证书
	authGroup.GET("/dashboard", c.dashboard.GetDashboard)
	authGroup.GET("/courses/:id/certificate", c.certificate.GetCourseCertificate)
	authGroup.GET("/certificates", c.certificate.ListMine)
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(
		middleware.AuthMiddleware(cfg),
		middleware.ActivityMiddleware(repos.user),
		middleware.RoleMiddleware(model.Admin),
	)
	{
		// 课程管理
		admin.POST("/courses", c.course.CreateCourse)
		admin.PUT("/courses/:id", c.course.UpdateCourse)
		admin.DELETE("/courses/:id", c.course.DeleteCourse)

		// 课时管理
		admin.POST("/courses/:id/lessons", c.course.CreateLesson)
		admin.PUT("/lessons/:id", c.course.UpdateLesson)
		admin.DELETE("/lessons/:id", c.course.DeleteLesson)
		admin.POST("/lessons/:id/media", c.course.UploadLessonMedia)

		// 题目管理
		admin.GET("/lessons/:id/questions", c.course.ListLessonQuestions)
		admin.POST("/lessons/:id/questions", c.course.CreateQuestion)
		admin.PUT("/questions/:id", c.course.UpdateQuestion)
		admin.DELETE("/questions/:id", c.course.DeleteQuestion)

		// 用户管理
		admin.GET("/users", c.user.ListUsers)
		admin.PUT("/users/:id/disabled", c.user.SetDisabled)
		admin.PUT("/users/:id/role", c.user.AssignAccessRole)

		// 角色权限
		admin.GET("/roles", c.role.ListRoles)
		admin.POST("/roles", c.role.CreateRole)
		admin.PUT("/roles/:id", c.role.UpdateRole)
		admin.DELETE("/roles/:id", c.role.DeleteRole)
		admin.GET("/permissions", c.role.ListPermissions)
	}
}
