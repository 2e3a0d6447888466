package routes

import (
	"classhub/internal/adapters/http/handlers"
	"classhub/internal/adapters/http/middleware"
	"classhub/internal/adapters/persistence/repositories"
	"classhub/internal/config"
	"classhub/internal/core/services"
	"classhub/internal/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(
	app *fiber.App,
	db *gorm.DB,
	cfg *config.Config,
	revocations *jwt.RevocationSet,
	blobs services.BlobStore,
	notifier services.Notifier,
) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	courseRepo := repositories.NewCourseRepository(db)
	enrollmentRepo := repositories.NewEnrollmentRepository(db)
	lectureRepo := repositories.NewLectureRepository(db)
	homeworkRepo := repositories.NewHomeworkRepository(db)
	submissionRepo := repositories.NewSubmissionRepository(db)
	gradeRepo := repositories.NewGradeRepository(db)

	// Initialize services
	authz := services.NewAuthorizer(enrollmentRepo)
	authService := services.NewAuthService(userRepo, refreshTokenRepo, revocations, cfg, nil)
	courseService := services.NewCourseService(courseRepo, enrollmentRepo, userRepo, authz)
	lectureService := services.NewLectureService(lectureRepo, courseRepo, blobs, authz)
	homeworkService := services.NewHomeworkService(homeworkRepo, submissionRepo, courseRepo, blobs, notifier, authz, nil)
	gradingService := services.NewGradingService(gradeRepo, submissionRepo, homeworkRepo, courseRepo, notifier, authz, nil)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	courseHandler := handlers.NewCourseHandler(courseService)
	lectureHandler := handlers.NewLectureHandler(lectureService)
	homeworkHandler := handlers.NewHomeworkHandler(homeworkService)
	gradeHandler := handlers.NewGradeHandler(gradingService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.Check)

	// API v1 group
	apiV1 := app.Group("/api/v1")

	// Auth routes
	auth := apiV1.Group("/auth")
	auth.Post("/register", middleware.AuthRateLimiter(), authHandler.Register)
	auth.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	auth.Post("/refresh", authHandler.RefreshToken)
	auth.Post("/logout", middleware.AuthMiddleware(authService), authHandler.Logout)
	auth.Post("/logout-all", middleware.AuthMiddleware(authService), authHandler.LogoutAll)
	auth.Get("/me", middleware.AuthMiddleware(authService), authHandler.Me)

	// All routes below require authentication
	authed := apiV1.Group("", middleware.AuthMiddleware(authService))

	// Course routes
	courses := authed.Group("/courses")
	courses.Post("", middleware.TeacherOnly(), courseHandler.Create)
	courses.Get("", courseHandler.List)
	courses.Get("/:id", courseHandler.Get)
	courses.Put("/:id", middleware.TeacherOnly(), courseHandler.Update)
	courses.Delete("/:id", middleware.TeacherOnly(), courseHandler.Delete)

	// Enrollment routes
	courses.Post("/:id/enrollments", middleware.TeacherOnly(), courseHandler.Enroll)
	courses.Get("/:id/enrollments", middleware.TeacherOnly(), courseHandler.ListEnrollments)
	courses.Delete("/:id/enrollments/:userId", middleware.TeacherOnly(), courseHandler.Unenroll)

	// Lecture routes
	courses.Get("/:courseId/lectures", lectureHandler.ListByCourse)
	lectures := authed.Group("/lectures")
	lectures.Post("", middleware.TeacherOnly(), lectureHandler.Create)
	lectures.Get("/:id", lectureHandler.Get)
	lectures.Put("/:id", middleware.TeacherOnly(), lectureHandler.Update)
	lectures.Delete("/:id", middleware.TeacherOnly(), lectureHandler.Delete)
	lectures.Post("/:id/presentation", middleware.TeacherOnly(), middleware.UploadRateLimiter(), lectureHandler.UploadPresentation)
	lectures.Get("/:id/presentation", lectureHandler.DownloadPresentation)

	// Homework routes
	courses.Get("/:courseId/homework", homeworkHandler.ListByCourse)
	homework := authed.Group("/homework")
	homework.Post("", middleware.TeacherOnly(), homeworkHandler.Create)
	homework.Get("/:id", homeworkHandler.Get)
	homework.Put("/:id", middleware.TeacherOnly(), homeworkHandler.Update)
	homework.Post("/:id/submissions", middleware.UploadRateLimiter(), homeworkHandler.Submit)
	homework.Get("/:id/submissions", middleware.TeacherOnly(), homeworkHandler.ListSubmissions)
	homework.Get("/:id/submissions/mine", homeworkHandler.ListMySubmissions)
	homework.Post("/:id/recompute", middleware.TeacherOnly(), gradeHandler.RecomputeHomework)

	// Submission and grade routes
	submissions := authed.Group("/submissions")
	submissions.Get("/:id", homeworkHandler.GetSubmission)
	submissions.Get("/:id/attachment", homeworkHandler.DownloadAttachment)
	submissions.Post("/:id/grade", middleware.TeacherOnly(), gradeHandler.Grade)
	submissions.Post("/:id/recompute", middleware.TeacherOnly(), gradeHandler.Recompute)
	submissions.Get("/:id/grade", gradeHandler.Current)
	submissions.Get("/:id/grade/history", gradeHandler.History)
}
