package main

import (
	"fmt"
	"log"

	"timetable/internal/config"
	"timetable/internal/handlers"
	"timetable/internal/models"
	"timetable/internal/repository"
	"timetable/internal/services"
	"timetable/pkg/database"

	"github.com/gin-gonic/gin"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Подключаемся к базе данных
	db, err := database.NewDatabase(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Создаем администратора по умолчанию
	if err := db.EnsureDefaultAdmin(cfg.DefaultAdminPassword); err != nil {
		log.Printf("Failed to create default admin: %v", err)
	}

	// Создаем репозитории
	userRepo := repository.NewUserRepository(db.DB)
	subjectRepo := repository.NewSubjectRepository(db.DB)
	settingsRepo := repository.NewSettingsRepository(db.DB)
	timetableRepo := repository.NewTimetableRepository(db.DB)

	// Создаем сервисы
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiration)
	userService := services.NewUserService(userRepo, subjectRepo)
	schoolService := services.NewSchoolService(subjectRepo, settingsRepo)
	resolverService := services.NewResolverService(userRepo, subjectRepo)
	timetableService := services.NewTimetableService(timetableRepo, userRepo, resolverService)
	viewStateService := services.NewViewStateService(cfg.ViewStateTTL)

	// Создаем обработчики
	authHandler := handlers.NewAuthHandler(authService, viewStateService)
	adminHandler := handlers.NewAdminHandler(userService, schoolService)
	timetableHandler := handlers.NewTimetableHandler(timetableService, resolverService, schoolService, viewStateService)
	lookupHandler := handlers.NewLookupHandler(userService, timetableService)

	router := gin.Default()

	// Middleware
	router.Use(handlers.CORSMiddleware())

	// API маршруты
	api := router.Group("/api")

	// Публичные маршруты
	public := api.Group("/public")
	{
		public.POST("/auth/login", authHandler.Login)
		public.POST("/auth/logout", authHandler.Logout)
	}

	// Защищенные маршруты (требуют авторизации)
	protected := api.Group("/")
	protected.Use(handlers.AuthMiddleware(authService))
	{
		protected.GET("/profile", authHandler.Profile)

		// Недельное расписание текущего пользователя
		protected.GET("/timetable", timetableHandler.WeekView)
		protected.POST("/timetable/navigate", timetableHandler.Navigate)
	}

	// Маршруты для сотрудников и администраторов
	staff := api.Group("/staff")
	staff.Use(handlers.AuthMiddleware(authService))
	staff.Use(handlers.RequireRoles(models.RoleStaff, models.RoleAdmin))
	{
		staff.PUT("/timetable/:id/note", timetableHandler.SetNote)
		staff.GET("/timetable/:id/note", timetableHandler.GetNote)

		// Проекции для форм
		staff.GET("/lookup/users/:id/subjects", lookupHandler.SubjectsForUser)
		staff.GET("/lookup/subjects/:id/users", lookupHandler.UsersForSubject)
		staff.GET("/lookup/year-groups/:year_group/students", lookupHandler.StudentsInYearGroup)
		staff.GET("/lookup/entries/:id", lookupHandler.EntryDetail)
		staff.GET("/lookup/entries/:id/assignees", lookupHandler.EntryAssignees)
	}

	// Маршруты только для администраторов
	admin := api.Group("/admin")
	admin.Use(handlers.AuthMiddleware(authService))
	admin.Use(handlers.RequireRoles(models.RoleAdmin))
	{
		// Управление пользователями
		admin.POST("/users", adminHandler.CreateUser)
		admin.GET("/users", adminHandler.ListUsers)
		admin.DELETE("/users/:id", adminHandler.DeleteUser)
		admin.PUT("/users/:id/password", adminHandler.ChangePassword)

		// Предметы и кабинеты
		admin.POST("/subjects", adminHandler.CreateSubject)
		admin.GET("/subjects", adminHandler.ListSubjects)
		admin.DELETE("/subjects/:id", adminHandler.DeleteSubject)
		admin.POST("/rooms", adminHandler.CreateRoom)
		admin.GET("/rooms", adminHandler.ListRooms)
		admin.DELETE("/rooms/:id", adminHandler.DeleteRoom)

		// Составы предметов
		admin.POST("/assigned-subjects", adminHandler.AssignSubject)
		admin.DELETE("/assigned-subjects", adminHandler.UnassignSubject)

		// Настройки
		admin.GET("/settings", adminHandler.GetSettings)
		admin.PUT("/settings", adminHandler.UpdateSettings)

		// Расписание
		admin.GET("/timetable", timetableHandler.SelectionView)
		admin.POST("/timetable", timetableHandler.AddEntry)
		admin.PUT("/timetable/:id", timetableHandler.EditEntry)
		admin.DELETE("/timetable/:id", timetableHandler.DeleteEntry)
		admin.DELETE("/timetable/:id/assignees/:user_id", timetableHandler.DeleteEntryForUser)
		admin.PUT("/timetable/:id/assignees", timetableHandler.UpdateAssignees)

		// Выходные дни
		admin.POST("/free-days", timetableHandler.SetFreeDay)
		admin.PUT("/free-days/:id", timetableHandler.EditFreeDay)
	}

	// Запускаем сервер
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	log.Printf("Starting timetable server on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
