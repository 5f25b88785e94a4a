package app

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"techwiz/internal/config"
	"techwiz/internal/handlers"
	"techwiz/internal/pdf"
	"techwiz/internal/repositories"
	"techwiz/internal/routes"
	"techwiz/internal/services"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	_ "techwiz/docs"
)

func Run() {
	cfg := config.LoadConfig()

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("Ошибка подключения к БД: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка закрытия БД: %v", err)
		}
	}()

	// === Redis (blacklist отозванных refresh-токенов) ===
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	pinRepo := repositories.NewPinRepository(db)
	studentRepo := repositories.NewStudentRepository(db)
	deviceRepo := repositories.NewDeviceTokenRepository(db)

	// === Services ===
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)

	secret := []byte(cfg.Auth.Secret)
	userService := services.NewUserService(userRepo)
	tokenService := services.NewTokenService(
		secret,
		cfg.Auth.AccessLifetime(),
		cfg.Auth.RefreshLifetime(),
		services.NewRedisBlacklist(rdb),
	)
	pinService := services.NewPinService(pinRepo, emailService, cfg.Auth.PinLifetime())
	resetService := services.NewResetService(
		secret,
		cfg.Auth.ResetMaxAge(),
		cfg.Auth.FrontendHostname,
		userService,
		emailService,
	)
	authService := services.NewAuthService(
		userService,
		pinService,
		tokenService,
		resetService,
		studentRepo,
		deviceRepo,
		&services.ParentChildrenListener{Students: studentRepo},
	)
	reportService := services.NewReportService(studentRepo)

	// уборка протухших пинов
	go pinJanitor(pinRepo)

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(authService, userService, pinService, tokenService, resetService, cfg.Debug)
	userHandler := handlers.NewUserHandler(userService, studentRepo, deviceRepo)
	reportHandler := handlers.NewReportHandler(reportService, pdf.NewReportCardGenerator())

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Роуты (JWT/RBAC — внутри SetupRoutes)
	routes.SetupRoutes(
		router,
		secret,
		authHandler,
		userHandler,
		reportHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Сервер запущен на %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Ошибка запуска сервера: ", err)
	}
}

// pinJanitor периодически удаляет просроченные пины. Просроченная запись
// и так не принимается, уборка чисто гигиеническая.
func pinJanitor(repo repositories.PinRepository) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for range ticker.C {
		n, err := repo.DeleteExpired(time.Now().Add(-24 * time.Hour))
		if err != nil {
			log.Printf("[pin][janitor] cleanup failed: %v", err)
			continue
		}
		if n > 0 {
			log.Printf("[pin][janitor] removed %d expired pins", n)
		}
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
