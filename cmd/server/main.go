package main

import (
	"log"
	"net/http"

	_ "tasklist/docs" // swagger docs

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"tasklist/internal/cache"
	"tasklist/internal/config"
	"tasklist/internal/handler"
	"tasklist/internal/middleware"
	"tasklist/internal/repository"
	"tasklist/internal/router"
	"tasklist/internal/service"
)

// @title Task List API
// @version 1.0
// @description Multi-tenant task-list service. Free accounts are capped at ten tasks; pro accounts are uncapped. The username header is the per-request credential on todo routes.
// @host localhost:8080
// @BasePath /
// @schemes http
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(echomw.RequestID())

	// The store is the only state: in-memory, empty at start, discarded at exit.
	store := repository.NewMemoryUserRepository()

	// Optional redis read cache; nil when REDIS_ADDR is unset.
	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize services
	userService := service.NewUserService(store, cacheClient)
	todoService := service.NewTodoService(store, cacheClient)

	// Initialize guards and handlers
	guards := middleware.NewGuards(userService, todoService)
	userHandler := handler.NewUserHandler(userService)
	todoHandler := handler.NewTodoHandler(todoService)

	// Register routes
	router.Register(e, cfg, store, guards, userHandler, todoHandler)

	swaggerHost := cfg.SwaggerHost
	if swaggerHost == "" {
		swaggerHost = "http://localhost:" + cfg.ServerPort
	}
	log.Printf("Swagger documentation available at: %s/swagger/index.html", swaggerHost)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
