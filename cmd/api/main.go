package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/winsim/wheel-backend/api/routes"
	"github.com/winsim/wheel-backend/internal/config"
	"github.com/winsim/wheel-backend/internal/handlers"
	"github.com/winsim/wheel-backend/internal/realtime"
	"github.com/winsim/wheel-backend/internal/repositories"
	mongorepo "github.com/winsim/wheel-backend/internal/repositories/mongodb"
	"github.com/winsim/wheel-backend/internal/services"
	mongodb "github.com/winsim/wheel-backend/pkg/mongodb"
)

func main() {
	// A local .env is convenient in development; in deployment the variables
	// come from the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err = mongoClient.Disconnect(context.Background()); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	// The unique indexes are what back name uniqueness and slug uniqueness,
	// so failing to create them is fatal.
	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelIndex()
	if err := mongorepo.EnsureWheelIndexes(indexCtx, db); err != nil {
		log.Fatalf("Failed to create wheel indexes: %v", err)
	}
	if err := mongorepo.EnsureParticipantIndexes(indexCtx, db); err != nil {
		log.Fatalf("Failed to create participant indexes: %v", err)
	}
	if err := mongorepo.EnsureHostIndexes(indexCtx, db); err != nil {
		log.Fatalf("Failed to create host indexes: %v", err)
	}

	// Initialize repositories
	var wheelRepo repositories.WheelRepository = mongorepo.NewWheelRepository(db)
	var participantRepo repositories.ParticipantRepository = mongorepo.NewParticipantRepository(db)
	var hostRepo repositories.HostRepository = mongorepo.NewHostRepository(db)

	// Realtime hub for per-wheel fan-out
	hub := realtime.NewHub()
	go hub.Run()

	// Initialize services
	tolerance := time.Duration(cfg.Spin.ToleranceSeconds) * time.Second
	authService := services.NewAuthService(hostRepo, cfg)
	wheelService := services.NewWheelService(wheelRepo, participantRepo, hub)
	participantService := services.NewParticipantService(wheelRepo, participantRepo, hub)
	spinService := services.NewSpinService(wheelRepo, participantRepo, hub, tolerance)

	// Initialize handlers
	handlerDeps := routes.HandlerDependencies{
		AuthHandler:  handlers.NewAuthHandler(authService),
		WheelHandler: handlers.NewWheelHandler(wheelService, participantService),
		SpinHandler:  handlers.NewSpinHandler(spinService, wheelService),
		CronHandler:  handlers.NewCronHandler(spinService),
		WSHandler:    handlers.NewWSHandler(hub, wheelService),
	}

	router := routes.SetupRouter(cfg, handlerDeps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	log.Printf("Server starting on port %s", cfg.Server.Port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	log.Println("Server exiting")
}
