package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"audicob/internal/clients"
	"audicob/internal/config"
	"audicob/internal/repository"
	"audicob/internal/service"
	"audicob/internal/transport/auth"
	"audicob/internal/transport/rest"
	"audicob/internal/transport/websocket"
	"audicob/pkg/database/postgres"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system env or defaults")
	}

	// top-level context which we can cancel on shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cfg := config.Load()

	db := mustInitPostgres(cfg.Postgres)
	defer postgres.Close(db)

	redisClient := mustInitRedis(ctx, cfg.Redis)
	defer redisClient.Close()

	storageClient, err := clients.NewLocalStorage(cfg.ExportDir, cfg.FilesPublicPrefix, cfg.ExternalURL)
	if err != nil {
		log.Fatalf("storage init error: %v", err)
	}

	var s3Client *clients.S3Client
	if cfg.S3.Enabled {
		s3Client, err = clients.NewS3Client(ctx, clients.S3Config{
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			Bucket:          cfg.S3.Bucket,
			UseSSL:          cfg.S3.UseSSL,
			Region:          cfg.S3.Region,
			Prefix:          cfg.S3.Prefix,
		})
		if err != nil {
			log.Fatalf("s3 init error: %v", err)
		}
	}

	wsHub := websocket.NewHub()
	go wsHub.Run(ctx)
	wsClient := clients.NewWebSocketClient(wsHub)

	clientRepo := repository.NewClientRepository(db)
	debtRepo := repository.NewDebtRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	transitionRepo := repository.NewTransitionRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	creditLineRepo := repository.NewCreditLineRepository(db)
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewPersonalAccessTokenRepository(db)

	authorizer := service.NewAuthorizer(assignmentRepo, clientRepo)
	notificationSvc := service.NewNotificationService(notificationRepo, wsClient)

	debtSvc := service.NewDebtService(clientRepo, debtRepo, authorizer, cfg.Mora)
	moraSvc := service.NewMoraService(clientRepo, transitionRepo, authorizer, wsClient)
	paymentSvc := service.NewPaymentService(clientRepo, debtRepo, paymentRepo, authorizer, notificationSvc)
	worklistSvc := service.NewWorklistService(clientRepo, redisClient)
	statementSvc := service.NewStatementService(transactionRepo, authorizer, redisClient, s3Client, storageClient, wsClient)
	dashboardSvc := service.NewDashboardService(clientRepo, paymentRepo, debtRepo, authorizer)
	creditSvc := service.NewCreditService(clientRepo, creditLineRepo, authorizer, notificationSvc, cfg.Mora)
	advisorSvc := service.NewAdvisorService(assignmentRepo, clientRepo, userRepo, authorizer, notificationSvc)

	sanctumMiddleware := auth.SanctumMiddleware(tokenRepo, userRepo)

	handler := rest.NewHandler(
		debtSvc,
		moraSvc,
		paymentSvc,
		worklistSvc,
		statementSvc,
		dashboardSvc,
		notificationSvc,
		creditSvc,
		advisorSvc,
	)
	router := handler.InitRouter(sanctumMiddleware)

	// public root router: generated statement files and health stay open,
	// everything else requires a token
	root := chi.NewRouter()

	root.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	root.Get("/files/{file}", func(w http.ResponseWriter, r *http.Request) {
		file := chi.URLParam(r, "file")
		path := filepath.Join(storageClient.BaseDir, file)
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				http.NotFound(w, r)
				return
			}
			http.Error(w, "failed to access file", http.StatusInternalServerError)
			return
		}

		// prefer original filename in Content-Disposition (strip random prefix)
		orig := file
		if idx := strings.IndexByte(file, '_'); idx >= 0 {
			orig = file[idx+1:]
		}
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", orig))

		http.ServeFile(w, r, path)
	})

	// protected websocket endpoint; token arrives via query param on upgrade
	router.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		user, err := auth.GetUser(r.Context())
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		log.Printf("WS connected: user_id=%d", user.ID)
		wsHub.HandleWebSocket(w, r, user.ID)
	})

	// protected upload endpoint for supporting documents
	router.Post("/files/upload", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(10 << 20); err != nil { // 10 MB
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file required", http.StatusBadRequest)
			return
		}
		defer file.Close()

		buf := new(bytes.Buffer)
		if _, err := buf.ReadFrom(file); err != nil {
			http.Error(w, "failed to read file", http.StatusInternalServerError)
			return
		}

		saved, err := storageClient.Save(r.Context(), header.Filename, buf.Bytes())
		if err != nil {
			http.Error(w, "failed to save file", http.StatusInternalServerError)
			return
		}

		url := storageClient.GetURL(saved)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(fmt.Sprintf(`{"url":"%s","file":"%s"}`, url, saved)))
	})

	root.Mount("/", router)

	corsHandler := withCORS(root)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      corsHandler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Printf("HTTP server listening on :%s\n", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			srvErr <- err
			return
		}
		srvErr <- nil
	}()

	// delete exported statement files once the download window has passed
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := storageClient.CleanupOlderThan(30 * time.Minute); err != nil {
					log.Printf("storage cleanup error: %v", err)
				}
			}
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-srvErr:
		if err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}
	case sig := <-stop:
		log.Printf("Shutdown signal received: %v", sig)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server Shutdown error: %v", err)
		}

		cancel()

		postgres.Close(db)
		redisClient.Close()

		log.Println("Shutdown complete")
	}
}

func mustInitPostgres(cfg config.PostgresConfig) *sql.DB {
	db, err := postgres.NewPostgresConnection(postgres.ConnectionInfo{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.User,
		DBName:   cfg.DBName,
		SSLMode:  cfg.SSLMode,
		Password: cfg.Password,
	})
	if err != nil {
		log.Fatalf("postgres init error: %v", err)
	}
	return db
}

func mustInitRedis(ctx context.Context, cfg config.RedisConfig) *clients.RedisClient {
	client, err := clients.NewRedisClient(ctx, clients.RedisConfig{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		MaxRetries:  cfg.MaxRetries,
		DialTimeout: time.Duration(cfg.DialTimeout) * time.Second,
		Timeout:     time.Duration(cfg.Timeout) * time.Second,
		Prefix:      cfg.Prefix,
	})
	if err != nil {
		log.Fatalf("redis init error: %v", err)
	}
	return client
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")

			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
