package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"wms-backend/internal/actions"
	"wms-backend/internal/auth"
	"wms-backend/internal/config"
	"wms-backend/internal/dashboard"
	"wms-backend/internal/database"
	"wms-backend/internal/handlers"
	"wms-backend/internal/realtime"
	"wms-backend/internal/render"
	"wms-backend/internal/services"
	"wms-backend/internal/store"
	"wms-backend/internal/store/memstore"
	"wms-backend/internal/websocket"
)

func fatal(what string, err error, hints ...string) {
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Printf("❌ FATAL ERROR: %s", what)
	log.Printf("   Error: %v", err)
	if len(hints) > 0 {
		log.Println("   This is usually caused by:")
		for i, h := range hints {
			log.Printf("   %d. %s", i+1, h)
		}
	}
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Fatal(err)
}

func main() {
	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("🚀 WMS SERVER STARTING")
	log.Println("═══════════════════════════════════════════════════════════════════")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	log.Println("📂 Loading configuration...")
	cfg, err := config.Load(".")
	if err != nil {
		fatal("Invalid configuration", err,
			"DATABASE_URL missing while STORE_DRIVER is postgres",
			"APP_JWT_SECRET not set",
			"Malformed config.yaml")
	}
	log.Printf("✅ Configuration loaded (store: %s)", cfg.Database.Driver)

	broker := realtime.NewBroker()

	// Open the store
	var st store.Store
	switch cfg.Database.Driver {
	case config.StoreDriverMemory:
		log.Println("⚠️  Using in-memory store, data is lost on restart")
		st = memstore.New(broker)

	default:
		log.Println("🔌 Connecting to database...")
		db, err := database.Connect(cfg.Database.URL)
		if err != nil {
			fatal("Database connection failed", err,
				"Wrong DATABASE_URL format",
				"PostgreSQL service is down",
				"Network connectivity issue",
				"Invalid credentials")
		}
		defer db.Close()
		log.Println("✅ Database connection established")

		log.Println("🔄 Running database migrations...")
		if err := database.Migrate(db); err != nil {
			fatal("Database migrations failed", err)
		}
		log.Println("✅ Database migrations completed")

		st = database.NewPGStore(db)

		// Row changes from any process reach open pages through LISTEN/NOTIFY.
		go func() {
			if err := realtime.NewPGListener(cfg.Database.URL, broker).Run(ctx); err != nil {
				log.Printf("❌ Change listener stopped: %v (pages will not refresh live)", err)
			}
		}()
	}

	if cfg.Database.SeedDemoData {
		log.Println("🌱 Seeding database with demo data...")
		if err := database.SeedDemoData(ctx, st); err != nil {
			fatal("Demo data seeding failed", err)
		}
		log.Println("✅ Demo data ready")
	}

	// Initialize Firebase Cloud Messaging
	// Supports both file path and base64-encoded credentials (for cloud deployments)
	var pusher services.Pusher
	if cfg.Firebase.CredentialsBase64 != "" {
		fcmService, err := services.NewFCMServiceFromBase64(cfg.Firebase.CredentialsBase64)
		if err != nil {
			log.Printf("⚠️  Failed to initialize FCM from base64: %v (push notifications disabled)", err)
		} else {
			pusher = fcmService
			log.Println("✅ Firebase Cloud Messaging initialized from base64 credentials")
		}
	} else {
		fcmService, err := services.NewFCMService(cfg.Firebase.CredentialsFile)
		if err != nil {
			log.Printf("⚠️  Failed to initialize FCM from file: %v (push notifications disabled)", err)
		} else {
			pusher = fcmService
			log.Println("✅ Firebase Cloud Messaging initialized from file")
		}
	}

	// Staff invitations
	var inviter actions.Inviter
	if cfg.Postmark.ServerToken != "" {
		inviter = services.NewMailer(cfg.Postmark.ServerToken, cfg.Postmark.Sender, cfg.Server.PublicURL)
		log.Println("✅ Postmark invitations enabled")
	} else {
		log.Println("⚠️  POSTMARK_SERVER_TOKEN not set (staff invitation emails disabled)")
	}

	// Initialize WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()
	log.Println("✅ WebSocket hub started")

	renderer, err := render.New()
	if err != nil {
		fatal("Template parsing failed", err)
	}

	authService := auth.NewService(st, cfg.Session.JWTSecret, cfg.Session.TTL)
	notifier := services.NewDispatchNotifier(st, pusher, wsHub)
	acts := actions.New(st, notifier, inviter)
	pages := handlers.NewPages(dashboard.NewLoader(st), renderer)

	router := handlers.NewRouter(handlers.Deps{
		Store:          st,
		Auth:           authService,
		Actions:        acts,
		Pages:          pages,
		Hub:            wsHub,
		Broker:         broker,
		Session:        handlers.SessionSettings{Secure: cfg.Session.CookieSecure},
		AllowedOrigins: cfg.AllowedOrigins(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		log.Println("🛑 Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("❌ Graceful shutdown failed: %v", err)
		}
	}()

	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Printf("✅ SERVER READY on port %s", cfg.Server.Port)
	log.Printf("   🌐 Public URL: %s", cfg.Server.PublicURL)
	log.Println("═══════════════════════════════════════════════════════════════════")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fatal("Server failed", err)
	}
	log.Println("👋 Server stopped")
}
