package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	firebase "firebase.google.com/go"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/option"

	"illustraBack/internal/auth"
	"illustraBack/internal/commission"
	"illustraBack/internal/config"
	"illustraBack/internal/editor"
	"illustraBack/internal/handlers"
	"illustraBack/internal/models"
	"illustraBack/internal/repositories"
	"illustraBack/internal/storefront"
	"illustraBack/utils"
)

type application struct {
	errorLog *log.Logger
	infoLog  *log.Logger
	cfg      config.Config

	repo    repositories.DocumentRepository
	gateway *auth.Gateway

	itemsHandler      *handlers.ItemsHandler
	catalogHandler    *handlers.CatalogHandler
	commissionHandler *handlers.CommissionHandler
	adminHandler      *handlers.AdminHandler
	authHandler       *handlers.AuthHandler
	uploadHandler     *handlers.UploadHandler
}

// logger adapts the infoLog/errorLog pair to the modules' Logger interface.
type logger struct {
	info, err *log.Logger
}

func (l logger) Infof(format string, args ...interface{})  { l.info.Printf(format, args...) }
func (l logger) Errorf(format string, args ...interface{}) { l.err.Output(2, fmt.Sprintf(format, args...)) }

func initializeApp(ctx context.Context, cfg config.Config, errorLog, infoLog *log.Logger) (*application, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (*application, func(), error) {
		cleanup()
		return nil, nil, err
	}
	lg := logger{info: infoLog, err: errorLog}

	var fbApp *firebase.App
	if cfg.Firebase.ProjectID != "" {
		var opts []option.ClientOption
		if cfg.Firebase.CredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.Firebase.CredentialsFile))
		}
		a, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.Firebase.ProjectID}, opts...)
		if err != nil {
			return fail(fmt.Errorf("firebase app: %w", err))
		}
		fbApp = a
	}

	// Repositories
	repo, closeRepo, err := openRepository(ctx, cfg.Database, fbApp)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, closeRepo)

	// Services
	catalog := storefront.NewService(repo, cfg.Contacts, cfg.Shop)

	registry, err := editor.NewRegistry(cfg.Schemas)
	if err != nil {
		return fail(fmt.Errorf("schemas: %w", err))
	}

	tokens, err := utils.NewManager(cfg.Admin.JWTSecret)
	if err != nil {
		return fail(err)
	}
	authenticator, err := newAuthenticator(ctx, cfg, fbApp)
	if err != nil {
		return fail(err)
	}
	gateway := auth.NewGateway(authenticator, tokens, cfg.Admin.SessionTTL, lg)

	deps := commission.Deps{
		Dispatcher: &commission.EmailJSDispatcher{
			HTTPClient: &http.Client{Timeout: 10 * time.Second},
			Endpoint:   cfg.EmailJS.Endpoint,
			ServiceID:  cfg.EmailJS.ServiceID,
			PublicKey:  cfg.EmailJS.PublicKey,
			PrivateKey: cfg.EmailJS.PrivateKey,
		},
		Services:            catalog,
		Logger:              lg,
		OperatorEmail:       cfg.Contacts.Email,
		OperatorTemplateID:  cfg.EmailJS.OperatorTemplateID,
		RequesterTemplateID: cfg.EmailJS.RequesterTemplateID,
	}
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			errorLog.Printf("redis %s unavailable, commissions are not rate limited: %v", cfg.Redis.Addr, err)
			rdb.Close()
		} else {
			closers = append(closers, func() { rdb.Close() })
			deps.Limiter = commission.NewRedisLimiter(rdb, cfg.Redis.RateLimit, cfg.Redis.Window)
		}
	}
	if fbApp != nil && cfg.Firebase.OperatorTopic != "" {
		client, err := fbApp.Messaging(ctx)
		if err != nil {
			return fail(fmt.Errorf("firebase messaging: %w", err))
		}
		deps.Pusher = &commission.FCMPusher{Client: client, Topic: cfg.Firebase.OperatorTopic}
	}
	if deps.OperatorEmail == "" {
		return fail(fmt.Errorf("config: contacts.email is required for commission requests"))
	}
	flow, err := commission.NewFlow(deps)
	if err != nil {
		return fail(err)
	}

	// Handlers
	app := &application{
		errorLog: errorLog,
		infoLog:  infoLog,
		cfg:      cfg,
		repo:     repo,
		gateway:  gateway,

		itemsHandler:      &handlers.ItemsHandler{Repo: repo, Collection: models.CollectionItems, ErrorLog: errorLog},
		catalogHandler:    &handlers.CatalogHandler{Service: catalog, Config: cfg, ErrorLog: errorLog},
		commissionHandler: &handlers.CommissionHandler{Flow: flow, ErrorLog: errorLog},
		adminHandler:      &handlers.AdminHandler{Registry: registry, Repo: repo, InfoLog: infoLog},
		authHandler:       &handlers.AuthHandler{Gateway: gateway},
	}

	if cfg.S3.Bucket != "" {
		uploader, err := utils.NewUploader(utils.StorageConfig{
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			Bucket:    cfg.S3.Bucket,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			PublicURL: cfg.S3.PublicURL,
		})
		if err != nil {
			return fail(err)
		}
		app.uploadHandler = &handlers.UploadHandler{Uploader: uploader, ErrorLog: errorLog}
	}

	return app, cleanup, nil
}

func openRepository(ctx context.Context, cfg config.DatabaseConfig, fbApp *firebase.App) (repositories.DocumentRepository, func(), error) {
	switch cfg.Driver {
	case "memory":
		return repositories.NewMemoryRepository(), func() {}, nil
	case "firestore":
		if fbApp == nil {
			return nil, nil, fmt.Errorf("firestore driver needs firebase.project_id")
		}
		client, err := fbApp.Firestore(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("firestore client: %w", err)
		}
		return repositories.NewFirestoreRepository(client), func() { client.Close() }, nil
	case "postgres", "mysql":
		dialect, err := repositories.DialectFor(cfg.Driver)
		if err != nil {
			return nil, nil, err
		}
		db, err := openDB(dialect.DriverName, cfg.URL)
		if err != nil {
			return nil, nil, err
		}
		repo := repositories.NewSQLRepository(db, dialect)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("ensure schema: %w", err)
		}
		return repo, func() { db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

func newAuthenticator(ctx context.Context, cfg config.Config, fbApp *firebase.App) (auth.Authenticator, error) {
	switch cfg.Admin.Provider {
	case "firebase":
		a := &auth.FirebaseAuthenticator{
			APIKey:     cfg.Firebase.APIKey,
			HTTPClient: &http.Client{Timeout: 10 * time.Second},
		}
		if fbApp != nil {
			client, err := fbApp.Auth(ctx)
			if err != nil {
				return nil, fmt.Errorf("firebase auth: %w", err)
			}
			a.Verifier = client
		}
		return a, nil
	default:
		return &auth.LocalAuthenticator{Email: cfg.Admin.Email, PasswordHash: cfg.Admin.PasswordHash}, nil
	}
}

func openDB(driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		log.Printf("Failed to open DB: %v", err)
		return nil, err
	}
	if err = db.Ping(); err != nil {
		log.Printf("Failed to ping DB: %v", err)
		db.Close()
		return nil, err
	}
	db.SetMaxIdleConns(10)
	log.Println("Successfully connected to database")
	return db, nil
}

func addSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
		w.Header().Set("Cross-Origin-Resource-Policy", "same-site")
		next.ServeHTTP(w, r)
	})
}
