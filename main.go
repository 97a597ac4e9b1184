package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"shopadmin/internal/audit"
	"shopadmin/internal/auth"
	"shopadmin/internal/cache"
	"shopadmin/internal/config"
	api "shopadmin/internal/http"
	"shopadmin/internal/http/handlers"
	"shopadmin/internal/repositories"
	"shopadmin/internal/services"
	"shopadmin/internal/telemetry"
	"shopadmin/internal/utils"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/singleflight"
)

func main() {
	env, err := config.LoadEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	log, closeLog, err := utils.NewLogger(utils.LoggerOptions{
		Service: env.ServiceName,
		Env:     env.AppEnv,
		Level:   env.LogLevel,
		Format:  env.LogFormat,
		File:    env.LogFile,
	})
	if err != nil {
		slog.Error("logger setup failed", "error", err)
		os.Exit(2)
	}

	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	} else if !env.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	stopTracing, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName:  env.ServiceName,
		Environment:  env.AppEnv,
		OTLPEndpoint: env.OTLPEndpoint,
		Stdout:       env.OTelStdout,
	})
	if err != nil {
		log.Error("telemetry setup failed", "error", err)
		os.Exit(1)
	}

	db, err := config.OpenDB(env, log)
	if err != nil {
		log.Error("database setup failed", "error", err)
		os.Exit(1)
	}

	var store cache.Store = cache.Noop{}
	var redisCache *cache.Cache
	if env.RedisAddr != "" {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		redisCache, err = cache.Connect(pingCtx, cache.Config{RedisAddr: env.RedisAddr, Prefix: env.ServiceName + ":", TTL: env.CacheTTL})
		cancel()
		if err != nil {
			log.Warn("redis unavailable, product cache disabled", "error", err)
		} else {
			store = redisCache
			log.Info("redis connected", "addr", env.RedisAddr)
		}
	}

	var publisher audit.Publisher = audit.LogPublisher{Log: log}
	var natsPub *audit.NATSPublisher
	if env.NATSURL != "" {
		natsPub, err = audit.Connect(env.NATSURL, env.AuditSubject)
		if err != nil {
			log.Warn("nats unavailable, audit events go to the log", "error", err)
		} else {
			publisher = natsPub
			log.Info("nats connected", "url", env.NATSURL, "subject", env.AuditSubject)
			if env.IsDevelopment() {
				if _, err := audit.Subscribe(natsPub.Conn(), env.AuditSubject, log, func(ev audit.Event) {
					log.Debug("audit event", "action", ev.Action, "entity", ev.Entity, "entity_id", ev.EntityID, "actor_id", ev.ActorID)
				}); err != nil {
					log.Warn("audit tail subscription failed", "error", err)
				}
			}
		}
	}
	recorder := audit.NewRecorder(publisher, log)

	tokens := auth.NewTokenManager(auth.TokenConfig{Secret: env.JWTSecret, TTL: env.JWTTTL, Issuer: env.JWTIssuer})
	hasher := auth.NewPasswordHasher(bcrypt.DefaultCost)

	userRepo := repositories.UserRepository{DB: db}
	categoryRepo := repositories.CategoryRepository{DB: db}
	productRepo := repositories.ProductRepository{DB: db}
	cartRepo := repositories.CartRepository{DB: db}

	carts := services.CartService{Carts: cartRepo, Products: productRepo, Users: userRepo, Audit: recorder, Log: log}
	hd := handlers.New(&handlers.Handlers{
		DB:         db,
		Auth:       services.AuthService{Users: userRepo, Hasher: hasher, Tokens: tokens, Audit: recorder, Log: log},
		Users:      services.UserService{Users: userRepo, Hasher: hasher, Audit: recorder, Log: log},
		Categories: services.CategoryService{Categories: categoryRepo, Products: productRepo, Audit: recorder, Log: log},
		Products: services.ProductService{
			Products:   productRepo,
			Categories: categoryRepo,
			Cache:      store,
			Flight:     &singleflight.Group{},
			Audit:      recorder,
			Log:        log,
		},
		Carts:      carts,
		Invoices:   services.InvoiceService{Carts: carts, Log: log},
		Paging:     handlers.Paging{DefaultSize: env.PageSizeDefault, MaxSize: env.PageSizeMax},
		Log:        log,
		Cache:      redisCache,
	})

	r := api.NewRouter(api.Options{
		Handlers:       hd,
		Tokens:         tokens,
		Log:            log,
		AllowedOrigins: env.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           telemetry.Handler(r, env.ServiceName),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server listening", "addr", env.AppAddr, "env", env.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	wait := gfshutdown.GracefulShutdown(ctx, env.ShutdownTTL, map[string]gfshutdown.Operation{
		"shopadmin": func(ctx context.Context) error {
			log.Info("shutting down")
			// stop accepting requests before closing what they depend on
			errs := []error{srv.Shutdown(ctx)}
			if natsPub != nil {
				errs = append(errs, natsPub.Close(ctx))
			}
			if redisCache != nil {
				errs = append(errs, redisCache.Close())
			}
			errs = append(errs, config.CloseDB(db), stopTracing(ctx))
			return errors.Join(errs...)
		},
	})

	exitCode := <-wait
	log.Info("server stopped", "exit_code", exitCode)
	_ = closeLog()
	os.Exit(exitCode)
}
