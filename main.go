package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/campushub/campushub/api"
	"github.com/campushub/campushub/cache"
	"github.com/campushub/campushub/config"
	"github.com/campushub/campushub/middleware"
	"github.com/campushub/campushub/utils"
)

func main() {
	cfg := config.Load()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	db, err := utils.ConnectMongo(cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 10*time.Second)
	if err := utils.EnsureUserIndexes(indexCtx, db.Database(cfg.DBName).Collection("users")); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}
	cancelIndex()

	// Redis is optional; run uncached when it is not reachable.
	var cacheClient cache.Cache
	if cfg.RedisURL != "" {
		cacheClient, err = cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			log.Printf("Warning: Failed to connect to Redis (%v). Continuing without cache.", err)
			cacheClient = nil
		} else {
			log.Println("Connected to Redis cache")
		}
	}

	// S3 is optional; uploads land on local disk without a bucket.
	var fileStore *utils.S3Store
	if cfg.AWSBucketName != "" {
		fileStore, err = utils.NewS3Store(context.Background(), cfg.AWSRegion, cfg.AWSBucketName)
		if err != nil {
			log.Fatalf("Failed to initialize S3: %v", err)
		}
	}

	mailer := utils.NewMailer(cfg.SendGridAPIKey, cfg.SenderName, cfg.SenderEmail)

	a := api.New(cfg, db, cacheClient, mailer, fileStore)

	authLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitAuthRPS), cfg.RateLimitAuthBurst)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "API Working")
	})

	// Auth routes
	mux.HandleFunc("POST /api/auth/register", a.CORS(authLimiter.Limit(a.Register)))
	mux.HandleFunc("POST /api/auth/login", a.CORS(authLimiter.Limit(a.Login)))
	mux.HandleFunc("POST /api/auth/logout", a.CORS(a.Logout))
	mux.HandleFunc("POST /api/auth/send-verify-otp", a.CORS(authLimiter.Limit(a.RequireAuth(a.SendVerifyOTP))))
	mux.HandleFunc("POST /api/auth/verify-account", a.CORS(authLimiter.Limit(a.RequireAuth(a.VerifyAccount))))
	mux.HandleFunc("GET /api/auth/is-auth", a.CORS(a.RequireAuth(a.IsAuth)))
	mux.HandleFunc("POST /api/auth/send-reset-otp", a.CORS(authLimiter.Limit(a.SendResetOTP)))
	mux.HandleFunc("POST /api/auth/reset-password", a.CORS(authLimiter.Limit(a.ResetPassword)))

	// User routes
	mux.HandleFunc("GET /api/user/data", a.CORS(a.RequireAuth(a.UserData)))

	// Event routes
	mux.HandleFunc("GET /api/events", a.CORS(a.ListEvents))
	mux.HandleFunc("POST /api/events", a.CORS(a.RequireAuth(a.CreateEvent)))
	mux.HandleFunc("PUT /api/events/{id}", a.CORS(a.RequireAuth(a.UpdateEvent)))
	mux.HandleFunc("DELETE /api/events/{id}", a.CORS(a.RequireAuth(a.DeleteEvent)))

	// Notes routes
	mux.HandleFunc("POST /api/notes/upload", a.CORS(a.RequireAuth(a.UploadNote)))
	mux.HandleFunc("GET /api/notes", a.CORS(a.ListNotes))
	mux.HandleFunc("GET /api/notes/subjects", a.CORS(a.ListSubjects))

	// Video analysis routes
	mux.HandleFunc("POST /api/video/upload", a.CORS(a.RequireAuth(a.AnalyzeVideo)))
	mux.HandleFunc("GET /api/video/analyses", a.CORS(a.RequireAuth(a.ListAnalyses)))

	// Serve locally stored uploads
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))

	// OPTIONS preflight for any API path
	mux.HandleFunc("OPTIONS /api/", a.CORS(func(w http.ResponseWriter, r *http.Request) {}))

	handler := utils.LatencyMiddleware(mux)

	log.Printf("Server starting on port %s...", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
