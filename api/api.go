package api

import (
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/campushub/campushub/cache"
	"github.com/campushub/campushub/config"
	"github.com/campushub/campushub/utils"
)

// API bundles the handlers' dependencies. Configuration is injected at
// startup instead of read from package globals.
type API struct {
	cfg    *config.Config
	db     *mongo.Client
	cache  cache.Cache // nil disables caching
	mailer *utils.Mailer
	files  *utils.S3Store // nil stores uploads on local disk
}

func New(cfg *config.Config, db *mongo.Client, c cache.Cache, mailer *utils.Mailer, files *utils.S3Store) *API {
	return &API{cfg: cfg, db: db, cache: c, mailer: mailer, files: files}
}

func (a *API) collection(name string) *mongo.Collection {
	return a.db.Database(a.cfg.DBName).Collection(name)
}

// CORS applies the configured origin allow-list with credentials enabled.
func (a *API) CORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		for _, allowed := range a.cfg.AllowedOrigins {
			if origin == allowed {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With, Accept")
				break
			}
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next(w, r)
	}
}

const authCookieName = "token"

func (a *API) setAuthCookie(w http.ResponseWriter, token string) {
	sameSite := http.SameSiteStrictMode
	if a.cfg.IsProduction() {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   a.cfg.IsProduction(),
		SameSite: sameSite,
		MaxAge:   a.cfg.JWTTTLHours * 3600,
	})
}

func (a *API) clearAuthCookie(w http.ResponseWriter) {
	sameSite := http.SameSiteStrictMode
	if a.cfg.IsProduction() {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   a.cfg.IsProduction(),
		SameSite: sameSite,
		MaxAge:   -1,
	})
}

func (a *API) tokenTTL() time.Duration {
	return time.Duration(a.cfg.JWTTTLHours) * time.Hour
}
