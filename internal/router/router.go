package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	mem "pawlume-server/internal/adapters/storage/memory"
	mdb "pawlume-server/internal/adapters/storage/mongodb"
	"pawlume-server/internal/domain/adoptions"
	"pawlume-server/internal/domain/campaigns"
	"pawlume-server/internal/domain/pets"
	"pawlume-server/internal/domain/users"
	"pawlume-server/internal/metrics"
	"pawlume-server/internal/middleware"
	"pawlume-server/internal/ports/auth"
	"pawlume-server/internal/ports/payments"
)

type Options struct {
	AuthVerifier auth.TokenVerifier // nil => modo dev (X-Debug-User-Email)
	Payments     payments.Provider  // nil => sin pagos con tarjeta

	// Si viene, usa Mongo. Si no, in-memory (dev y tests).
	DB *mongo.Database

	Logger      *zerolog.Logger
	RateLimiter *middleware.RateLimiter // opcional
	Currency    string
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	mc := metrics.NewCollector()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if opts.Logger != nil {
		r.Use(middleware.Logging(*opts.Logger))
	}
	r.Use(mc.Middleware())

	var (
		usersRepo     users.Repository
		petsRepo      pets.Repository
		adoptionsRepo adoptions.Repository
		campaignsRepo campaigns.Repository
	)

	if opts.DB != nil {
		usersRepo = mdb.NewUsersRepo(opts.DB)
		petsRepo = mdb.NewPetsRepo(opts.DB)
		adoptionsRepo = mdb.NewAdoptionsRepo(opts.DB)
		campaignsRepo = mdb.NewCampaignsRepo(opts.DB)
	} else {
		usersRepo = mem.NewUsersRepo()
		petsRepo = mem.NewPetsRepo()
		adoptionsRepo = mem.NewAdoptionsRepo()
		campaignsRepo = mem.NewCampaignsRepo()
	}

	// Services por módulo
	usersSvc := users.NewService(usersRepo)
	petsSvc := pets.NewService(petsRepo)
	adoptionsSvc := adoptions.NewService(adoptionsRepo, petsSvc)
	campaignsSvc := campaigns.NewService(campaignsRepo, opts.Payments, opts.Currency)

	// AuthGate antes de cualquier handler de dominio; el rol se resuelve
	// contra el user store en cada request.
	r.Use(middleware.AuthContext(opts.AuthVerifier, usersSvc))
	if opts.RateLimiter != nil {
		r.Use(opts.RateLimiter.Middleware())
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", mc.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Rutas por módulo
	users.RegisterRoutes(r, usersSvc)
	pets.RegisterRoutes(r, petsSvc)
	adoptions.RegisterRoutes(r, adoptionsSvc, mc)
	campaigns.RegisterRoutes(r, campaignsSvc, mc)

	return r
}
