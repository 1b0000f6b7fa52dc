package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Neogulmanpassingby/2025fall-41class-team3/internal/auth"
	"github.com/Neogulmanpassingby/2025fall-41class-team3/internal/service"
	"github.com/Neogulmanpassingby/2025fall-41class-team3/pkg/health"
	"github.com/Neogulmanpassingby/2025fall-41class-team3/pkg/middleware"
)

// RouterDeps bundles everything the router needs.
type RouterDeps struct {
	Users      *service.UserService
	Policies   *service.PolicyService
	Reviews    *service.ReviewService
	Recommend  *service.RecommendService
	JWTManager *auth.JWTManager
	Health     *health.Handler
	CORS       middleware.CORSConfig
	Logger     *slog.Logger
}

// NewRouter creates a chi router with all server routes registered.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogging(deps.Logger))
	r.Use(middleware.Tracing("policyhub"))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.PrometheusMetrics("policyhub"))
	r.Use(middleware.CORS(deps.CORS))

	r.Get("/health/live", deps.Health.LivenessHandler())
	r.Get("/health/ready", deps.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	// Token validator bridging the middleware to the JWT manager.
	tokenValidator := func(token string) (*middleware.Claims, error) {
		claims, err := deps.JWTManager.ValidateAccessToken(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			UserID:   claims.UserID,
			Email:    claims.Email,
			Nickname: claims.Nickname,
		}, nil
	}
	requireAuth := middleware.Auth(tokenValidator)

	authHandler := NewAuthHandler(deps.Users, deps.Logger)
	policyHandler := NewPolicyHandler(deps.Policies, deps.Logger)
	reviewHandler := NewReviewHandler(deps.Reviews, deps.Logger)
	myPageHandler := NewMyPageHandler(deps.Users, deps.Logger)
	recommendHandler := NewRecommendHandler(deps.Recommend, deps.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.Get("/check-email", authHandler.CheckEmail)
			r.Get("/check-nickname", authHandler.CheckNickname)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/logout", authHandler.Logout)
			})
		})

		r.Route("/policies", func(r chi.Router) {
			r.Get("/popular", policyHandler.Popular)
			r.Get("/recent", policyHandler.Recent)

			r.Route("/{policyID}", func(r chi.Router) {
				r.Get("/", policyHandler.GetDetail)

				r.Route("/reviews", func(r chi.Router) {
					r.Get("/", reviewHandler.List)
					r.Get("/summary", reviewHandler.Summary)

					r.Group(func(r chi.Router) {
						r.Use(requireAuth)
						r.Post("/", reviewHandler.Submit)
						r.Get("/me", reviewHandler.GetMine)
						r.Patch("/me", reviewHandler.Update)
						r.Delete("/me", reviewHandler.Retract)
					})
				})
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/users/me", myPageHandler.GetProfile)
			r.Put("/users/me", myPageHandler.UpdateProfile)
			r.Get("/users/me/recommend-quota", recommendHandler.Quota)
			r.Get("/recommendations", recommendHandler.ForMe)
		})
	})

	return r
}
