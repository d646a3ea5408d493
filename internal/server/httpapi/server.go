// Package httpapi exposes the services over JSON/HTTP. The layer is thin:
// it decodes requests, delegates to a service, and maps the service error
// taxonomy onto status codes. No authorization decision lives here.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/VictoryTek/humidor-sub001/internal/logging"
	"github.com/VictoryTek/humidor-sub001/internal/server/services"
)

type Server struct {
	logger logging.Logger

	users        *services.UserService
	admin        *services.AdminService
	humidors     *services.HumidorService
	cigars       *services.CigarService
	shares       *services.ShareService
	publicShares *services.PublicShareService
	lists        *services.ListService
	brands       *services.BrandService
	images       *services.ImageService
}

func NewServer(
	logger logging.Logger,
	users *services.UserService,
	admin *services.AdminService,
	humidors *services.HumidorService,
	cigars *services.CigarService,
	shares *services.ShareService,
	publicShares *services.PublicShareService,
	lists *services.ListService,
	brands *services.BrandService,
	images *services.ImageService,
) *Server {
	return &Server{
		logger:       logger.With("module", "httpapi"),
		users:        users,
		admin:        admin,
		humidors:     humidors,
		cigars:       cigars,
		shares:       shares,
		publicShares: publicShares,
		lists:        lists,
		brands:       brands,
		images:       images,
	}
}

func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/logout", s.handleLogout)

		// anonymous share resolution carries no identity at all
		r.Get("/shared/humidors/{token}", s.handleResolvePublicShare)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Get("/me", s.handleMe)
			r.Put("/me", s.handleUpdateOwnProfile)
			r.Put("/me/password", s.handleChangeOwnPassword)

			r.Route("/admin", func(r chi.Router) {
				r.Post("/users", s.handleAdminCreateUser)
				r.Get("/users/{userID}", s.handleAdminGetUser)
				r.Put("/users/{userID}", s.handleAdminUpdateUser)
				r.Put("/users/{userID}/admin", s.handleAdminSetAdmin)
				r.Put("/users/{userID}/active", s.handleAdminSetActive)
				r.Put("/users/{userID}/password", s.handleAdminResetPassword)
				r.Post("/transfers", s.handleAdminTransfer)
			})

			r.Route("/humidors", func(r chi.Router) {
				r.Post("/", s.handleCreateHumidor)
				r.Get("/", s.handleListHumidors)
				r.Get("/shared", s.handleListSharedHumidors)
				r.Get("/{humidorID}", s.handleGetHumidor)
				r.Put("/{humidorID}", s.handleUpdateHumidor)
				r.Delete("/{humidorID}", s.handleDeleteHumidor)

				r.Post("/{humidorID}/image", s.handleHumidorImageUpload)
				r.Get("/{humidorID}/image", s.handleHumidorImageURL)

				r.Post("/{humidorID}/cigars", s.handleAddCigar)
				r.Get("/{humidorID}/cigars", s.handleListCigars)

				r.Post("/{humidorID}/shares", s.handleCreateShare)
				r.Get("/{humidorID}/shares", s.handleListShares)
				r.Put("/{humidorID}/shares/{userID}", s.handleUpdateShare)
				r.Delete("/{humidorID}/shares/{userID}", s.handleRevokeShare)

				r.Post("/{humidorID}/public-shares", s.handleIssuePublicShare)
				r.Get("/{humidorID}/public-shares", s.handleListPublicShares)
			})

			r.Route("/cigars", func(r chi.Router) {
				r.Get("/{cigarID}", s.handleGetCigar)
				r.Put("/{cigarID}", s.handleUpdateCigar)
				r.Delete("/{cigarID}", s.handleDeleteCigar)
				r.Post("/{cigarID}/move", s.handleMoveCigar)
				r.Post("/{cigarID}/image", s.handleCigarImageUpload)
				r.Get("/{cigarID}/image", s.handleCigarImageURL)
			})

			r.Delete("/public-shares/{tokenID}", s.handleRevokePublicShare)

			r.Route("/favorites", func(r chi.Router) {
				r.Get("/", s.handleListFavorites)
				r.Put("/{cigarID}", s.handleAddFavorite)
				r.Delete("/{cigarID}", s.handleRemoveFavorite)
			})
			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", s.handleListWishes)
				r.Put("/{cigarID}", s.handleAddWish)
				r.Delete("/{cigarID}", s.handleRemoveWish)
			})

			r.Route("/brands", func(r chi.Router) {
				r.Get("/", s.handleListBrands)
				r.Post("/", s.handleCreateBrand)
				r.Delete("/{brandID}", s.handleDeleteBrand)
			})
		})
	})

	return r
}
