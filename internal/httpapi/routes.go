package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/DoyleJ11/netlobby-backend/internal/hub"
	"github.com/DoyleJ11/netlobby-backend/internal/ws"
)

func SetupRoutes(h *hub.Hub, newHost HostFactory, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Public routes
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h, log))

	r.Route("/lobbies", func(r chi.Router) {
		r.Post("/", CreateLobby(h, newHost, log))
		r.Get("/{code}", GetLobby(h))
		r.Delete("/{code}", DeleteLobby(h))
		r.Post("/{code}/select", SelectLobby(h))
		r.Post("/{code}/deselect", DeselectLobby(h))
		r.Post("/{code}/round", StartRound(h))
		r.Post("/{code}/campaign", StartCampaign(h))
		r.Delete("/{code}/campaign", EndCampaign(h))
	})
	return r
}
