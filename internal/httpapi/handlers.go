package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/DoyleJ11/netlobby-backend/internal/engine"
	"github.com/DoyleJ11/netlobby-backend/internal/hub"
	"github.com/DoyleJ11/netlobby-backend/internal/lobby"
	"github.com/DoyleJ11/netlobby-backend/internal/random"
	"github.com/DoyleJ11/netlobby-backend/internal/session"
)

const codeLength = 6

// replyTimeout bounds how long a handler waits on a lobby loop.
const replyTimeout = 2 * time.Second

// HostFactory builds the host for a new lobby code.
type HostFactory func(ctx context.Context, code string) (*session.Host, error)

type lobbyResponse struct {
	Code           string       `json:"code"`
	Version        int          `json:"version"`
	Clients        int          `json:"clients"`
	Active         bool         `json:"active"`
	CampaignActive bool         `json:"campaign_active"`
	State          engine.State `json:"state"`
}

func GenerateCode(h *hub.Hub) (string, error) {
	for {
		c, err := random.Code(codeLength)
		if err != nil {
			return "", err
		}
		if findLobby(h, c) == nil {
			return c, nil
		}
	}
}

// CreateLobby hosts a new lobby. A code query parameter rehosts that code
// with its persisted settings.
func CreateLobby(h *hub.Hub, newHost HostFactory, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			c, err := GenerateCode(h)
			if err != nil {
				http.Error(w, "failed to generate code", http.StatusInternalServerError)
				return
			}
			code = c
		} else if findLobby(h, code) != nil {
			http.Error(w, "lobby already exists", http.StatusConflict)
			return
		}

		host, err := newHost(r.Context(), code)
		if err != nil {
			log.Error("lobby bootstrap failed", zap.String("lobby", code), zap.Error(err))
			if errors.Is(err, engine.ErrConfiguration) {
				http.Error(w, err.Error(), http.StatusServiceUnavailable)
				return
			}
			http.Error(w, "failed to create lobby", http.StatusInternalServerError)
			return
		}

		reply := make(chan *lobby.Lobby, 1)
		h.Inbox() <- hub.CreateLobby{Code: code, Host: host, Reply: reply}
		lb := <-reply
		if lb == nil {
			http.Error(w, "failed to create lobby", http.StatusInternalServerError)
			return
		}
		lb.Inbox() <- lobby.Activate{}

		writeJSON(w, http.StatusCreated, struct {
			Code string `json:"code"`
		}{Code: code})
	}
}

func GetLobby(h *hub.Hub) http.HandlerFunc {
	return withLobby(h, func(w http.ResponseWriter, r *http.Request, code string, lb *lobby.Lobby) {
		respondView(w, r, code, lb)
	})
}

func DeleteLobby(h *hub.Hub) http.HandlerFunc {
	return withLobby(h, func(w http.ResponseWriter, r *http.Request, code string, lb *lobby.Lobby) {
		h.Inbox() <- hub.RemoveLobby{Code: code}
		w.WriteHeader(http.StatusNoContent)
	})
}

func SelectLobby(h *hub.Hub) http.HandlerFunc {
	return withLobby(h, func(w http.ResponseWriter, r *http.Request, code string, lb *lobby.Lobby) {
		lb.Inbox() <- lobby.Activate{}
		respondView(w, r, code, lb)
	})
}

func DeselectLobby(h *hub.Hub) http.HandlerFunc {
	return withLobby(h, func(w http.ResponseWriter, r *http.Request, code string, lb *lobby.Lobby) {
		lb.Inbox() <- lobby.Deactivate{}
		respondView(w, r, code, lb)
	})
}

// StartRound rerolls the lobby settings and hands the host over to the round.
// A round cannot start without a submarine and mode to play.
func StartRound(h *hub.Hub) http.HandlerFunc {
	return withLobby(h, func(w http.ResponseWriter, r *http.Request, code string, lb *lobby.Lobby) {
		reply := make(chan error, 1)
		lb.Inbox() <- lobby.Randomize{Reply: reply}
		err, ok := await(r.Context(), reply)
		if !ok {
			http.Error(w, "lobby did not respond", http.StatusGatewayTimeout)
			return
		}
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, engine.ErrConfiguration) {
				status = http.StatusConflict
			}
			http.Error(w, err.Error(), status)
			return
		}
		lb.Inbox() <- lobby.Deactivate{}
		respondView(w, r, code, lb)
	})
}

func StartCampaign(h *hub.Hub) http.HandlerFunc {
	return withLobby(h, func(w http.ResponseWriter, r *http.Request, code string, lb *lobby.Lobby) {
		reply := make(chan error, 1)
		lb.Inbox() <- lobby.StartCampaign{Reply: reply}
		err, ok := await(r.Context(), reply)
		if !ok {
			http.Error(w, "lobby did not respond", http.StatusGatewayTimeout)
			return
		}
		if errors.Is(err, session.ErrCampaignRunning) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		respondView(w, r, code, lb)
	})
}

func EndCampaign(h *hub.Hub) http.HandlerFunc {
	return withLobby(h, func(w http.ResponseWriter, r *http.Request, code string, lb *lobby.Lobby) {
		lb.Inbox() <- lobby.EndCampaign{}
		respondView(w, r, code, lb)
	})
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func withLobby(h *hub.Hub, fn func(http.ResponseWriter, *http.Request, string, *lobby.Lobby)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		lb := findLobby(h, code)
		if lb == nil {
			http.Error(w, "lobby not found", http.StatusNotFound)
			return
		}
		fn(w, r, code, lb)
	}
}

func findLobby(h *hub.Hub, code string) *lobby.Lobby {
	reply := make(chan *lobby.Lobby, 1)
	h.Inbox() <- hub.GetLobby{Code: code, Reply: reply}
	return <-reply
}

func respondView(w http.ResponseWriter, r *http.Request, code string, lb *lobby.Lobby) {
	reply := make(chan lobby.View, 1)
	lb.Inbox() <- lobby.GetState{Reply: reply}
	v, ok := await(r.Context(), reply)
	if !ok {
		http.Error(w, "lobby did not respond", http.StatusGatewayTimeout)
		return
	}
	writeJSON(w, http.StatusOK, lobbyResponse{
		Code:           code,
		Version:        v.Version,
		Clients:        v.NumClients,
		Active:         v.Active,
		CampaignActive: v.CampaignActive,
		State:          v.State,
	})
}

func await[T any](ctx context.Context, ch <-chan T) (T, bool) {
	ctx, cancel := context.WithTimeout(ctx, replyTimeout)
	defer cancel()
	select {
	case v := <-ch:
		return v, true
	case <-ctx.Done():
		var zero T
		return zero, false
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
