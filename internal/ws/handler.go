package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DoyleJ11/netlobby-backend/internal/engine"
	"github.com/DoyleJ11/netlobby-backend/internal/hub"
	"github.com/DoyleJ11/netlobby-backend/internal/lobby"
	"github.com/DoyleJ11/netlobby-backend/internal/session"
	"github.com/DoyleJ11/netlobby-backend/internal/types"
)

var errUnknownType = errors.New("unknown type")

const writeTimeout = 3 * time.Second

// pingInterval paces keepalive pings. Reads carry no deadline, so a dead peer
// is only noticed through a failed ping.
var pingInterval = 30 * time.Second

func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		reply := make(chan *lobby.Lobby, 1)
		h.Inbox() <- hub.GetLobby{Code: code, Reply: reply}
		lb := <-reply
		if lb == nil {
			http.Error(w, "lobby not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			log.Debug("websocket accept failed", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan lobby.Snapshot, 8)
		clientID := uuid.NewString()
		clog := log.With(zap.String("lobby", code), zap.String("client_id", clientID))

		select {
		case lb.Inbox() <- lobby.Join{ClientID: clientID, Outbox: out}:
		case <-lb.Done():
			return
		}
		defer func() {
			select {
			case lb.Inbox() <- lobby.Leave{ClientID: clientID}:
			case <-lb.Done():
			}
		}()
		clog.Info("client joined")

		connCtx, connCancel := context.WithCancel(r.Context())
		defer connCancel()

		// Writer goroutine
		go func() {
			for snap := range out {
				msg := types.ServerMessage{Type: "StateSnapshot", Version: snap.Version, State: &snap.State}
				payload, _ := json.Marshal(msg)
				ctx, cancel := context.WithTimeout(connCtx, writeTimeout)
				err := conn.Write(ctx, websocket.MessageText, payload)
				cancel()
				if err != nil {
					clog.Debug("snapshot write failed", zap.Error(err))
				}
			}
			if connCtx.Err() != nil {
				return
			}
			// The lobby closed the outbox: the client lagged or the lobby shut
			// down. Either way it has to rejoin for a fresh snapshot.
			clog.Info("snapshot stream ended, closing connection")
			conn.Close(websocket.StatusTryAgainLater, "snapshot stream ended")
		}()

		go keepAlive(connCtx, conn, clog)

		// Reader loop
		for {
			_, data, err := conn.Read(connCtx)
			if err != nil {
				// Treat clean close/going-away as normal:
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					clog.Info("client left")
					return
				}
				clog.Debug("read failed", zap.Error(err))
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				writeError(r.Context(), conn, "bad json")
				continue
			}

			msg, err := toLobbyMsg(clientID, cm)
			if err != nil {
				writeError(r.Context(), conn, err.Error())
				continue
			}

			fc, ok := msg.(lobby.FromClient)
			if !ok {
				select {
				case lb.Inbox() <- msg:
				case <-lb.Done():
					return
				}
				continue
			}
			fc.Reply = make(chan error, 1)
			select {
			case lb.Inbox() <- fc:
			case <-lb.Done():
				return
			}
			select {
			case err := <-fc.Reply:
				if err != nil {
					writeError(r.Context(), conn, err.Error())
				}
			case <-lb.Done():
				return
			}
		}
	}
}

func keepAlive(ctx context.Context, conn *websocket.Conn, log *zap.Logger) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		pctx, cancel := context.WithTimeout(ctx, writeTimeout)
		err := conn.Ping(pctx)
		cancel()
		if err != nil {
			if ctx.Err() == nil {
				log.Info("ping failed, closing connection", zap.Error(err))
				conn.Close(websocket.StatusGoingAway, "ping timeout")
			}
			return
		}
	}
}

func writeError(ctx context.Context, conn *websocket.Conn, text string) {
	payload, _ := json.Marshal(types.ServerMessage{Type: "Error", Error: text})
	_ = conn.Write(ctx, websocket.MessageText, payload)
}

func toLobbyMsg(clientID string, m types.ClientMessage) (lobby.Msg, error) {
	if m.Type == "Vote" {
		kind, err := parseVoteKind(m.Kind)
		if err != nil {
			return nil, err
		}
		return lobby.Vote{ClientID: clientID, Kind: kind, Value: m.Name}, nil
	}

	cmd, ok := toEngineCommand(m)
	if !ok {
		return nil, errUnknownType
	}
	return lobby.FromClient{ClientID: clientID, Cmd: cmd}, nil
}

func toEngineCommand(m types.ClientMessage) (engine.Command, bool) {
	switch engine.CommandType(m.Type) {
	case engine.CmdSelectSubmarine, engine.CmdSelectShuttle, engine.CmdSelectEnemySubmarine, engine.CmdSelectMode:
		return engine.Command{Type: engine.CommandType(m.Type), Name: m.Name}, true
	case engine.CmdSelectModeIndex:
		return engine.Command{Type: engine.CmdSelectModeIndex, Index: m.Index}, true
	case engine.CmdSetLevelSeed:
		return engine.Command{Type: engine.CmdSetLevelSeed, Seed: m.Seed}, true
	case engine.CmdSetMissionTypes:
		return engine.Command{Type: engine.CmdSetMissionTypes, MissionTypes: m.MissionTypes}, true
	case engine.CmdToggleCampaign, engine.CmdSetRadiation:
		return engine.Command{Type: engine.CommandType(m.Type), Enabled: m.Enabled}, true
	default:
		return engine.Command{}, false
	}
}

func parseVoteKind(kind string) (session.VoteKind, error) {
	switch session.VoteKind(kind) {
	case session.VoteSubmarine, session.VoteMode:
		return session.VoteKind(kind), nil
	default:
		return "", errors.New("unknown vote kind")
	}
}
