package lobby

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"github.com/DoyleJ11/netlobby-backend/internal/engine"
	"github.com/DoyleJ11/netlobby-backend/internal/session"
)

type Msg interface{ isLobbyMsg() }

// FromClient carries a lobby command. Reply, when set, receives the result.
type FromClient struct {
	ClientID string
	Cmd      engine.Command
	Reply    chan error
}

func (FromClient) isLobbyMsg() {}

type Join struct {
	ClientID string
	Outbox   chan Snapshot // where this client wants to receive snapshots
}

func (Join) isLobbyMsg() {}

type Leave struct{ ClientID string }

func (Leave) isLobbyMsg() {}

// Activate makes the lobby the host's active screen.
type Activate struct{}

func (Activate) isLobbyMsg() {}

// Deactivate is sent when a round takes over the host.
type Deactivate struct{}

func (Deactivate) isLobbyMsg() {}

// Randomize rerolls the settings for the next round.
type Randomize struct{ Reply chan error }

func (Randomize) isLobbyMsg() {}

type StartCampaign struct{ Reply chan error }

func (StartCampaign) isLobbyMsg() {}

type EndCampaign struct{}

func (EndCampaign) isLobbyMsg() {}

type Vote struct {
	ClientID string
	Kind     session.VoteKind
	Value    string
}

func (Vote) isLobbyMsg() {}

type Shutdown struct{}

func (Shutdown) isLobbyMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isLobbyMsg() {}

type Snapshot struct {
	Version int
	State   engine.State
}

type View struct {
	Version        int
	NumClients     int
	State          engine.State
	Active         bool
	CampaignActive bool
}

// Lobby owns one host's LobbyState. Only the loop goroutine touches it; every
// message that moves the version ends with a snapshot fan-out.
type Lobby struct {
	inbox   chan Msg
	host    *session.Host
	sent    int // version of the last broadcast
	clients map[string]chan Snapshot
	log     *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewLobby(parent context.Context, host *session.Host, log *zap.Logger) *Lobby {
	ctx, cancel := context.WithCancel(parent)
	if log == nil {
		log = zap.NewNop()
	}

	l := &Lobby{
		inbox:   make(chan Msg, 64), // Small buffer
		host:    host,
		sent:    host.State.Version(),
		clients: make(map[string]chan Snapshot),
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
	}

	go l.loop()
	return l
}

func (l *Lobby) loop() {
	state := l.host.State
	for {
		select {
		case <-l.ctx.Done():
			l.shutdown()
			return

		case m := <-l.inbox:
			switch msg := m.(type) {
			case Join:
				// Register client + send current snapshot immediately
				l.clients[msg.ClientID] = msg.Outbox
				msg.Outbox <- l.snapshot()

			case Leave:
				if ch, ok := l.clients[msg.ClientID]; ok {
					close(ch)
					delete(l.clients, msg.ClientID)
				}

			case FromClient:
				err := state.Apply(msg.Cmd)
				if err != nil {
					l.log.Debug("command rejected",
						zap.String("client_id", msg.ClientID),
						zap.String("type", string(msg.Cmd.Type)),
						zap.Error(err))
				}
				reply(msg.Reply, err)

			case Activate:
				state.OnLobbySelected(l.participants())

			case Deactivate:
				state.Deselect()

			case Randomize:
				err := state.RandomizeSettings()
				if err != nil {
					l.log.Error("randomizing lobby settings failed", zap.Error(err))
				}
				reply(msg.Reply, err)

			case StartCampaign:
				_, err := l.host.Game.StartCampaign()
				if err == nil {
					state.ToggleCampaignMode(true)
				}
				reply(msg.Reply, err)

			case EndCampaign:
				l.host.Game.ClearCampaign()
				state.ToggleCampaignMode(false)

			case Vote:
				l.host.Votes.Cast(msg.ClientID, msg.Kind, msg.Value)

			case GetState:
				msg.Reply <- View{
					Version:        state.Version(),
					NumClients:     len(l.clients),
					State:          state.Snapshot(),
					Active:         state.IsSelected(),
					CampaignActive: l.host.Game.CampaignActive(),
				}

			case Shutdown:
				l.shutdown()
				return
			}
			l.publish()
		}
	}
}

// publish broadcasts when the version moved since the last broadcast.
func (l *Lobby) publish() {
	if l.host.State.Version() == l.sent {
		return
	}
	snap := l.snapshot()
	l.sent = snap.Version
	l.broadcast(snap)
}

func (l *Lobby) snapshot() Snapshot {
	return Snapshot{Version: l.host.State.Version(), State: l.host.State.Snapshot()}
}

func (l *Lobby) participants() []string {
	ids := make([]string, 0, len(l.clients))
	for id := range l.clients {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (l *Lobby) shutdown() {
	for id, ch := range l.clients {
		close(ch) // Tell client no more snapshots
		delete(l.clients, id)
	}
	l.cancel()
}

func (l *Lobby) broadcast(snap Snapshot) {
	for id, ch := range l.clients {
		select {
		case ch <- snap:
			//ok
		default:
			// Client is slow/full - drop them.
			l.log.Warn("dropping slow client", zap.String("client_id", id))
			close(ch)
			delete(l.clients, id)
		}
	}
}

func reply(ch chan error, err error) {
	if ch != nil {
		ch <- err
	}
}

// Expose the inbox so tests or WS layer can send messages.
func (l *Lobby) Inbox() chan<- Msg { return l.inbox }

// Settings exposes the host's settings; they are safe for concurrent use.
func (l *Lobby) Settings() *session.Settings { return l.host.Settings }

// Done is closed once the lobby loop has stopped.
func (l *Lobby) Done() <-chan struct{} { return l.ctx.Done() }
