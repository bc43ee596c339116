package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrCampaignRunning = errors.New("campaign already running")

type Campaign struct {
	ID        string
	StartedAt time.Time
}

// GameSession owns the campaign that outlives individual lobby changes. It
// implements engine.CampaignSession.
type GameSession struct {
	log *zap.Logger

	mu       sync.RWMutex
	campaign *Campaign
}

func NewGameSession(log *zap.Logger) *GameSession {
	if log == nil {
		log = zap.NewNop()
	}
	return &GameSession{log: log}
}

func (g *GameSession) StartCampaign() (Campaign, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.campaign != nil {
		return Campaign{}, ErrCampaignRunning
	}
	g.campaign = &Campaign{ID: uuid.New().String(), StartedAt: time.Now()}
	g.log.Info("campaign started", zap.String("campaign_id", g.campaign.ID))
	return *g.campaign, nil
}

func (g *GameSession) Campaign() (Campaign, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.campaign == nil {
		return Campaign{}, false
	}
	return *g.campaign, true
}

func (g *GameSession) CampaignActive() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.campaign != nil
}

func (g *GameSession) ClearCampaign() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.campaign == nil {
		return
	}
	g.log.Info("campaign ended", zap.String("campaign_id", g.campaign.ID))
	g.campaign = nil
}
