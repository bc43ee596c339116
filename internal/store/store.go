// Package store persists the submarine catalog and per-lobby server settings
// in postgres through gorm.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/DoyleJ11/netlobby-backend/internal/engine"
	"github.com/DoyleJ11/netlobby-backend/internal/session"
)

var ErrNotFound = errors.New("not found")

type SubmarineRecord struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:255;uniqueIndex;not null"`
	Type      string `gorm:"size:32;not null"`
	Tags      string `gorm:"size:255"` // comma separated
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SettingsRecord is the persisted server settings of one lobby code.
type SettingsRecord struct {
	Code                  string `gorm:"primaryKey;size:16"`
	GameModeIdentifier    string `gorm:"size:64"`
	MissionTypes          string
	SelectedSubmarineName string `gorm:"size:255"`
	RandomizeSeed         bool
	SubSelectionMode      string `gorm:"size:16"`
	ModeSelectionMode     string `gorm:"size:16"`
	UpdatedAt             time.Time
}

type Store struct {
	db *gorm.DB
}

func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(&SubmarineRecord{}, &SettingsRecord{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) ListSubmarines(ctx context.Context) ([]engine.Submarine, error) {
	var records []SubmarineRecord
	if err := s.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list submarines: %w", err)
	}
	subs := make([]engine.Submarine, 0, len(records))
	for _, r := range records {
		subs = append(subs, r.toSubmarine())
	}
	return subs, nil
}

// SaveSubmarines upserts subs by name.
func (s *Store) SaveSubmarines(ctx context.Context, subs []engine.Submarine) error {
	if len(subs) == 0 {
		return nil
	}
	records := make([]SubmarineRecord, 0, len(subs))
	for _, sub := range subs {
		records = append(records, submarineRecord(sub))
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"type", "tags", "updated_at"}),
	}).Create(&records).Error
	if err != nil {
		return fmt.Errorf("save submarines: %w", err)
	}
	return nil
}

func (s *Store) LoadSettings(ctx context.Context, code string) (session.SettingsValues, error) {
	var r SettingsRecord
	err := s.db.WithContext(ctx).First(&r, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return session.SettingsValues{}, ErrNotFound
	}
	if err != nil {
		return session.SettingsValues{}, fmt.Errorf("load settings %s: %w", code, err)
	}
	return r.toValues(), nil
}

func (s *Store) SaveSettings(ctx context.Context, code string, v session.SettingsValues) error {
	r := settingsRecord(code, v)
	if err := s.db.WithContext(ctx).Save(&r).Error; err != nil {
		return fmt.Errorf("save settings %s: %w", code, err)
	}
	return nil
}

func submarineRecord(sub engine.Submarine) SubmarineRecord {
	tags := make([]string, 0, len(sub.Tags))
	for _, t := range sub.Tags {
		tags = append(tags, string(t))
	}
	return SubmarineRecord{Name: sub.Name, Type: string(sub.Type), Tags: strings.Join(tags, ",")}
}

func (r SubmarineRecord) toSubmarine() engine.Submarine {
	sub := engine.Submarine{Name: r.Name, Type: engine.SubmarineType(r.Type)}
	for _, t := range strings.Split(r.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			sub.Tags = append(sub.Tags, engine.SubmarineTag(t))
		}
	}
	return sub
}

func settingsRecord(code string, v session.SettingsValues) SettingsRecord {
	return SettingsRecord{
		Code:                  code,
		GameModeIdentifier:    v.GameModeIdentifier,
		MissionTypes:          v.MissionTypes,
		SelectedSubmarineName: v.SelectedSubmarineName,
		RandomizeSeed:         v.RandomizeSeed,
		SubSelectionMode:      string(v.SubSelectionMode),
		ModeSelectionMode:     string(v.ModeSelectionMode),
	}
}

func (r SettingsRecord) toValues() session.SettingsValues {
	return session.SettingsValues{
		GameModeIdentifier:    r.GameModeIdentifier,
		MissionTypes:          r.MissionTypes,
		SelectedSubmarineName: r.SelectedSubmarineName,
		RandomizeSeed:         r.RandomizeSeed,
		SubSelectionMode:      engine.SelectionMode(r.SubSelectionMode),
		ModeSelectionMode:     engine.SelectionMode(r.ModeSelectionMode),
	}
}
