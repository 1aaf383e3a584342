package app

import (
	"fmt"

	"github.com/shrimpsizemoose/bolao/internal/store"
	"github.com/shrimpsizemoose/bolao/internal/tickets"
)

type Service struct {
	Config   *Config
	Store    store.TicketStore
	Tickets  *tickets.Processor
	Admin    *AdminAuth
	Sessions SessionStore
}

func NewService(configPath string) (*Service, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	store, err := NewStore(config.Database.DSN, config.Database.MigrationsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to init store: %w", err)
	}

	admin, err := NewAdminAuth(config)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to init admin auth: %w", err)
	}

	sessions, err := NewSessionStore(config)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to init sessions: %w", err)
	}

	return &Service{
		Config:   config,
		Store:    store,
		Tickets:  tickets.NewProcessor(store, config.GameRules()),
		Admin:    admin,
		Sessions: sessions,
	}, nil
}

func (s *Service) Close() error {
	var errs []error

	if err := s.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}
	if err := s.Sessions.Close(); err != nil {
		errs = append(errs, fmt.Errorf("sessions: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors while closing: %v", errs)
	}
	return nil
}
