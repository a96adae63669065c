// Package service drives one request/response cycle per inbound message:
// ensure the conversation exists, record the user turn, generate a reply
// under a deadline, record the result, and persist.
package service

import (
	"github.com/tahs-labs/historiographer/audit"
	"github.com/tahs-labs/historiographer/config"
	"github.com/tahs-labs/historiographer/llm"
	"github.com/tahs-labs/historiographer/store"
)

// Service is the turn orchestrator.
type Service struct {
	store     *store.Store
	generator llm.Generator
	profiles  store.ProfileFetcher
	auditLog  audit.Log
	config    *config.Config
}

// New creates a new service.
func New(st *store.Store, generator llm.Generator, profiles store.ProfileFetcher, auditLog audit.Log, cfg *config.Config) *Service {
	return &Service{
		store:     st,
		generator: generator,
		profiles:  profiles,
		auditLog:  auditLog,
		config:    cfg,
	}
}
