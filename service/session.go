package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vazarkarshreya23-bit/govbot/database"
	"github.com/vazarkarshreya23-bit/govbot/model"
)

const sessionKeyPrefix = "govbot:session:"

// KV is the key-value surface the session carrier needs. database.Redis
// implements it; tests supply an in-memory fake.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// storedSession is the wire form of a conversation state. Step and service
// are plain strings here and normalized through the model parsers on load,
// so a stale or tampered blob can never produce an invalid state.
type storedSession struct {
	Step    string            `json:"step"`
	Service string            `json:"service"`
	Answers map[string]string `json:"answers"`
}

// SessionStore keeps per-session conversation state in redis as JSON blobs.
type SessionStore struct {
	kv  KV
	ttl time.Duration
}

func NewSessionStore(kv KV, ttl time.Duration) *SessionStore {
	return &SessionStore{kv: kv, ttl: ttl}
}

// Load returns the conversation state for a session ID. A missing or
// unreadable blob yields a fresh initial state rather than an error.
func (s *SessionStore) Load(ctx context.Context, sessionID string) (model.ConversationState, error) {
	raw, err := s.kv.Get(ctx, sessionKeyPrefix+sessionID)
	if errors.Is(err, database.ErrKeyNotFound) {
		return model.NewConversationState(), nil
	}
	if err != nil {
		return model.ConversationState{}, fmt.Errorf("load session: %w", err)
	}

	var stored storedSession
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		slog.Warn("discarding unreadable session blob", "session_id", sessionID, "error", err)
		return model.NewConversationState(), nil
	}

	state := model.ConversationState{
		Step:    model.ParseStep(stored.Step),
		Service: model.ParseService(stored.Service),
		Answers: stored.Answers,
	}
	if state.Answers == nil {
		state.Answers = map[string]string{}
	}
	return state, nil
}

// Save writes the conversation state back under the session ID.
func (s *SessionStore) Save(ctx context.Context, sessionID string, state model.ConversationState) error {
	stored := storedSession{
		Step:    string(state.Step),
		Service: string(state.Service),
		Answers: state.Answers,
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.kv.Set(ctx, sessionKeyPrefix+sessionID, string(data), s.ttl); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Clear removes the session so the next turn starts fresh. Clearing an
// absent session is fine.
func (s *SessionStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.kv.Del(ctx, sessionKeyPrefix+sessionID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
