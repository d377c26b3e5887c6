package service

import (
	"context"
	"testing"
	"time"

	"github.com/vazarkarshreya23-bit/govbot/database"
	"github.com/vazarkarshreya23-bit/govbot/model"
)

// fakeKV is an in-memory stand-in for the redis wrapper.
type fakeKV struct {
	data    map[string]string
	lastTTL time.Duration
	getErr  error
	setErr  error
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string]string{}}
}

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	val, ok := f.data[key]
	if !ok {
		return "", database.ErrKeyNotFound
	}
	return val, nil
}

func (f *fakeKV) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = value
	f.lastTTL = ttl
	return nil
}

func (f *fakeKV) Del(_ context.Context, key string) error {
	delete(f.data, key)
	return nil
}

func TestSessionLoadMissing(t *testing.T) {
	store := NewSessionStore(newFakeKV(), time.Hour)

	state, err := store.Load(context.Background(), "sid-1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if state.Step != model.StepStart || state.Service != model.ServiceNone {
		t.Errorf("Expected fresh state, got %+v", state)
	}
	if state.Answers == nil || len(state.Answers) != 0 {
		t.Errorf("Expected empty non-nil answers map, got %v", state.Answers)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	kv := newFakeKV()
	store := NewSessionStore(kv, 30*time.Minute)
	ctx := context.Background()

	saved := model.ConversationState{
		Step:    model.StepAskPhone,
		Service: model.ServiceCertificate,
		Answers: map[string]string{"name": "Jane Doe", "age": "30"},
	}
	if err := store.Save(ctx, "sid-1", saved); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if kv.lastTTL != 30*time.Minute {
		t.Errorf("Expected TTL 30m, got %v", kv.lastTTL)
	}

	loaded, err := store.Load(ctx, "sid-1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Step != saved.Step || loaded.Service != saved.Service {
		t.Errorf("Expected %+v, got %+v", saved, loaded)
	}
	if loaded.Answers["name"] != "Jane Doe" || loaded.Answers["age"] != "30" {
		t.Errorf("Expected answers preserved, got %v", loaded.Answers)
	}
}

func TestSessionLoadCorruptBlob(t *testing.T) {
	kv := newFakeKV()
	kv.data[sessionKeyPrefix+"sid-1"] = "{not json"
	store := NewSessionStore(kv, time.Hour)

	state, err := store.Load(context.Background(), "sid-1")
	if err != nil {
		t.Fatalf("Expected corrupt blob to yield fresh state, got error: %v", err)
	}
	if state.Step != model.StepStart {
		t.Errorf("Expected fresh state, got %+v", state)
	}
}

func TestSessionLoadNormalizesUnknownValues(t *testing.T) {
	kv := newFakeKV()
	kv.data[sessionKeyPrefix+"sid-1"] = `{"step":"hacked_step","service":"passport","answers":null}`
	store := NewSessionStore(kv, time.Hour)

	state, err := store.Load(context.Background(), "sid-1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if state.Step != model.StepStart {
		t.Errorf("Expected unknown step to normalize to start, got %q", state.Step)
	}
	if state.Service != model.ServiceNone {
		t.Errorf("Expected unknown service to normalize to empty, got %q", state.Service)
	}
	if state.Answers == nil {
		t.Error("Expected non-nil answers map")
	}
}

func TestSessionClear(t *testing.T) {
	kv := newFakeKV()
	store := NewSessionStore(kv, time.Hour)
	ctx := context.Background()

	if err := store.Save(ctx, "sid-1", model.NewConversationState()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Clear(ctx, "sid-1"); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, ok := kv.data[sessionKeyPrefix+"sid-1"]; ok {
		t.Error("Expected session removed")
	}

	// Clearing again is fine.
	if err := store.Clear(ctx, "sid-1"); err != nil {
		t.Fatalf("Second Clear failed: %v", err)
	}
}

func TestSessionLoadStoreFailure(t *testing.T) {
	kv := newFakeKV()
	kv.getErr = context.DeadlineExceeded
	store := NewSessionStore(kv, time.Hour)

	if _, err := store.Load(context.Background(), "sid-1"); err == nil {
		t.Fatal("Expected error when the carrier is unreachable")
	}
}
