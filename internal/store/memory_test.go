package store

import (
	"testing"
	"time"

	"github.com/archigram/archigram/internal/classify"
	"github.com/archigram/archigram/internal/model"
)

func TestSessionStore_GetOrCreate(t *testing.T) {
	s := NewSessionStore(model.SessionConfig{})

	session := s.GetOrCreate("conv-1")
	if session.Conversation == nil || session.Conversation.ID != "conv-1" {
		t.Fatalf("Expected conversation conv-1, got %+v", session.Conversation)
	}
	if session.Current() != nil {
		t.Error("Expected no architecture for a fresh session")
	}

	again := s.GetOrCreate("conv-1")
	if again != session {
		t.Error("Expected the same session on repeated GetOrCreate")
	}

	if _, ok := s.Get("missing"); ok {
		t.Error("Expected Get to miss for unknown id")
	}
	if s.Count() != 1 {
		t.Errorf("Expected 1 session, got %d", s.Count())
	}
}

func TestSessionStore_GeneratesID(t *testing.T) {
	s := NewSessionStore(model.SessionConfig{})

	session := s.GetOrCreate("")
	if session.Conversation.ID == "" {
		t.Fatal("Expected a generated conversation id")
	}
	if _, ok := s.Get(session.Conversation.ID); !ok {
		t.Error("Expected session retrievable under the generated id")
	}
}

func TestSessionStore_AppendVersion(t *testing.T) {
	s := NewSessionStore(model.SessionConfig{})
	s.GetOrCreate("conv-1")

	v1 := &model.Architecture{Version: 1}
	if err := s.AppendVersion("conv-1", v1, &model.RequirementSet{}, classify.Offsets{Functional: 2}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	session, _ := s.Get("conv-1")
	if session.Current() != v1 {
		t.Error("Expected v1 to be current")
	}
	if session.Offsets.Functional != 2 {
		t.Errorf("Expected stored offsets, got %+v", session.Offsets)
	}

	// Version gaps are rejected
	if err := s.AppendVersion("conv-1", &model.Architecture{Version: 3}, nil, classify.Offsets{}); err == nil {
		t.Error("Expected error for version gap")
	}

	v2 := &model.Architecture{Version: 2}
	if err := s.AppendVersion("conv-1", v2, nil, classify.Offsets{}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if session.Current() != v2 {
		t.Error("Expected v2 to be current")
	}

	if err := s.AppendVersion("missing", v1, nil, classify.Offsets{}); err == nil {
		t.Error("Expected error for unknown conversation")
	}
}

func TestSessionStore_Rollback(t *testing.T) {
	s := NewSessionStore(model.SessionConfig{})
	s.GetOrCreate("conv-1")

	v1 := &model.Architecture{Version: 1}
	v2 := &model.Architecture{Version: 2}
	v3 := &model.Architecture{Version: 3}
	for _, arch := range []*model.Architecture{v1, v2, v3} {
		if err := s.AppendVersion("conv-1", arch, nil, classify.Offsets{}); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
	}

	arch, err := s.Rollback("conv-1", 1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if arch != v1 {
		t.Error("Expected rollback to return v1")
	}

	session, _ := s.Get("conv-1")
	if len(session.History) != 1 {
		t.Errorf("Expected 1 retained version, got %d", len(session.History))
	}

	if _, err := s.Rollback("conv-1", 5); err == nil {
		t.Error("Expected error for out-of-range version")
	}
	if _, err := s.Rollback("conv-1", 0); err == nil {
		t.Error("Expected error for version 0")
	}
	if _, err := s.Rollback("missing", 1); err == nil {
		t.Error("Expected error for unknown conversation")
	}
}

func TestSessionStore_Delete(t *testing.T) {
	s := NewSessionStore(model.SessionConfig{})
	s.GetOrCreate("conv-1")

	s.Delete("conv-1")
	if _, ok := s.Get("conv-1"); ok {
		t.Error("Expected session removed")
	}
	if s.Count() != 0 {
		t.Errorf("Expected 0 sessions, got %d", s.Count())
	}
}

func TestSessionStore_TTLExpiry(t *testing.T) {
	s := NewSessionStore(model.SessionConfig{
		TTL:             10 * time.Millisecond,
		CleanupInterval: 5 * time.Millisecond,
	})
	s.GetOrCreate("conv-1")

	time.Sleep(30 * time.Millisecond)
	if _, ok := s.Get("conv-1"); ok {
		t.Error("Expected session to expire")
	}
}
