package memory

import (
	"testing"

	"dgca-prep-service/internal/app"
	"dgca-prep-service/internal/domain"
	"dgca-prep-service/internal/session"
)

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()

	sess, err := session.Begin(domain.SessionConfig{
		Questions: []domain.Question{
			{ID: "q1", Options: []string{"a", "b"}, CorrectOptionIndex: 0},
		},
		TimeBudgetSeconds: 60,
		Label:             "Instruments",
	})
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	store.Put(&app.Practice{ID: "p1", UserID: "u1", BankID: "instruments", Session: sess})
	practice, ok := store.Get("p1")
	if !ok || practice.UserID != "u1" {
		t.Fatalf("expected stored practice, got ok=%v", ok)
	}

	store.Delete("p1")
	if _, ok := store.Get("p1"); ok {
		t.Fatalf("expected practice removed")
	}
}
