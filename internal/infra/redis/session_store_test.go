package redis

import (
	"testing"
	"time"

	"dgca-prep-service/internal/app"
	"dgca-prep-service/internal/domain"
	"dgca-prep-service/internal/session"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(client, time.Minute)

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
	if !mr.Exists("practice:session:p1") {
		t.Fatalf("expected redis liveness key to be set")
	}
	if _, ok := store.Get("p1"); !ok {
		t.Fatalf("expected practice present")
	}

	store.Delete("p1")
	if mr.Exists("practice:session:p1") {
		t.Fatalf("expected redis liveness key to be removed")
	}
	if _, ok := store.Get("p1"); ok {
		t.Fatalf("expected practice removed")
	}
}
