package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/park285/CardJitsu-KakaoTalk-bot/internal/cardjitsu"
	"github.com/park285/CardJitsu-KakaoTalk-bot/internal/challenge"
	"github.com/park285/CardJitsu-KakaoTalk-bot/internal/duel"
	"github.com/park285/CardJitsu-KakaoTalk-bot/internal/results"
	"github.com/park285/CardJitsu-KakaoTalk-bot/pkg/jitsudto"
)

var (
	alice = cardjitsu.Identity{ID: "u1", Name: "Alice"}
	bob   = cardjitsu.Identity{ID: "u2", Name: "Bob"}
)

func newTestRouter(t *testing.T) (*gin.Engine, *duel.Service, *redis.Client) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	reg, err := cardjitsu.NewRegistry(cardjitsu.DefaultStarter(), cardjitsu.WithRand(rand.New(rand.NewSource(3))))
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	svc, err := duel.NewService(reg, challenge.NewInbox(rdb, time.Minute), results.NewMemoryRepository(), duel.Config{}, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	ping := func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	return NewRouter(svc, ping, nil), svc, rdb
}

func get(t *testing.T, r http.Handler, path string, out any) int {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	if out != nil {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("decode %s: %v (%s)", path, err, w.Body.String())
		}
	}
	return w.Code
}

func startDuel(t *testing.T, svc *duel.Service) {
	t.Helper()
	ctx := context.Background()
	if _, err := svc.Challenge(ctx, "roomA", alice, bob); err != nil {
		t.Fatalf("Challenge: %v", err)
	}
	if _, err := svc.Accept(ctx, bob); err != nil {
		t.Fatalf("Accept: %v", err)
	}
}

func TestHealthz(t *testing.T) {
	r, svc, _ := newTestRouter(t)
	startDuel(t, svc)

	var h jitsudto.Health
	if code := get(t, r, "/healthz", &h); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if h.Status != "ok" || h.Redis != "ok" || h.ActiveDuels != 1 {
		t.Fatalf("unexpected health: %+v", h)
	}
}

func TestHealthzDegraded(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, svc, _ := newTestRouter(t)
	r := NewRouter(svc, func(context.Context) error { return errors.New("down") }, nil)

	var h jitsudto.Health
	if code := get(t, r, "/healthz", &h); code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", code)
	}
	if h.Status != "degraded" || h.Redis != "down" {
		t.Fatalf("unexpected health: %+v", h)
	}
}

func TestListAndGetDuel(t *testing.T) {
	r, svc, _ := newTestRouter(t)

	var empty jitsudto.DuelList
	get(t, r, "/duels", &empty)
	if empty.Count != 0 || len(empty.Duels) != 0 {
		t.Fatalf("expected no duels: %+v", empty)
	}

	startDuel(t, svc)
	var list jitsudto.DuelList
	get(t, r, "/duels", &list)
	if list.Count != 1 || list.Duels[0].Room != "roomA" || len(list.Duels[0].Players) != 2 {
		t.Fatalf("unexpected list: %+v", list)
	}
	if list.Duels[0].Players[0].Name != "Alice" || list.Duels[0].Players[1].DeckSize == 0 {
		t.Fatalf("unexpected players: %+v", list.Duels[0].Players)
	}

	var one jitsudto.DuelSummary
	if code := get(t, r, "/duels/u2", &one); code != http.StatusOK || one.GameID != list.Duels[0].GameID {
		t.Fatalf("code=%d duel=%+v", code, one)
	}
	var derr jitsudto.DomainError
	if code := get(t, r, "/duels/nobody", &derr); code != http.StatusNotFound || derr.Code != "not_in_game" {
		t.Fatalf("code=%d err=%+v", code, derr)
	}
}

func TestProfile(t *testing.T) {
	r, svc, _ := newTestRouter(t)
	var derr jitsudto.DomainError
	if code := get(t, r, "/profiles/u1", &derr); code != http.StatusNotFound {
		t.Fatalf("status = %d", code)
	}

	startDuel(t, svc)
	if _, err := svc.Resign(context.Background(), "u1"); err != nil {
		t.Fatalf("Resign: %v", err)
	}
	var p jitsudto.Profile
	if code := get(t, r, "/profiles/u2", &p); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if p.Wins != 1 || p.Played != 1 || p.Name != "Bob" || p.LastPlayedAt == nil {
		t.Fatalf("unexpected profile: %+v", p)
	}
}
