package duel

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/park285/CardJitsu-KakaoTalk-bot/internal/cardjitsu"
	"github.com/park285/CardJitsu-KakaoTalk-bot/internal/challenge"
	"github.com/park285/CardJitsu-KakaoTalk-bot/internal/results"
)

var (
	alice = cardjitsu.Identity{ID: "u1", Name: "Alice"}
	bob   = cardjitsu.Identity{ID: "u2", Name: "Bob"}
	carol = cardjitsu.Identity{ID: "u3", Name: "Carol"}
)

type testClock struct{ t time.Time }

func (c *testClock) now() time.Time { return c.t }

func newTestService(t *testing.T) (*Service, *results.MemoryRepository, *testClock) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	reg, err := cardjitsu.NewRegistry(cardjitsu.DefaultStarter(), cardjitsu.WithRand(rand.New(rand.NewSource(42))))
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	repo := results.NewMemoryRepository()
	svc, err := NewService(reg, challenge.NewInbox(rdb, time.Minute), repo, Config{TurnTimeout: time.Minute}, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	clock := &testClock{t: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
	svc.now = clock.now
	return svc, repo, clock
}

func startDuel(t *testing.T, svc *Service, a, b cardjitsu.Identity) *Snapshot {
	t.Helper()
	ctx := context.Background()
	if _, err := svc.Challenge(ctx, "roomA", a, b); err != nil {
		t.Fatalf("Challenge: %v", err)
	}
	snap, err := svc.Accept(ctx, b)
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	return snap
}

func TestChallengeAcceptStartsDuel(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	snap := startDuel(t, svc, alice, bob)
	if snap.Room != "roomA" || snap.State != cardjitsu.StateAwaitingMoves {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	me, opp, ok := snap.Side("u2")
	if !ok || me.Identity != bob || opp.Identity != alice || len(me.Hand) != cardjitsu.HandSize || me.DeckSize != 5 {
		t.Fatalf("unexpected sides: %+v / %+v", me, opp)
	}
	if _, err := svc.Challenge(ctx, "roomA", carol, alice); !errors.Is(err, ErrOpponentBusy) {
		t.Fatalf("expected ErrOpponentBusy, got %v", err)
	}
	if _, err := svc.Challenge(ctx, "roomA", bob, carol); !errors.Is(err, cardjitsu.ErrAlreadyInGame) {
		t.Fatalf("expected ErrAlreadyInGame, got %v", err)
	}
	if len(svc.Active()) != 1 {
		t.Fatalf("expected one active duel")
	}
}

func TestAcceptWithoutChallenge(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, err := svc.Accept(context.Background(), bob); !errors.Is(err, challenge.ErrNoPending) {
		t.Fatalf("expected ErrNoPending, got %v", err)
	}
}

func TestDecline(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	if _, err := svc.Challenge(ctx, "roomA", alice, bob); err != nil {
		t.Fatalf("Challenge: %v", err)
	}
	ch, err := svc.Decline(ctx, "u2")
	if err != nil || ch.ChallengerID != "u1" {
		t.Fatalf("Decline: %v %+v", err, ch)
	}
	if _, err := svc.Accept(ctx, bob); !errors.Is(err, challenge.ErrNoPending) {
		t.Fatalf("declined challenge must be gone, got %v", err)
	}
}

func TestPlayUntilWinConcludesOnce(t *testing.T) {
	svc, repo, clock := newTestService(t)
	ctx := context.Background()
	startDuel(t, svc, alice, bob)

	var final *Conclusion
	for turn := 0; turn < 500 && final == nil; turn++ {
		clock.t = clock.t.Add(time.Second)
		out, err := svc.Play(ctx, "u1", turn%cardjitsu.HandSize)
		if err != nil {
			t.Fatalf("Play u1: %v", err)
		}
		if out.Turn != nil || out.Conclusion != nil {
			t.Fatalf("first move of a turn must wait for the opponent")
		}
		if _, err := svc.Play(ctx, "u1", 0); !errors.Is(err, cardjitsu.ErrAlreadyMoved) {
			t.Fatalf("expected ErrAlreadyMoved, got %v", err)
		}
		out, err = svc.Play(ctx, "u2", 0)
		if err != nil {
			t.Fatalf("Play u2: %v", err)
		}
		if out.Turn == nil {
			t.Fatalf("second move must score the turn")
		}
		final = out.Conclusion
	}
	if final == nil {
		t.Fatalf("no winner after 500 turns")
	}
	rec := final.Record
	if rec.Method != results.MethodElementSweep && rec.Method != results.MethodColorSpread {
		t.Fatalf("unexpected method %q", rec.Method)
	}
	if rec.WinnerID != "u1" && rec.WinnerID != "u2" {
		t.Fatalf("unexpected winner %q", rec.WinnerID)
	}
	if _, err := svc.Play(ctx, "u1", 0); !errors.Is(err, cardjitsu.ErrNotInGame) {
		t.Fatalf("concluded duel must be released, got %v", err)
	}
	if len(svc.Active()) != 0 {
		t.Fatalf("no duel should remain active")
	}
	got, _ := repo.Recent(ctx, "u1", 10)
	if len(got) != 1 || got[0].GameID != rec.GameID {
		t.Fatalf("result not persisted once: %+v", got)
	}
}

func TestResign(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	startDuel(t, svc, alice, bob)

	c, err := svc.Resign(ctx, "u1")
	if err != nil {
		t.Fatalf("Resign: %v", err)
	}
	if c.Record.WinnerID != "u2" || c.Record.Method != results.MethodResign {
		t.Fatalf("unexpected record: %+v", c.Record)
	}
	if _, err := svc.Resign(ctx, "u1"); !errors.Is(err, cardjitsu.ErrNotInGame) {
		t.Fatalf("second resign: expected ErrNotInGame, got %v", err)
	}
	p, _ := repo.Profile(ctx, "u2")
	if p == nil || p.Wins != 1 {
		t.Fatalf("profile not updated: %+v", p)
	}
}

func TestSweepTimeoutAndAbandon(t *testing.T) {
	svc, repo, clock := newTestService(t)
	ctx := context.Background()
	var notified []*Conclusion
	svc.SetNotifier(func(_ context.Context, c *Conclusion) { notified = append(notified, c) })

	startDuel(t, svc, alice, bob)
	if _, err := svc.Play(ctx, "u2", 0); err != nil {
		t.Fatalf("Play: %v", err)
	}
	startDuel(t, svc, carol, cardjitsu.Identity{ID: "u4", Name: "Dave"})

	if ended := svc.Sweep(ctx, clock.t.Add(30*time.Second)); len(ended) != 0 {
		t.Fatalf("nothing should time out yet, got %d", len(ended))
	}
	ended := svc.Sweep(ctx, clock.t.Add(2*time.Minute))
	if len(ended) != 2 || len(notified) != 2 {
		t.Fatalf("expected two swept duels, got %d (notified %d)", len(ended), len(notified))
	}
	byWinner := map[string]results.Method{}
	for _, c := range ended {
		byWinner[c.Record.WinnerID] = c.Record.Method
	}
	if byWinner["u2"] != results.MethodTimeout || byWinner[""] != results.MethodAbandoned {
		t.Fatalf("unexpected sweep outcomes: %v", byWinner)
	}
	if p, _ := repo.Profile(ctx, "u3"); p == nil || p.Draws != 1 {
		t.Fatalf("abandoned duel should count as a draw: %+v", p)
	}
	if _, err := svc.Status("u1"); !errors.Is(err, cardjitsu.ErrNotInGame) {
		t.Fatalf("swept duel must be released, got %v", err)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	svc, _, _ := newTestService(t)
	svc.cfg.SweepInterval = time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not stop")
	}
}
