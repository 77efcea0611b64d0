package duel

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/park285/CardJitsu-KakaoTalk-bot/internal/cardjitsu"
	"github.com/park285/CardJitsu-KakaoTalk-bot/internal/challenge"
	"github.com/park285/CardJitsu-KakaoTalk-bot/internal/results"
)

const (
	defaultTurnTimeout   = 5 * time.Minute
	defaultSweepInterval = 15 * time.Second
	maxHistoryLimit      = 50
	persistTimeout       = 5 * time.Second
)

var ErrOpponentBusy = errors.New("opponent is already in a duel")

type Config struct {
	TurnTimeout   time.Duration
	SweepInterval time.Duration
	HistoryLimit  int
}

// Conclusion is a finished duel: the stored record and the final state.
type Conclusion struct {
	Record   *results.Record
	Snapshot *Snapshot
}

// Notifier is told about duels that end outside a player's command (timeouts).
type Notifier func(ctx context.Context, c *Conclusion)

// MoveOutcome reports what a single Play call did.
type MoveOutcome struct {
	Played     cardjitsu.Card
	Turn       *cardjitsu.TurnResult // nil while waiting for the opponent
	Snapshot   *Snapshot
	Conclusion *Conclusion
}

type duel struct {
	game         *cardjitsu.Game
	room         string
	startedAt    time.Time
	lastActivity time.Time
}

// Service runs duels on top of the registry. s.mu serializes every registry mutation
// so a duel is concluded and released exactly once.
type Service struct {
	reg    *cardjitsu.Registry
	inbox  *challenge.Inbox
	repo   results.Repository
	cfg    Config
	logger *zap.Logger
	now    func() time.Time

	mu       sync.Mutex
	duels    map[string]*duel // game id -> duel
	notifier Notifier
}

func NewService(reg *cardjitsu.Registry, inbox *challenge.Inbox, repo results.Repository, cfg Config, logger *zap.Logger) (*Service, error) {
	if reg == nil {
		return nil, fmt.Errorf("duel registry is required")
	}
	if inbox == nil {
		return nil, fmt.Errorf("challenge inbox is required")
	}
	if repo == nil {
		return nil, fmt.Errorf("results repository is required")
	}
	if cfg.TurnTimeout <= 0 {
		cfg.TurnTimeout = defaultTurnTimeout
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = defaultSweepInterval
	}
	if cfg.HistoryLimit <= 0 || cfg.HistoryLimit > maxHistoryLimit {
		cfg.HistoryLimit = 10
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		reg:    reg,
		inbox:  inbox,
		repo:   repo,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
		duels:  make(map[string]*duel),
	}, nil
}

func (s *Service) SetNotifier(n Notifier) {
	s.mu.Lock()
	s.notifier = n
	s.mu.Unlock()
}

// Challenge invites target to a duel in room.
func (s *Service) Challenge(ctx context.Context, room string, challenger, target cardjitsu.Identity) (*challenge.Challenge, error) {
	if _, busy := s.reg.GameOf(challenger.ID); busy {
		return nil, cardjitsu.ErrAlreadyInGame
	}
	if _, busy := s.reg.GameOf(target.ID); busy {
		return nil, ErrOpponentBusy
	}
	return s.inbox.Create(ctx, room, challenger.ID, challenger.Name, target.ID, target.Name)
}

// Accept consumes the challenge addressed to target and starts the duel in the
// challenge's room.
func (s *Service) Accept(ctx context.Context, target cardjitsu.Identity) (*Snapshot, error) {
	if _, busy := s.reg.GameOf(target.ID); busy {
		return nil, cardjitsu.ErrAlreadyInGame
	}
	ch, err := s.inbox.Take(ctx, target.ID)
	if err != nil {
		return nil, err
	}
	if target.Name == "" {
		target.Name = ch.TargetName
	}
	challenger := cardjitsu.Identity{ID: ch.ChallengerID, Name: ch.ChallengerName}

	s.mu.Lock()
	defer s.mu.Unlock()
	g, err := s.reg.StartDuel(challenger, target)
	if err != nil {
		if errors.Is(err, cardjitsu.ErrAlreadyInGame) {
			return nil, ErrOpponentBusy
		}
		return nil, err
	}
	now := s.now()
	d := &duel{game: g, room: ch.Room, startedAt: now, lastActivity: now}
	s.duels[g.ID()] = d
	s.logger.Info("duel_start",
		zap.String("game_id", g.ID()),
		zap.String("room", ch.Room),
		zap.String("challenger_id", challenger.ID),
		zap.String("target_id", target.ID),
	)
	return takeSnapshot(d), nil
}

func (s *Service) Decline(ctx context.Context, targetID string) (*challenge.Challenge, error) {
	ch, err := s.inbox.Take(ctx, targetID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("challenge_decline", zap.String("id", ch.ID), zap.String("target_id", targetID))
	return ch, nil
}

func (s *Service) Cancel(ctx context.Context, challengerID string) (*challenge.Challenge, error) {
	return s.inbox.Cancel(ctx, challengerID)
}

func (s *Service) PendingFor(ctx context.Context, targetID string) (*challenge.Challenge, error) {
	return s.inbox.Pending(ctx, targetID)
}

// Play submits the card at handIndex (0-based). The move that completes a turn scores
// it, and a winning score concludes the duel.
func (s *Service) Play(ctx context.Context, userID string, handIndex int) (*MoveOutcome, error) {
	s.mu.Lock()
	res, err := s.reg.Play(userID, handIndex)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	d, ok := s.duels[res.Game.ID()]
	if !ok {
		// registered by someone other than this service
		d = &duel{game: res.Game, startedAt: s.now()}
		s.duels[res.Game.ID()] = d
	}
	d.lastActivity = s.now()
	out := &MoveOutcome{Played: res.Played, Turn: res.Turn}
	s.logger.Debug("duel_move", zap.String("game_id", d.game.ID()), zap.String("user_id", userID), zap.Int("card_id", res.Played.ID))
	if res.Turn != nil {
		s.logger.Info("duel_turn_scored",
			zap.String("game_id", d.game.ID()),
			zap.Int("turn", res.Turn.Turn),
			zap.Bool("tie", res.Turn.Tie),
			zap.Int("winner_seat", res.Turn.Winner),
		)
	}
	if res.Winner != nil {
		out.Conclusion = s.concludeLocked(d, res.Winner.Identity().ID, results.Method(res.WinKind))
		out.Snapshot = out.Conclusion.Snapshot
	} else {
		out.Snapshot = takeSnapshot(d)
	}
	s.mu.Unlock()

	if out.Conclusion != nil {
		s.persist(ctx, out.Conclusion.Record)
	}
	return out, nil
}

// Resign concedes userID's duel to the opponent.
func (s *Service) Resign(ctx context.Context, userID string) (*Conclusion, error) {
	s.mu.Lock()
	g, ok := s.reg.GameOf(userID)
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", cardjitsu.ErrNotInGame, userID)
	}
	opp, _ := g.Opponent(userID)
	d := s.duelOfLocked(g)
	c := s.concludeLocked(d, opp.Identity().ID, results.MethodResign)
	s.mu.Unlock()

	s.persist(ctx, c.Record)
	return c, nil
}

func (s *Service) Status(userID string) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.reg.GameOf(userID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", cardjitsu.ErrNotInGame, userID)
	}
	return takeSnapshot(s.duelOfLocked(g)), nil
}

// Active lists live duels, oldest first.
func (s *Service) Active() []*Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Snapshot, 0, len(s.duels))
	for _, d := range s.duels {
		out = append(out, takeSnapshot(d))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.Before(out[j].StartedAt)
		}
		return out[i].GameID < out[j].GameID
	})
	return out
}

// Sweep ends duels idle longer than the turn timeout. A player who already moved wins
// by timeout; when nobody moved the duel is abandoned without a winner.
func (s *Service) Sweep(ctx context.Context, now time.Time) []*Conclusion {
	s.mu.Lock()
	var ended []*Conclusion
	for _, d := range s.duels {
		if now.Sub(d.lastActivity) < s.cfg.TurnTimeout {
			continue
		}
		winner, method := "", results.MethodAbandoned
		for _, p := range d.game.Players() {
			if p.HasMoved() {
				winner, method = p.Identity().ID, results.MethodTimeout
			}
		}
		ended = append(ended, s.concludeLocked(d, winner, method))
	}
	notify := s.notifier
	s.mu.Unlock()

	for _, c := range ended {
		s.persist(ctx, c.Record)
		if notify != nil {
			notify(ctx, c)
		}
	}
	return ended
}

// Run sweeps on every tick until ctx is done.
func (s *Service) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()
	s.logger.Info("duel_sweeper_start", zap.Duration("interval", s.cfg.SweepInterval), zap.Duration("turn_timeout", s.cfg.TurnTimeout))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if ended := s.Sweep(ctx, s.now()); len(ended) > 0 {
				s.logger.Info("duel_sweep", zap.Int("ended", len(ended)))
			}
		}
	}
}

func (s *Service) Profile(ctx context.Context, userID string) (*results.Profile, error) {
	return s.repo.Profile(ctx, userID)
}

func (s *Service) History(ctx context.Context, userID string) ([]*results.Record, error) {
	return s.repo.Recent(ctx, userID, s.cfg.HistoryLimit)
}

func (s *Service) duelOfLocked(g *cardjitsu.Game) *duel {
	d, ok := s.duels[g.ID()]
	if !ok {
		now := s.now()
		d = &duel{game: g, startedAt: now, lastActivity: now}
		s.duels[g.ID()] = d
	}
	return d
}

// concludeLocked releases the duel and builds its record. Callers hold s.mu and have
// confirmed d is still live.
func (s *Service) concludeLocked(d *duel, winnerID string, method results.Method) *Conclusion {
	g := d.game
	snap := takeSnapshot(d)
	snap.State = cardjitsu.StateConcluded
	s.reg.EndDuel(g)
	delete(s.duels, g.ID())

	a, b := snap.Sides[0].Identity, snap.Sides[1].Identity
	rec := &results.Record{
		GameID:      g.ID(),
		Room:        d.room,
		PlayerAID:   a.ID,
		PlayerAName: a.Name,
		PlayerBID:   b.ID,
		PlayerBName: b.Name,
		WinnerID:    winnerID,
		Method:      method,
		Turns:       g.TurnsPlayed(),
		StartedAt:   d.startedAt,
		EndedAt:     s.now(),
	}
	s.logger.Info("duel_end",
		zap.String("game_id", rec.GameID),
		zap.String("room", rec.Room),
		zap.String("winner_id", winnerID),
		zap.String("method", string(method)),
		zap.Int("turns", rec.Turns),
	)
	return &Conclusion{Record: rec, Snapshot: snap}
}

func (s *Service) persist(ctx context.Context, rec *results.Record) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()
	if err := s.repo.SaveResult(ctx, rec); err != nil {
		s.logger.Error("duel_persist_error", zap.String("game_id", rec.GameID), zap.Error(err))
	}
}
