package bot

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/park285/CardJitsu-KakaoTalk-bot/internal/cardjitsu"
	"github.com/park285/CardJitsu-KakaoTalk-bot/internal/challenge"
	"github.com/park285/CardJitsu-KakaoTalk-bot/internal/duel"
	"github.com/park285/CardJitsu-KakaoTalk-bot/internal/irisfast"
	"github.com/park285/CardJitsu-KakaoTalk-bot/internal/presenter"
)

// DefaultKeywords select the card game after the bot prefix.
var DefaultKeywords = []string{"카드", "jitsu"}

const commandTimeout = 15 * time.Second

type Options struct {
	Prefix       string
	Keywords     []string
	AllowedRooms []string
}

// Handler routes chat messages to the duel service and answers through the presenter.
type Handler struct {
	svc      *duel.Service
	pres     *presenter.Presenter
	logger   *zap.Logger
	prefix   string
	keywords []string
	rooms    map[string]struct{}
	dir      *directory
}

func NewHandler(svc *duel.Service, pres *presenter.Presenter, opts Options, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	kws := opts.Keywords
	if len(kws) == 0 {
		kws = DefaultKeywords
	}
	var rooms map[string]struct{}
	if len(opts.AllowedRooms) > 0 {
		rooms = make(map[string]struct{}, len(opts.AllowedRooms))
		for _, r := range opts.AllowedRooms {
			rooms[r] = struct{}{}
		}
	}
	return &Handler{
		svc:      svc,
		pres:     pres,
		logger:   logger,
		prefix:   strings.TrimSpace(opts.Prefix),
		keywords: kws,
		rooms:    rooms,
		dir:      newDirectory(),
	}
}

func (h *Handler) roomAllowed(room string) bool {
	if h.rooms == nil {
		return true
	}
	_, ok := h.rooms[room]
	return ok
}

// Accepts reports whether msg is a card command this handler should run. Every message
// from an allowed room also teaches the directory who the sender is.
func (h *Handler) Accepts(msg *irisfast.Message) bool {
	if msg == nil || strings.TrimSpace(msg.Msg) == "" {
		return false
	}
	if !h.roomAllowed(msg.Room) {
		return false
	}
	h.dir.remember(msg.Room, msg.SenderName(), msg.UserID())
	_, ok := h.command(msg.Msg)
	return ok
}

// command strips the prefix and keyword, returning the remaining arguments.
func (h *Handler) command(text string) ([]string, bool) {
	raw := strings.TrimSpace(text)
	if !strings.HasPrefix(raw, h.prefix) {
		return nil, false
	}
	fields := strings.Fields(strings.TrimPrefix(raw, h.prefix))
	if len(fields) == 0 {
		return nil, false
	}
	kw := strings.ToLower(fields[0])
	for _, k := range h.keywords {
		if kw == k {
			return fields[1:], true
		}
	}
	return nil, false
}

// Handle runs one command. Call it off the WebSocket read loop.
func (h *Handler) Handle(ctx context.Context, msg *irisfast.Message) {
	if !h.Accepts(msg) {
		return
	}
	args, _ := h.command(msg.Msg)
	user := cardjitsu.Identity{ID: msg.UserID(), Name: msg.SenderName()}
	if user.ID == "" {
		h.logger.Warn("bot_unknown_sender", zap.String("room", msg.Room))
		return
	}
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	sub := ""
	if len(args) > 0 {
		sub = strings.ToLower(args[0])
	}
	room := msg.Room
	start := time.Now()
	err := h.dispatch(ctx, room, user, sub, args)
	if err != nil {
		h.reply(room, h.pres.Error(err))
		if !isDomainError(err) {
			h.logger.Warn("bot_command_failed", zap.String("room", room), zap.String("sub", sub), zap.Error(err))
		}
	}
	h.logger.Debug("bot_command",
		zap.String("room", room),
		zap.String("user_id", user.ID),
		zap.String("sub", sub),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err),
	)
}

func (h *Handler) dispatch(ctx context.Context, room string, user cardjitsu.Identity, sub string, args []string) error {
	switch {
	case sub == "" || sub == "도움" || sub == "help":
		h.reply(room, h.pres.Help())
		return nil
	case strings.HasPrefix(sub, "@"):
		return h.challenge(ctx, room, user, args)
	}

	if n, err := strconv.Atoi(sub); err == nil {
		return h.play(ctx, room, user, n-1)
	}

	switch sub {
	case "수락", "accept":
		snap, err := h.svc.Accept(ctx, user)
		if err != nil {
			return err
		}
		h.reply(room, h.pres.DuelStarted(snap))
	case "거절", "decline":
		ch, err := h.svc.Decline(ctx, user.ID)
		if err != nil {
			return err
		}
		h.reply(room, h.pres.ChallengeDeclined(ch))
	case "취소", "cancel":
		ch, err := h.svc.Cancel(ctx, user.ID)
		if err != nil {
			return err
		}
		h.reply(room, h.pres.ChallengeCancelled(ch))
	case "패", "hand":
		snap, err := h.svc.Status(user.ID)
		if err != nil {
			return err
		}
		return h.pres.Hand(ctx, room, snap, user.ID)
	case "현황", "status":
		snap, err := h.svc.Status(user.ID)
		if err != nil {
			return err
		}
		h.reply(room, h.pres.Status(snap))
	case "기권", "resign":
		c, err := h.svc.Resign(ctx, user.ID)
		if err != nil {
			return err
		}
		h.reply(room, h.pres.Conclusion(c))
	case "전적", "profile":
		p, err := h.svc.Profile(ctx, user.ID)
		if err != nil {
			return err
		}
		h.reply(room, h.pres.Profile(user.DisplayName(), p))
	case "기록", "history":
		recs, err := h.svc.History(ctx, user.ID)
		if err != nil {
			return err
		}
		h.reply(room, h.pres.History(user.ID, recs))
	default:
		h.reply(room, h.pres.Unknown())
	}
	return nil
}

func (h *Handler) challenge(ctx context.Context, room string, user cardjitsu.Identity, args []string) error {
	name := strings.TrimSpace(strings.TrimPrefix(strings.Join(args, " "), "@"))
	if name == "" {
		h.reply(room, h.pres.NeedTarget())
		return nil
	}
	target := cardjitsu.Identity{ID: h.dir.lookup(room, name), Name: name}
	if target.ID == "" {
		// senders without a structured id are keyed by name
		target.ID = name
	}
	ch, err := h.svc.Challenge(ctx, room, user, target)
	if err != nil {
		return err
	}
	h.reply(room, h.pres.ChallengeSent(ch))
	return nil
}

func (h *Handler) play(ctx context.Context, room string, user cardjitsu.Identity, index int) error {
	out, err := h.svc.Play(ctx, user.ID, index)
	if err != nil {
		return err
	}
	h.reply(room, h.pres.Move(out, user))
	return nil
}

// NotifyConclusion announces duels the sweeper ended in the duel's room.
func (h *Handler) NotifyConclusion(ctx context.Context, c *duel.Conclusion) {
	if c == nil || c.Record == nil {
		return
	}
	h.reply(c.Record.Room, h.pres.Conclusion(c))
}

func (h *Handler) reply(room, text string) {
	if err := h.pres.Send(room, text); err != nil {
		h.logger.Warn("bot_reply_failed", zap.String("room", room), zap.Error(err))
	}
}

// isDomainError reports whether err is an expected rejection of user input.
func isDomainError(err error) bool {
	for _, target := range []error{
		cardjitsu.ErrAlreadyInGame, cardjitsu.ErrNotInGame, cardjitsu.ErrAlreadyMoved,
		cardjitsu.ErrInvalidHandIndex, cardjitsu.ErrSelfDuel, duel.ErrOpponentBusy,
		challenge.ErrSelfChallenge, challenge.ErrAlreadyPending, challenge.ErrNoPending,
		challenge.ErrInvalidArgs,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
