package challenge

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/park285/CardJitsu-KakaoTalk-bot/internal/obslog"
)

const (
	DefaultTTL = 2 * time.Minute
	maxRetries = 3
)

// Inbox keeps at most one pending challenge per target and per challenger.
type Inbox struct {
	rdb *redis.Client
	ttl time.Duration
	now func() time.Time
}

func NewInbox(rdb *redis.Client, ttl time.Duration) *Inbox {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Inbox{rdb: rdb, ttl: ttl, now: time.Now}
}

func keyTo(target string) string       { return "cj:challenge:to:" + strings.TrimSpace(target) }
func keyFrom(challenger string) string { return "cj:challenge:from:" + strings.TrimSpace(challenger) }

// Create stores a challenge from challenger to target in room.
func (in *Inbox) Create(ctx context.Context, room, challengerID, challengerName, targetID, targetName string) (*Challenge, error) {
	challengerID, targetID = strings.TrimSpace(challengerID), strings.TrimSpace(targetID)
	if challengerID == "" || targetID == "" {
		return nil, ErrInvalidArgs
	}
	if challengerID == targetID {
		return nil, ErrSelfChallenge
	}
	ch := &Challenge{
		ID:             uuid.NewString(),
		Room:           room,
		ChallengerID:   challengerID,
		ChallengerName: challengerName,
		TargetID:       targetID,
		TargetName:     targetName,
		CreatedAt:      in.now(),
	}
	raw, err := json.Marshal(ch)
	if err != nil {
		return nil, err
	}
	to, from := keyTo(targetID), keyFrom(challengerID)
	err = in.watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, to, from).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrAlreadyPending
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, to, raw, in.ttl)
			pipe.Set(ctx, from, targetID, in.ttl)
			return nil
		})
		return err
	}, to, from)
	if err != nil {
		return nil, err
	}
	obslog.L().Info("challenge_create", zap.String("id", ch.ID), zap.String("room", room), zap.String("challenger_id", challengerID), zap.String("target_id", targetID))
	return ch, nil
}

// Pending returns the challenge addressed to target without consuming it.
func (in *Inbox) Pending(ctx context.Context, targetID string) (*Challenge, error) {
	raw, err := in.rdb.Get(ctx, keyTo(targetID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoPending
	}
	if err != nil {
		return nil, err
	}
	return decode(raw)
}

// Outgoing returns the challenge challenger has sent, if any.
func (in *Inbox) Outgoing(ctx context.Context, challengerID string) (*Challenge, error) {
	target, err := in.rdb.Get(ctx, keyFrom(challengerID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoPending
	}
	if err != nil {
		return nil, err
	}
	ch, err := in.Pending(ctx, target)
	if err != nil {
		return nil, err
	}
	if ch.ChallengerID != strings.TrimSpace(challengerID) {
		return nil, ErrNoPending
	}
	return ch, nil
}

// Take atomically removes and returns the challenge addressed to target.
func (in *Inbox) Take(ctx context.Context, targetID string) (*Challenge, error) {
	var taken *Challenge
	to := keyTo(targetID)
	err := in.watch(ctx, func(tx *redis.Tx) error {
		ch, err := in.load(ctx, tx, to)
		if err != nil {
			return err
		}
		from := keyFrom(ch.ChallengerID)
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, to, from)
			return nil
		})
		if err == nil {
			taken = ch
		}
		return err
	}, to)
	if err != nil {
		return nil, err
	}
	obslog.L().Info("challenge_take", zap.String("id", taken.ID), zap.String("target_id", taken.TargetID))
	return taken, nil
}

// Cancel withdraws the challenge challenger sent.
func (in *Inbox) Cancel(ctx context.Context, challengerID string) (*Challenge, error) {
	var cancelled *Challenge
	from := keyFrom(challengerID)
	err := in.watch(ctx, func(tx *redis.Tx) error {
		target, err := tx.Get(ctx, from).Result()
		if errors.Is(err, redis.Nil) {
			return ErrNoPending
		}
		if err != nil {
			return err
		}
		to := keyTo(target)
		ch, err := in.load(ctx, tx, to)
		if err != nil && !errors.Is(err, ErrNoPending) {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, from)
			if ch != nil && ch.ChallengerID == strings.TrimSpace(challengerID) {
				pipe.Del(ctx, to)
			}
			return nil
		})
		if err != nil {
			return err
		}
		if ch == nil || ch.ChallengerID != strings.TrimSpace(challengerID) {
			return ErrNoPending
		}
		cancelled = ch
		return nil
	}, from)
	if err != nil {
		return nil, err
	}
	obslog.L().Info("challenge_cancel", zap.String("id", cancelled.ID), zap.String("challenger_id", cancelled.ChallengerID))
	return cancelled, nil
}

func (in *Inbox) load(ctx context.Context, tx *redis.Tx, key string) (*Challenge, error) {
	raw, err := tx.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoPending
	}
	if err != nil {
		return nil, err
	}
	return decode(raw)
}

// watch retries fn when a watched key changes underneath it.
func (in *Inbox) watch(ctx context.Context, fn func(*redis.Tx) error, keys ...string) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		err = in.rdb.Watch(ctx, fn, keys...)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	obslog.L().Warn("challenge_watch_conflict", zap.Strings("keys", keys), zap.Error(err))
	return err
}

func decode(raw []byte) (*Challenge, error) {
	var ch Challenge
	if err := json.Unmarshal(raw, &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}
