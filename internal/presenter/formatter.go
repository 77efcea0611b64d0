package presenter

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/park285/CardJitsu-KakaoTalk-bot/internal/cardjitsu"
	"github.com/park285/CardJitsu-KakaoTalk-bot/internal/challenge"
	"github.com/park285/CardJitsu-KakaoTalk-bot/internal/duel"
	"github.com/park285/CardJitsu-KakaoTalk-bot/internal/msgcat"
	"github.com/park285/CardJitsu-KakaoTalk-bot/internal/results"
)

type m = map[string]any

// Formatter renders duel state into Kakao-friendly text through the message catalog.
type Formatter struct {
	cat          *msgcat.Catalog
	prefix       string
	challengeTTL time.Duration
	turnTimeout  time.Duration
	loc          *time.Location
}

func NewFormatter(cat *msgcat.Catalog, prefix string, challengeTTL, turnTimeout time.Duration) *Formatter {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		loc = time.FixedZone("KST", 9*60*60)
	}
	return &Formatter{cat: cat, prefix: strings.TrimSpace(prefix), challengeTTL: challengeTTL, turnTimeout: turnTimeout, loc: loc}
}

func (f *Formatter) Prefix() string { return f.prefix }

func (f *Formatter) text(key string, data m) string {
	if data == nil {
		data = m{}
	}
	data["Prefix"] = f.prefix
	return f.cat.Text(key, data)
}

func (f *Formatter) Card(c cardjitsu.Card) string {
	return f.cat.Text("card", m{
		"Color":   f.cat.Text("color."+c.Color.String(), nil),
		"Element": f.cat.Text("element."+c.Element.String(), nil),
		"Value":   c.Value,
	})
}

func (f *Formatter) Method(method results.Method) string {
	return f.cat.Text("method."+string(method), nil)
}

func (f *Formatter) ChallengeSent(ch *challenge.Challenge) string {
	return f.text("challenge.sent", m{"Challenger": ch.ChallengerName, "Target": ch.TargetName, "TTL": humanDuration(f.challengeTTL)})
}

func (f *Formatter) ChallengeDeclined(ch *challenge.Challenge) string {
	return f.text("challenge.declined", m{"Challenger": ch.ChallengerName, "Target": ch.TargetName})
}

func (f *Formatter) ChallengeCancelled(ch *challenge.Challenge) string {
	return f.text("challenge.cancelled", m{"Challenger": ch.ChallengerName, "Target": ch.TargetName})
}

func (f *Formatter) NeedTarget() string { return f.text("challenge.need_target", nil) }

func (f *Formatter) Unknown() string { return f.text("common.unknown", nil) }

func (f *Formatter) DuelStarted(snap *duel.Snapshot) string {
	return f.text("duel.started", m{"A": snap.Sides[0].Identity.DisplayName(), "B": snap.Sides[1].Identity.DisplayName()})
}

func (f *Formatter) HandText(side duel.Side) string {
	lines := make([]string, 0, len(side.Hand))
	for i, c := range side.Hand {
		lines = append(lines, strconv.Itoa(i+1)+". "+f.Card(c))
	}
	return f.text("duel.hand", m{
		"Player": side.Identity.DisplayName(),
		"Cards":  strings.Join(lines, "\n"),
		"Score":  len(side.Score),
	})
}

// Move describes a Play outcome: waiting, a scored turn, and the conclusion if any.
func (f *Formatter) Move(out *duel.MoveOutcome, player cardjitsu.Identity) string {
	if out == nil {
		return ""
	}
	if out.Turn == nil {
		return f.text("duel.waiting", m{"Player": player.DisplayName()})
	}
	snap := out.Snapshot
	a, b := snap.Sides[0].Identity.DisplayName(), snap.Sides[1].Identity.DisplayName()
	result := f.text("duel.turn_tie", nil)
	if !out.Turn.Tie {
		winner := a
		if out.Turn.Winner == 1 {
			winner = b
		}
		result = f.text("duel.turn_won", m{"Winner": winner, "Card": f.Card(out.Turn.Won)})
	}
	msg := f.text("duel.turn", m{
		"Turn":   out.Turn.Turn,
		"A":      a,
		"B":      b,
		"CardA":  f.Card(out.Turn.Moves[0]),
		"CardB":  f.Card(out.Turn.Moves[1]),
		"Result": result,
	})
	if out.Conclusion != nil {
		msg += "\n\n" + f.Conclusion(out.Conclusion)
	}
	return msg
}

func (f *Formatter) Conclusion(c *duel.Conclusion) string {
	rec := c.Record
	a, b := c.Snapshot.Sides[0].Identity.DisplayName(), c.Snapshot.Sides[1].Identity.DisplayName()
	winner, loser := a, b
	if rec.WinnerID == rec.PlayerBID {
		winner, loser = b, a
	}
	switch rec.Method {
	case results.MethodResign:
		return f.text("duel.resigned", m{"Winner": winner, "Loser": loser})
	case results.MethodTimeout:
		return f.text("duel.timeout", m{"Winner": winner, "Loser": loser})
	case results.MethodAbandoned:
		return f.text("duel.abandoned", m{"A": a, "B": b})
	default:
		return f.text("duel.won", m{"Winner": winner, "Method": f.Method(rec.Method), "Turns": rec.Turns})
	}
}

func (f *Formatter) Status(snap *duel.Snapshot) string {
	sa, sb := snap.Sides[0], snap.Sides[1]
	return f.text("duel.status", m{
		"A":      sa.Identity.DisplayName(),
		"B":      sb.Identity.DisplayName(),
		"Turns":  snap.Turns,
		"ScoreA": len(sa.Score),
		"ScoreB": len(sb.Score),
		"MovedA": sa.Moved,
		"MovedB": sb.Moved,
	})
}

func (f *Formatter) Profile(name string, p *results.Profile) string {
	if p == nil || p.Played() == 0 {
		return f.text("profile.none", m{"Player": name})
	}
	return f.text("profile.summary", m{
		"Player":     name,
		"Wins":       p.Wins,
		"Losses":     p.Losses,
		"Draws":      p.Draws,
		"Played":     p.Played(),
		"LastPlayed": p.LastPlayedAt.In(f.loc).Format("2006-01-02 15:04"),
	})
}

// History lists recent duels from userID's side, folded behind "see more".
func (f *Formatter) History(userID string, records []*results.Record) string {
	if len(records) == 0 {
		return f.text("history.none", nil)
	}
	header := f.text("history.header", nil)
	lines := []string{header}
	for i, r := range records {
		outcome := "history.draw"
		switch r.WinnerID {
		case "":
		case userID:
			outcome = "history.win"
		default:
			outcome = "history.loss"
		}
		_, opp := r.Opponent(userID)
		lines = append(lines, f.text("history.line", m{
			"Index":    i + 1,
			"Result":   f.text(outcome, nil),
			"Opponent": opp,
			"Method":   f.Method(r.Method),
			"Turns":    r.Turns,
			"Date":     r.EndedAt.In(f.loc).Format("01-02 15:04"),
		}))
	}
	return ApplySeeMoreWithHeader(strings.Join(lines, "\n"), header)
}

func (f *Formatter) Help() string {
	header := f.text("help.header", nil)
	body := f.text("help.body", m{"Timeout": humanDuration(f.turnTimeout)})
	return ApplySeeMoreWithHeader(header+"\n\n"+body, header)
}

// Error maps domain errors to a user-facing line.
func (f *Formatter) Error(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, challenge.ErrSelfChallenge), errors.Is(err, cardjitsu.ErrSelfDuel):
		return f.text("challenge.self", nil)
	case errors.Is(err, challenge.ErrInvalidArgs):
		return f.text("challenge.need_target", nil)
	case errors.Is(err, challenge.ErrAlreadyPending):
		return f.text("challenge.already_pending", nil)
	case errors.Is(err, challenge.ErrNoPending):
		return f.text("challenge.none", nil)
	case errors.Is(err, duel.ErrOpponentBusy):
		return f.text("challenge.opponent_busy", nil)
	case errors.Is(err, cardjitsu.ErrAlreadyInGame):
		return f.text("duel.already_in_game", nil)
	case errors.Is(err, cardjitsu.ErrNotInGame):
		return f.text("duel.not_in_game", nil)
	case errors.Is(err, cardjitsu.ErrAlreadyMoved):
		return f.text("duel.already_moved", nil)
	case errors.Is(err, cardjitsu.ErrInvalidHandIndex):
		return f.text("duel.invalid_index", m{"Max": cardjitsu.HandSize})
	default:
		return f.text("common.error", nil)
	}
}

func humanDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "-"
	case d%time.Minute == 0:
		return strconv.Itoa(int(d/time.Minute)) + "분"
	case d < time.Minute:
		return strconv.Itoa(int(d/time.Second)) + "초"
	default:
		return strconv.Itoa(int(d/time.Minute)) + "분 " + strconv.Itoa(int(d%time.Minute/time.Second)) + "초"
	}
}

func itoa(n int) string { return strconv.Itoa(n) }
