package main

import (
	"fmt"
	"math/rand"

	"github.com/park285/CardJitsu-KakaoTalk-bot/internal/cardjitsu"
)

// Stats aggregates simulated duel outcomes.
type Stats struct {
	Duels      int
	ByKind     map[cardjitsu.WinKind]int
	BySeat     [2]int
	Unfinished int
	Turns      int
	Ties       int
	MaxTurns   int
}

func (s *Stats) AvgTurns() float64 {
	if s.Duels == 0 {
		return 0
	}
	return float64(s.Turns) / float64(s.Duels)
}

// simulate plays n duels with uniformly random moves. Duels still open after
// turnLimit turns count as unfinished.
func simulate(starter []cardjitsu.Card, n, turnLimit int, seed int64) (*Stats, error) {
	rng := rand.New(rand.NewSource(seed))
	seq := 0
	reg, err := cardjitsu.NewRegistry(starter,
		cardjitsu.WithRand(rng),
		cardjitsu.WithIDGenerator(func() string { seq++; return fmt.Sprintf("sim-%d", seq) }),
	)
	if err != nil {
		return nil, err
	}
	a := cardjitsu.Identity{ID: "a", Name: "A"}
	b := cardjitsu.Identity{ID: "b", Name: "B"}

	st := &Stats{ByKind: make(map[cardjitsu.WinKind]int)}
	for i := 0; i < n; i++ {
		g, err := reg.StartDuel(a, b)
		if err != nil {
			return nil, err
		}
		finished := false
		for turn := 0; turn < turnLimit && !finished; turn++ {
			if _, err := reg.Play(a.ID, rng.Intn(cardjitsu.HandSize)); err != nil {
				return nil, err
			}
			res, err := reg.Play(b.ID, rng.Intn(cardjitsu.HandSize))
			if err != nil {
				return nil, err
			}
			if res.Turn != nil && res.Turn.Tie {
				st.Ties++
			}
			if res.Winner != nil {
				finished = true
				st.ByKind[res.WinKind]++
				if res.Winner.Identity().ID == b.ID {
					st.BySeat[1]++
				} else {
					st.BySeat[0]++
				}
			}
		}
		turns := g.TurnsPlayed()
		st.Turns += turns
		st.MaxTurns = max(st.MaxTurns, turns)
		if !finished {
			st.Unfinished++
		}
		st.Duels++
		reg.EndDuel(g)
	}
	return st, nil
}
