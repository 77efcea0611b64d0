package jitsudto

import "time"

// CardView is a card as shown to clients.
type CardView struct {
	ID      int    `json:"id"`
	Element string `json:"element"`
	Color   string `json:"color"`
	Value   int    `json:"value"`
}

// PlayerSummary hides the hand; only public duel state is exposed.
type PlayerSummary struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Moved    bool       `json:"moved"`
	DeckSize int        `json:"deck_size"`
	Score    []CardView `json:"score"`
}

type DuelSummary struct {
	GameID       string          `json:"game_id"`
	Room         string          `json:"room"`
	State        string          `json:"state"`
	Turns        int             `json:"turns"`
	StartedAt    time.Time       `json:"started_at"`
	LastActivity time.Time       `json:"last_activity"`
	IdleSeconds  int64           `json:"idle_seconds"`
	Players      []PlayerSummary `json:"players"`
}

type DuelList struct {
	Count int           `json:"count"`
	Duels []DuelSummary `json:"duels"`
}

type Health struct {
	Status      string `json:"status"`
	ActiveDuels int    `json:"active_duels"`
	Redis       string `json:"redis"`
}

type Profile struct {
	UserID       string     `json:"user_id"`
	Name         string     `json:"name"`
	Wins         int        `json:"wins"`
	Losses       int        `json:"losses"`
	Draws        int        `json:"draws"`
	Played       int        `json:"played"`
	LastPlayedAt *time.Time `json:"last_played_at,omitempty"`
}
