package presenter

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/park285/CardJitsu-KakaoTalk-bot/internal/duel"
	"github.com/park285/CardJitsu-KakaoTalk-bot/internal/render"
)

// Presenter delivers formatted messages and hand images without coupling to the
// command layer.
type Presenter struct {
	*Formatter
	renderer    render.HandRenderer
	sendMessage func(room, message string) error
	sendImage   func(room, imageBase64 string) error
}

func NewPresenter(f *Formatter, renderer render.HandRenderer, sendMessage func(room, message string) error, sendImage func(room, imageBase64 string) error) *Presenter {
	return &Presenter{
		Formatter:   f,
		renderer:    renderer,
		sendMessage: sendMessage,
		sendImage:   sendImage,
	}
}

func (p *Presenter) Send(room, message string) error {
	if p == nil || p.sendMessage == nil || strings.TrimSpace(message) == "" {
		return nil
	}
	return p.sendMessage(room, message)
}

// Hand sends userID's hand as text and, when a renderer is set, as a PNG.
func (p *Presenter) Hand(ctx context.Context, room string, snap *duel.Snapshot, userID string) error {
	if p == nil || snap == nil {
		return nil
	}
	me, opp, ok := snap.Side(userID)
	if !ok {
		return nil
	}
	if err := p.Send(room, p.HandText(me)); err != nil {
		return err
	}
	if p.renderer == nil || p.sendImage == nil {
		return nil
	}
	img, err := p.renderer.RenderHand(ctx, render.HandView{
		Title:         me.Identity.DisplayName() + " vs " + opp.Identity.DisplayName(),
		Hand:          me.Hand,
		Score:         me.Score,
		OpponentScore: opp.Score,
		Footer:        "TURN " + itoa(snap.Turns+1),
	})
	if err != nil {
		return err
	}
	return p.sendImage(room, base64.StdEncoding.EncodeToString(img))
}
