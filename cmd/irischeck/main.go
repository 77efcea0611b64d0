package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/park285/CardJitsu-KakaoTalk-bot/internal/irisfast"
)

// irischeck verifies the Iris endpoints and header setup the bot will use.
func main() {
	watch := flag.Duration("watch", 10*time.Second, "how long to print WS messages")
	room := flag.String("room", "", "send a test message to this room")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	baseURL := os.Getenv("IRIS_BASE_URL")
	wsURL := os.Getenv("IRIS_WS_URL")
	if baseURL == "" {
		logger.Fatal("IRIS_BASE_URL is required")
	}
	headers := irisfast.UserHeaders(os.Getenv("X_USER_ID"), os.Getenv("X_USER_EMAIL"), os.Getenv("X_SESSION_ID"))
	client := irisfast.NewClient(baseURL, irisfast.WithHeaderProvider(headers), irisfast.WithTimeout(8*time.Second))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if cfg, err := client.GetConfig(ctx); err != nil {
		logger.Error("config_failed", zap.Error(err))
	} else {
		logger.Info("config_ok",
			zap.Int("port", cfg.Port),
			zap.Int("polling", cfg.PollingSpeed),
			zap.Int("rate", cfg.MessageRate),
			zap.String("endpoint", cfg.WebserverEndpoint),
		)
	}
	if *room != "" {
		if err := client.SendMessage(ctx, *room, "irischeck ping"); err != nil {
			logger.Error("reply_failed", zap.String("room", *room), zap.Error(err))
		} else {
			logger.Info("reply_ok", zap.String("room", *room))
		}
	}

	if wsURL == "" {
		logger.Info("ws_skipped", zap.String("reason", "IRIS_WS_URL not set"))
		return
	}
	ws := irisfast.NewWebSocket(wsURL, 0)
	ws.SetHeaderProvider(headers)
	ws.OnStateChange(func(state irisfast.WebSocketState) {
		logger.Info("ws_state", zap.Stringer("state", state))
	})
	ws.OnMessage(func(msg *irisfast.Message) {
		logger.Info("ws_message", zap.String("room", msg.Room), zap.String("user_id", msg.UserID()), zap.String("sender", msg.SenderName()), zap.String("text", msg.Msg))
	})

	cctx, ccancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer ccancel()
	if err := ws.Connect(cctx); err != nil {
		logger.Error("ws_connect_failed", zap.Error(err))
		return
	}
	time.Sleep(*watch)
	_ = ws.Close(context.Background())
}
