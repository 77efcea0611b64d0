package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/park285/CardJitsu-KakaoTalk-bot/internal/bot"
	appcfg "github.com/park285/CardJitsu-KakaoTalk-bot/internal/config"
	"github.com/park285/CardJitsu-KakaoTalk-bot/internal/httpapi"
	"github.com/park285/CardJitsu-KakaoTalk-bot/internal/irisfast"
	"github.com/park285/CardJitsu-KakaoTalk-bot/internal/jitsubuilder"
	"github.com/park285/CardJitsu-KakaoTalk-bot/internal/msgcat"
	"github.com/park285/CardJitsu-KakaoTalk-bot/internal/obslog"
	"github.com/park285/CardJitsu-KakaoTalk-bot/internal/presenter"
	"github.com/park285/CardJitsu-KakaoTalk-bot/internal/render"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.Init(obslog.Options{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		ToConsole: cfg.Log.ToConsole,
		ToFile:    cfg.Log.ToFile,
		File:      cfg.Log.File,
		Caller:    cfg.Log.Caller,
	}); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	logger := obslog.L()
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	headers := irisfast.UserHeaders(cfg.XUserID, cfg.XUserEmail, cfg.XSessionID)
	client := irisfast.NewClient(cfg.IrisBaseURL, irisfast.WithHeaderProvider(headers))

	ws := irisfast.NewWebSocket(cfg.IrisWSURL, 5)
	ws.SetHeaderProvider(headers)
	ws.OnStateChange(func(state irisfast.WebSocketState) {
		logger.Info("ws_state", zap.String("state", state.String()))
	})
	egress := irisfast.NewEgress(cfg.EgressMode, client, ws, logger)

	deps, err := jitsubuilder.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("deps_init_failed", zap.Error(err))
	}
	defer func() { _ = deps.Close() }()

	cat, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		logger.Fatal("msgcat_init_failed", zap.Error(err))
	}
	send := func(room, message string) error {
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return egress.SendText(sctx, room, message)
	}
	sendImage := func(room, imageBase64 string) error {
		sctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return egress.SendImage(sctx, room, imageBase64)
	}
	pres := presenter.NewPresenter(
		presenter.NewFormatter(cat, cfg.BotPrefix, cfg.ChallengeTTL, cfg.TurnTimeout),
		render.NewPNGRenderer(),
		send,
		sendImage,
	)

	handler := bot.NewHandler(deps.Service, pres, bot.Options{
		Prefix:       cfg.BotPrefix,
		AllowedRooms: cfg.AllowedRooms,
	}, logger)
	deps.Service.SetNotifier(handler.NotifyConclusion)

	ws.OnMessage(func(msg *irisfast.Message) {
		if !handler.Accepts(msg) {
			return
		}
		// keep the WS read loop free
		go handler.Handle(ctx, msg)
	})

	go func() {
		if err := deps.Service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("duel_sweeper_stopped", zap.Error(err))
		}
	}()

	var srv *http.Server
	if cfg.HTTPAddr != "" {
		ping := func(c context.Context) error { return deps.Redis.Ping(c).Err() }
		srv = &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           httpapi.NewRouter(deps.Service, ping, logger),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("http_listen", zap.String("addr", cfg.HTTPAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http_server_failed", zap.Error(err))
			}
		}()
	}

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	err = ws.Connect(cctx)
	cancel()
	if err != nil {
		// Connect already scheduled reconnects; http egress still works meanwhile
		logger.Error("ws_connect_failed", zap.String("url", cfg.IrisWSURL), zap.Error(err))
	}
	logger.Info("jitsu_bot_ready", zap.String("prefix", cfg.BotPrefix), zap.String("egress", cfg.EgressMode), zap.Strings("rooms", cfg.AllowedRooms))

	<-ctx.Done()
	logger.Info("jitsu_bot_shutdown")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if srv != nil {
		_ = srv.Shutdown(shutdownCtx)
	}
	_ = ws.Close(shutdownCtx)
}
