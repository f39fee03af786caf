package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/inryceu/Poker/internal/game"
	"github.com/inryceu/Poker/internal/server"
	"github.com/inryceu/Poker/internal/session"
)

var CLI struct {
	Config   string `short:"c" long:"config" default:"poker-server.hcl" help:"Path to HCL configuration file"`
	Addr     string `short:"a" long:"addr" help:"Server address to bind to (overrides config)"`
	LogLevel string `short:"l" long:"log-level" help:"Log level (overrides config)"`
}

func main() {
	kctx := kong.Parse(&CLI)

	cfg, err := server.LoadServerConfig(CLI.Config)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		kctx.Exit(1)
	}

	if CLI.Addr != "" {
		cfg.Server.Address = CLI.Addr
	}
	if CLI.LogLevel != "" {
		cfg.Server.LogLevel = CLI.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		kctx.Exit(1)
	}

	logger := log.New(os.Stderr)
	switch cfg.Server.LogLevel {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "info":
		logger.SetLevel(log.InfoLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}

	logger.Info("Starting Poker Server",
		"addr", cfg.GetServerAddress(),
		"startBalance", cfg.Sessions.StartBalance,
		"minBet", cfg.Sessions.MinBet)

	repo := session.NewRepository()
	wsServer := server.NewServer(cfg.GetServerAddress(), logger)
	engine := game.NewEngine(repo, wsServer, wsServer, quartz.NewReal(), nil, logger)
	gameService := server.NewGameService(repo, engine, wsServer, cfg.Sessions, logger)
	wsServer.SetGameService(gameService)

	g, ctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		return wsServer.Start()
	})

	g.Go(func() error {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		select {
		case s := <-sig:
			logger.Info("Shutting down server...", "signal", s)
			return wsServer.Stop()
		case <-ctx.Done():
			return nil
		}
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server failed", "error", err)
		kctx.Exit(1)
	}
}
