// Command universed runs the universe directory and presence service.
package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/universed/internal/config"
	"github.com/Faultbox/universed/internal/database/memorydb"
	"github.com/Faultbox/universed/internal/license"
	"github.com/Faultbox/universed/internal/logger"
	"github.com/Faultbox/universed/internal/metrics"
	"github.com/Faultbox/universed/internal/universe"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== universe service ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	listener, err := net.Listen("tcp", cfg.Network.ListenAddr)
	if err != nil {
		logger.Fatal("failed to listen", zap.String("addr", cfg.Network.ListenAddr), zap.Error(err))
	}
	defer listener.Close()
	logger.Info("listening", zap.String("addr", cfg.Network.ListenAddr))

	db := memorydb.New()
	lic := license.NewTracker(license.StaticIssuer{Payload: []byte{0}}, cfg.License.GrantHistorySize)
	svc := universe.New(cfg, listener, db, lic)

	go func() {
		if err := metrics.Serve(cfg.Network.MetricsAddr); err != nil {
			logger.Error("metrics server stopped", zap.Error(err))
		}
	}()

	stop := make(chan struct{})
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		logger.Info("shutdown signal received")
		close(stop)
	}()

	svc.Run(stop)
	logger.Info("universe service closed normally")
}
