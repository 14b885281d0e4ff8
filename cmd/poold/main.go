package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/shareswap/poold/internal/config"
	"github.com/shareswap/poold/internal/core/application"
	httpinterface "github.com/shareswap/poold/internal/interfaces/http"
	"github.com/shareswap/poold/pkg/stats"
)

func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	datadir := config.GetDatadir()
	feeBps, protocolFeeBps := config.GetFeeBps()
	operator := config.GetOperatorPubkey()

	appConfig := &application.Config{
		DBType:         config.GetString(config.DBTypeKey),
		Datadir:        datadir,
		Postgres:       config.GetPostgresConfig(),
		FeeBps:         feeBps,
		ProtocolFeeBps: protocolFeeBps,
		Operator:       operator,
		WebhookTimeout: time.Duration(config.GetInt(config.WebhookTimeoutKey)) * time.Second,
		WebhookRps:     config.GetInt(config.WebhookRpsKey),
	}
	if err := appConfig.Validate(); err != nil {
		log.WithError(err).Fatal("invalid app config")
	}
	defer appConfig.Close()

	svc, err := httpinterface.NewService(httpinterface.ServiceOpts{
		Port:               config.GetInt(config.HTTPListeningPortKey),
		TLSKey:             config.GetString(config.TLSKeyKey),
		TLSCert:            config.GetString(config.TLSCertKey),
		NoAuth:             config.GetBool(config.NoAuthKey),
		Operator:           operator,
		CORSAllowedOrigins: config.GetStringSlice(config.CORSAllowedOriginsKey),
		PoolSvc:            appConfig.PoolService(),
		PubSubSvc:          appConfig.PubSubService(),
	})
	if err != nil {
		log.WithError(err).Fatal("failed to initialize http interface")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if config.GetBool(config.EnableProfilerKey) {
		interval := time.Duration(config.GetInt(config.StatsIntervalKey)) * time.Second
		stats.EnableMemoryStatistics(
			ctx, interval, filepath.Join(datadir, config.ProfilerLocation),
		)
	}

	log.Info("starting daemon")
	if config.GetBool(config.NoAuthKey) {
		log.Warn("request signatures are not verified, do not expose the daemon")
	}
	if len(operator) <= 0 {
		log.Info("no operator pubkey set, faucet and webhooks are disabled")
	}
	defer log.Info("shutdown")

	if err := svc.Start(); err != nil {
		log.WithError(err).Error("failed to start daemon")
		return
	}
	defer svc.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT, os.Interrupt)
	<-sigChan

	log.Info("shutting down daemon")
}
