package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/zerobond-network/zerobond-daemon/config"
	"github.com/zerobond-network/zerobond-daemon/internal/core/application"
	"github.com/zerobond-network/zerobond-daemon/internal/core/ports"
	inmemoryassets "github.com/zerobond-network/zerobond-daemon/internal/infrastructure/assets/inmemory"
	webhookpubsub "github.com/zerobond-network/zerobond-daemon/internal/infrastructure/pubsub/webhook"
	dbbadger "github.com/zerobond-network/zerobond-daemon/internal/infrastructure/storage/db/badger"
	"github.com/zerobond-network/zerobond-daemon/internal/infrastructure/storage/db/inmemory"
	inmemorytoken "github.com/zerobond-network/zerobond-daemon/internal/infrastructure/token/inmemory"
	httpinterface "github.com/zerobond-network/zerobond-daemon/internal/interfaces/http"
	"github.com/zerobond-network/zerobond-daemon/pkg/stats"
)

func main() {
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	adminAccount := config.GetString(config.AdminAccountKey)
	if adminAccount == "" {
		log.Fatal("ZEROBOND_ADMIN_ACCOUNT must be set")
	}

	repoManager, err := newRepoManager()
	if err != nil {
		log.WithError(err).Fatal("error while opening storage")
	}
	defer repoManager.Close()

	// The admin role is granted on first boot only, restarting against an
	// initialized datadir keeps the persisted admin.
	if err := repoManager.LedgerRepository().InitLedger(
		context.Background(), adminAccount,
	); err != nil {
		log.WithError(err).Fatal("error while initializing ledger")
	}

	// Markets outlive the process when backed by badger while the token
	// registry is process-local: rebind the bond token of every persisted
	// market so none of them is left with a dangling handle.
	tokenFactory := inmemorytoken.NewFactory()
	if err := restoreBondTokens(repoManager, tokenFactory); err != nil {
		log.WithError(err).Fatal("error while restoring bond tokens")
	}

	pubsubSvc := webhookpubsub.NewWebhookPubSubService(
		time.Duration(config.GetInt(config.WebhookRequestTimeoutKey)) * time.Second,
	)
	defer pubsubSvc.Close()

	ledgerSvc := application.NewLedgerService(
		repoManager,
		inmemoryassets.NewTransferService(),
		tokenFactory,
		pubsubSvc,
	)

	httpSvc, err := httpinterface.NewService(httpinterface.ServiceOpts{
		Port:          config.GetInt(config.ListeningPortKey),
		LedgerService: ledgerSvc,
		PubSubService: pubsubSvc,
		TLSKey:        config.GetString(config.TLSKeyKey),
		TLSCert:       config.GetString(config.TLSCertKey),
	})
	if err != nil {
		log.WithError(err).Fatal("error while setting up http interface")
	}

	if config.GetBool(config.EnableProfilerKey) {
		statsCtx, stopStats := context.WithCancel(context.Background())
		defer stopStats()
		stats.EnableMemoryStatistics(
			statsCtx,
			time.Duration(config.GetInt(config.StatsIntervalKey))*time.Second,
			filepath.Join(config.GetDatadir(), config.ProfilerLocation),
		)
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- httpSvc.Start()
	}()

	log.Debug("daemon started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	select {
	case err := <-errChan:
		if err != nil {
			log.WithError(err).Fatal("error listening on http interface")
		}
	case sig := <-sigChan:
		log.Debugf("received %s, shutting down", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSvc.Stop(ctx); err != nil {
			log.WithError(err).Error("error while shutting down http interface")
		}
	}

	log.Debug("exiting")
}

func restoreBondTokens(
	repoManager ports.RepoManager, factory *inmemorytoken.Factory,
) error {
	ctx := context.Background()
	markets, err := repoManager.MarketRepository().GetAllMarkets(ctx)
	if err != nil {
		return err
	}

	for i := range markets {
		m := &markets[i]
		if _, err := factory.RestoreBondToken(
			ctx, m.BondHandle, m.Name, m.Symbol, m.Decimals, m.Maturity,
			m.Underlying,
		); err != nil {
			return fmt.Errorf("restoring bond token of market %s: %w", m.Key(), err)
		}
	}
	return nil
}

func newRepoManager() (ports.RepoManager, error) {
	switch dbType := config.GetString(config.DbTypeKey); dbType {
	case config.DbInMemory:
		return inmemory.NewDbManager(), nil
	case config.DbBadger:
		dbDir := filepath.Join(config.GetDatadir(), config.DbLocation)
		return dbbadger.NewDbManager(dbDir, log.StandardLogger())
	default:
		return nil, fmt.Errorf("unknown db type %s", dbType)
	}
}
