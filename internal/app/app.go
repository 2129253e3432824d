package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/nbd-wtf/go-nostr"
	"github.com/sirupsen/logrus"

	"github.com/ostromhub/venue-token-service/config"
	"github.com/ostromhub/venue-token-service/internal/dedup"
	"github.com/ostromhub/venue-token-service/internal/handlers"
	"github.com/ostromhub/venue-token-service/internal/models"
	"github.com/ostromhub/venue-token-service/internal/publisher"
	"github.com/ostromhub/venue-token-service/internal/relay"
	"github.com/ostromhub/venue-token-service/internal/repository/posgrest"
	"github.com/ostromhub/venue-token-service/internal/service"
	"github.com/ostromhub/venue-token-service/internal/token"
)

// App wires the relay pool, processors and admin surface together and owns
// their lifecycle.
type App struct {
	config *config.Config
	Router *gin.Engine

	pool       *relay.Pool
	handler    *handlers.EventHandler
	offers     service.OfferStore
	requestSet *dedup.Store
	receiptSet *dedup.Store
	mirror     *publisher.KafkaMirror

	events   <-chan relay.InboundEvent
	dispatch sync.WaitGroup

	httpServer *http.Server
}

func (a *App) Initialize(cfg *config.Config) error {
	a.config = cfg

	db, err := cfg.DB.GormConnect()
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&models.Offer{}); err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}
	a.offers = posgrest.New[models.Offer](db)

	a.requestSet, err = dedup.NewStore(cfg.Dedup.Dir, "requests", cfg.Dedup.MaxEntries)
	if err != nil {
		return fmt.Errorf("opening request dedup store: %w", err)
	}
	a.receiptSet, err = dedup.NewStore(cfg.Dedup.Dir, "receipts", cfg.Dedup.MaxEntries)
	if err != nil {
		return fmt.Errorf("opening receipt dedup store: %w", err)
	}

	backoff := relay.NewBackoff(relay.BackoffConfig{
		Base:          cfg.Relay.BackoffBase,
		RateLimitBase: cfg.Relay.BackoffRLBase,
		Max:           cfg.Relay.BackoffMax,
	})
	a.pool = relay.NewPool(relay.PoolConfig{
		PrivateKey:     cfg.Relay.PrivateKey,
		ConnectTimeout: cfg.Relay.ConnectTimeout,
		PublishTimeout: cfg.Relay.PublishTimeout,
		AuthGrace:      cfg.Relay.AuthGrace,
		ReconnectDelay: cfg.Relay.ReconnectDelay,
		Lookback:       cfg.Relay.Lookback,
	}, backoff)

	relayPublisher := publisher.NewRelayPublisher(a.pool, cfg.Relay.PrivateKey)
	bridge := token.NewBridge(cfg.Chain.BridgeURL, cfg.Chain.BridgeTimeout)

	paymentService := service.NewPaymentService(a.requestSet, bridge, relayPublisher, cfg.ServerPubkey())
	receiptService := service.NewReceiptService(a.receiptSet, a.offers, relayPublisher)

	if cfg.Kafka.MirrorEnabled {
		a.mirror = publisher.NewKafkaMirror(
			cfg.Kafka.Brokers,
			[]string{cfg.Kafka.ReceiptTopic, cfg.Kafka.CalendarTopic},
			cfg.Kafka.GetRetryConfig(),
		)
		paymentService.WithMirror(a.mirror, cfg.Kafka.ReceiptTopic)
		receiptService.WithMirror(a.mirror, cfg.Kafka.CalendarTopic)
	}

	a.handler = handlers.NewEventHandler(paymentService, receiptService)
	a.events = a.pool.Events()

	a.Router = gin.Default()
	a.Router.Use(gin.Recovery())
	a.RegisterRoutes()

	return nil
}

// Run connects the relay pool, starts the dispatch loops and the admin
// server, then blocks until the context is cancelled. Shutdown closes every
// connection without reconnect and flushes both processed-id sets.
func (a *App) Run(ctx context.Context) error {
	urls := a.config.Relay.RelayURLs()
	connected, failed := a.pool.ConnectAll(ctx, urls)
	logrus.Infof("relay pool: %d connected, %d failed of %d", connected, failed, len(urls))
	if connected == 0 {
		logrus.Warn("no relays connected yet; background reconnects will keep trying")
	}

	a.pool.SubscribeAll(nostr.Filter{
		Kinds: []int{models.KindPaymentRequest, models.KindPaymentReceipt},
	})

	a.dispatch.Add(1)
	go a.dispatchEvents(ctx)
	go a.watchStates(ctx)

	a.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%s", a.config.APP.PORT),
		Handler: a.Router,
	}
	go func() {
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("admin server: %v", err)
		}
	}()

	<-ctx.Done()
	// Stop intake and let an in-flight token operation finish before the
	// pool closes, so its receipt can still go out.
	a.dispatch.Wait()
	a.shutdown()
	return nil
}

// dispatchEvents consumes the merged inbound stream. Processing happens on
// this single loop; a slow token operation stalls delivery rather than
// racing it, which the dedup locks make safe either way.
func (a *App) dispatchEvents(ctx context.Context) {
	defer a.dispatch.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case inbound := <-a.events:
			// In-flight operations run to completion even during shutdown;
			// only intake is tied to the run context.
			if err := a.handler.Handle(context.Background(), inbound.Relay, inbound.Event); err != nil {
				logrus.Error(err.Error())
			}
		}
	}
}

func (a *App) watchStates(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case change := <-a.pool.States():
			switch change.State {
			case relay.StateConnected:
				logrus.Infof("relay %s connected", change.Relay)
			case relay.StateDisconnected:
				logrus.Warnf("relay %s disconnected: %v", change.Relay, change.Err)
			case relay.StateAuthRejected:
				logrus.Errorf("relay %s rejected authentication: %v", change.Relay, change.Err)
			case relay.StateEndOfStored:
				logrus.Debugf("relay %s finished stored-event replay", change.Relay)
			}
		}
	}
}

func (a *App) shutdown() {
	a.pool.CloseAll()

	if a.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), httpShutdownTimeout)
		defer cancel()
		_ = a.httpServer.Shutdown(shutdownCtx)
	}

	if err := a.requestSet.Flush(); err != nil {
		logrus.Errorf("flushing request dedup store: %v", err)
	}
	if err := a.receiptSet.Flush(); err != nil {
		logrus.Errorf("flushing receipt dedup store: %v", err)
	}

	if a.mirror != nil {
		if err := a.mirror.Close(); err != nil {
			logrus.Errorf("closing kafka mirror: %v", err)
		}
	}

	log.Println("venue token service stopped")
}
