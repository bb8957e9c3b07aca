package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"peopledesk/internal/analytics"
	analyticshandler "peopledesk/internal/analytics/handler"
	"peopledesk/internal/governance"
	governancehandler "peopledesk/internal/governance/handler"
	"peopledesk/internal/identity"
	identityhandler "peopledesk/internal/identity/handler"
	"peopledesk/internal/jwttoken"
	"peopledesk/internal/platform/config"
	"peopledesk/internal/platform/httpserver"
	"peopledesk/internal/platform/logger"
	"peopledesk/internal/platform/metrics"
	platformredis "peopledesk/internal/platform/redis"
	"peopledesk/internal/policy"
	policyhandler "peopledesk/internal/policy/handler"
	httptransport "peopledesk/internal/transport/http"
	"peopledesk/internal/workflow"
	workflowhandler "peopledesk/internal/workflow/handler"
)

// main wires stores, services and the HTTP router, then runs the server
// until a shutdown signal arrives. Business logic lives in the internal
// service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	ctx := context.Background()

	userStore := identity.NewInMemoryUserStore()
	if err := identity.SeedDemoUsers(ctx, userStore); err != nil {
		log.Error("failed to seed demo users", "error", err)
		os.Exit(1)
	}

	leaveStore := workflow.NewInMemoryLeaveStore()
	documentStore := workflow.NewInMemoryDocumentStore()
	taskStore := workflow.NewInMemoryTaskStore()
	feedbackStore := policy.NewInMemoryFeedbackStore()
	eventStore := analytics.NewInMemoryEventStore()
	recorder := analytics.NewRecorder(eventStore, log)

	documents, err := policy.LoadDataset(cfg.PolicyDatasetPath)
	if err != nil {
		log.Error("failed to load policy dataset", "error", err)
		os.Exit(1)
	}

	var responseStore policy.ResponseStore = policy.NewInMemoryResponseStore()
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		responseStore = policy.NewRedisResponseStore(redisClient, cfg.Redis.ResponseTTL)
		log.Info("using redis response store")
	}

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.TokenTTL)

	identityService, err := identity.NewService(userStore, jwtService, recorder,
		identity.WithLogger(log), identity.WithMetrics(m))
	if err != nil {
		log.Error("failed to build identity service", "error", err)
		os.Exit(1)
	}

	governanceService, err := governance.NewService(
		userStore, leaveStore, documentStore, taskStore,
		feedbackStore, eventStore, recorder,
		governance.WithLogger(log),
		governance.WithMetrics(m),
		governance.WithMinRetentionDays(cfg.RetentionMinDays),
	)
	if err != nil {
		log.Error("failed to build governance service", "error", err)
		os.Exit(1)
	}

	workflowService, err := workflow.NewService(
		leaveStore, documentStore, taskStore, userStore,
		governanceService, recorder,
		workflow.WithLogger(log),
		workflow.WithMetrics(m),
	)
	if err != nil {
		log.Error("failed to build workflow service", "error", err)
		os.Exit(1)
	}

	policyService, err := policy.NewService(
		documents, responseStore, feedbackStore,
		governanceService, recorder,
		policy.WithLogger(log),
		policy.WithMetrics(m),
	)
	if err != nil {
		log.Error("failed to build policy service", "error", err)
		os.Exit(1)
	}

	analyticsService, err := analytics.New(eventStore, feedbackStore)
	if err != nil {
		log.Error("failed to build analytics service", "error", err)
		os.Exit(1)
	}

	identityHandler := identityhandler.New(identityService, log)
	router := httptransport.NewRouter(httptransport.Deps{
		Logger:       log,
		Metrics:      m,
		JWTValidator: jwtService,
		Public:       []httptransport.PublicRegistrar{identityHandler},
		Protected: []httptransport.Registrar{
			identityHandler,
			workflowhandler.New(workflowService, identityService, log),
			policyhandler.New(policyService, identityService, log),
			governancehandler.New(governanceService, identityService, log),
			analyticshandler.New(analyticsService, identityService, log),
		},
	})

	srv := httpserver.New(cfg.Addr, router)

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		log.Info("starting peopledesk", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
