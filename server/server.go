package server

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"gorm.io/gorm"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"

	"github.com/freedesk/mailroom/api"
	"github.com/freedesk/mailroom/config"
	"github.com/freedesk/mailroom/interfaces"
	"github.com/freedesk/mailroom/internal/cron"
	"github.com/freedesk/mailroom/internal/daemon"
	"github.com/freedesk/mailroom/internal/logger"
	"github.com/freedesk/mailroom/internal/repository"
	"github.com/freedesk/mailroom/internal/tracing"
	"github.com/freedesk/mailroom/services/events"
	"github.com/freedesk/mailroom/services/fetch"
	"github.com/freedesk/mailroom/services/imap"
)

type Server struct {
	config       *config.Config
	log          logger.Logger
	httpServer   *http.Server
	router       *gin.Engine
	repositories *repository.Repositories
	fetcher      *fetch.RecordingFetcher
	publisher    interfaces.EventPublisher
	cronManager  *cron.CronManager
	tracerCloser io.Closer
}

func NewServer(cfg *config.Config, db *gorm.DB) (*Server, error) {
	// Initialize logger
	appLogger := logger.NewAppLogger(cfg.Logger)
	appLogger.InitLogger()

	// Initialize tracing
	tracer, closer, err := tracing.NewJaegerTracer(cfg.Tracing, appLogger)
	if err != nil {
		log.Fatalf("Could not initialize jaeger tracer: %s", err.Error())
	}
	opentracing.SetGlobalTracer(tracer)

	// Initialize repositories
	repos := repository.InitRepositories(db)

	// Event publisher: RabbitMQ when configured, otherwise a no-op
	var publisher interfaces.EventPublisher
	if cfg.AppConfig.RabbitMQURL != "" {
		publisher, err = events.NewRabbitMQPublisher(cfg.AppConfig.RabbitMQURL, appLogger, nil)
		if err != nil {
			return nil, err
		}
	} else {
		appLogger.Warn("RABBITMQ_URL not set, events will not be published")
		publisher = events.NewNoopPublisher(appLogger)
	}

	// Ingestion pipeline
	mailClient := imap.NewIMAPClient(appLogger)
	orchestrator := fetch.NewOrchestrator(
		mailClient,
		repos.ThreadRepository,
		repos.ConversationRepository,
		repos.CustomerRepository,
		repos.FolderRepository,
		publisher,
		cfg.FetchConfig,
		appLogger,
	)
	iterator := fetch.NewMailboxIterator(
		repos.MailboxRepository,
		repos.ActivityLogRepository,
		orchestrator,
		appLogger,
	)
	fetcher := fetch.NewRecordingFetcher(iterator)

	// Initialize Gin
	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	return &Server{
		config:       cfg,
		log:          appLogger,
		router:       router,
		repositories: repos,
		fetcher:      fetcher,
		publisher:    publisher,
		cronManager:  cron.NewCronManager(cfg, appLogger, kubernetesClient(appLogger), fetcher),
		tracerCloser: closer,
		httpServer: &http.Server{
			Addr:    ":" + cfg.AppConfig.APIPort,
			Handler: router,
		},
	}, nil
}

// Fetcher exposes the ingestion entry point for one-shot runs.
func (s *Server) Fetcher() interfaces.EmailFetcher {
	return s.fetcher
}

// kubernetesClient builds an in-cluster client for leader election, or
// nil outside a cluster so crons run in local mode.
func kubernetesClient(log logger.Logger) kubernetes.Interface {
	clusterConfig, err := rest.InClusterConfig()
	if err != nil {
		log.Info("Not running in a cluster, cron leader election disabled")
		return nil
	}
	k8s, err := kubernetes.NewForConfig(clusterConfig)
	if err != nil {
		log.Warnf("Failed to create kubernetes client: %v", err)
		return nil
	}
	return k8s
}

// RunFetchDaemon polls mailboxes in a plain interval loop, without cron
// or the HTTP surface. Blocks until SIGINT/SIGTERM.
func (s *Server) RunFetchDaemon() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		cancel()
	}()

	supervisor := daemon.NewSupervisor(
		"fetch-emails",
		time.Duration(s.config.FetchConfig.IntervalSeconds)*time.Second,
		func(ctx context.Context) {
			s.fetcher.Run(ctx)
		},
		s.log,
	)
	supervisor.Run(ctx)

	return s.publisher.Close()
}

func (s *Server) recoverWithJaeger(name string) {
	if r := recover(); r != nil {
		span := opentracing.GlobalTracer().StartSpan(
			fmt.Sprintf("panic.%s", name),
		)
		defer span.Finish()
		ext.Error.Set(span, true)
		span.LogKV(
			"event", "panic",
			"process", name,
			"error", fmt.Sprintf("%v", r),
			"stack", string(debug.Stack()),
		)
		s.log.Errorf("Panic in %s: %v\n%s", name, r, debug.Stack())
	}
}

func (s *Server) wrapGoroutine(name string, fn func()) {
	defer s.recoverWithJaeger(name)
	fn()
}

func (s *Server) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	api.RegisterRoutes(ctx, s.router, s.fetcher, s.config.AppConfig.APIKey)

	// Start the fetch scheduler
	podName := os.Getenv("POD_NAME")
	if podName == "" {
		podName = "local"
	}
	namespace := os.Getenv("POD_NAMESPACE")
	if namespace == "" {
		namespace = "default"
	}
	if err := s.cronManager.Start(podName, namespace); err != nil {
		return err
	}

	// Start HTTP server in a goroutine with panic recovery
	go s.wrapGoroutine("http_server", func() {
		s.log.Infof("Starting HTTP server on port %s", s.config.AppConfig.APIPort)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Errorf("HTTP server error: %v", err)
		}
	})
	s.log.Info("Mailroom is now running. Press Ctrl+C to exit.")

	return s.waitForShutdown()
}

func (s *Server) waitForShutdown() error {
	defer s.recoverWithJaeger("shutdown")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	s.log.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.log.Errorf("HTTP server shutdown error: %v", err)
	}

	s.cronManager.Stop()

	if err := s.publisher.Close(); err != nil {
		s.log.Errorf("Event publisher shutdown error: %v", err)
	}

	if s.tracerCloser != nil {
		s.tracerCloser.Close()
	}

	return nil
}
