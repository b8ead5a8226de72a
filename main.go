package main

import (
	"context"
	"io"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"cloud.google.com/go/storage"
	"github.com/alecthomas/kingpin"
	"github.com/estafette/estafette-ci-build-agent/pkg/api"
	"github.com/estafette/estafette-ci-build-agent/pkg/clients/cloudstorage"
	"github.com/estafette/estafette-ci-build-agent/pkg/clients/clusterapi"
	"github.com/estafette/estafette-ci-build-agent/pkg/clients/containerapi"
	"github.com/estafette/estafette-ci-build-agent/pkg/clients/gitapi"
	"github.com/estafette/estafette-ci-build-agent/pkg/services/buildlogs"
	"github.com/estafette/estafette-ci-build-agent/pkg/services/executor"
	"github.com/estafette/estafette-ci-build-agent/pkg/services/images"
	"github.com/estafette/estafette-ci-build-agent/pkg/services/jobmanager"
	"github.com/estafette/estafette-ci-build-agent/pkg/services/queue"
	"github.com/estafette/estafette-ci-build-agent/pkg/services/results"
	"github.com/estafette/estafette-ci-build-agent/pkg/services/scheduler"
	"github.com/estafette/estafette-ci-build-agent/pkg/services/staging"
	crypt "github.com/estafette/estafette-ci-crypt"
	docker "github.com/fsouza/go-dockerclient"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	jaegercfg "github.com/uber/jaeger-client-go/config"
	jprom "github.com/uber/jaeger-lib/metrics/prometheus"
	"golang.org/x/sync/errgroup"
)

const appName = "estafette-ci-build-agent"

var (
	version   string
	branch    string
	revision  string
	buildDate string
	goVersion = runtime.Version()
)

var (
	// flags
	prometheusMetricsAddress = kingpin.Flag("metrics-listen-address", "The address to listen on for Prometheus metrics requests.").Default(":9001").String()
	prometheusMetricsPath    = kingpin.Flag("metrics-path", "The path to listen for Prometheus metrics requests.").Default("/metrics").String()

	apiAddress = kingpin.Flag("api-listen-address", "The address to listen on for api HTTP requests.").Default(":5000").String()

	configFilePath      = kingpin.Flag("config-file-path", "The path to the yaml config file configuring this build agent.").Default("/configs/config.yaml").OverrideDefaultFromEnvar("CONFIG_FILE_PATH").String()
	secretDecryptionKey = kingpin.Flag("secret-decryption-key", "The AES-256 key used to decrypt secrets that have been encrypted with it.").Envar("SECRET_DECRYPTION_KEY").String()
	jwtKey              = kingpin.Flag("jwt-key", "The key used to sign and validate JWT tokens for the mutating api routes.").Envar("JWT_KEY").String()
)

func main() {

	// parse command line parameters
	kingpin.Parse()

	// configure json logging
	initLogging()

	// init tracing
	closer := initJaeger(appName)
	defer closer.Close()

	sigs := initGracefulShutdown()

	// start prometheus
	go startPrometheus()

	ctx := context.Background()

	config, queueService, clusterClient, cloudStorageClient, buildLogsService, schedulerService, jobManagerService, imagesService := getInstances(ctx)

	// handle api requests
	srv := handleRequests(config, scheduler.NewHandler(config, schedulerService, queueService, buildLogsService, cloudStorageClient))

	if err := schedulerService.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Starting scheduler failed")
	}

	// wait for graceful shutdown to finish
	<-sigs // Wait for signals (this hangs until a signal arrives)
	log.Debug().Msg("Shutting down...")

	// shut down gracefully
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful server shutdown failed")
	}

	log.Debug().Msg("Stopping scheduler...")
	gracePeriodCtx, gracePeriodCancel := context.WithTimeout(context.Background(), time.Duration(config.Agent.ShutdownGracePeriodSeconds)*time.Second)
	defer gracePeriodCancel()
	schedulerService.Stop(gracePeriodCtx)

	jobManagerService.Close()
	imagesService.Stop()

	if err := clusterClient.Close(); err != nil {
		log.Warn().Err(err).Msg("Closing cluster client failed")
	}

	log.Info().Msg("Build agent gracefully stopped")
}

func initGracefulShutdown() (sigs chan os.Signal) {
	sigs = make(chan os.Signal, 1)                                     // Create channel to receive OS signals
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM, syscall.SIGINT) // Register the sigs channel to receieve SIGTERM

	return
}

func startPrometheus() {
	log.Debug().
		Str("port", *prometheusMetricsAddress).
		Str("path", *prometheusMetricsPath).
		Msg("Serving Prometheus metrics...")

	http.Handle(*prometheusMetricsPath, promhttp.Handler())

	if err := http.ListenAndServe(*prometheusMetricsAddress, nil); err != nil {
		log.Fatal().Err(err).Msg("Starting Prometheus listener failed")
	}
}

func initLogging() {

	// log as severity for stackdriver logging to recognize the level
	zerolog.LevelFieldName = "severity"

	// set some default fields added to all logs
	log.Logger = zerolog.New(os.Stdout).With().
		Timestamp().
		Str("app", appName).
		Str("version", version).
		Logger()

	// use zerolog for any logs sent via standard log library
	stdlog.SetFlags(0)
	stdlog.SetOutput(log.Logger)

	// log startup message
	log.Info().
		Str("branch", branch).
		Str("revision", revision).
		Str("buildDate", buildDate).
		Str("goVersion", goVersion).
		Msgf("Starting %v...", appName)
}

// initJaeger returns an instance of Jaeger Tracer that can be configured with environment variables
// https://github.com/jaegertracing/jaeger-client-go#environment-variables
func initJaeger(service string) io.Closer {

	cfg, err := jaegercfg.FromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("Generating Jaeger config from environment variables failed")
	}

	if cfg.ServiceName == "" {
		cfg.ServiceName = service
	}

	closer, err := cfg.InitGlobalTracer(cfg.ServiceName, jaegercfg.Metrics(jprom.New()))
	if err != nil {
		log.Fatal().Err(err).Msg("Generating Jaeger tracer failed")
	}

	return closer
}

func getInstances(ctx context.Context) (*api.BuildAgentConfig, queue.Service, clusterapi.Client, cloudstorage.Client, buildlogs.Service, scheduler.Service, jobmanager.Service, images.Service) {

	// read config from file
	secretHelper := crypt.NewSecretHelper(*secretDecryptionKey, false)
	configReader := api.NewConfigReader(secretHelper, *jwtKey)

	config, err := configReader.ReadConfigFromFile(*configFilePath, true)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed reading configuration")
	}

	clusterClient := getClusterClient(ctx, config)
	queueService := queue.NewService(clusterClient)

	// container engine
	var dockerClient *docker.Client
	if config.Docker.Endpoint != "" {
		dockerClient, err = docker.NewClient(config.Docker.Endpoint)
	} else {
		dockerClient, err = docker.NewClientFromEnv()
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Creating docker client failed")
	}

	var containerClient containerapi.Client
	{
		containerClient = containerapi.NewClient(dockerClient, config.Docker.StopTimeoutSeconds)
		containerClient = containerapi.NewTracingClient(containerClient)
		containerClient = containerapi.NewLoggingClient(containerClient)
		containerClient = containerapi.NewMetricsClient(containerClient,
			api.NewRequestCounter("containerapi_client"),
			api.NewRequestHistogram("containerapi_client"),
		)
	}

	var gitClient gitapi.Client
	{
		var sshKey *gitapi.SSHKey
		if config.Git.UseSSH {
			sshKey, err = gitapi.LoadOrGenerateSSHKey(config.Git)
			if err != nil {
				log.Fatal().Err(err).Msg("Loading ssh key failed")
			}
			config.Git.PublicSSHKey = sshKey.AuthorizedKey()
			log.Info().Msgf("Using ssh key %v", config.Git.PublicSSHKey)
		}

		gitClient = gitapi.NewClient(sshKey)
		gitClient = gitapi.NewTracingClient(gitClient)
		gitClient = gitapi.NewLoggingClient(gitClient)
		gitClient = gitapi.NewMetricsClient(gitClient,
			api.NewRequestCounter("gitapi_client"),
			api.NewRequestHistogram("gitapi_client"),
		)
	}

	var cloudStorageClient cloudstorage.Client
	{
		var storageClient *storage.Client
		if config.Integrations.CloudStorage.Enable {
			storageClient, err = storage.NewClient(ctx)
			if err != nil {
				log.Fatal().Err(err).Msg("Creating google cloud storage client failed")
			}
		}

		cloudStorageClient = cloudstorage.NewClient(config, storageClient)
		cloudStorageClient = cloudstorage.NewTracingClient(cloudStorageClient)
		cloudStorageClient = cloudstorage.NewLoggingClient(cloudStorageClient)
		cloudStorageClient = cloudstorage.NewMetricsClient(cloudStorageClient,
			api.NewRequestCounter("cloudstorage_client"),
			api.NewRequestHistogram("cloudstorage_client"),
		)
	}

	buildLogsService := buildlogs.NewService(config.Jobs, cloudStorageClient)
	stagingService := staging.NewService(config.Jobs, gitClient, buildLogsService)

	var executorService executor.Service
	{
		executorService = executor.NewService(config, containerClient, stagingService, results.NewParser(), buildLogsService)
		executorService = executor.NewTracingService(executorService)
		executorService = executor.NewLoggingService(executorService)
		executorService = executor.NewMetricsService(executorService,
			api.NewRequestCounter("executor"),
			api.NewRequestHistogram("executor"),
		)
	}

	var imagesService images.Service
	{
		imagesService = images.NewService(config, containerClient, queueService, buildLogsService)
		imagesService = images.NewTracingService(imagesService)
		imagesService = images.NewLoggingService(imagesService)
		imagesService = images.NewMetricsService(imagesService,
			api.NewRequestCounter("images"),
			api.NewRequestHistogram("images"),
		)
	}

	// scratch directories and containers of an earlier run are cleaned up before any job is claimed
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return stagingService.CleanUpStaleDirectories(gctx)
	})
	g.Go(func() error {
		// the image service keeps running after the group is done
		return imagesService.Start(ctx)
	})
	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("Preparing build agent failed")
	}

	var jobManagerService jobmanager.Service
	{
		jobManagerService, err = jobmanager.NewService(config, containerClient, imagesService, executorService)
		if err != nil {
			log.Fatal().Err(err).Msg("Creating job manager failed")
		}
		jobManagerService = jobmanager.NewTracingService(jobManagerService)
		jobManagerService = jobmanager.NewLoggingService(jobManagerService)
		jobManagerService = jobmanager.NewMetricsService(jobManagerService,
			api.NewRequestCounter("jobmanager"),
			api.NewRequestHistogram("jobmanager"),
		)
	}

	schedulerService := scheduler.NewService(config, queueService, jobManagerService, buildLogsService)

	return config, queueService, clusterClient, cloudStorageClient, buildLogsService, schedulerService, jobManagerService, imagesService
}

func getClusterClient(ctx context.Context, config *api.BuildAgentConfig) (clusterClient clusterapi.Client) {

	member := config.Agent.MemberAddress

	switch config.Coordination.Backend {
	case api.CoordinationBackendRedis:
		var err error
		clusterClient, err = clusterapi.NewRedisClient(ctx, config.Coordination, member)
		if err != nil {
			log.Fatal().Err(err).Msg("Joining redis backed cluster failed")
		}
	default:
		log.Warn().Msg("Using in-memory cluster coordination; build jobs are only shared within this process")
		clusterClient = clusterapi.NewMemoryCluster().Join(member)
	}

	if config.Coordination.Broadcast == api.BroadcastBackendNats {
		topics, closeConnection, err := clusterapi.NewNatsTopics(config.Coordination.Nats.Hosts, config.Coordination.Namespace)
		if err != nil {
			log.Fatal().Err(err).Msg("Connecting to nats failed")
		}
		clusterClient = clusterapi.NewClientWithTopics(clusterClient, topics, closeConnection)
	}

	return
}

func configureGinGonic(config *api.BuildAgentConfig, schedulerHandler scheduler.Handler) *gin.Engine {

	// run gin in release mode and other defaults
	gin.SetMode(gin.ReleaseMode)
	gin.DefaultWriter = log.Logger
	gin.DisableConsoleColor()

	// creates a router without any middleware
	router := gin.New()

	// recovery middleware recovers from any panics and writes a 500 if there was one.
	router.Use(gin.Recovery())

	// opentracing middleware
	router.Use(api.OpenTracingMiddleware())

	// Logging middleware
	router.Use(api.ZeroLogMiddleware())

	// Gzip middleware
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPathsRegexs([]string{"^/api/jobs/.+/logs$"})))

	// liveness and readiness
	router.GET("/liveness", func(c *gin.Context) {
		c.String(200, "I'm alive!")
	})
	router.GET("/readiness", func(c *gin.Context) {
		c.String(200, "I'm ready!")
	})

	// public routes
	router.GET("/api/agent", schedulerHandler.GetBuildAgent)
	router.GET("/api/agents", schedulerHandler.GetBuildAgents)
	router.GET("/api/jobs", schedulerHandler.GetBuildJobs)
	router.GET("/api/jobs/:id/logs", schedulerHandler.GetBuildJobLogs)

	// mutating routes require a bearer token once a jwt key is configured
	jwtMiddlewareRoutes := router.Group("/api")
	if config.Auth.JWT.Enabled() {
		jwtMiddleware, err := api.NewAuthMiddleware(config).GinJWTMiddleware()
		if err != nil {
			log.Fatal().Err(err).Msg("Creating JWT middleware failed")
		}
		jwtMiddlewareRoutes.Use(jwtMiddleware.MiddlewareFunc())
	}
	{
		jwtMiddlewareRoutes.POST("/jobs", schedulerHandler.QueueBuildJob)
		jwtMiddlewareRoutes.POST("/jobs/:id/cancel", schedulerHandler.CancelBuildJob)
		jwtMiddlewareRoutes.POST("/agent/pause", schedulerHandler.PauseBuildAgent)
		jwtMiddlewareRoutes.POST("/agent/resume", schedulerHandler.ResumeBuildAgent)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"code": "PAGE_NOT_FOUND", "message": "Page not found"})
	})

	return router
}

func handleRequests(config *api.BuildAgentConfig, schedulerHandler scheduler.Handler) *http.Server {

	router := configureGinGonic(config, schedulerHandler)

	// instantiate servers instead of using router.Run in order to handle graceful shutdown
	srv := &http.Server{
		Addr:           *apiAddress,
		Handler:        router,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Debug().
			Str("port", *apiAddress).
			Msg("Serving api calls...")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Starting gin router failed")
		}
	}()

	return srv
}
