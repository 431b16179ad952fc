package agent

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mwantia/fabric/pkg/container"

	"github.com/mwantia/gomaterials/internal/api"
	config "github.com/mwantia/gomaterials/internal/config/server"
	"github.com/mwantia/gomaterials/internal/material"
	"github.com/mwantia/gomaterials/pkg/attachment"
	"github.com/mwantia/gomaterials/pkg/db/store"
	"github.com/mwantia/gomaterials/pkg/events"
	"github.com/mwantia/gomaterials/pkg/log"
)

type MaterialsAgent struct {
	mutex sync.RWMutex
	wait  sync.WaitGroup

	cfg *config.BaseServerConfig
	sc  *container.ServiceContainer
	log *log.LoggerServiceImpl

	metadata  *store.GormStore
	publisher events.Publisher
	server    *http.Server
}

func NewAgent(cfg *config.BaseServerConfig) *MaterialsAgent {
	return &MaterialsAgent{
		cfg: cfg,
		sc:  container.NewServiceContainer(),
		log: log.NewLoggerService("gomaterials", cfg.Log),
	}
}

func (a *MaterialsAgent) setupServices(ctx context.Context) error {
	errs := container.Errors{}

	a.log.Debug("Registering 'LoggerService'...")
	errs.Add(container.Register[log.LoggerServiceImpl](a.sc,
		container.With[log.LoggerService](),
		container.WithInstance(a.log)))

	if err := errs.Errors(); err != nil {
		return err
	}

	metadata, err := OpenMetadataStore(a.cfg.Metadata)
	if err != nil {
		return err
	}
	if err := metadata.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect metadata store: %w", err)
	}
	a.metadata = metadata

	if err := metadata.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate metadata store: %w", err)
	}

	a.log.Debug("Registering 'MetadataStore' (%s)...", a.cfg.Metadata.Type)
	errs.Add(container.Register[store.GormStore](a.sc,
		container.With[store.MetadataStore](),
		container.WithInstance(metadata)))

	attachments, err := openAttachmentStore(ctx, a.cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open attachment store: %w", err)
	}

	a.log.Debug("Registering 'AttachmentStore' (%s)...", a.cfg.Storage.Type)
	switch s := attachments.(type) {
	case *attachment.LocalStore:
		errs.Add(container.Register[attachment.LocalStore](a.sc,
			container.With[attachment.Store](),
			container.WithInstance(s)))
	case *attachment.MinIOStore:
		errs.Add(container.Register[attachment.MinIOStore](a.sc,
			container.With[attachment.Store](),
			container.WithInstance(s)))
	}

	publisher, err := openPublisher(a.cfg.Events)
	if err != nil {
		return fmt.Errorf("failed to create event publisher: %w", err)
	}
	a.publisher = publisher

	if err := errs.Errors(); err != nil {
		return err
	}

	serviceLog, err := log.Resolve(ctx, a.sc, "material")
	if err != nil {
		return err
	}
	apiLog, err := log.Resolve(ctx, a.sc, "http")
	if err != nil {
		return err
	}

	service := material.NewService(metadata, attachments, serviceLog, material.Options{
		CleanupOnFailure: a.cfg.Storage.CleanupOnFailure,
		Publisher:        publisher,
	})

	a.log.Debug("Registering 'MaterialService'...")
	errs.Add(container.Register[material.Service](a.sc,
		container.With[api.MaterialService](),
		container.WithInstance(service)))

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(api.RouterConfig{
		HTTP:        a.cfg.HTTP,
		AccessLog:   a.cfg.Log.AccessLog,
		Materials:   service,
		Attachments: attachments,
		Health:      metadata,
		Log:         apiLog,
	})

	a.server = &http.Server{
		Addr:         a.cfg.HTTP.Address,
		Handler:      router,
		ReadTimeout:  config.Duration(a.cfg.HTTP.ReadTimeout, 5*time.Minute),
		WriteTimeout: config.Duration(a.cfg.HTTP.WriteTimeout, 5*time.Minute),
	}

	return errs.Errors()
}

func (a *MaterialsAgent) Serve(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()
	defer a.log.Close()

	a.mutex.Lock()
	if err := a.setupServices(ctx); err != nil {
		a.mutex.Unlock()
		a.release()
		return err
	}
	a.mutex.Unlock()

	serveErr := make(chan error, 1)
	a.wait.Add(1)
	go func() {
		defer a.wait.Done()

		a.log.Info("Listening on '%s'", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	var err error
	select {
	case <-ctx.Done():
		a.log.Info("Shutting down...")
	case err = <-serveErr:
		a.log.Error("HTTP server failed: %v", err)
	}

	timeout := config.Duration(a.cfg.ShutdownTimeout, 60*time.Second)
	shutdown, cancelShutdown := context.WithTimeout(context.Background(), timeout)
	defer cancelShutdown()

	if shutdownErr := a.server.Shutdown(shutdown); shutdownErr != nil {
		a.log.Warn("Failed to shut down HTTP server gracefully: %v", shutdownErr)
	}

	a.wait.Wait()

	if cleanupErr := a.sc.Cleanup(shutdown); cleanupErr != nil {
		a.release()
		return fmt.Errorf("failed to complete service container cleanup: %w", cleanupErr)
	}
	a.release()

	return err
}

// release closes the event publisher and the metadata store.
func (a *MaterialsAgent) release() {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.log.Warn("Failed to close event publisher: %v", err)
		}
		a.publisher = nil
	}
	if a.metadata != nil {
		if err := a.metadata.Close(); err != nil {
			a.log.Warn("Failed to close metadata store: %v", err)
		}
		a.metadata = nil
	}
}
