package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	dig_container "github.com/coursehub/backend/apps/api/di/dig"
	echoapi "github.com/coursehub/backend/apps/api/echo"
	"github.com/coursehub/backend/core"
	"github.com/coursehub/backend/core/notification"
)

func main() {
	c := dig_container.New()

	must(c.Invoke(func(
		conf *core.Config,
		logger core.Logger,
		dbLoggerParam dig_container.DBLoggerParam,
		flushLogs dig_container.LogFlusher,
		closeDB dig_container.DBCloser,
		dispatcher *notification.Dispatcher,
		server echoapi.Server,
		shutdown dig_container.ShutdownChan,
	) {
		defer flushLogs()

		// =========================================================================
		// Initialize App

		logger.Info(fmt.Sprintf("Application initializing : version %q : env %q", conf.Build, conf.Env))

		defer func() {
			if err := closeDB(); err != nil {
				dbLoggerParam.Logger.Error(fmt.Sprintf("closing database: %v", err), err)
			}
		}()
		defer logger.Info("Application stopped")

		// =========================================================================
		// Start Debug Service
		//
		// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
		// /debug/vars - Added to the default mux by importing the expvar package.

		expvar.NewString("build").Set(conf.Build)
		expvar.NewString("env").Set(conf.Env)

		if conf.Server.DebugAddress != "" {
			go func() {
				if err := http.ListenAndServe(conf.Server.DebugAddress, http.DefaultServeMux); err != nil {
					logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
				}
			}()
		}

		// =========================================================================
		// Start Notification Workers & API Service

		dispatcher.Start()

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info(fmt.Sprintf("API listening on %s", conf.Server.Address))
			serverErrors <- server.Start()
		}()

		// =========================================================================
		// Shutdown

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			if err != nil {
				logger.Error(fmt.Sprintf("server error: %v", err), err)
			}

		case sig := <-sigs:
			logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		case <-shutdown:
			logger.Warn("integrity issue: Start shutdown...")
		}

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Stop(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
		}

		// then let the workers store what is still queued
		drainCtx, drainCancel := context.WithTimeout(context.Background(), conf.Notifications.DrainTimeout)
		defer drainCancel()
		if err := dispatcher.Stop(drainCtx); err != nil {
			logger.Error(fmt.Sprintf("notification queue not drained: %v", err), err)
		}
	}))
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
