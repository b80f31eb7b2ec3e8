/*
This is an example of application that will use the
engine package to test things out
*/
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spaghettifunk/animares/engine"
	"github.com/spaghettifunk/animares/engine/core"
	"github.com/spaghettifunk/animares/testbed"
)

func main() {
	configPath := flag.String("config", "anima.toml", "application config file")
	flag.Parse()

	config, err := loadConfig(*configPath)
	if err != nil {
		core.LogFatal("%s", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	tb := testbed.NewTestGame(config)
	e, err := engine.New(tb.Game, engine.WithRegisterer(reg))
	if err != nil {
		core.LogFatal("%s", err)
	}
	if err := e.Initialize(); err != nil {
		core.LogFatal("%s", err)
	}

	// capture sigterm and other system call here
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	if config.MetricsAddr != "" {
		srv := &http.Server{
			Addr:              config.MetricsAddr,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			core.LogInfo("serving metrics on %s", config.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				core.LogError("metrics server: %s", err)
			}
		}()
		defer srv.Shutdown(context.Background())
	}

	runErr := e.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		core.LogError("shutdown: %s", err)
	}
	if runErr != nil {
		core.LogError("%s", runErr)
		os.Exit(1)
	}
}

// loadConfig falls back to the defaults when the file does not exist.
func loadConfig(path string) (*engine.ApplicationConfig, error) {
	config, err := engine.LoadApplicationConfig(path)
	if errors.Is(err, os.ErrNotExist) {
		core.LogInfo("%s not found, using the default config", path)
		return engine.DefaultApplicationConfig(), nil
	}
	return config, err
}
