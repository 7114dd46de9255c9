package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"locationd/internal/config"
	"locationd/internal/httpapi"
	"locationd/internal/provider"
	"locationd/internal/session"
	"locationd/pkg/types"
)

// Flags with environment variable defaults (LOCATIOND_*).
func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func main() {
	var (
		cfgPath        string
		addr           string
		authorization  string
		disablePrompts bool
		tickMS         int
		startLat       float64
		startLon       float64
		grant          string
		logLevel       string
		corsEnabled    bool
		corsOrigins    []string
	)

	root := &cobra.Command{
		Use:   "locationd",
		Short: "Local geolocation session daemon",
		Long: "locationd serves location, heading and region-monitoring requests over HTTP,\n" +
			"backed by a simulated provider. Requests carry lifecycle states and an\n" +
			"authorization gate modeled after mobile platform location services.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fileCfg := config.Config{}
			if cfgPath != "" {
				loaded, err := config.Load(cfgPath)
				if err != nil {
					return err
				}
				fileCfg = loaded
			}
			// Config file fills in anything the flags left at defaults.
			if !cmd.Flags().Changed("addr") && fileCfg.Addr != "" {
				addr = fileCfg.Addr
			}
			if !cmd.Flags().Changed("authorization") && fileCfg.Authorization != "" {
				authorization = fileCfg.Authorization
			}
			if !cmd.Flags().Changed("disable-prompts") && fileCfg.DisablePrompts {
				disablePrompts = true
			}
			if !cmd.Flags().Changed("tick-ms") && fileCfg.TickMS > 0 {
				tickMS = fileCfg.TickMS
			}
			if !cmd.Flags().Changed("start-lat") && fileCfg.StartLat != 0 {
				startLat = fileCfg.StartLat
			}
			if !cmd.Flags().Changed("start-lon") && fileCfg.StartLon != 0 {
				startLon = fileCfg.StartLon
			}
			if !cmd.Flags().Changed("log-level") && fileCfg.LogLevel != "" {
				logLevel = fileCfg.LogLevel
			}
			if !cmd.Flags().Changed("cors") && fileCfg.CORSEnabled {
				corsEnabled = true
			}
			if !cmd.Flags().Changed("cors-origins") && len(fileCfg.CORSAllowedOrigins) > 0 {
				corsOrigins = fileCfg.CORSAllowedOrigins
			}
			return run(runConfig{
				addr:           addr,
				authorization:  authorization,
				disablePrompts: disablePrompts,
				tick:           time.Duration(tickMS) * time.Millisecond,
				startLat:       startLat,
				startLon:       startLon,
				grant:          grant,
				logLevel:       logLevel,
				corsEnabled:    corsEnabled,
				corsOrigins:    corsOrigins,
			})
		},
	}

	root.Flags().StringVar(&cfgPath, "config", os.Getenv("LOCATIOND_CONFIG"), "Path to config file (.yaml/.json/.toml)")
	root.Flags().StringVar(&addr, "addr", envString("LOCATIOND_ADDR", ":8090"), "HTTP listen address, e.g. :8090")
	root.Flags().StringVar(&authorization, "authorization", envString("LOCATIOND_AUTHORIZATION", "none"), "Startup grant: none, when-in-use or always")
	root.Flags().BoolVar(&disablePrompts, "disable-prompts", envBool("LOCATIOND_DISABLE_PROMPTS", false), "Refuse under-authorized requests instead of prompting")
	root.Flags().IntVar(&tickMS, "tick-ms", 250, "Simulated provider emission interval in milliseconds")
	root.Flags().Float64Var(&startLat, "start-lat", 52.3676, "Simulated walk start latitude")
	root.Flags().Float64Var(&startLon, "start-lon", 4.9041, "Simulated walk start longitude")
	root.Flags().StringVar(&grant, "grant", envString("LOCATIOND_GRANT", "always"), "Level the simulated user grants when prompted")
	root.Flags().StringVar(&logLevel, "log-level", envString("LOCATIOND_LOG_LEVEL", "info"), "Log level: debug, info, warn or error")
	root.Flags().BoolVar(&corsEnabled, "cors", false, "Enable CORS middleware")
	root.Flags().StringSliceVar(&corsOrigins, "cors-origins", []string{"*"}, "Allowed CORS origins")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

type runConfig struct {
	addr           string
	authorization  string
	disablePrompts bool
	tick           time.Duration
	startLat       float64
	startLon       float64
	grant          string
	logLevel       string
	corsEnabled    bool
	corsOrigins    []string
}

func run(rc runConfig) error {
	level, err := zerolog.ParseLevel(rc.logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).With().Timestamp().Logger()
	httpapi.SetLogger(logger)
	httpapi.SetCORSOptions(rc.corsEnabled, rc.corsOrigins,
		[]string{"GET", "POST", "DELETE"}, []string{"Content-Type", "X-Log-Level"})

	prov := provider.NewSim(provider.SimConfig{
		Tick:     rc.tick,
		StartLat: rc.startLat,
		StartLon: rc.startLon,
		Grant:    types.ParseAuthorization(rc.grant),
		Logger:   &logger,
	})
	sess := session.NewWithConfig(session.SessionConfig{
		Provider:             prov,
		InitialAuthorization: types.ParseAuthorization(rc.authorization),
		DisablePrompts:       rc.disablePrompts,
		Publisher:            httpapi.PrometheusPublisher{},
		Logger:               &logger,
	})

	mux := httpapi.NewMux(sess) // registers /status, /requests, /healthz, /readyz, /metrics
	srv := &http.Server{Addr: rc.addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", rc.addr).Str("authorization", rc.authorization).Msg("locationd listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		sess.Close()
		return err
	case <-stop:
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn().Err(err).Msg("graceful shutdown error")
	}
	sess.Close()
	return nil
}
