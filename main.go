package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"vesta_nest/api"
	"vesta_nest/auth"
	"vesta_nest/config"
	"vesta_nest/httputil"
	"vesta_nest/logging"
	"vesta_nest/scheduler"
	"vesta_nest/search"
	"vesta_nest/services"
	"vesta_nest/session"
	"vesta_nest/storage"
	"vesta_nest/styles"
)

const usage = `usage: vesta_nest [flags] <command> [args]

commands:
  properties list|show|featured|stats   browse listings
  amenities [popular|show <id>]         list amenities
  search [filter flags]                 search listings and record history
  suggest <text>                        search suggestions
  popular | trending                    popular searches, trending locations
  history [clear]                       search history
  saved list|save|delete|activate       saved searches
  analytics                             search analytics
  login | signup | verify | resend-otp  account
  forgot-password | reset-password
  profile [update] | change-password | logout
  contact | inquire | review | reviews | viewing | contact-agent
  newsletter subscribe|status|preferences|unsubscribe
  views record|property|mine|stats
  alerts run|daemon                     saved-search alerts
  storage keys [prefix] | reset         inspect or wipe local storage
`

// app holds everything a command needs.
type app struct {
	cfg        *config.Config
	client     *api.Client
	store      storage.Store
	tokens     *auth.TokenStore
	session    *session.Manager
	search     *search.State
	backend    search.Backend
	properties *services.PropertyService
	amenities  *services.AmenityService
	comms      *services.CommunicationService
	newsletter *services.NewsletterService
	views      *services.PropertyViewService
}

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, logFile, err := logging.Setup(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		logger.Warn("could not set up file logging", "error", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer a.store.Close()

	if err := a.run(ctx, flag.Args()); err != nil {
		if errors.Is(err, errUsage) {
			flag.Usage()
			os.Exit(2)
		}
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		styles.Fail(userMessage(err))
		logger.Debug("command failed", "error", err)
		os.Exit(1)
	}
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	store, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	logger.Debug("storage opened", "driver", cfg.Storage.Driver)

	tokens := auth.NewTokenStore(store)
	client := api.NewClient(cfg.API.BaseURL, httputil.NewAPIClient(cfg.API, cfg.Proxy), tokens)
	client.SetLogger(logger)

	backend, err := search.NewBackend(cfg.Search, store, client)
	if err != nil {
		store.Close()
		return nil, err
	}

	sess := session.NewManager(services.NewAuthService(client), tokens, store)
	sess.Restore(ctx)

	return &app{
		cfg:        cfg,
		client:     client,
		store:      store,
		tokens:     tokens,
		session:    sess,
		search:     search.NewState(backend, sess),
		backend:    backend,
		properties: services.NewPropertyService(client),
		amenities:  services.NewAmenityService(client),
		comms:      services.NewCommunicationService(client),
		newsletter: services.NewNewsletterService(client),
		views:      services.NewPropertyViewService(client),
	}, nil
}

func (a *app) runAlerts(ctx context.Context, args []string) error {
	sched := scheduler.New(a.backend, a.properties, a.store)

	if len(args) > 0 && args[0] == "run" {
		results, err := sched.TriggerNow(ctx)
		if err != nil {
			return err
		}
		for _, r := range results {
			fmt.Printf("%s\t%s\t%d matches\t%s\n", r.SavedSearchID, r.Name, r.Matches, styles.StatusSuccess.Render(fmt.Sprintf("%d new", r.NewMatches)))
		}
		return nil
	}

	if len(args) == 0 || args[0] != "daemon" {
		return errUsage
	}
	if !a.cfg.Alerts.Enabled {
		slog.Warn("ALERTS_ENABLED is not true, running anyway")
	}
	if err := sched.Start(ctx); err != nil {
		return err
	}
	slog.Info("Alert daemon running. Press Ctrl+C to stop.")
	<-ctx.Done()

	slog.Info("Shutting down...")
	sched.Stop()
	return nil
}
