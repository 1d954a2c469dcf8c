package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/sirupsen/logrus"

	"github.com/osintlab/conflictradar/internal/archive"
	"github.com/osintlab/conflictradar/internal/catalog"
	"github.com/osintlab/conflictradar/internal/config"
	"github.com/osintlab/conflictradar/internal/monitor"
	"github.com/osintlab/conflictradar/internal/scheduler"
	"github.com/osintlab/conflictradar/pkg/alert"
	"github.com/osintlab/conflictradar/pkg/feed"
	"github.com/osintlab/conflictradar/pkg/server"
)

func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func buildLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		log.SetLevel(level)
	}
	return log
}

func buildCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.Catalog.Path != "" {
		return catalog.LoadFile(cfg.Catalog.Path)
	}
	return catalog.Default(), nil
}

func buildMonitor(cfg *config.Config, log *logrus.Logger) (*monitor.Monitor, error) {
	cat, err := buildCatalog(cfg)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	fetcher := feed.NewRSS(cfg.Fetch.PageSize, cfg.Fetch.RatePerSecond)

	return monitor.New(cat, fetcher, log, monitor.Options{
		DescriptionLimit:  cfg.Fetch.DescriptionLimit,
		FetchTimeout:      cfg.Refresh.ParseFetchTimeout(),
		CycleBudget:       cfg.Refresh.ParseCycleBudget(),
		Parallelism:       cfg.Refresh.Parallelism,
		CriticalThreshold: cfg.Threat.CriticalThreshold,
		CriticalPhrases:   phrasesOrNil(cfg.Threat.CriticalPhrases),
		ElevatedPhrases:   phrasesOrNil(cfg.Threat.ElevatedPhrases),
	}), nil
}

func phrasesOrNil(phrases []string) []string {
	if len(phrases) == 0 {
		return nil
	}
	return phrases
}

func buildAlertManager(cfg *config.Config) *alert.Manager {
	var notifiers []alert.Notifier

	if cfg.Alerts.Slack.Enabled && cfg.Alerts.Slack.WebhookURL != "" {
		notifiers = append(notifiers, alert.NewSlack(cfg.Alerts.Slack.WebhookURL))
	}
	if cfg.Alerts.Discord.Enabled && cfg.Alerts.Discord.WebhookURL != "" {
		notifiers = append(notifiers, alert.NewDiscord(cfg.Alerts.Discord.WebhookURL))
	}
	if cfg.Alerts.Webhook.Enabled && cfg.Alerts.Webhook.URL != "" {
		notifiers = append(notifiers, alert.NewWebhook(cfg.Alerts.Webhook.URL, cfg.Alerts.Webhook.Secret))
	}

	return alert.NewManager(notifiers)
}

func registerConfiguredFeeds(ctx context.Context, m *monitor.Monitor, cfg *config.Config, log *logrus.Logger) {
	for _, f := range cfg.Feeds {
		if _, err := m.RegisterFeed(ctx, f.Name, f.URL, f.Kind, f.ID); err != nil {
			log.WithField("feed", f.Name).WithError(err).Warn("feed registration failed")
		}
	}
}

func runDaemon(port int, withTimer bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if port == 0 {
		port = cfg.Server.Port
	}

	log := buildLogger(cfg)

	m, err := buildMonitor(cfg, log)
	if err != nil {
		return err
	}

	var archiver scheduler.Archiver
	if cfg.Archive.Enabled {
		store, err := archive.Open(cfg.Archive.Path)
		if err != nil {
			return fmt.Errorf("open archive: %w", err)
		}
		defer store.Close()
		archiver = store
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	registerConfiguredFeeds(ctx, m, cfg, log)

	interval := cfg.Refresh.ParseInterval()
	if !withTimer {
		interval = 0
	}
	sched := scheduler.New(m, buildAlertManager(cfg), archiver, interval, log)

	go func() {
		if err := sched.Run(ctx); err != nil && ctx.Err() == nil {
			log.WithError(err).Error("scheduler exited")
		}
	}()

	srv := server.New(m, sched, log, port, cfg.Server.ItemLimit)
	go func() {
		<-ctx.Done()
		log.Info("shutting down")
	}()

	return srv.ListenAndServe()
}

func runRefresh(jsonOutput bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := buildLogger(cfg)
	log.SetOutput(os.Stderr)

	m, err := buildMonitor(cfg, log)
	if err != nil {
		return err
	}

	registerConfiguredFeeds(context.Background(), m, cfg, log)

	snapshot := m.SituationSnapshot(cfg.Server.ItemLimit)

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snapshot)
	}

	keys := make([]string, 0, len(snapshot))
	for key := range snapshot {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SITUATION\tLEVEL\tITEMS")
	for _, key := range keys {
		v := snapshot[key]
		fmt.Fprintf(w, "%s\t%s\t%d\n", v.Name, v.Threat, v.Count)
	}
	return w.Flush()
}

func runCatalog() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	cat, err := buildCatalog(cfg)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tNAME\tKEYWORDS")
	for _, s := range cat.Situations() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.Key, s.Name, strings.Join(s.Keywords, ", "))
	}
	fmt.Fprintln(w, "\nPLACE\tNAME\tLAT\tLON")
	for _, p := range cat.Places() {
		fmt.Fprintf(w, "%s\t%s\t%.4f\t%.4f\n", p.Key, p.Name, p.Lat, p.Lon)
	}
	return w.Flush()
}
