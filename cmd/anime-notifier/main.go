package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jessevdk/go-flags"
	"github.com/mattn/go-isatty"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/anime-notifier/pkg/chat"
	"github.com/umputun/anime-notifier/pkg/config"
	"github.com/umputun/anime-notifier/pkg/counter"
	"github.com/umputun/anime-notifier/pkg/domain"
	"github.com/umputun/anime-notifier/pkg/feed"
	"github.com/umputun/anime-notifier/pkg/kitsu"
	"github.com/umputun/anime-notifier/pkg/matcher"
	"github.com/umputun/anime-notifier/pkg/notify"
	"github.com/umputun/anime-notifier/pkg/reporter"
	"github.com/umputun/anime-notifier/pkg/repository"
	"github.com/umputun/anime-notifier/pkg/scheduler"
	"github.com/umputun/anime-notifier/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" default:"config.yml" description:"configuration file, yaml or toml"`
	Check  string `long:"check" description:"match the title against the watch-list, print the result and exit"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	SetupLog(opts.Debug, useColor(opts.NoColor))
	lgr.Printf("[INFO] starting anime-notifier version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		lgr.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()

	if err != nil {
		lgr.Printf("[ERROR] %v", err)
		os.Exit(1)
	}

	lgr.Print("[INFO] shutdown complete")
}

func run(ctx context.Context, opts Opts) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	SetupLog(opts.Debug, useColor(opts.NoColor), cfg.Secrets()...)

	entries := cfg.Anime
	if cfg.Kitsu.Username != "" {
		imported, err := kitsu.New("", cfg.RSS.UserAgent).WatchList(ctx, cfg.Kitsu.Username, cfg.Kitsu.Limit)
		switch {
		case err != nil && len(entries) == 0:
			return fmt.Errorf("failed to import kitsu library: %w", err)
		case err != nil:
			lgr.Printf("[WARN] kitsu import failed, using configured watch-list only: %v", err)
		default:
			lgr.Printf("[INFO] imported %d entries from kitsu library of %s", len(imported), cfg.Kitsu.Username)
			entries = kitsu.Merge(entries, imported)
		}
	}
	m := matcher.New(entries, cfg.Providers)
	lgr.Printf("[INFO] watching %d shows", len(m.Entries()))

	if opts.Check != "" {
		checkTitle(os.Stdout, m, opts.Check)
		return nil
	}

	rep, err := reporter.New(reporter.Options{DSN: cfg.Sentry.DSN, Environment: cfg.Env, Release: revision,
		ServerName: "anime-notifier", Debug: cfg.IsDev() && opts.Debug})
	if err != nil {
		return fmt.Errorf("failed to make reporter: %w", err)
	}
	defer rep.Flush(2 * time.Second)

	cnt, closeCounter, err := makeCounter(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to make counter: %w", err)
	}
	defer closeCounter()

	var bot *chat.Client
	if token := cfg.DiscordToken(); token != "" {
		if bot, err = chat.New(token); err != nil {
			return fmt.Errorf("failed to make discord client: %w", err)
		}
		if err = bot.Open(); err != nil {
			rep.Report(err)
			bot = nil
		} else {
			defer func() {
				if err := bot.Close(); err != nil {
					lgr.Printf("[WARN] %v", err)
				}
			}()
		}
	}

	notifiers, err := makeNotifiers(cfg, cnt, bot)
	if err != nil {
		return err
	}
	dispatcher := notify.NewDispatcher(rep, notifiers...)
	if len(notifiers) == 0 {
		lgr.Printf("[WARN] no notifiers configured, matches are only logged")
	}

	sched := scheduler.NewScheduler(m, dispatcher, rep, scheduler.Config{})
	pollers := feed.NewGroup(cfg.Subscriptions(), feed.NewParser(cfg.RSS.Timeout.D(), cfg.RSS.UserAgent))
	events := make(chan domain.Event, 100)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return pollers.Run(gctx, events) })
	g.Go(func() error { return sched.Run(gctx, events) })
	if cfg.Server.Enabled {
		srv := server.New(server.Params{Config: cfg, Scheduler: sched, Matcher: m, Notifiers: dispatcher.Names(),
			Version: revision, Debug: opts.Debug})
		g.Go(func() error { return srv.Run(gctx) })
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// makeCounter returns notification id counter for configured backend and its close function
func makeCounter(ctx context.Context, cfg *config.Config) (counter.Counter, func(), error) {
	switch cfg.Counter.Type {
	case config.CounterMemory:
		return counter.NewMemory(0), func() {}, nil
	case config.CounterBolt:
		b, err := counter.NewBolt(cfg.Counter.Path)
		if err != nil {
			return nil, nil, err
		}
		return b, func() {
			if err := b.Close(); err != nil {
				lgr.Printf("[WARN] failed to close counter store: %v", err)
			}
		}, nil
	case config.CounterSQL:
		repos, err := repository.NewRepositories(ctx, repository.Config{DSN: cfg.Counter.DSN})
		if err != nil {
			return nil, nil, err
		}
		return repos.Counter.Named(repository.DefaultCounter), func() {
			if err := repos.Close(); err != nil {
				lgr.Printf("[WARN] failed to close database: %v", err)
			}
		}, nil
	default:
		f, err := counter.NewFile(cfg.Counter.Path)
		if err != nil {
			return nil, nil, err
		}
		return f, func() {}, nil
	}
}

// makeNotifiers returns enabled notifiers in delivery order: push, discord, desktop
func makeNotifiers(cfg *config.Config, cnt counter.Counter, bot *chat.Client) ([]notify.Notifier, error) {
	var res []notify.Notifier
	if cfg.BeamsEnabled() {
		res = append(res, notify.NewBeams(notify.BeamsParams{InstanceID: cfg.Beams.InstanceID,
			SecretKey: cfg.Beams.SecretKey, Interests: cfg.Beams.Interests, Counter: cnt}))
	}

	if cfg.WebhookEnabled() {
		params := notify.DiscordParams{WebhookID: cfg.Discord.Webhook.ID, WebhookToken: cfg.Discord.Webhook.Token,
			URLTemplate: cfg.Discord.URLTemplate}
		if bot != nil {
			params.Sender = notify.SessionSender{Session: bot.Session()}
			params.Identity = bot
		} else {
			session, err := discordgo.New("")
			if err != nil {
				return nil, fmt.Errorf("failed to make webhook session: %w", err)
			}
			params.Sender = notify.SessionSender{Session: session}
		}
		res = append(res, notify.NewDiscord(params))
	}

	if cfg.Desktop.Enabled {
		desktop := notify.NewDesktop("")
		desktop.URLFunc = func(m domain.Match) string { return notify.Link(cfg.Discord.URLTemplate, m) }
		res = append(res, desktop)
	}
	return res, nil
}

// checkTitle prints dry-run match of the title
func checkTitle(w io.Writer, m *matcher.Matcher, title string) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"step", "result"})
	t.AppendRow(table.Row{"title", title})
	t.AppendRow(table.Row{"stripped", matcher.Strip(title)})
	t.AppendRow(table.Row{"normalized", matcher.Normalize(title)})
	t.AppendRow(table.Row{"numbers", fmt.Sprintf("%v", matcher.Numbers(title))})
	for i, c := range m.Candidates(title) {
		t.AppendRow(table.Row{fmt.Sprintf("candidate %d", i+1), fmt.Sprintf("%s (%s)", c.Title, c.Slug)})
	}
	if res, ok := m.Match(title); ok {
		t.AppendRow(table.Row{"match", fmt.Sprintf("%s #%s", res.Entry.Title, res.Episode)})
	} else {
		t.AppendRow(table.Row{"match", "none"})
	}
	t.Render()
}

func useColor(noColor bool) bool {
	return !noColor && isatty.IsTerminal(os.Stdout.Fd())
}

// SetupLog configures lgr and the standard logger
func SetupLog(dbg, colored bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	if colored {
		colorizer := lgr.Mapper{
			ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
			WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
			InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
			DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
			CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
			TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
		}
		logOpts = append(logOpts, lgr.Map(colorizer))
	}
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
