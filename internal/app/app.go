package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"stock-move-alerts/internal/briefing"
	"stock-move-alerts/internal/config"
	"stock-move-alerts/internal/crossover"
	"stock-move-alerts/internal/dedup"
	"stock-move-alerts/internal/market"
	"stock-move-alerts/internal/notify"
	"stock-move-alerts/internal/scheduler"
	"stock-move-alerts/internal/service"
	"stock-move-alerts/internal/storage"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) newSampler() *market.Sampler {
	q := a.Config.Quotes

	yahoo := market.NewYahoo(market.YahooOptions{
		BaseURL:   q.YahooBaseURL,
		Timeout:   q.RequestTimeout,
		UserAgent: q.UserAgent,
	}, a.Logger)

	binance := market.NewBinance(market.BinanceOptions{
		BaseURL: q.BinanceBaseURL,
		Timeout: q.RequestTimeout,
	}, a.Logger)

	naver := market.NewNaver(market.NaverOptions{
		BaseURL:   q.NaverBaseURL,
		Timeout:   q.RequestTimeout,
		UserAgent: q.UserAgent,
	}, a.Logger)

	hours := market.NewHours(a.Logger)

	return market.NewSampler(yahoo, binance, naver, hours, a.Logger)
}

func (a *App) newHistory() *market.Yahoo {
	q := a.Config.Quotes
	return market.NewYahoo(market.YahooOptions{
		BaseURL:   q.YahooBaseURL,
		Timeout:   q.RequestTimeout,
		UserAgent: q.UserAgent,
	}, a.Logger)
}

func (a *App) newNotifier() notify.Notifier {
	if a.Config.Telegram.Enabled {
		cfg := a.Config.Telegram
		return notify.NewTelegramNotifier(cfg.BotToken, cfg.ChatID, cfg.APIBase, 10*time.Second, a.Logger)
	}
	return notify.NewLogNotifier(a.Logger)
}

func (a *App) openStore(ctx context.Context) (*storage.Store, func(), error) {
	if a.Config.Database.DSN == "" {
		return nil, nil, nil
	}

	pool, err := storage.NewPool(ctx, a.Config.Database)
	if err != nil {
		return nil, nil, err
	}

	store := storage.NewStore(pool)
	closer := func() {
		store.Close()
	}
	return store, closer, nil
}

// openDedup builds the de-duplication store: Redis layered over the local
// snapshot when an address is configured, the local snapshot alone otherwise.
func (a *App) openDedup(ctx context.Context) dedup.Store {
	local := dedup.NewLocalStore(a.Config.Alerting.SnapshotPath, a.Logger)

	if a.Config.Redis.Addr == "" {
		a.Logger.Warn().Msg("redis.addr not configured; de-duplication is process-local")
		return local
	}

	remote, err := dedup.NewRedisStore(a.Config.Redis, a.Logger)
	if err != nil {
		a.Logger.Error().Err(err).Msg("redis unreachable; de-duplication is process-local")
		return local
	}

	return dedup.NewLayeredStore(remote, local, a.Logger)
}

// newTracker assembles the crossover tracker, journaling to PostgreSQL when
// configured and to memory otherwise. Returns nil when tracking is disabled.
func (a *App) newTracker(store *storage.Store) *crossover.Tracker {
	if !a.Config.Crossover.Enabled {
		return nil
	}

	var trades storage.TradeStore
	if store != nil {
		trades = store
	} else {
		a.Logger.Warn().Msg("database.dsn not configured; trade journal is in-memory")
		trades = storage.NewMemoryTradeStore()
	}

	return crossover.NewTracker(crossover.Options{
		Symbol:       a.Config.Crossover.Symbol,
		Period:       a.Config.Crossover.Period,
		HistoryRange: a.Config.Crossover.HistoryRange,
	}, a.newHistory(), trades, a.Logger)
}

// Run executes the long-running alert service.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if closeStore != nil {
		defer closeStore()
	}

	sampler := a.newSampler()
	dedupStore := a.openDedup(ctx)
	notifier := a.newNotifier()
	tracker := a.newTracker(store)

	engine := service.New(service.Options{
		Cooldown:    a.Config.Alerting.Cooldown,
		MinInterval: a.Config.Alerting.MinInterval,
	}, sampler, dedupStore, notifier, tracker, a.Logger)

	sched := scheduler.New(a.Logger)

	if a.Config.Alerting.Enabled {
		sched.Every("price_moves", a.Config.Alerting.CheckInterval, engine.CheckPriceMoves)
	}
	if tracker != nil {
		sched.Every("crossover", a.Config.Crossover.CheckInterval, engine.CheckCrossover)
		sched.Every("proximity", a.Config.Crossover.CheckInterval, engine.CheckProximity)
	}

	if a.Config.Briefing.Enabled {
		loc, err := time.LoadLocation(a.Config.Briefing.Timezone)
		if err != nil {
			return err
		}

		briefer := briefing.NewBriefer(briefing.Options{
			MarkerTTL: a.Config.Briefing.MarkerTTL,
		}, sampler, tracker, dedupStore, notifier, a.Logger)

		morning := func(ctx context.Context) error {
			return briefer.Send(ctx, briefing.KindMorning)
		}
		evening := func(ctx context.Context) error {
			return briefer.Send(ctx, briefing.KindEvening)
		}

		if err := sched.DailyAt("briefing_morning", a.Config.Briefing.MorningAt, loc, morning); err != nil {
			return err
		}
		if err := sched.DailyAt("briefing_evening", a.Config.Briefing.EveningAt, loc, evening); err != nil {
			return err
		}
	}

	a.Logger.Info().Msg("starting alert service")
	err = sched.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("service terminated with error")
		return err
	}

	a.Logger.Info().Msg("alert service stopped")
	return nil
}

// StatusOptions configure the status command.
type StatusOptions struct {
	Trades int
}

// TradesOptions configure the trades command.
type TradesOptions struct {
	Limit int
}

// ExportOptions hold parameters for exporting close history.
type ExportOptions struct {
	Symbol    string
	Range     string
	PNGPath   string
	CSVPath   string
	MaxPoints int
}
