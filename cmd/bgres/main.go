package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bgres/server/internal/config"
	"github.com/bgres/server/internal/core/event"
	coresys "github.com/bgres/server/internal/core/system"
	"github.com/bgres/server/internal/core/warp"
	"github.com/bgres/server/internal/data"
	"github.com/bgres/server/internal/handler"
	"github.com/bgres/server/internal/persist"
	"github.com/bgres/server/internal/resource"
	"github.com/bgres/server/internal/scripting"
	"github.com/bgres/server/internal/system"
	"github.com/bgres/server/internal/telemetry"
	"github.com/bgres/server/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config
	cfgPath := "config/bgres.toml"
	if p := os.Getenv("BGRES_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	// 3. Optional PostgreSQL + migrations
	var (
		db         *persist.DB
		vesselRepo *persist.VesselRepo
		journal    *persist.JournalRepo
	)
	if cfg.Database.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		db, err = persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()

		if err := persist.RunMigrations(ctx, db.Pool); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		log.Info("migrations applied")
		vesselRepo = persist.NewVesselRepo(db)
		journal = persist.NewJournalRepo(db)
	}

	// 4. Scripts and data tables
	lua, err := scripting.NewEngine(cfg.Scripting.Dir, log)
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer lua.Close()

	catalog, err := data.LoadPartCatalog(cfg.Data.Catalog)
	if err != nil {
		return fmt.Errorf("part catalog: %w", err)
	}
	scenario, err := data.LoadScenario(cfg.Data.Scenario)
	if err != nil {
		return fmt.Errorf("scenario: %w", err)
	}
	log.Info("data loaded",
		zap.Int("parts", catalog.Count()),
		zap.Int("vessels", len(scenario.Vessels)),
		zap.Int("warp_steps", len(scenario.Warp)),
		zap.Bool("lua_solar", lua.Has("calc_solar_output")))

	// 5. Clock, bus, registry
	clock, err := warp.New(cfg.Warp.Rates, cfg.Warp.ThresholdIndex, cfg.Warp.FixedDelta)
	if err != nil {
		return fmt.Errorf("warp: %w", err)
	}
	clock.SetNow(scenario.StartUT)

	bus := event.NewBus()
	containers := resource.NewContainerStore()
	universe := world.NewUniverse(scenario, containers)

	env := &handler.Env{
		Clock:   clock,
		Bus:     bus,
		Lua:     lua,
		Catalog: catalog,
		Sky:     universe.Sky,
		Options: handler.Options{IncludeGenericConverters: cfg.Background.IncludeGenericConverters},
		Log:     log,
	}
	worldState := world.NewState(containers, clock, handler.NewBuilder(env), log)
	worldState.SetDirectory(universe.Directory)
	universe.RegisterAll(worldState)

	if vesselRepo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		snaps, err := vesselRepo.LoadVessels(ctx)
		cancel()
		if err != nil {
			return fmt.Errorf("load vessel caches: %w", err)
		}
		restored := worldState.Restore(snaps)
		log.Info("vessel caches restored", zap.Int("saved", len(snaps)), zap.Int("restored", restored))
	}

	subscribeAlerts(bus, log)
	if journal != nil {
		journal.Subscribe(bus)
	}

	out, err := telemetry.NewFileWriter(cfg.Telemetry.Dir)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer out.Close()

	// 6. Create systems and register with runner
	policy := handler.Policy{
		Enabled: cfg.Background.Enabled,
		Produce: cfg.Background.ProduceResources,
		Consume: cfg.Background.ConsumeResources,
	}
	background := system.NewBackgroundSystem(worldState, clock, bus, policy, log)

	var persistSys *system.PersistenceSystem
	if vesselRepo != nil {
		persistSys = system.NewPersistenceSystem(worldState, vesselRepo, journal, log, cfg.Persist.IntervalTicks)
	}

	runner := coresys.NewRunner()
	runner.Register(system.NewClockSystem(clock, scenario, log))
	runner.Register(system.NewEventSystem(bus))
	runner.Register(background)
	runner.Register(system.NewTelemetrySystem(worldState, clock, background, out, log, cfg.Telemetry.IntervalTicks))
	if persistSys != nil {
		runner.Register(persistSys)
	}
	runner.Register(system.NewCleanupSystem(worldState, bus, log))

	log.Info("background simulation ready",
		zap.Int("vessels", worldState.Count()),
		zap.Int("containers", containers.Len()),
		zap.Int("systems", runner.Len()),
		zap.Bool("enabled", policy.Enabled),
		zap.Duration("tick", cfg.Sim.TickRate))

	// 7. Start tick loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Sim.TickRate)
	defer ticker.Stop()

	shutdown := func() {
		if persistSys != nil {
			persistSys.Flush()
		}
		log.Info("background simulation stopped",
			zap.Uint64("ticks", runner.Ticks()),
			zap.Uint64("clock_tick", clock.Tick()),
			zap.Float64("ut", clock.Now()))
	}

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Sim.TickRate)
			if cfg.Sim.MaxTicks > 0 && clock.Tick() >= cfg.Sim.MaxTicks {
				log.Info("tick limit reached", zap.Uint64("max_ticks", cfg.Sim.MaxTicks))
				shutdown()
				return nil
			}
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			shutdown()
			return nil
		}
	}
}

// subscribeAlerts logs crew-threatening events as they are delivered.
func subscribeAlerts(bus *event.Bus, log *zap.Logger) {
	event.Subscribe(bus, func(e event.FreezerPowerLow) {
		log.Warn("freezer running without power",
			zap.String("vessel", e.Vessel.String()),
			zap.Uint32("part", uint32(e.Part)),
			zap.Int("crew", e.Crew),
			zap.Float64("ut", e.UT))
	})
	event.Subscribe(bus, func(e event.FreezerCritical) {
		log.Error("freezer outage critical",
			zap.String("vessel", e.Vessel.String()),
			zap.Uint32("part", uint32(e.Part)),
			zap.Int("crew", e.Crew),
			zap.Float64("outage", e.Outage))
	})
	event.Subscribe(bus, func(e event.ResourceShortfall) {
		log.Debug("resource shortfall",
			zap.String("vessel", e.Vessel.String()),
			zap.String("kind", e.Kind),
			zap.String("resource", e.Resource),
			zap.Float64("requested", e.Requested),
			zap.Float64("received", e.Received))
	})
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
