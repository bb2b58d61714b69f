package app

import (
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata"

	"github.com/asaskevich/EventBus"
	"github.com/bwmarrin/snowflake"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/savioluz/deliveryitaueira/config"
	"github.com/savioluz/deliveryitaueira/internal/domain"
	"github.com/savioluz/deliveryitaueira/internal/store"
)

// Application is the process-wide handle: configuration, the two persistence
// stores, the ID node, the scheduler and the event bus. It is constructed
// once in main and passed down; nothing here is package-global except the
// zap logger the whole codebase shares.
type Application struct {
	appConfig *config.AppConfig
	store     *store.Store
	node      *snowflake.Node
	sched     *cron.Cron
	bus       EventBus.Bus
}

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig { return a.appConfig }
func (a *Application) Store() *store.Store       { return a.store }
func (a *Application) Node() *snowflake.Node     { return a.node }
func (a *Application) Bus() EventBus.Bus         { return a.bus }
func (a *Application) Scheduler() *cron.Cron     { return a.sched }

// Init sets up logging, timezone, stores and background plumbing. It must be
// called before anything else touches the application.
func (a *Application) Init() error {
	cfg := a.appConfig

	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	a.initLogger()

	node, err := snowflake.NewNode(cfg.System.NodeID)
	if err != nil {
		return err
	}
	a.node = node

	st, err := store.Open(filepath.Join(cfg.System.Workdir, "data"))
	if err != nil {
		return err
	}
	a.store = st
	zap.S().Infof("Persistence stores opened under %s", cfg.System.Workdir)

	a.bus = EventBus.New()
	a.sched = cron.New()

	a.checkSettings()
	a.initJobs()

	return nil
}

func (a *Application) initLogger() {
	cfg := a.appConfig

	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.OutputPaths = []string{"stdout"}

	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   filepath.Join(cfg.System.Workdir, cfg.Logger.Filename),
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
		}
		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller())
	} else {
		var err error
		logger, err = zapConfig.Build(zap.AddCaller())
		if err != nil {
			panic(err)
		}
	}

	zap.ReplaceGlobals(logger)
}

// checkSettings seeds stock settings for any tenant that has none yet, so a
// fresh install serves a working storefront immediately.
func (a *Application) checkSettings() {
	for _, tenant := range domain.Tenants {
		if _, found := a.store.Records.Settings(tenant); found {
			continue
		}
		if err := a.store.Records.SaveSettings(tenant, domain.DefaultSettings(tenant)); err != nil {
			zap.L().Error("failed to seed default settings",
				zap.String("tenant", tenant.String()),
				zap.Error(err))
			continue
		}
		zap.L().Info("initialized default store settings", zap.String("tenant", tenant.String()))
	}
}

// Release flushes and closes application resources.
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			zap.L().Error("failed to close stores", zap.Error(err))
		}
	}
	_ = zap.L().Sync()
}
