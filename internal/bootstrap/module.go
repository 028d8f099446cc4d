package bootstrap

import (
	"context"
	"log/slog"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"mrcfield/internal/bootstrap/config"
	"mrcfield/internal/bootstrap/database"
	"mrcfield/internal/bootstrap/logging"
	"mrcfield/internal/domain/costing"
	"mrcfield/internal/errs"
	"mrcfield/internal/infrastructure/aitext"
	cacheinfra "mrcfield/internal/infrastructure/cache"
	"mrcfield/internal/infrastructure/events"
	"mrcfield/internal/infrastructure/export"
	"mrcfield/internal/infrastructure/persistence/relational/repository"
	"mrcfield/internal/infrastructure/persistence/relational/uow"
	"mrcfield/internal/infrastructure/ratecard"
	"mrcfield/internal/ports"
	"mrcfield/internal/transport/httpapi"
	"mrcfield/internal/usecase/inspection"
	"mrcfield/internal/usecase/lead"
)

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(provideDatabase),
	fx.Provide(provideApp),
	fx.Provide(
		fx.Annotate(
			repository.NewInspectionRepository,
			fx.As(new(ports.InspectionRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			repository.NewLeadRepository,
			fx.As(new(ports.LeadRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			repository.NewJobSequence,
			fx.As(new(ports.JobNumberSequence)),
		),
	),
	fx.Provide(
		fx.Annotate(
			uow.NewUnitOfWork,
			fx.As(new(ports.UnitOfWork)),
		),
	),
	fx.Provide(
		fx.Annotate(
			cacheinfra.NewKVCache,
			fx.As(new(ports.Cache)),
		),
	),
	fx.Provide(
		fx.Annotate(
			export.NewXLSXRenderer,
			fx.As(new(ports.ReportRenderer)),
		),
	),
	fx.Provide(provideCostEngine),
	fx.Provide(provideTextGenerator),
	fx.Provide(provideEventPublisher),
	fx.Provide(provideInspectionService),
	fx.Provide(lead.NewService),
	fx.Provide(httpapi.NewHandler),
)

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithAttrs(p.Ctx, slog.String("component", "bootstrap.fx"))
	return config.Load(ctx, p.ConfigFile)
}

func provideDatabase(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	return db, nil
}

func provideApp(cfg config.Config, db *gorm.DB) *App {
	return &App{
		Config: cfg,
		DB:     db,
	}
}

func provideCostEngine(cfg config.Config) (*costing.Engine, error) {
	card, err := ratecard.Load(cfg.Pricing.RateCardFile)
	if err != nil {
		return nil, err
	}
	engine, err := costing.NewEngine(card)
	if err != nil {
		return nil, errs.Wrap(err, "build cost engine")
	}
	return engine, nil
}

func provideTextGenerator(ctx context.Context, cfg config.Config) (ports.TextGenerator, error) {
	return aitext.New(ctx, aitext.Config{
		APIKey:  cfg.AI.OpenAIAPIKey,
		Model:   cfg.AI.Model,
		BaseURL: cfg.AI.BaseURL,
	})
}

// provideEventPublisher falls back to logging events when no broker URL is set.
func provideEventPublisher(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (ports.EventPublisher, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))
	if cfg.Events.NATSURL == "" {
		logging.Info(logCtx, "no event broker configured, completion events are logged only")
		return events.NoopPublisher{}, nil
	}

	publisher, err := events.NewNATSPublisher(logCtx, events.Config{
		URL:     cfg.Events.NATSURL,
		Subject: cfg.Events.Subject,
		Name:    cfg.App.Name,
	})
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return publisher.Close()
		},
	})
	return publisher, nil
}

type inspectionParams struct {
	fx.In

	Config      config.Config
	Inspections ports.InspectionRepository
	Leads       ports.LeadRepository
	JobNumbers  ports.JobNumberSequence
	UnitOfWork  ports.UnitOfWork
	Cache       ports.Cache
	Engine      *costing.Engine
	Text        ports.TextGenerator
	Events      ports.EventPublisher
	Renderer    ports.ReportRenderer
}

func provideInspectionService(p inspectionParams) *inspection.Service {
	return inspection.NewService(inspection.Dependencies{
		Inspections:     p.Inspections,
		Leads:           p.Leads,
		JobNumbers:      p.JobNumbers,
		UnitOfWork:      p.UnitOfWork,
		Cache:           p.Cache,
		Engine:          p.Engine,
		Text:            p.Text,
		Events:          p.Events,
		Renderer:        p.Renderer,
		JobNumberPrefix: p.Config.JobNumber.Prefix,
	})
}
