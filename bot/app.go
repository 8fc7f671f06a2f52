package bot

import (
	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/askbot/core/bootstrap"
	coretelegram "github.com/m3rciful/askbot/core/telegram"
	"github.com/m3rciful/askbot/core/telegram/commands"
	"github.com/m3rciful/askbot/core/telegram/router"
	"github.com/m3rciful/askbot/core/telegram/state"
	"github.com/m3rciful/askbot/qa"
	"github.com/m3rciful/askbot/storage"
)

// Conversation states. Stored as strings in the sessions table, so renaming
// a value is a data migration.
const (
	StateAwaitingName     state.State = "awaiting_name"
	StateAwaitingQuestion state.State = "awaiting_question"
	StateAwaitingNewName  state.State = "awaiting_new_name"
)

// App wires storage, the matching service, and the Telegram handlers.
type App struct {
	cfg *Config
	db  *sqlx.DB

	questions *storage.QuestionRepository
	sessions  *storage.SessionStore
	qa        *qa.Service
	fsm       *state.Manager
}

// New bootstraps infrastructure (logger, database, migrations, seed) and
// assembles the application.
func New(cfg *Config) (*App, error) {
	res, err := bootstrap.Run(bootstrap.Options{
		Config:   &cfg.Core,
		Database: cfg.Database,
		Seeders: []bootstrap.Seeder{
			storage.QuestionSeeder{Path: cfg.QA.SeedFile},
		},
	})
	if err != nil {
		return nil, err
	}

	app := &App{
		cfg:       cfg,
		db:        res.DB,
		questions: storage.NewQuestionRepository(res.DB),
		sessions:  storage.NewSessionStore(res.DB),
	}
	app.qa = qa.NewService(app.questions, cfg.QA)
	app.fsm = state.NewManager(app.sessions)
	app.registerStates()
	return app, nil
}

func (a *App) registerStates() {
	a.fsm.Handle(StateAwaitingName, a.handleNameProvided)
	a.fsm.Handle(StateAwaitingQuestion, a.handleQuestion)
	a.fsm.Handle(StateAwaitingNewName, a.handleNameUpdated)
}

// TelegramRunOptions builds the runtime options consumed by core/cmd.Run.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.handleStart,
		Description: "Start the conversation",
	})
	reg.RegisterCommand("/help", commands.Command{
		Handler:     a.handleHelp,
		Description: "Show help",
	})
	reg.RegisterCommand("/changename", commands.Command{
		Handler:     a.handleChangeName,
		Description: "Change how the bot addresses you",
	})
	reg.RegisterCommand("/stats", commands.Command{
		Handler:     a.handleStats,
		Description: "Show bot statistics",
		AdminOnly:   true,
		Hidden:      true,
	})

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: a.cfg.Core.Telegram.AdminID,
	})
	routes = append(routes, router.TextRoutes(a.fsm, reg, router.TextOptions{})...)

	return coretelegram.RunOptions{
		Config:      &a.cfg.Core,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(&a.cfg.Core, nil),
		Routes:      routes,
	}, nil
}
