package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/specialistvlad/meshplan/internal/config"
	"github.com/specialistvlad/meshplan/internal/ctxlog"
	"github.com/specialistvlad/meshplan/internal/mesh"
	"github.com/specialistvlad/meshplan/internal/mission"
	"github.com/specialistvlad/meshplan/internal/session"
	"github.com/specialistvlad/meshplan/internal/viz"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	ctx        context.Context
	config     *Config
	model      *config.Model
	session    *session.Session
	sink       *viz.SocketSink
	uploader   *mission.Uploader
	httpServer *http.Server
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and session.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model := &config.Model{}
	if appConfig.MissionPath != "" {
		loaded, err := loader.Load(ctx, appConfig.MissionPath)
		if err != nil {
			// A failure to load config is a fatal startup error.
			panic(fmt.Errorf("failed to load configuration: %w", err))
		}
		if err := loaded.Validate(); err != nil {
			panic(fmt.Errorf("failed to validate configuration: %w", err))
		}
		model = loaded
		logger.Debug("Mission loaded and translated into unified model.", "agents", len(model.Agents), "plans", len(model.Plans))
	}

	if appConfig.VizURL != "" {
		if model.Visualization == nil {
			model.Visualization = &config.Visualization{}
		}
		model.Visualization.URL = appConfig.VizURL
	}

	opts, sink, err := sessionOptions(model.Visualization)
	if err != nil {
		panic(fmt.Errorf("invalid visualization settings: %w", err))
	}
	sess := session.New(mesh.Lattice{}, opts...)
	logger.Debug("Session created.", "session", sess.ID(), "viewer", sink != nil)

	return &App{
		outW:     outW,
		logger:   logger,
		ctx:      ctx,
		config:   appConfig,
		model:    model,
		session:  sess,
		sink:     sink,
		uploader: mission.NewUploader(nil),
	}
}

// sessionOptions builds the viewer sink described by v, if any.
func sessionOptions(v *config.Visualization) ([]session.Option, *viz.SocketSink, error) {
	if v == nil || v.URL == "" {
		return nil, nil, nil
	}
	var opts []session.Option
	if v.Mode != "" {
		mode, err := viz.ParseMode(v.Mode)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, session.WithMode(mode))
	}
	if v.Centers {
		opts = append(opts, session.WithCenters())
	}
	var timeout time.Duration
	if v.Timeout != "" {
		d, err := time.ParseDuration(v.Timeout)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid timeout %q: %w", v.Timeout, err)
		}
		timeout = d
	}
	sink, err := viz.NewSocketSink(viz.SocketOptions{URL: v.URL, Namespace: v.Namespace, Timeout: timeout})
	if err != nil {
		return nil, nil, err
	}
	return append(opts, session.WithSink(sink)), sink, nil
}

// Session returns the application's planning session. This is primarily for testing.
func (a *App) Session() *session.Session {
	return a.session
}

// Model returns the loaded mission model.
func (a *App) Model() *config.Model {
	return a.model
}

func (a *App) close() {
	if a.sink != nil {
		a.sink.Close()
	}
}
