package main

import (
	"log/slog"
	"strings"
	"sync"

	"podpress/internal/config"
	"podpress/internal/journal"
	"podpress/internal/logging"
	"podpress/internal/pipeline"
	"podpress/internal/services/ffmpeg"
	"podpress/internal/services/transcriber"

	"podpress/internal/editing"
	"podpress/internal/ingestion"
	"podpress/internal/mastering"
	"podpress/internal/mixing"
)

type commandContext struct {
	configFlag  *string
	projectFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, projectFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag, projectFlag: projectFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		c.config, c.configErr = config.Load(path)
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
			Dir:    cfg.Logging.Dir,
		})
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) projectRoot() string {
	if c.projectFlag == nil || strings.TrimSpace(*c.projectFlag) == "" {
		return "."
	}
	return *c.projectFlag
}

// openJournal returns nil when journaling is disabled.
func (c *commandContext) openJournal() (*journal.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.Journal.Enabled {
		return nil, nil
	}
	return journal.Open(cfg.Journal.Path)
}

func (c *commandContext) newRunner() (*pipeline.Runner, *journal.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	log, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}

	media := ffmpeg.New(cfg.Tools.FFmpeg, cfg.Tools.FFprobe)
	script := transcriber.New(cfg.Tools.Transcriber)

	runner := pipeline.NewRunner(c.projectRoot(), log,
		ingestion.New(log, media, script),
		editing.New(log),
		mixing.New(log, media),
		mastering.New(log, media),
	)

	store, err := c.openJournal()
	if err != nil {
		return nil, nil, err
	}
	if store != nil {
		runner.WithJournal(store)
	}
	return runner, store, nil
}
