// Package gologger backs the module logging interfaces with go-logger.
package gologger

import (
	"context"
	"fmt"
	"maps"
	"strings"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-workflowui/internal/logging"
	"github.com/goliatone/go-workflowui/internal/runtimeconfig"
	"github.com/goliatone/go-workflowui/pkg/interfaces"
)

var levels = map[string]string{
	"trace":   glog.Trace,
	"debug":   glog.Debug,
	"info":    glog.Info,
	"warn":    glog.Warn,
	"warning": glog.Warn,
	"error":   glog.Error,
	"fatal":   glog.Fatal,
}

// Provider hands out named go-logger children. Focus names restrict output
// to the listed workflowui modules.
type Provider struct {
	root *glog.BaseLogger
}

var _ interfaces.LoggerProvider = (*Provider)(nil)

// New builds a provider from the logging block of the runtime config.
func New(cfg runtimeconfig.LoggingConfig) (*Provider, error) {
	opts, err := options(cfg)
	if err != nil {
		return nil, err
	}
	root := glog.NewLogger(opts...)

	var focus []string
	for _, name := range cfg.Focus {
		if name = strings.TrimSpace(name); name != "" {
			focus = append(focus, name)
		}
	}
	if len(focus) > 0 {
		root.Focus(focus...)
	}
	return &Provider{root: root}, nil
}

func options(cfg runtimeconfig.LoggingConfig) ([]glog.Option, error) {
	var opts []glog.Option
	if level, ok := levels[strings.ToLower(strings.TrimSpace(cfg.Level))]; ok {
		opts = append(opts, glog.WithLevel(level))
	}
	switch format := strings.ToLower(strings.TrimSpace(cfg.Format)); format {
	case "", "json":
		opts = append(opts, glog.WithLoggerTypeJSON())
	case "console":
		opts = append(opts, glog.WithLoggerTypeConsole())
	case "pretty":
		opts = append(opts, glog.WithLoggerTypePretty())
	default:
		return nil, fmt.Errorf("gologger: format %q not supported", cfg.Format)
	}
	if cfg.AddSource {
		opts = append(opts, glog.WithAddSource(true))
	}
	return opts, nil
}

// GetLogger returns the child logger for a workflowui module name such as
// "workflowui.commit". A blank name yields the root logger.
func (p *Provider) GetLogger(name string) interfaces.Logger {
	if p == nil || p.root == nil {
		return logging.NoOp()
	}
	if name = strings.TrimSpace(name); name == "" {
		return adapt(p.root)
	}
	return adapt(p.root.GetLogger(name))
}

func adapt(l glog.Logger) interfaces.Logger {
	if l == nil {
		return logging.NoOp()
	}
	return moduleLogger{l}
}

type moduleLogger struct {
	glog.Logger
}

var _ interfaces.FieldsLogger = moduleLogger{}

func (m moduleLogger) WithFields(fields map[string]any) interfaces.Logger {
	fl, ok := m.Logger.(glog.FieldsLogger)
	if !ok || len(fields) == 0 {
		return m
	}
	return adapt(fl.WithFields(maps.Clone(fields)))
}

func (m moduleLogger) WithContext(ctx context.Context) interfaces.Logger {
	if ctx == nil {
		return m
	}
	return adapt(m.Logger.WithContext(ctx))
}
