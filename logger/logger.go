package logger

import (
	"fmt"
	"io"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"
)

const (
	componentKey = "component"
	groupKey     = "group"
	triggerKey   = "trigger"
)

type LogConfig struct {
	LogLevel  string `help:"Level of logging." env:"LOG_LEVEL" default:"info" enum:"trace,debug,info,warn,error"`
	LogFormat string `help:"Format for logs." env:"LOG_FORMAT" default:"text" enum:"text,json"`
}

func (c LogConfig) InitLogger(kongCtx *kong.Context) {
	c.Apply(kongCtx.Stderr)
}

// Apply configures the standard logger to write to out.
func (c LogConfig) Apply(out io.Writer) {
	logrus.SetOutput(out)
	logrus.SetLevel(c.level())
	logrus.SetFormatter(c.formatter())
}

func (c LogConfig) level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}

	return level
}

func (c LogConfig) formatter() logrus.Formatter {
	switch c.LogFormat {
	case "json":
		return &logrus.JSONFormatter{}
	case "text":
		return &logrus.TextFormatter{FullTimestamp: true}
	default:
		return &logrus.TextFormatter{FullTimestamp: true}
	}
}

func Get() *logrus.Logger {
	return logrus.StandardLogger()
}

func WithComponent(component string) *logrus.Entry {
	return Get().WithField(componentKey, component)
}

// WithRun scopes log lines to a single update cycle.
func WithRun(group string, trigger fmt.Stringer) *logrus.Entry {
	return WithComponent("orchestrator").WithFields(logrus.Fields{
		groupKey:   group,
		triggerKey: trigger.String(),
	})
}
