package internal

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var once sync.Once
var logger *logrus.Logger

// secretParams are query parameters masked before a URL is logged.
var secretParams = []string{"subscription-key"}

// GetLogger returns the process-wide logger. Level and format are applied once
// the config is loaded.
func GetLogger() *logrus.Logger {
	once.Do(func() {
		logger = logrus.New()
		logger.Out = os.Stdout
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(newFormatter(""))
	})

	return logger
}

func SetLogLevel(level logrus.Level) {
	GetLogger().SetLevel(level)
}

// SetLogFormat switches between "text" (default) and "json" output.
func SetLogFormat(format string) {
	GetLogger().SetFormatter(newFormatter(format))
}

func newFormatter(format string) logrus.Formatter {
	if strings.EqualFold(format, "json") {
		return &logrus.JSONFormatter{}
	}
	return &logrus.TextFormatter{
		FullTimestamp: true,
		PadLevelText:  true,
	}
}

// LeveledLogger is the logger interface of retryablehttp.
type LeveledLogger interface {
	Error(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

var _ LeveledLogger = &LeveledLogrus{}

// NewLeveledLogrus adapts logger for the retryablehttp client. Request URLs are
// logged with their keys masked.
func NewLeveledLogrus(logger *logrus.Logger) *LeveledLogrus {
	return &LeveledLogrus{
		Logger: logger,
	}
}

type LeveledLogrus struct {
	*logrus.Logger
}

func (l *LeveledLogrus) fields(keysAndValues ...interface{}) logrus.Fields {
	fields := make(logrus.Fields)

	for i := 0; i < len(keysAndValues)-1; i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		value := keysAndValues[i+1]
		if key == "url" {
			value = RedactURL(fmt.Sprint(value))
		}
		fields[key] = value
	}

	return fields
}

// RedactURL masks the values of secret query parameters in rawURL.
func RedactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	q := u.Query()
	redacted := false
	for _, p := range secretParams {
		if q.Has(p) {
			q.Set(p, "REDACTED")
			redacted = true
		}
	}
	if !redacted {
		return rawURL
	}

	u.RawQuery = q.Encode()
	return u.String()
}

func (l *LeveledLogrus) Error(msg string, keysAndValues ...interface{}) {
	l.WithFields(l.fields(keysAndValues...)).Error(msg)
}

func (l *LeveledLogrus) Info(msg string, keysAndValues ...interface{}) {
	l.WithFields(l.fields(keysAndValues...)).Info(msg)
}

func (l *LeveledLogrus) Warn(msg string, keysAndValues ...interface{}) {
	l.WithFields(l.fields(keysAndValues...)).Warn(msg)
}

// Debug is demoted to Trace. retryablehttp logs every request at debug.
func (l *LeveledLogrus) Debug(msg string, keysAndValues ...interface{}) {
	l.WithFields(l.fields(keysAndValues...)).Trace(msg)
}
