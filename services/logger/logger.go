package logsvc

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/rollbar/rollbar-go"
	rollbarerrors "github.com/rollbar/rollbar-go/errors"
	"go.uber.org/zap"

	"github.com/coursehub/backend/core"
)

// Logger writes structured lines through zap and, when enabled, reports to Rollbar.
// Log args are expected as: error, map[string]interface{} (extras), core.Identity.
type Logger struct {
	sugar   *zap.SugaredLogger
	rollbar bool
}

var _ core.Logger = (*Logger)(nil)

// InitRollbar configures the global Rollbar client. Reporting stays off without a token.
func InitRollbar(conf *core.Config) {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(strings.ToLower(conf.Env))
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetServerRoot("github.com/coursehub/backend")
	rollbar.SetStackTracer(rollbarerrors.StackTracer)
	rollbar.SetEnabled(conf.RollbarToken != "" && !conf.TestMode)
}

func NewLogger(name string, conf *core.Config) (*Logger, error) {
	var cfg zap.Config
	if conf.Debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	zl, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, errors.Wrap(err, "building zap logger")
	}
	return &Logger{
		sugar:   zl.Named(name).Sugar(),
		rollbar: conf.RollbarToken != "" && !conf.TestMode,
	}, nil
}

// NewNopLogger discards everything. Used in tests.
func NewNopLogger() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

// Close flushes buffered lines and pending Rollbar items.
func (l *Logger) Close() {
	_ = l.sugar.Sync()
	if l.rollbar {
		rollbar.Wait()
	}
}

func (l *Logger) fields(args []interface{}) []interface{} {
	kvs := make([]interface{}, 0, len(args)*2)
	for i, arg := range args {
		switch val := arg.(type) {
		case error:
			kvs = append(kvs, "error", fmt.Sprintf("%+v", val))
		case map[string]interface{}:
			kvs = append(kvs, "extras", val)
		case core.Identity:
			kvs = append(kvs, "caller_id", val.UserID, "caller_role", val.Role)
		default:
			kvs = append(kvs, fmt.Sprintf("arg%d", i), val)
		}
	}
	return kvs
}

func (l *Logger) report(level, msg string, args []interface{}) {
	if !l.rollbar {
		return
	}
	items := make([]interface{}, 0, len(args)+1)
	items = append(items, msg)
	for _, arg := range args {
		if id, ok := arg.(core.Identity); ok {
			// only one person per item
			if !id.IsAnonymous() {
				items = append(items, rollbar.NewPersonContext(context.Background(), &rollbar.Person{
					Id:    id.UserID,
					Email: id.Email,
				}))
			}
			continue
		}
		items = append(items, arg)
	}
	rollbar.Log(level, items...)
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	l.sugar.Debugw(msg, l.fields(args)...)
}

func (l *Logger) Info(msg string, args ...interface{}) {
	l.sugar.Infow(msg, l.fields(args)...)
	l.report(rollbar.INFO, msg, args)
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	l.sugar.Warnw(msg, l.fields(args)...)
	l.report(rollbar.WARN, msg, args)
}

func (l *Logger) Error(msg string, args ...interface{}) {
	l.sugar.Errorw(msg, l.fields(args)...)
	l.report(rollbar.ERR, msg, args)
}

func (l *Logger) Fatal(msg string, args ...interface{}) {
	l.report(rollbar.CRIT, msg, args)
	l.Close()
	l.sugar.Fatalw(msg, l.fields(args)...)
}
