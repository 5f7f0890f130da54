package emitter

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-weakevent"
)

type glogCompatLogger struct {
	logger glog.Logger
}

func (l glogCompatLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l glogCompatLogger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l glogCompatLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l glogCompatLogger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

func TestGlogCompatLoggerObservesPruning(t *testing.T) {
	buf := &bytes.Buffer{}
	base := glog.NewLogger(
		glog.WithWriter(buf),
		glog.WithLoggerTypeJSON(),
		glog.WithLevel("trace"),
	)

	var seen []string
	e := New(WithLogger[notice](glogCompatLogger{logger: base}))
	subscribeEphemeral(t, e, &seen)

	collect()

	if err := e.Emit(context.Background(), notice{}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if e.Len() != 0 {
		t.Fatalf("expected empty registry after pruning, got %d", e.Len())
	}
	if !strings.Contains(buf.String(), "pruned collected subscribers") {
		t.Fatalf("expected prune log line, got %q", buf.String())
	}
}

func TestGlogCompatLoggerObservesHandlerPanic(t *testing.T) {
	buf := &bytes.Buffer{}
	base := glog.NewLogger(
		glog.WithWriter(buf),
		glog.WithLoggerTypeJSON(),
		glog.WithLevel("trace"),
	)

	e := New(WithLogger[notice](glogCompatLogger{logger: base}))
	if _, err := e.On(weakevent.Func(func(_ context.Context, _ notice) error {
		panic("boom")
	})); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	if err := e.Emit(context.Background(), notice{}); err == nil {
		t.Fatal("expected panic to surface as error")
	}
	if !strings.Contains(buf.String(), "recovered from handler panic") {
		t.Fatalf("expected panic log line, got %q", buf.String())
	}
}
