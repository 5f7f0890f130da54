package weakevent

import (
	"context"
	stderrors "errors"
	"runtime"
	"testing"

	"github.com/goliatone/go-errors"
)

func textCode(err error) string {
	var ge *errors.Error
	if stderrors.As(err, &ge) {
		return ge.TextCode
	}
	return ""
}

func TestBindRejectsNilReceiver(t *testing.T) {
	c := Bind[probe, string](nil, (*probe).onFirst)
	if c.Err() == nil {
		t.Fatal("expected malformed callable")
	}

	m := NewMulticaster[string]()
	err := m.Combine(c)
	if err == nil {
		t.Fatal("expected combine to reject malformed callable")
	}
	if code := textCode(err); code != ErrCodeInvalidCallable {
		t.Fatalf("expected text code %s, got %s", ErrCodeInvalidCallable, code)
	}
	if m.Len() != 0 {
		t.Fatalf("expected registry untouched, got %d entries", m.Len())
	}
}

func TestBindRejectsNilMethod(t *testing.T) {
	log := &callLog{}
	a := &probe{name: "a", log: log}

	c := Bind[probe, string](a, nil)
	if c.Err() == nil {
		t.Fatal("expected malformed callable")
	}

	m := NewMulticaster[string]()
	if err := m.Remove(c); err == nil {
		t.Fatal("expected remove to reject malformed callable")
	}

	runtime.KeepAlive(a)
}

func TestFuncRejectsNilHandler(t *testing.T) {
	c := Func[string](nil)
	if c.Err() == nil {
		t.Fatal("expected malformed callable")
	}
}

func TestJoinPropagatesMalformedConstituents(t *testing.T) {
	ok := Func(func(_ context.Context, _ string) error { return nil })
	bad := Func[string](nil)

	joined := Join(ok, bad)
	if joined.Err() == nil {
		t.Fatal("expected join to carry the malformed constituent's error")
	}
	if joined.Len() != 0 {
		t.Fatalf("expected malformed join to expose no constituents, got %d", joined.Len())
	}
}

func TestJoinPreservesConstituentOrder(t *testing.T) {
	log := &callLog{}
	a := &probe{name: "a", log: log}
	b := &probe{name: "b", log: log}

	joined := Join(
		Bind(a, (*probe).onFirst),
		Bind(b, (*probe).onFirst),
		Bind(a, (*probe).onSecond),
	)
	if joined.Err() != nil {
		t.Fatalf("join: %v", joined.Err())
	}
	if joined.Len() != 3 {
		t.Fatalf("expected 3 constituents, got %d", joined.Len())
	}

	m := NewMulticaster[string]()
	if err := m.Combine(joined); err != nil {
		t.Fatalf("combine: %v", err)
	}
	live, _ := m.Live()
	if err := live(context.Background(), "j"); err != nil {
		t.Fatalf("invoke: %v", err)
	}

	want := []string{"a.first:j", "b.first:j", "a.second:j"}
	for i, w := range want {
		if log.calls[i] != w {
			t.Fatalf("call %d: expected %s, got %s", i, w, log.calls[i])
		}
	}

	runtime.KeepAlive(a)
	runtime.KeepAlive(b)
}
