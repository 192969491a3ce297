package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// fakeService logs lifecycle calls into a shared journal
type fakeService struct {
	name     string
	deps     []string
	journal  *[]string
	initErr  error
	startErr error
	stopErr  error
	args     []any
}

func (f *fakeService) Name() string           { return f.name }
func (f *fakeService) Dependencies() []string { return f.deps }

func (f *fakeService) Init(args ...any) error {
	f.args = args
	*f.journal = append(*f.journal, "init "+f.name)
	return f.initErr
}

func (f *fakeService) Start() error {
	*f.journal = append(*f.journal, "start "+f.name)
	return f.startErr
}

func (f *fakeService) Stop() error {
	*f.journal = append(*f.journal, "stop "+f.name)
	return f.stopErr
}

func newHub(t *testing.T, svcs ...*fakeService) *Hub {
	t.Helper()
	h := NewHub()
	for _, s := range svcs {
		if err := h.Register(s); err != nil {
			t.Fatalf("Register %s failed: %v", s.name, err)
		}
	}
	return h
}

func TestHubLifecycleOrder(t *testing.T) {
	var journal []string
	term := &fakeService{name: "terminal", journal: &journal}
	netw := &fakeService{name: "network", deps: []string{"terminal"}, journal: &journal}
	h := newHub(t, netw, term)

	if err := h.InitAll(map[string][]any{"network": {"cfg"}}); err != nil {
		t.Fatalf("InitAll failed: %v", err)
	}
	if err := h.StartAll(); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	if err := h.StopAll(); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}

	want := []string{
		"init terminal", "init network",
		"start terminal", "start network",
		"stop network", "stop terminal",
	}
	if diff := cmp.Diff(want, journal); diff != "" {
		t.Errorf("lifecycle mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{"cfg"}, netw.args); diff != "" {
		t.Errorf("init args mismatch (-want +got):\n%s", diff)
	}
	if len(term.args) != 0 {
		t.Errorf("Expected no args for terminal, got %v", term.args)
	}
}

func TestHubStableOrder(t *testing.T) {
	var journal []string
	h := newHub(t,
		&fakeService{name: "c", journal: &journal},
		&fakeService{name: "a", journal: &journal},
		&fakeService{name: "b", deps: []string{"a"}, journal: &journal},
	)
	if err := h.InitAll(nil); err != nil {
		t.Fatalf("InitAll failed: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "c", "b"}, h.Order()); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, h.Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestHubInitRollback(t *testing.T) {
	var journal []string
	boom := errors.New("no tty")
	h := newHub(t,
		&fakeService{name: "a", journal: &journal},
		&fakeService{name: "b", deps: []string{"a"}, journal: &journal, initErr: boom},
	)

	err := h.InitAll(nil)
	if !errors.Is(err, boom) {
		t.Fatalf("Expected init error, got %v", err)
	}
	want := []string{"init a", "init b", "stop a"}
	if diff := cmp.Diff(want, journal); diff != "" {
		t.Errorf("rollback mismatch (-want +got):\n%s", diff)
	}
}

func TestHubStartRollback(t *testing.T) {
	var journal []string
	boom := errors.New("address in use")
	h := newHub(t,
		&fakeService{name: "a", journal: &journal},
		&fakeService{name: "b", deps: []string{"a"}, journal: &journal, startErr: boom},
	)
	if err := h.InitAll(nil); err != nil {
		t.Fatalf("InitAll failed: %v", err)
	}
	journal = journal[:0]

	if err := h.StartAll(); !errors.Is(err, boom) {
		t.Fatalf("Expected start error, got %v", err)
	}
	want := []string{"start a", "start b", "stop a"}
	if diff := cmp.Diff(want, journal); diff != "" {
		t.Errorf("rollback mismatch (-want +got):\n%s", diff)
	}

	// Nothing left to stop
	journal = journal[:0]
	h.StopAll()
	if len(journal) != 0 {
		t.Errorf("Expected no stops after rollback, got %v", journal)
	}
}

func TestHubStopJoinsErrors(t *testing.T) {
	var journal []string
	errA := errors.New("a failed")
	errB := errors.New("b failed")
	h := newHub(t,
		&fakeService{name: "a", journal: &journal, stopErr: errA},
		&fakeService{name: "b", journal: &journal, stopErr: errB},
	)
	h.InitAll(nil)
	h.StartAll()

	err := h.StopAll()
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("Expected both stop errors, got %v", err)
	}
}

func TestHubDependencyErrors(t *testing.T) {
	var journal []string

	h := newHub(t, &fakeService{name: "a", deps: []string{"ghost"}, journal: &journal})
	if err := h.InitAll(nil); err == nil || !strings.Contains(err.Error(), "ghost") {
		t.Errorf("Expected unregistered dependency error, got %v", err)
	}

	h = newHub(t,
		&fakeService{name: "a", deps: []string{"b"}, journal: &journal},
		&fakeService{name: "b", deps: []string{"a"}, journal: &journal},
	)
	if err := h.InitAll(nil); err == nil || !strings.Contains(err.Error(), "circular") {
		t.Errorf("Expected circular dependency error, got %v", err)
	}

	if err := h.Register(&fakeService{name: "a", journal: &journal}); err == nil {
		t.Error("Expected duplicate registration error")
	}
}

func TestMustGet(t *testing.T) {
	var journal []string
	h := newHub(t, &fakeService{name: "a", journal: &journal})

	if got := MustGet[*fakeService](h, "a"); got.name != "a" {
		t.Errorf("Expected service a, got %s", got.name)
	}

	defer func() {
		if recover() == nil {
			t.Error("Expected panic for missing service")
		}
	}()
	MustGet[*fakeService](h, "missing")
}
