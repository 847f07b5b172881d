package system

import (
	"context"
	"fmt"
	"testing"
)

type recordingService struct {
	name     string
	failOn   bool
	events   *[]string
	failStop bool
}

func (r *recordingService) Name() string { return r.name }

func (r *recordingService) Start(context.Context) error {
	if r.failOn {
		return fmt.Errorf("boom")
	}
	*r.events = append(*r.events, "start:"+r.name)
	return nil
}

func (r *recordingService) Stop(context.Context) error {
	*r.events = append(*r.events, "stop:"+r.name)
	if r.failStop {
		return fmt.Errorf("boom")
	}
	return nil
}

func TestManagerOrdering(t *testing.T) {
	var events []string
	m := NewManager()
	for _, name := range []string{"a", "b", "c"} {
		if err := m.Register(&recordingService{name: name, events: &events}); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}

	ctx := context.Background()
	if err := m.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := m.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}

	want := []string{"start:a", "start:b", "start:c", "stop:c", "stop:b", "stop:a"}
	if len(events) != len(want) {
		t.Fatalf("events %v", events)
	}
	for i, e := range want {
		if events[i] != e {
			t.Fatalf("event %d: got %s want %s", i, events[i], e)
		}
	}
}

func TestManagerStartFailureUnwinds(t *testing.T) {
	var events []string
	m := NewManager()
	_ = m.Register(&recordingService{name: "a", events: &events})
	_ = m.Register(&recordingService{name: "b", events: &events, failOn: true})

	if err := m.Start(context.Background()); err == nil {
		t.Fatalf("expected start error")
	}
	if len(events) != 2 || events[1] != "stop:a" {
		t.Fatalf("expected a to be stopped, got %v", events)
	}
}

func TestManagerRejectsDuplicates(t *testing.T) {
	m := NewManager()
	if err := m.Register(NoopService{ServiceName: "x"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := m.Register(NoopService{ServiceName: "x"}); err == nil {
		t.Fatalf("expected duplicate name error")
	}
	if got := m.Names(); len(got) != 1 || got[0] != "x" {
		t.Fatalf("names: %v", got)
	}
}
