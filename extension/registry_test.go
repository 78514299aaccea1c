package extension

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// testExtension is a minimal Extension implementation for testing.
type testExtension struct {
	name string
}

func (e testExtension) Name() string               { return e.name }
func (e testExtension) Commands() []*cobra.Command { return nil }
func (e testExtension) MCPTools() []MCPTool        { return nil }

func TestRegister_PanicOnDuplicate(t *testing.T) {
	name := "test-duplicate-panic"
	Register(testExtension{name: name})

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on duplicate registration, got none")
		}
	}()

	Register(testExtension{name: name})
}

func TestRegister_Order(t *testing.T) {
	Register(testExtension{name: "test-order-a"})
	Register(testExtension{name: "test-order-b"})

	names := Names()
	a := slices.Index(names, "test-order-a")
	b := slices.Index(names, "test-order-b")
	if a < 0 || b < 0 || a > b {
		t.Errorf("Names() = %v, want test-order-a before test-order-b", names)
	}
}

type storelessExtension struct {
	testExtension
	cmds []string
}

func (e storelessExtension) NoStoreCommands() []string { return e.cmds }

type failingExtension struct {
	testExtension
}

func (e failingExtension) Init(Context) error { return errors.New("no table") }

func TestStorelessCommands(t *testing.T) {
	Register(storelessExtension{testExtension{name: "test-storeless"}, []string{"encode", "decode"}})

	got := StorelessCommands()
	if !slices.Contains(got, "encode") || !slices.Contains(got, "decode") {
		t.Errorf("StorelessCommands() = %v, want encode and decode", got)
	}
}

func TestInitAll(t *testing.T) {
	Register(failingExtension{testExtension{name: "test-failing-init"}})

	err := InitAll(NewContext(nil, nil, nil))
	if err == nil {
		t.Fatal("InitAll() = nil, want the failing extension's error")
	}
	if !strings.Contains(err.Error(), "init extension test-failing-init: no table") {
		t.Errorf("InitAll() = %q, want it to name the extension", err)
	}
}

func TestEvents(t *testing.T) {
	events := []struct {
		e    Event
		typ  EventType
		want string
	}{
		{RunRecordEvent{Label: "build"}, EventRunRecord, "build"},
		{RunDeleteEvent{Label: "test", Count: 2}, EventRunDelete, "test"},
		{RunRestoreEvent{Label: "lint"}, EventRunRestore, "lint"},
		{VacuumEvent{Count: 1}, EventVacuum, ""},
	}
	for _, tt := range events {
		if tt.e.EventType() != tt.typ {
			t.Errorf("%T.EventType() = %q, want %q", tt.e, tt.e.EventType(), tt.typ)
		}
		if tt.e.EventLabel() != tt.want {
			t.Errorf("%T.EventLabel() = %q, want %q", tt.e, tt.e.EventLabel(), tt.want)
		}
	}
}
