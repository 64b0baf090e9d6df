package gallery

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockResource1 struct {
	name string
}
type MockResource2 struct {
	name string
}

func NewMockResource1(name string) *MockResource1 {
	return &MockResource1{name: name}
}
func NewMockResource2(name string) *MockResource2 {
	return &MockResource2{name: name}
}

func TestApp_changeState(t *testing.T) {
	app := &App{
		stateful:     true,
		initialState: 1,
		state:        1,
		finalState:   2,
		resources:    make(map[reflect.Type]any),
	}

	app.changeState(2)
	if app.nextState != State(2) {
		t.Errorf("The nextState should be set correctly.")
	}
	if !app.stateTransitioning {
		t.Errorf("The stateTransitioning flag should be true.")
	}

	app.executeChangeState(2)
	if app.state != State(2) {
		t.Errorf("The app state should change correctly.")
	}
}

func TestApp_addResources(t *testing.T) {
	app := &App{
		resources: make(map[reflect.Type]any),
	}

	resource1 := NewMockResource1("Resource1")
	app.addResources(resource1)
	assert.Contains(t, app.resources, reflect.TypeOf(resource1).Elem(), "Resource1 should be in resources map.")

	require.PanicsWithValue(t, fmt.Sprintf("%s is already in resources", reflect.TypeOf(resource1)), func() {
		app.addResources(resource1)
	})

	resource2 := NewMockResource2("Resource2")
	app.addResources(resource2)
	assert.Contains(t, app.resources, reflect.TypeOf(resource2).Elem(), "Resource2 should be in resources map.")

	require.Panics(t, func() {
		app.addResources(MockResource2{})
	}, "resources must be pointers")

	got, ok := Resource[MockResource2](app)
	require.True(t, ok)
	assert.Same(t, resource2, got)
}

func TestApp_SystemInjection(t *testing.T) {
	res := NewMockResource1("injected")
	var seen *MockResource1
	var sawCommands bool

	app := NewApp()
	app.Commands().AddResources(res)
	app.UseSystem(System(func(r *MockResource1, cmd *Commands) {
		seen = r
		sawCommands = cmd != nil
	}))
	app.Step()

	assert.Same(t, res, seen)
	assert.True(t, sawCommands)
}

func TestApp_MissingDependencyPanics(t *testing.T) {
	app := NewApp()
	app.UseSystem(System(func(r *MockResource2) {}))
	assert.PanicsWithValue(t, fmt.Sprintf("Unable to resolve System dependency.\nSystem: %s\nSystem type: %s\nDependency: %s",
		"github.com/gekko3d/gallery.TestApp_MissingDependencyPanics.func1",
		"func(*gallery.MockResource2)",
		"*gallery.MockResource2",
	), func() { app.Step() })
}

func TestApp_StagesRunInOrder(t *testing.T) {
	var order []string
	app := NewApp()
	for _, stage := range []Stage{Finale, Render, Update, PreUpdate, Prelude} {
		stage := stage
		app.UseSystem(System(func() { order = append(order, stage.Name) }).InStage(stage))
	}
	app.Step()
	assert.Equal(t, []string{"Prelude", "PreUpdate", "Update", "Render", "Finale"}, order)
}

func TestApp_StateLifecycle(t *testing.T) {
	var log []string
	record := func(s string) func() { return func() { log = append(log, s) } }

	app := NewAppBuilder().UseStates(StateLoading, StateShutdown).Build()
	app.UseSystem(System(record("enter loading")).InState(OnEnter(StateLoading)))
	app.UseSystem(System(func(cmd *Commands) {
		log = append(log, "loading")
		cmd.ChangeState(StateWalkthrough)
	}).InState(OnExecute(StateLoading)))
	app.UseSystem(System(record("exit loading")).InState(OnExit(StateLoading)))
	app.UseSystem(System(record("enter walkthrough")).InState(OnEnter(StateWalkthrough)))
	app.UseSystem(System(func(cmd *Commands) {
		log = append(log, "walkthrough")
		cmd.Quit()
	}).InState(OnExecute(StateWalkthrough)))
	app.UseSystem(System(record("exit walkthrough")).InState(OnExit(StateWalkthrough)))
	app.UseSystem(System(record("enter shutdown")).InState(OnEnter(StateShutdown)))
	app.UseSystem(System(record("exit shutdown")).InState(OnExit(StateShutdown)))

	require.NoError(t, app.Run(context.Background()))
	assert.Equal(t, []string{
		"enter loading", "loading", "exit loading",
		"enter walkthrough", "walkthrough", "exit walkthrough",
		"enter shutdown", "exit shutdown",
	}, log)
	assert.Equal(t, StateShutdown, app.State())
	assert.Equal(t, uint64(2), app.Frame())
	assert.False(t, app.Step(), "a finished app does not step")
}

func TestApp_AbortStopsRun(t *testing.T) {
	boom := errors.New("boom")
	exited := false

	app := NewAppBuilder().UseStates(StateLoading, StateShutdown).Build()
	app.UseSystem(System(func(cmd *Commands) { cmd.Abort(boom) }).InState(OnExecute(StateLoading)))
	app.UseSystem(System(func() { exited = true }).InState(OnExit(StateLoading)))

	err := app.Run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.True(t, exited)
	assert.Equal(t, StateLoading, app.State())
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	frames := 0

	app := NewApp()
	app.UseSystem(System(func() {
		frames++
		if frames == 3 {
			cancel()
		}
	}))
	require.NoError(t, app.Run(ctx))
	assert.Equal(t, 3, frames)
}

func TestApp_StatefulSystemInStatelessAppPanics(t *testing.T) {
	app := NewApp()
	assert.PanicsWithValue(t, "Trying to use a stateful system in a stateless app.", func() {
		app.UseSystem(System(func() {}).InState(OnEnter(StateLoading)))
	})
}

func TestCommands_DeferredUntilFlush(t *testing.T) {
	type Marker struct{ n int }
	app := NewApp()
	cmd := app.Commands()

	eid := cmd.AddEntity(Marker{n: 1})
	assert.Zero(t, MakeQuery1[Marker](cmd).Count(), "additions wait for the flush")
	app.FlushCommands()
	assert.Equal(t, 1, MakeQuery1[Marker](cmd).Count())

	cmd.RemoveComponents(eid, Marker{})
	app.FlushCommands()
	assert.Zero(t, MakeQuery1[Marker](cmd).Count())

	cmd.AddComponents(eid, Marker{n: 2})
	app.FlushCommands()
	assert.Equal(t, []any{Marker{n: 2}}, cmd.GetAllComponents(eid))

	cmd.RemoveEntity(eid)
	app.FlushCommands()
	assert.Empty(t, cmd.GetAllComponents(eid))
}
