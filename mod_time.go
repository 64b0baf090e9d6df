package gallery

import (
	"time"
)

type Time struct {
	Time time.Time
	Dt   time.Duration
}

// DeltaSeconds returns the last frame duration in seconds.
func (t *Time) DeltaSeconds() float32 {
	return float32(t.Dt.Seconds())
}

type TimeModule struct {
	// FixedStep, when non zero, replaces the measured frame time. Used by tests and
	// headless runs so every frame advances the same amount.
	FixedStep time.Duration
	// TargetFPS caps the frame rate by sleeping at the end of a frame.
	TargetFPS int
}

type frameClock struct {
	fixedStep  time.Duration
	minFrame   time.Duration
	frameStart time.Time
	now        func() time.Time
	sleep      func(time.Duration)
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	clock := &frameClock{
		fixedStep: mod.FixedStep,
		now:       time.Now,
		sleep:     time.Sleep,
	}
	if mod.TargetFPS > 0 {
		clock.minFrame = time.Second / time.Duration(mod.TargetFPS)
	}
	start := clock.now()
	clock.frameStart = start

	cmd.AddResources(&Time{
		Time: start,
		Dt:   0,
	}, clock)
	app.UseSystem(
		System(timeSystem).
			InStage(Prelude).
			RunAlways(),
	)
	if clock.minFrame > 0 {
		app.UseSystem(
			System(frameLimiterSystem).
				InStage(Finale).
				RunAlways(),
		)
	}
}

func timeSystem(timeResource *Time, clock *frameClock) {
	now := clock.now()
	clock.frameStart = now

	if clock.fixedStep > 0 {
		timeResource.Dt = clock.fixedStep
		timeResource.Time = timeResource.Time.Add(clock.fixedStep)
		return
	}
	timeResource.Dt = now.Sub(timeResource.Time)
	timeResource.Time = now
}

func frameLimiterSystem(clock *frameClock) {
	elapsed := clock.now().Sub(clock.frameStart)
	if remaining := clock.minFrame - elapsed; remaining > 0 {
		clock.sleep(remaining)
	}
}
