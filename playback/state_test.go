package playback

import (
	"testing"
	"time"
)

// fakeDriver records every call the state machine pushes down.
type fakeDriver struct {
	plays, pauses  int
	mutes, unmutes int
	seeks          []float64
	volumes        []int
	rates          []float64
}

func (d *fakeDriver) Play()            { d.plays++ }
func (d *fakeDriver) Pause()           { d.pauses++ }
func (d *fakeDriver) Seek(t float64)   { d.seeks = append(d.seeks, t) }
func (d *fakeDriver) SetVolume(v int)  { d.volumes = append(d.volumes, v) }
func (d *fakeDriver) SetRate(r float64) { d.rates = append(d.rates, r) }
func (d *fakeDriver) Mute()            { d.mutes++ }
func (d *fakeDriver) Unmute()          { d.unmutes++ }

func readyState(t *testing.T, duration float64) (*State, *fakeDriver) {
	t.Helper()

	drv := &fakeDriver{}
	s := New(drv)
	s.SetSource("song-1")
	s.HandleReady(duration)
	return s, drv
}

func TestSetSourceResetsPositionState(t *testing.T) {
	s, _ := readyState(t, 240)
	s.HandleTick(42)

	s.SetSource("song-2")

	snap := s.Get()
	if snap.CurrentTime != 0 || snap.Duration != 0 {
		t.Errorf("Expected reset position state, got time=%.2f duration=%.2f", snap.CurrentTime, snap.Duration)
	}
	if snap.Status != "UNREADY" {
		t.Errorf("Expected UNREADY after source change, got %s", snap.Status)
	}
}

func TestHandleReadyPushesVolumeAndRate(t *testing.T) {
	drv := &fakeDriver{}
	s := New(drv)
	s.SetVolume(60)
	s.SetRate(1.5)

	s.HandleReady(180)

	if s.Status() != StatusReady {
		t.Errorf("Expected READY, got %s", s.Status())
	}
	if len(drv.volumes) == 0 || drv.volumes[len(drv.volumes)-1] != 60 {
		t.Errorf("Expected volume pushed on ready, got %v", drv.volumes)
	}
	if len(drv.rates) == 0 || drv.rates[len(drv.rates)-1] != 1.5 {
		t.Errorf("Expected rate pushed on ready, got %v", drv.rates)
	}
}

func TestLoopWrapSeeksInsteadOfStoring(t *testing.T) {
	s, drv := readyState(t, 300)
	s.SetLoopStart(10)
	s.SetLoopEnd(20)
	s.ToggleLoop()
	s.HandleTick(15)

	s.HandleTick(20.1)

	if got := s.CurrentTime(); got != 15 {
		t.Errorf("Overshot tick must not be stored, got %.2f", got)
	}
	if len(drv.seeks) != 1 || drv.seeks[0] != 10 {
		t.Errorf("Expected a single seek to loop start, got %v", drv.seeks)
	}
}

func TestLoopWrapDisabledWithoutBothBounds(t *testing.T) {
	s, drv := readyState(t, 300)
	s.SetLoopStart(10)
	s.ToggleLoop()

	s.HandleTick(250)

	if got := s.CurrentTime(); got != 250 {
		t.Errorf("Expected tick stored with incomplete loop, got %.2f", got)
	}
	if len(drv.seeks) != 0 {
		t.Errorf("Expected no seek, got %v", drv.seeks)
	}
}

func TestLoopBoundsClampToKeepStartBeforeEnd(t *testing.T) {
	s, _ := readyState(t, 300)
	s.SetLoopStart(30)

	s.SetLoopEnd(20)

	snap := s.Get()
	if snap.LoopEnd != 30 {
		t.Errorf("Expected loop end clamped up to start, got %.2f", snap.LoopEnd)
	}

	s.SetLoopStart(50)
	snap = s.Get()
	if snap.LoopEnd != 50 {
		t.Errorf("Expected loop end dragged with later start, got %.2f", snap.LoopEnd)
	}
}

func TestClearLoopResetsAtomically(t *testing.T) {
	s, _ := readyState(t, 300)
	s.SetLoopStart(10)
	s.SetLoopEnd(20)
	s.ToggleLoop()

	s.ClearLoop()

	snap := s.Get()
	if snap.HasLoop || snap.Looping {
		t.Errorf("Expected loop fully cleared, got %+v", snap)
	}

	s.HandleTick(25)
	if got := s.CurrentTime(); got != 25 {
		t.Errorf("Expected normal tick after clear, got %.2f", got)
	}
}

func TestVolumeZeroImpliesMuted(t *testing.T) {
	s, _ := readyState(t, 300)
	s.SetVolume(70)

	s.SetVolume(0)

	snap := s.Get()
	if !snap.Muted {
		t.Error("Expected muted at volume 0")
	}

	s.ToggleMute()
	snap = s.Get()
	if snap.Muted {
		t.Error("Expected unmuted after toggle")
	}
	if snap.Volume != 70 {
		t.Errorf("Expected last non-zero volume restored, got %d", snap.Volume)
	}
}

func TestSetVolumeClamps(t *testing.T) {
	s, drv := readyState(t, 300)

	s.SetVolume(150)
	if snap := s.Get(); snap.Volume != 100 {
		t.Errorf("Expected clamp to 100, got %d", snap.Volume)
	}

	s.SetVolume(-5)
	if snap := s.Get(); snap.Volume != 0 || !snap.Muted {
		t.Errorf("Expected clamp to 0 and muted, got %+v", snap)
	}
	if last := drv.volumes[len(drv.volumes)-1]; last != 0 {
		t.Errorf("Expected clamped volume pushed to driver, got %d", last)
	}
}

func TestSetRateSnapsToSupportedSet(t *testing.T) {
	s, drv := readyState(t, 300)

	tests := []struct {
		in       float64
		expected float64
	}{
		{1.6, 1.5},
		{1.7, 1.75},
		{0.0, 0.25},
		{3.0, 2.0},
		{1.0, 1.0},
	}

	for _, tt := range tests {
		s.SetRate(tt.in)
		if snap := s.Get(); snap.Rate != tt.expected {
			t.Errorf("SetRate(%.2f): expected %.2f, got %.2f", tt.in, tt.expected, snap.Rate)
		}
	}
	if last := drv.rates[len(drv.rates)-1]; last != 1.0 {
		t.Errorf("Expected snapped rate pushed to driver, got %.2f", last)
	}
}

func TestSeekClampsIntoDuration(t *testing.T) {
	s, drv := readyState(t, 200)

	s.Seek(500)
	if got := s.CurrentTime(); got != 200 {
		t.Errorf("Expected clamp to duration, got %.2f", got)
	}

	s.Seek(-10)
	if got := s.CurrentTime(); got != 0 {
		t.Errorf("Expected clamp to zero, got %.2f", got)
	}

	s.Seek(50)
	s.SeekRelative(-20)
	if got := s.CurrentTime(); got != 30 {
		t.Errorf("Expected relative seek to 30, got %.2f", got)
	}
	if len(drv.seeks) != 4 {
		t.Errorf("Expected every seek pushed to driver, got %v", drv.seeks)
	}
}

func TestMutatorsWorkWithoutDriver(t *testing.T) {
	s := New(nil)
	s.SetSource("offline")
	s.HandleReady(120)

	s.Play()
	s.SetVolume(30)
	s.SetRate(1.25)
	s.Seek(60)
	s.ToggleMute()

	snap := s.Get()
	if snap.CurrentTime != 60 || snap.Rate != 1.25 || !snap.Muted {
		t.Errorf("Expected internal state to update without a driver, got %+v", snap)
	}
}

func TestHandleErrorPropagatesCodeUnmodified(t *testing.T) {
	s, _ := readyState(t, 300)

	var got int
	s.OnError(func(code int) { got = code })

	s.HandleError(150)
	if got != 150 {
		t.Errorf("Expected error code 150 propagated, got %d", got)
	}
}

func TestStateChangeIgnoredWhileUnready(t *testing.T) {
	s := New(&fakeDriver{})

	s.HandleStateChange(true)

	if s.Status() != StatusUnready {
		t.Errorf("Expected UNREADY preserved, got %s", s.Status())
	}
}

func TestManualSchedulerDrivesTicks(t *testing.T) {
	s, _ := readyState(t, 300)
	sched := &ManualScheduler{}

	now := 0.0
	sched.Start(100*time.Millisecond, func() {
		now += 0.1
		s.HandleTick(now)
	})

	for i := 0; i < 5; i++ {
		sched.Tick()
	}

	if got := s.CurrentTime(); got < 0.49 || got > 0.51 {
		t.Errorf("Expected ~0.5s after five simulated ticks, got %.2f", got)
	}

	sched.Stop()
	sched.Tick()
	if got := s.CurrentTime(); got < 0.49 || got > 0.51 {
		t.Errorf("Expected no ticks after stop, got %.2f", got)
	}
}

func TestDefaultTickInterval(t *testing.T) {
	if got := DefaultTickInterval(); got != 100*time.Millisecond {
		t.Errorf("Expected default tick interval 100ms, got %v", got)
	}
}
