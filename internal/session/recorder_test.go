package session

import (
	"testing"
	"time"

	"github.com/KhawajaJ/territorycycle/internal/ride"
	"github.com/KhawajaJ/territorycycle/internal/route"
)

// testRecorder pins the recorder's clock so pause/duration arithmetic is
// deterministic. The 1s ticker still runs but tests that depend on elapsed
// seconds call Tick directly.
func testRecorder(t *testing.T, kind ride.Kind, base time.Time) (*Recorder, *time.Time) {
	t.Helper()
	now := base
	r := newRecorder("session-1", "owner-1", kind, 50)
	r.startedAt = base
	r.now = func() time.Time { return now }
	t.Cleanup(func() {
		_, _, _ = r.End(false, 0)
	})
	return r, &now
}

func TestRejectedSampleMutatesNothing(t *testing.T) {
	base := time.Now()
	r, _ := testRecorder(t, ride.KindCycling, base)

	ok, _, err := r.AddSample(sampleAt(0, 0, base.Add(time.Second), 200))
	if err != nil {
		t.Fatalf("add sample: %v", err)
	}
	if ok {
		t.Fatalf("expected rejection for low accuracy")
	}

	status := r.Status()
	if status.DistanceMeters != 0 || status.SampleCount != 0 || status.CellCount != 0 {
		t.Fatalf("rejected sample mutated session: %+v", status)
	}
	if status.Signal != SignalWeak {
		t.Fatalf("signal should reflect raw accuracy, got %v", status.Signal)
	}
}

func TestSpeedRejectedSecondSample(t *testing.T) {
	base := time.Now()
	r, _ := testRecorder(t, ride.KindHiking, base)

	if ok, _, _ := r.AddSample(sampleAt(0, 0, base.Add(time.Second), 10)); !ok {
		t.Fatalf("first sample should be accepted")
	}
	// ~111m in 1s: a GPS jump at hiking pace
	ok, _, _ := r.AddSample(sampleAt(0.001, 0, base.Add(2*time.Second), 10))
	if ok {
		t.Fatalf("expected speed rejection")
	}

	status := r.Status()
	if status.SampleCount != 1 || status.DistanceMeters != 0 {
		t.Fatalf("rejected jump mutated session: %+v", status)
	}

	// duration advances by ticks regardless of rejected samples
	r.Tick()
	r.Tick()
	if r.Status().ElapsedSeconds != 2 {
		t.Fatalf("expected tick-driven duration")
	}
}

func TestSampleAgainstPausedSession(t *testing.T) {
	base := time.Now()
	r, nowPtr := testRecorder(t, ride.KindCycling, base)

	if err := r.Pause(); err != nil {
		t.Fatalf("pause: %v", err)
	}

	*nowPtr = base.Add(5 * time.Second)
	if _, _, err := r.AddSample(sampleAt(0, 0, *nowPtr, 10)); err != ErrNotRecording {
		t.Fatalf("expected ErrNotRecording, got %v", err)
	}
	r.Tick()
	if r.Status().ElapsedSeconds != 0 {
		t.Fatalf("tick advanced a paused session")
	}
	if err := r.Pause(); err != ErrNotRecording {
		t.Fatalf("expected double pause to fail, got %v", err)
	}
}

func TestPauseResumeDurationArithmetic(t *testing.T) {
	base := time.Now()
	r, nowPtr := testRecorder(t, ride.KindCycling, base)

	// feed enough samples to qualify for a ride: 2s apart, ~10m each
	for i := 0; i < 12; i++ {
		*nowPtr = base.Add(time.Duration(2*i) * time.Second)
		s := sampleAt(float64(i)*0.00009, 0, *nowPtr, 15)
		if ok, _, err := r.AddSample(s); err != nil || !ok {
			t.Fatalf("sample %d not accepted: %v", i, err)
		}
	}

	*nowPtr = base.Add(30 * time.Second)
	if err := r.Pause(); err != nil {
		t.Fatalf("pause: %v", err)
	}
	*nowPtr = base.Add(40 * time.Second)
	if err := r.Resume(); err != nil {
		t.Fatalf("resume: %v", err)
	}

	*nowPtr = base.Add(60 * time.Second)
	built, ok, err := r.End(true, 10)
	if err != nil || !ok {
		t.Fatalf("end: %v ok=%v", err, ok)
	}

	// 60s wall clock minus 10s paused
	if built.DurationSeconds != 50 {
		t.Fatalf("duration = %d, want 50", built.DurationSeconds)
	}
	if built.DistanceMeters < 100 || built.DistanceMeters > 120 {
		t.Fatalf("distance = %v, want ~110", built.DistanceMeters)
	}
	if built.DistinctCellCount < 1 || built.DistinctCellCount != len(built.CellIDs) {
		t.Fatalf("cell count %d inconsistent with %d cells", built.DistinctCellCount, len(built.CellIDs))
	}
	if built.RouteFingerprint != route.Fingerprint(built.CellIDs) {
		t.Fatalf("fingerprint does not match cell set")
	}
	if built.Kind != ride.KindCycling || built.OwnerID != "owner-1" {
		t.Fatalf("unexpected ride identity: %+v", built)
	}
}

func TestEndBelowMinPointsDiscards(t *testing.T) {
	base := time.Now()
	r, nowPtr := testRecorder(t, ride.KindRunning, base)

	for i := 0; i < 5; i++ {
		*nowPtr = base.Add(time.Duration(2*i) * time.Second)
		if ok, _, err := r.AddSample(sampleAt(float64(i)*0.00005, 0, *nowPtr, 10)); err != nil || !ok {
			t.Fatalf("sample %d: %v", i, err)
		}
	}

	_, ok, err := r.End(true, 10)
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if ok {
		t.Fatalf("expected session below min points to be discarded")
	}
	if _, _, err := r.End(true, 10); err != ErrEnded {
		t.Fatalf("expected ErrEnded on double end, got %v", err)
	}
}

func TestEndWithoutSaveDiscards(t *testing.T) {
	base := time.Now()
	r, nowPtr := testRecorder(t, ride.KindCycling, base)

	for i := 0; i < 15; i++ {
		*nowPtr = base.Add(time.Duration(2*i) * time.Second)
		if ok, _, err := r.AddSample(sampleAt(float64(i)*0.00009, 0, *nowPtr, 10)); err != nil || !ok {
			t.Fatalf("sample %d: %v", i, err)
		}
	}

	_, ok, err := r.End(false, 10)
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if ok {
		t.Fatalf("discard must never produce a ride")
	}
}

func TestEndWhilePausedCountsPauseTime(t *testing.T) {
	base := time.Now()
	r, nowPtr := testRecorder(t, ride.KindCycling, base)

	for i := 0; i < 10; i++ {
		*nowPtr = base.Add(time.Duration(2*i) * time.Second)
		if ok, _, err := r.AddSample(sampleAt(float64(i)*0.00009, 0, *nowPtr, 10)); err != nil || !ok {
			t.Fatalf("sample %d: %v", i, err)
		}
	}

	*nowPtr = base.Add(20 * time.Second)
	if err := r.Pause(); err != nil {
		t.Fatalf("pause: %v", err)
	}

	*nowPtr = base.Add(35 * time.Second)
	built, ok, err := r.End(true, 10)
	if err != nil || !ok {
		t.Fatalf("end: %v ok=%v", err, ok)
	}
	if built.DurationSeconds != 20 {
		t.Fatalf("duration = %d, want 20 (pause excluded through end)", built.DurationSeconds)
	}
}

func TestResumeRequiresPause(t *testing.T) {
	base := time.Now()
	r, _ := testRecorder(t, ride.KindCycling, base)
	if err := r.Resume(); err != ErrNotPaused {
		t.Fatalf("expected ErrNotPaused, got %v", err)
	}
}
