package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/flotilla/internal/orchestrator"
)

func TestStore_UpdateAndSnapshotClone(t *testing.T) {
	var s Store

	containers := []orchestrator.Container{
		{FullID: "c1", State: orchestrator.StateRunning, Names: []string{"/one"}},
		{FullID: "c2", State: orchestrator.StateExited},
	}

	before := time.Now()
	s.Update(containers, nil)

	snap := s.Snapshot()
	if !snap.HasContainers || len(snap.Containers) != 2 || snap.Containers[0].FullID != "c1" {
		t.Fatalf("snapshot containers = %#v, want 2 containers", snap.Containers)
	}
	if snap.LastUpdated.Before(before) || snap.LastSuccess.Before(before) {
		t.Fatalf("timestamps not set: %v / %v", snap.LastUpdated, snap.LastSuccess)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}

	// Returned snapshot should be independent of the stored one.
	snap.Containers[0].FullID = "mutated"
	snap.Containers[0].Names[0] = "/mutated"
	snap2 := s.Snapshot()
	if snap2.Containers[0].FullID != "c1" || snap2.Containers[0].Names[0] != "/one" {
		t.Fatalf("Snapshot should clone containers; got %#v", snap2.Containers[0])
	}
}

func TestStore_UpdateErrorKeepsPreviousData(t *testing.T) {
	var s Store

	s.Update([]orchestrator.Container{{FullID: "c1"}}, nil)
	prev := s.Snapshot()

	origErr := errors.New("boom")
	s.Update(nil, origErr)

	snap := s.Snapshot()
	if len(snap.Containers) != 1 || snap.Containers[0].FullID != "c1" {
		t.Fatalf("containers changed on error: got %#v", snap.Containers)
	}
	if !snap.LastSuccess.Equal(prev.LastSuccess) {
		t.Fatalf("LastSuccess moved on error: %v -> %v", prev.LastSuccess, snap.LastSuccess)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	if s.Snapshot().IsOffline() {
		t.Fatal("IsOffline() = true, want false with 0 failures")
	}

	s.Update(nil, errors.New("fail 1"))
	if snap := s.Snapshot(); snap.ConsecutiveFailures != 1 || snap.IsOffline() {
		t.Fatalf("after 1 failure: failures=%d offline=%v", snap.ConsecutiveFailures, snap.IsOffline())
	}

	s.Update(nil, errors.New("fail 2"))
	if snap := s.Snapshot(); snap.ConsecutiveFailures != 2 || !snap.IsOffline() {
		t.Fatalf("after 2 failures: failures=%d offline=%v", snap.ConsecutiveFailures, snap.IsOffline())
	}

	s.Update([]orchestrator.Container{}, nil)
	snap := s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("after success: failures=%d offline=%v", snap.ConsecutiveFailures, snap.IsOffline())
	}
	if !snap.HasContainers || len(snap.Containers) != 0 {
		t.Fatalf("empty fleet should be recorded as present: %#v", snap)
	}
}

func TestStore_UpdateTemplates(t *testing.T) {
	var s Store

	if s.Snapshot().HasTemplates {
		t.Fatal("HasTemplates = true before any update")
	}
	s.UpdateTemplates([]orchestrator.Template{{ID: "app_template"}})
	s.Update(nil, errors.New("poll failed"))

	snap := s.Snapshot()
	if !snap.HasTemplates || len(snap.Templates) != 1 || snap.Templates[0].ID != "app_template" {
		t.Fatalf("templates = %#v", snap.Templates)
	}
}
