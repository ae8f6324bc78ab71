// Package state keeps the last successful fleet snapshot for flotilla.
//
// # Overview
//
// The Store is written by fetch commands, which run off the UI event loop, and
// read by the header renderer on the loop. It is guarded by a sync.RWMutex and
// hands out copies.
//
// # Update Semantics
//
//	// Success: replace containers, reset failure count
//	store.Update(containers, nil)
//
//	// Failure: keep old containers, record the error
//	store.Update(nil, err)
//	→ Containers unchanged
//	→ LastError = err
//	→ ConsecutiveFailures++
//
// A failed poll therefore never blanks what the operator is looking at; the
// header shows "offline" once two polls in a row have failed.
//
// Templates are recorded separately with UpdateTemplates and are not part of
// the failure accounting.
//
// # Testing Considerations
//
// The zero Store is ready to use:
//
//	var s state.Store
//	snap := s.Snapshot() // zero Snapshot
package state
