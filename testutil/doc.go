// Package testutil extends the component lifecycle with test-only state
// management so backends can be started, reset and rolled back between cases.
//
//	func TestCache(t *testing.T) {
//	    store := kvstore.NewMemory()
//	    testutil.T(t).Setup(store)
//	    snap := testutil.T(t).Snapshot(store)
//	    // ...
//	    testutil.T(t).Restore(store, snap)
//	}
//
// Manager groups several TestComponents and starts them in order, stopping
// them in reverse.
package testutil
