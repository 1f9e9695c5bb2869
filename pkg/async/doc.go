// Package async is a small scheduler for deferred transitions. The dispatch
// core returns async handlers as unexecuted closures and takes no position on
// how they run; this package is the ready-made caller side of that contract,
// executing the closure on a goroutine and exposing its eventual snapshot
// through a Future.
//
//	out, _ := d.Dispatch(ctx, snap, dispatch.NewAction("refresh"))
//	if deferred, ok := out.(dispatch.Deferred); ok {
//	    future := async.Run(ctx, deferred)
//	    next, err := future.Await()
//	    if err == nil {
//	        current = next // single value replacement
//	        d.NotifyApplied(ctx, snap, next, action)
//	    }
//	}
//
// Ordering between a deferred unit and later synchronous dispatches on the
// same snapshot remains the caller's scheduling responsibility.
package async
