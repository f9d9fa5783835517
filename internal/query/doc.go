// Package query keeps the visible rose list synchronized with the current
// filter/sort/page state while avoiding redundant network fetches.
//
// # Overview
//
// The Controller owns a Params value (search text, group filter, ordering,
// page number) playing the role a URL query string plays in a browser, and
// a cache keyed by the canonical serialization of those params. Resolution
// follows a stale-while-revalidate shape:
//
//	UNFETCHED ──fetch──▶ FRESH (younger than 5 minutes: served directly)
//	FRESH ──age──▶ stale (treated as a miss; refetched)
//
// Mutating the params never fetches by itself; callers re-resolve, the way
// a URL change re-runs a route's loader. A forced resolve bypasses the
// freshness check unconditionally, and Invalidate drops the whole mapping
// after mutations.
//
// # Failure and Races
//
// Fetch failures never escape Resolve: they publish an empty result with a
// fixed message and reset to page 1, so a broken list can't take the whole
// screen down. Concurrent resolutions are fenced with a monotonic
// generation counter; a slow response that lost the race comes back marked
// Superseded and is dropped by consumers instead of overwriting newer data.
package query
