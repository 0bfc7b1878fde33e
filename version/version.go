// Package version holds the build identifier providers fold into their
// bootstrap cache keys so a binary upgrade invalidates stale session state.
package version

// Version is bumped on release; it has no semantic meaning beyond cache-key
// scoping.
const Version = "0.1.0"
