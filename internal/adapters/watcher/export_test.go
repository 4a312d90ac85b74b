package watcher

// WatchRecursively exposes watchRecursively for tests.
var WatchRecursively = watchRecursively
