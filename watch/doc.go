// Package watch re-runs a job whenever a file changes.
//
// Changes are detected with fsnotify on the file's directory, which survives
// editors and emulators that replace the file by rename. If fsnotify is not
// available the file is polled instead. Bursts of events are debounced into a
// single run.
package watch
