// Package ui implements the interactive playlist form using bubbletea's Elm architecture.
//
// The form edits the playlist title, author, description, cover image and output path, all written
// straight into the shared [tasks.State]. ctrl+s starts [tasks.Generator.Run] on a background goroutine;
// its progress updates arrive through a channel and are turned into messages one at a time by
// waitForProgress, so the view never blocks on the network.
//
// The progress bar and status line are drawn from a [tasks.Snapshot] on every render. The status text
// shifts from red to green as songs complete (see [ProgressColor]).
package ui
