// Package tasks orchestrates playlist generation from the ranking queue with real-time progress reporting.
//
// # Pipeline
//
// [Generator.Generate] runs these steps:
//
//  1. Move the shared [State] from Idle to Generating with progress at 1
//  2. Fetch both queue partitions (see services.RankingService.FetchQueue)
//  3. Enrich every entry concurrently with a bounded worker pool; each finished song adds 99/N to progress
//  4. Embed the cover image (bundled default, a user file, or "" when the file cannot be read)
//  5. Assemble the [models.Playlist] from the settings currently held in the state
//
// [Generator.Run] additionally writes the document, records the outcome through an optional
// [RunRecorder] and calls [Generator.Finish], which shows Success or Failed for the display delay
// before resetting to Idle.
//
// # Progress Reporting
//
// Updates are sent on a caller supplied channel with select/default so reporting never blocks the
// pipeline. The authoritative values live in [State]; views can always fall back to [State.Snapshot].
//
// # Failure Semantics
//
// Nothing upstream of the file write is fatal. The only errors returned are a concurrent generation
// ([shared.ErrGenerationInProgress]) and a failed write ([shared.ErrWriteFailed]).
package tasks
