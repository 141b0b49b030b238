// Package services implements the ranking service client used by the playlist pipeline.
//
// # Ranking Service
//
// [RankingService] reads two kinds of resources from the ranking API:
//   - {base}/requests/top and {base}/requests/belowTop : the voting queue partitions
//   - {base}/request/{id} : a single ranking request, of which only the difficulties are used
//
// # Error Handling
//
// Reads never return errors. [FetchJSON] collapses transport failures, non-2xx statuses and decode
// failures into ok == false. Callers treat absence as "nothing to add": a missing partition adds no
// entries and a missing detail leaves a song without difficulties. The underlying cause is logged at
// debug level only.
//
// # Concurrency
//
// [RankingService.FetchQueue] fetches all partitions at once. Requests share an optional
// [rate.Limiter] so large fan-outs stay inside the API's request budget, and each request is bounded
// by the configured timeout.
package services
