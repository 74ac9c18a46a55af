// Package tasks assembles screens that need several provider requests, with real-time progress reporting.
//
// # Core Operations
//
// The [Engine] interface defines two operations:
//
//  1. [Engine.Detail] : Everything shown for one movie
//     - Fetches detail, credits, videos and similar movies concurrently
//     - Picks the trailer, director, writers, top cast and top similar titles
//     - Fails only when the detail request fails; other failures are listed in [DetailResult.Errors]
//
//  2. [Engine.Home] : The home screen
//     - Fetches this week's trending movies and the genre list
//     - Keeps the top [MaxHomeTop] movies and the first [MaxHomeGens] genres
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters and a message. Updates use select with default to
// prevent blocking, so a full or absent channel never stalls a load.
package tasks
