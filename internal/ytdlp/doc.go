// Package ytdlp drives the external yt-dlp executable.
//
// A download is two invocations of the same tool:
//
//  1. [Client.Resolve] searches for the best match and reads the first JSON line of
//     `yt-dlp "ytsearch10:<query>" --dump-json --skip-download`.
//  2. [Client.Fetch] downloads and transcodes the resolved URL with
//     `yt-dlp -f bestaudio/best --extract-audio --audio-format mp3 --audio-quality 192K -o <template> <url>`
//     and polls the child until it exits.
//
// The fetch exposes no byte-level progress. Instead the caller's tick function runs once per
// poll interval while the child is alive, and the exit status decides the outcome.
//
// Errors wrap [shared.ErrResolve] or [shared.ErrFetch]; resolve failures additionally wrap
// [shared.ErrNoResults], [shared.ErrMalformedResult] or [shared.ErrMissingMediaID].
package ytdlp
