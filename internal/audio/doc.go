// Package audio writes ID3 metadata into downloaded tracks.
//
// yt-dlp names files after the search result, and its embedded metadata (when any) describes the
// video rather than the track list row. [Tagger] overwrites the title, artist and album frames
// with the values the user asked for so media players group the files by the original playlist.
package audio
