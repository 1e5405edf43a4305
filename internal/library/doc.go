// Package library decides where downloaded tracks live on disk and what is searched for them.
//
// [Layout] maps (artist, album, track) to "<base>/<album>/<track>.mp3" and makes sure the album
// directory exists. The artist is accepted but not part of the layout.
//
// [CleanQuery] turns raw track and artist names into a search string biased toward official audio:
//
//	CleanQuery("Don't Stop Me Now!", "Queen") // "Dont Stop Me Now - Queen official audio"
package library
