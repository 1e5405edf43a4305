// Package formatter reads track lists and writes run reports.
//
// Input is a CSV file with a header row, such as a Spotify playlist export. Columns are located
// by header name, so extra columns and any column order are accepted:
//
//	Track Name, Artist Name(s), Album Name
//
// Rows that cannot be parsed or are too short are skipped with a warning.
//
// Reports summarize a finished run in one of four formats: json, csv, markdown or txt.
package formatter
