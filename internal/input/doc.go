// Package input reads URL lists for a batch run.
//
// Two layouts are accepted. A CSV file whose header row has a "url" column
// yields that column. Anything else is read as one URL per line, taking the
// first field when a line has several. Lines starting with '#' are comments.
package input
