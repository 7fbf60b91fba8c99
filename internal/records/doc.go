// Package records reads observations into memory and writes cluster
// summaries back out.
//
// Sources: CSVSource (tabular file with a header row) and SQLiteSource (a
// table in a SQLite database). Sink: CSVSink, which replaces the output file
// in one rename so readers never see a partial result.
package records
