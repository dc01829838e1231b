// Package core provides the business logic for ingesting, cleaning, and
// converting tabular files.
//
// This package contains all domain logic independent of any UI or transport
// layer. It is used by the web handlers and the transform CLI alike.
//
// # Architecture
//
// Every uploaded file flows through the same stages, top to bottom:
//
//  1. Ingestion: [DetectFormat] sniffs the name suffix, [Ingest] parses CSV
//     or the first sheet of an XLSX workbook into a [Table].
//  2. Inspection: [Preview] and [Describe] summarise the ingested table.
//  3. Cleaning: [Deduplicate] and [FillMissing].
//  4. Projection: [SelectColumns] and [Rename].
//  5. Visualization: [ChartSeries] picks the first two numeric columns.
//  6. Export: [Export] serialises the table as CSV or XLSX.
//
// Stages never mutate their input; each returns a new [Table]. [Process] runs
// the stages for one file under an explicit [Options] value, and
// [ProcessBatch] runs files in upload order without letting one file's
// failure affect another.
//
// # Cells
//
// A [Cell] is a tagged value: missing, number, or text. A column is numeric
// when every present cell parses as a number; its cells are then stored as
// numbers so cleaning and statistics never re-parse text.
//
// # Error Handling
//
// Errors are file scoped and wrapped in [FileError]. Sentinels such as
// [ErrUnsupportedFormat] and [ErrParseFailure] can be tested with errors.Is.
// Technical errors are mapped to user-friendly messages using [MapError]:
//
//   - FILE001-FILE008: File errors (size, format, parsing)
//   - XFM001-XFM002: Transform errors (columns, export formats)
//   - VIS001: Visualization warnings
//   - UPL001-UPL004: Request and capacity errors
package core
