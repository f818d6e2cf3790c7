// Package build drives a site build through its ordered stages.
//
// A build loads the source lists and lookup tables, loads and flattens the
// templates, loads the content pages, runs the Markdown pass, renders every
// page, verifies the output and finally writes pages and resources. Each stage
// is timed and classified; the outcome is summarised in a Report, mirrored to
// a metrics Recorder and, when a history store is configured, appended to the
// build history.
//
// All execution paths (the build and check commands, tests) go through
// Service.Run.
package build
