// Package tables builds the lookup tables consulted by token substitution:
// resources, variables, links, includes and the global head tags.
//
// Every table is an ordered slice. Order matters: when two entries share a
// name, substitution uses the first one.
package tables
