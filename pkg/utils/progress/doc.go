// Package progress derives throughput, completion percentage and ETA
// from periodic size observations of a growing file, and renders them
// as a single terminal line rewritten in place.
//
// # Output Format
//
//	/ [=======================>                          ]  46.3%  2.32 GB / 5.00 GB  39.50 MB/s  ETA 1m 9s
package progress
