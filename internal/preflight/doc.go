// Package preflight verifies the environment before a packaging run starts:
// directory access, free disk space, signing material, and exclusive use of
// the output directory. Failing early is cheaper than failing after hours of
// writing.
package preflight
