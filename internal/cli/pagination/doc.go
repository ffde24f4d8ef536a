// Package pagination sorts and slices material report rows for list
// commands: --sort field[:order], --limit and --offset.
package pagination
