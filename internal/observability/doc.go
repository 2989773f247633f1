// Package observability keeps the activity log of task mutations as JSON
// Lines and derives usage stats from it on demand.
package observability
