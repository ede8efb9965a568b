/*
Package observability turns engine lifecycle hooks into Prometheus metrics and
structured log records.

Both are plain domain.LifecycleHooks values, so they compose with Merge and
with any hooks the host registers.
*/
package observability
