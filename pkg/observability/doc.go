/*
Package observability provides the process-wide counters and event logging of the weather bot.

It includes a Collector (atomic counters mirrored into Prometheus) injected into the
engine and the transport, the health rule derived from the error rate, and lifecycle
hooks that turn engine events into structured log records.
*/
package observability
