/*
Package share publishes circuits under short, content-addressed ids for share
links.

A published circuit is validated and re-encoded first, so equivalent tokens
share one id. Writes to the same id are serialized in-process and, when a
ports.DistributedLocker is configured, across replicas.
*/
package share
