/*
Package session implements game session management for multi-request front ends.

A session is one live game whose snapshot history is kept in a ports.GameStore
between requests. The Manager serializes read-modify-write cycles per game id,
optionally across replicas through a ports.DistributedLocker, and rebuilds a
vialsort.Game around the stored history for every operation.
*/
package session
