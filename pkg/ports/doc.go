/*
Package ports defines the driven ports (interfaces) for the vialsort front ends.

These interfaces decouple game handling from external implementations, so the
HTTP front end can keep live games in memory or in Redis.

# Key Interfaces

  - GameStore: Responsible for saving and loading the snapshot history of a game.
  - DistributedLocker: Provides distributed locking for concurrent access to one game.
*/
package ports
