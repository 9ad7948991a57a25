/*
Package session hosts many playthroughs at once.

A Manager keeps each playthrough as a domain.Snapshot in a ports.SessionStore
and rebuilds a player.Session around it for every operation. Operations on
the same session ID are serialised by a reference-counted in-process lock
and, when configured, by a distributed lock shared between replicas.
*/
package session
