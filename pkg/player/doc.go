/*
Package player implements the story engine: one Session per playthrough.

A Session walks a domain.Story scene graph. It resolves choices to scenes,
keeps the visited path for back navigation, detects endings and tracks the
game state (selection, playing, paused, ended). It renders nothing and
performs no I/O: presentation layers read the current scene through the
query methods, pass its content through package segment and call the
action methods in response to user input.

Invalid actions (an inert choice, going back from the start scene, a choice
whose target does not exist) are silent no-ops. Actions report whether the
session changed so hosts can skip redundant work.

A Session is not safe for concurrent use. Hosts serving many players keep
one Session per player and serialise access (see package session).
*/
package player
