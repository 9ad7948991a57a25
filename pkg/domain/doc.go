/*
Package domain contains the core data model of the story engine.

It defines the scene graph (Story, Scene, Choice), the cast list, the
playthrough state values shared by hosts (GameState, Snapshot) and the
validation errors raised when a malformed story is registered. This package
is kept pure and free of I/O, rendering or persistence.

# Key Entities

  - Story: an immutable scene graph with a start scene and a cast list.
  - Scene: a node of the graph with narrative content and outgoing choices.
  - Choice: a labelled edge to another scene; a choice without target is inert.
  - Snapshot: the serialisable state of one playthrough (story, history, state).
*/
package domain
