/*
Package devclub is the interactive-fiction engine of the DEU DevClub Games app.

A story is a directed graph of scenes. Each scene carries Markdown-like content,
optional character introductions and choices that lead to other scenes; ending
scenes have no choices. The engine keeps one playthrough per player.Session:
the current scene, the visited history, back navigation and the game state
(selection, playing, paused, ended).

# Architecture

The core is pure and performs no I/O:

  - pkg/domain: stories, scenes, choices, game state, snapshots and hooks.
  - pkg/segment: turns raw scene content into paragraphs and character introductions.
  - pkg/player: the per-playthrough state machine.
  - pkg/catalog: the validated story registry.

Adapters load stories (YAML files, Markdown repositories, in-memory builders),
persist snapshots (memory, file, Redis) and expose playthroughs over HTTP and
MCP. The devclub command ties them together.

# Usage

	eng, err := devclub.New(ctx, "") // built-in sample stories
	if err != nil {
		log.Fatal(err)
	}

	s, err := eng.NewSession("kayip-anahtar")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(s.CurrentSceneTitle())
	s.Choose(0)
*/
package devclub
