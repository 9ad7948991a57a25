/*
Package runner implements the interactive play loop for a single playthrough.

It is the bridge between the pure story engine (player.Session) and a terminal
or a pipe. The runner renders the current scene through a pluggable IOHandler,
reads one command per turn, applies it to the session and, when a store is
configured, saves a snapshot after every move.

# Key Components

  - Runner: the loop. It stops on quit, end of input or context cancellation.
  - IOHandler: decouples how scenes are shown and commands are read.
  - TextHandler: Markdown output (optionally rendered for the terminal).
  - JSONHandler: one JSON event per line, for scripted clients.

# Commands

A number picks the matching choice (1-based). "b" goes back, "r" restarts,
"p" toggles pause and "q" quits. Turkish aliases (geri, yeniden, duraklat,
cik) are accepted too.

# Usage

	s := player.New()
	s.SelectStory(story)

	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
		runner.WithStore(file.NewStore("")),
		runner.WithSessionID("kayip-anahtar"),
	)
	if err := r.Run(ctx, s); err != nil {
		log.Fatal(err)
	}
*/
package runner
