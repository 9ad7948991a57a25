/*
Package dsl provides a fluent Go builder for stories.

It is the code-first alternative to YAML or Markdown story files, handy for
tests and for hosts that generate stories dynamically. Scenes keep their
declaration order.

Example usage:

	b := dsl.New("deneme", "Deneme").Start("start")

	b.Scene("start").
		Content("Merhaba. Bugün hava çok güzel.").
		Choice("-> Devam et", "end")

	b.Scene("end").
		Content("Son.").
		Ending()

	story, err := b.Build()
*/
package dsl
