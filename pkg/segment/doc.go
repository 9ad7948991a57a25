/*
Package segment turns raw scene content into render-ready text segments.

Scene content is free-form prose that may carry legacy HTML markup and inline
character introductions of the form

	"Aylin (Kahraman): "Elinde bir kılıç tutuyor.""

Split cleans the markup, extracts every introduction as a structured
Segment and groups the surrounding prose into paragraphs of a few sentences.
The package is pure: no state, no I/O, and every input produces a result.
*/
package segment
