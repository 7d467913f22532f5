package cmd

import (
	"fmt"
	"strings"

	"github.com/joeycumines/go-prompt"
	istrings "github.com/joeycumines/go-prompt/strings"
	"github.com/nikogura/resume-studio/pkg/keys"
)

// terminalChords maps the control bytes a terminal delivers to editor chords.
// Terminals send the same byte for Ctrl+Z and Ctrl+Shift+Z, so redo is Ctrl+Y here.
//
//nolint:gochecknoglobals // static key table
var terminalChords = map[prompt.Key]keys.Chord{
	prompt.ControlZ: keys.MustParse("Ctrl+Z"),
	prompt.ControlY: keys.MustParse("Ctrl+Y"),
}

//nolint:gochecknoglobals // static completion table
var editCommands = []prompt.Suggest{
	{Text: "set", Description: "set a field"},
	{Text: "get", Description: "print a field"},
	{Text: "add", Description: "append an entry"},
	{Text: "rm", Description: "remove an entry"},
	{Text: "mv", Description: "move an entry"},
	{Text: "undo", Description: "step back (Ctrl+Z)"},
	{Text: "redo", Description: "step forward (Ctrl+Y)"},
	{Text: "status", Description: "show undo/redo state"},
	{Text: "show", Description: "render markdown"},
	{Text: "json", Description: "print the document"},
	{Text: "score", Description: "run the local ATS check"},
	{Text: "write", Description: "save"},
	{Text: "quit", Description: "leave"},
	{Text: "help", Description: "list commands"},
}

// runPrompt drives the editor from an interactive terminal. Control keys go
// straight to the session's key dispatcher; everything else is a command line.
func (e *lineEditor) runPrompt() {
	p := prompt.New(
		e.execute,
		prompt.WithPrefix(e.promptText()),
		prompt.WithCompleter(completeCommand),
		prompt.WithExitChecker(e.finished),
		prompt.WithKeyBind(e.keyBinds()...),
	)
	p.Run()

	if e.dirty() {
		fmt.Fprintln(e.out, "warning: editor closed with unsaved changes")
	}
}

// execute runs one submitted line and records a quit.
func (e *lineEditor) execute(line string) {
	quit, err := e.exec(line)
	if err != nil {
		fmt.Fprintf(e.out, "error: %v\n", err)
	}
	if quit {
		e.done = true
	}
}

// finished stops the prompt once a submitted line has quit the editor.
func (e *lineEditor) finished(_ string, breakline bool) bool {
	return breakline && e.done
}

func (e *lineEditor) keyBinds() []prompt.KeyBind {
	binds := make([]prompt.KeyBind, 0, len(terminalChords))
	for key, chord := range terminalChords {
		binds = append(binds, prompt.KeyBind{
			Key: key,
			Fn: func(*prompt.Prompt) bool {
				e.press(chord)
				return true
			},
		})
	}
	return binds
}

// completeCommand offers command names for the first word of the line.
func completeCommand(document prompt.Document) ([]prompt.Suggest, istrings.RuneNumber, istrings.RuneNumber) {
	before := document.TextBeforeCursor()
	if before == "" {
		before = document.Text
	}
	return completeCommandFor(before)
}

func completeCommandFor(before string) (suggestions []prompt.Suggest, start, end istrings.RuneNumber) {
	end = istrings.RuneNumber(len([]rune(before)))
	if strings.ContainsAny(before, " \t") {
		return suggestions, end, end
	}

	word := strings.ToLower(before)
	for _, s := range editCommands {
		if strings.HasPrefix(s.Text, word) {
			suggestions = append(suggestions, s)
		}
	}
	return suggestions, 0, end
}
