package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/nikogura/resume-studio/pkg/config"
	"github.com/nikogura/resume-studio/pkg/editor"
	"github.com/nikogura/resume-studio/pkg/keys"
	"github.com/nikogura/resume-studio/pkg/renderer"
	"github.com/nikogura/resume-studio/pkg/resume"
	"github.com/nikogura/resume-studio/pkg/scorer"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

const editHelp = `Commands:
  set <path> <value>        set a field, e.g. set personal.title Staff Engineer
  get <path>                print a field
  add <section> <json>      append an entry, e.g. add skills Kubernetes
  rm <section> <index>      remove an entry
  mv <section> <from> <to>  move an entry
  undo, redo                step through history
  <chord>                   run a key binding, e.g. ctrl+z
  status                    show undo/redo state
  show [layout]             render markdown
  json                      print the document
  score                     run the local ATS check
  write [path]              save
  quit                      leave (quit! discards unsaved changes)`

//nolint:gochecknoglobals // Cobra boilerplate
var editCmd = &cobra.Command{
	Use:   "edit <resume.json>",
	Short: "Edit a resume interactively with undo/redo",
	Long: `Open a line editor on a resume document. Every command that changes the
document is one undo step; key chords such as ctrl+z, cmd+shift+z and ctrl+y
work as they do in any editor.

` + editHelp,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) (err error) {
	var cfg config.Config
	cfg, err = loadConfig(false)
	if err != nil {
		return err
	}

	var doc *resume.Data
	doc, err = resume.Load(args[0])
	if err != nil {
		return err
	}

	var session *editor.Session
	session, err = editor.NewSession(doc,
		editor.WithMaxEntries(cfg.History.MaxEntries),
		editor.WithLogger(logrus.StandardLogger()),
	)
	if err != nil {
		return err
	}
	defer session.Close()

	e := newLineEditor(session, args[0], cmd.OutOrStdout())
	if cmd.InOrStdin() == os.Stdin && isTerminal(os.Stdin) {
		e.runPrompt()
		return err
	}

	err = e.run(cmd.InOrStdin())
	return err
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// lineEditor drives a session from text commands and key chords.
type lineEditor struct {
	session *editor.Session
	path    string
	out     io.Writer
	scorer  *scorer.Scorer
	saved   *resume.Data
	done    bool
}

func newLineEditor(session *editor.Session, path string, out io.Writer) (e *lineEditor) {
	e = &lineEditor{
		session: session,
		path:    path,
		out:     out,
		scorer:  scorer.NewScorer(),
		saved:   session.Document(),
	}

	session.Subscribe(func(state editor.State) {
		logrus.WithFields(logrus.Fields{
			"index":    state.Index,
			"len":      state.Len,
			"can_undo": state.CanUndo,
			"can_redo": state.CanRedo,
		}).Debug("history changed")
	})

	return e
}

// dirty reports whether the current snapshot differs from the saved one.
// Undoing back to the saved snapshot makes the document clean again.
func (e *lineEditor) dirty() bool {
	return e.session.Document() != e.saved
}

// run reads commands from a script or pipe, one per line.
func (e *lineEditor) run(in io.Reader) (err error) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		var quit bool
		quit, err = e.exec(scanner.Text())
		if err != nil {
			fmt.Fprintf(e.out, "error: %v\n", err)
			err = nil
		}
		if quit {
			return err
		}
	}

	err = scanner.Err()
	if err != nil {
		err = errors.Wrap(err, "failed to read input")
		return err
	}

	if e.dirty() {
		fmt.Fprintln(e.out, "warning: input ended with unsaved changes")
	}
	return err
}

func (e *lineEditor) promptText() string {
	mark := ""
	if e.dirty() {
		mark = "*"
	}
	return fmt.Sprintf("%s%s> ", e.session.Document().Personal.Name, mark)
}

// exec runs one command line.
func (e *lineEditor) exec(line string) (quit bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return quit, err
	}

	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(name) {
	case "help", "?":
		fmt.Fprintln(e.out, editHelp)
	case "set":
		err = e.set(rest)
	case "get":
		err = e.get(rest)
	case "add":
		err = e.add(rest)
	case "rm", "remove":
		err = e.remove(rest)
	case "mv", "move":
		err = e.move(rest)
	case "undo":
		e.report("undo", e.session.Undo())
	case "redo":
		e.report("redo", e.session.Redo())
	case "status":
		e.status()
	case "show":
		err = e.show(rest)
	case "json":
		err = e.printJSON()
	case "score":
		e.score()
	case "write", "w":
		err = e.write(rest)
	case "quit", "exit", "q":
		if e.dirty() {
			fmt.Fprintln(e.out, "unsaved changes: write first, or quit! to discard")
			return quit, err
		}
		quit = true
	case "quit!", "q!":
		quit = true
	default:
		err = e.key(line)
	}

	return quit, err
}

func (e *lineEditor) set(args string) (err error) {
	path, value, found := strings.Cut(args, " ")
	value = strings.TrimSpace(value)
	if !found || path == "" || value == "" {
		err = errors.New("usage: set <path> <value>")
		return err
	}

	// JSON literals first, so booleans and lists work; plain text otherwise.
	if gjson.Valid(value) {
		err = e.session.SetFieldRaw(path, value)
		if err == nil || !errors.Is(err, editor.ErrInvalidValue) {
			return err
		}
	}

	err = e.session.SetField(path, value)
	return err
}

func (e *lineEditor) get(path string) (err error) {
	if path == "" {
		err = errors.New("usage: get <path>")
		return err
	}

	var value gjson.Result
	value, err = e.session.Field(path)
	if err != nil {
		return err
	}

	if value.Type == gjson.String {
		fmt.Fprintln(e.out, value.String())
		return err
	}
	fmt.Fprint(e.out, string(pretty.Pretty([]byte(value.Raw))))
	return err
}

func (e *lineEditor) add(args string) (err error) {
	section, raw, found := strings.Cut(args, " ")
	raw = strings.TrimSpace(raw)
	if !found || raw == "" {
		err = errors.New("usage: add <section> <json>")
		return err
	}

	if !gjson.Valid(raw) {
		var quoted []byte
		quoted, err = json.Marshal(raw)
		if err != nil {
			return err
		}
		raw = string(quoted)
	}

	err = e.session.AddEntry(section, raw)
	return err
}

func (e *lineEditor) remove(args string) (err error) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		err = errors.New("usage: rm <section> <index>")
		return err
	}

	var index int
	index, err = strconv.Atoi(fields[1])
	if err != nil {
		err = errors.Errorf("index %q is not a number", fields[1])
		return err
	}

	err = e.session.RemoveEntry(fields[0], index)
	return err
}

func (e *lineEditor) move(args string) (err error) {
	fields := strings.Fields(args)
	if len(fields) != 3 {
		err = errors.New("usage: mv <section> <from> <to>")
		return err
	}

	var from, to int
	from, err = strconv.Atoi(fields[1])
	if err != nil {
		err = errors.Errorf("from %q is not a number", fields[1])
		return err
	}
	to, err = strconv.Atoi(fields[2])
	if err != nil {
		err = errors.Errorf("to %q is not a number", fields[2])
		return err
	}

	err = e.session.MoveEntry(fields[0], from, to)
	return err
}

func (e *lineEditor) key(spec string) (err error) {
	var chord keys.Chord
	chord, err = keys.Parse(spec)
	if err != nil || chord.Mods == keys.ModNone {
		err = errors.Errorf("unknown command %q (try help)", spec)
		return err
	}

	e.press(chord)
	return err
}

// press sends chord to the session's key dispatcher.
func (e *lineEditor) press(chord keys.Chord) {
	if !e.session.HandleKey(chord) {
		fmt.Fprintf(e.out, "%s is not bound\n", chord)
		return
	}
	e.status()
}

func (e *lineEditor) report(action string, moved bool) {
	if !moved {
		fmt.Fprintf(e.out, "nothing to %s\n", action)
		return
	}
	e.status()
}

func (e *lineEditor) status() {
	state := e.session.State()
	fmt.Fprintf(e.out, "step %d/%d  undo:%s  redo:%s\n",
		state.Index+1, state.Len, yesNo(state.CanUndo), yesNo(state.CanRedo))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func (e *lineEditor) show(layout string) (err error) {
	var content string
	content, err = renderer.RenderMarkdown(e.session.Document(), layout)
	if err != nil {
		return err
	}
	fmt.Fprint(e.out, content)
	return err
}

func (e *lineEditor) printJSON() (err error) {
	var data []byte
	data, err = json.Marshal(e.session.Document())
	if err != nil {
		err = errors.Wrap(err, "failed to marshal document")
		return err
	}
	fmt.Fprint(e.out, string(pretty.Pretty(data)))
	return err
}

func (e *lineEditor) score() {
	report := e.scorer.Check(e.session.Document().PlainText())
	printReport(e.out, report, e.scorer.Suggestions(report))
}

func (e *lineEditor) write(path string) (err error) {
	if path == "" {
		path = e.path
	}

	doc := e.session.Document()
	err = doc.Validate()
	if err != nil {
		err = errors.Wrap(err, "not saved")
		return err
	}

	err = resume.Save(doc, path)
	if err != nil {
		return err
	}

	if path == e.path {
		e.saved = doc
	}
	fmt.Fprintf(e.out, "wrote %s\n", path)
	return err
}
