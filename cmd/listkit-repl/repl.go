package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/emirpasic/gods/v2/containers"

	"github.com/phroun/listkit"
	"github.com/phroun/listkit/persist"
)

// folder under which the REPL saves lists in its store.
const saveFolder = "repl"

// REPL holds the state of the interactive session
type REPL struct {
	list    listkit.List[string]
	kind    string
	view    *listkit.View[string]
	cursor  listkit.ListCursor[string]
	catalog *persist.Catalog
	log     *slog.Logger

	reader *bufio.Reader
	out    io.Writer
}

// NewREPL returns a session reading commands from in. It starts with an
// empty ArrayList.
func NewREPL(in *bufio.Reader, out io.Writer, catalog *persist.Catalog, log *slog.Logger) *REPL {
	r := &REPL{reader: in, out: out, catalog: catalog, log: log}
	r.reset("array")
	return r
}

// Run reads and executes commands until quit or end of input.
func (r *REPL) Run() {
	r.println(titleStyle.Render("listkit REPL"))
	r.println("Type 'help' for available commands, 'quit' to exit")
	r.println("")

	for {
		fmt.Fprint(r.out, promptStyle.Render("listkit> "))
		input, err := r.reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input != "" && !r.handleCommand(input) {
			return
		}
		if err != nil {
			r.println("\nGoodbye!")
			return
		}
	}
}

func (r *REPL) println(s string) {
	fmt.Fprintln(r.out, s)
}

func (r *REPL) okf(format string, args ...any) {
	r.println(okStyle.Render(fmt.Sprintf(format, args...)))
}

func (r *REPL) fail(err error) {
	r.println(errStyle.Render("Error: " + err.Error()))
}

func (r *REPL) usage(s string) {
	r.println(labelStyle.Render("Usage: " + s))
}

func (r *REPL) reset(kind string) {
	if kind == "linked" {
		r.list = listkit.NewLinkedList[string](listkit.WithLogger(r.log))
	} else {
		kind = "array"
		r.list = listkit.NewArrayList[string](listkit.WithLogger(r.log))
	}
	r.kind = kind
	r.view = nil
	r.cursor = nil
}

// target is the list commands act on: the active sublist, if any.
func (r *REPL) target() listkit.List[string] {
	if r.view != nil {
		return r.view
	}
	return r.list
}

func (r *REPL) handleCommand(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help":
		r.printHelp()

	case "quit", "exit":
		r.println("Goodbye!")
		return false

	case "new":
		r.cmdNew(args)

	case "status":
		r.cmdStatus()

	case "dump":
		r.cmdDump()

	case "sorted":
		r.cmdSorted()

	case "json":
		r.cmdJSON()

	case "add":
		r.cmdAdd(args)

	case "insert":
		r.cmdInsert(args)

	case "get":
		r.cmdGet(args)

	case "set":
		r.cmdSet(args)

	case "remove":
		r.cmdRemove(args)

	case "removev":
		r.cmdRemoveValue(args)

	case "indexof":
		r.cmdIndexOf(args)

	case "clear":
		r.target().Clear()
		if r.view != nil && r.view.Err() != nil {
			r.fail(r.view.Err())
			break
		}
		r.okf("Cleared")

	case "sort":
		r.cmdSort()

	case "sublist":
		r.cmdSublist(args)

	case "cursor":
		r.cmdCursor(args)

	case "next", "prev", "cset", "cadd", "cremove":
		r.cmdStep(cmd, args)

	case "push", "pop", "peek", "poll", "first", "last":
		r.cmdDeque(cmd, args)

	case "save":
		r.cmdSave(args)

	case "load":
		r.cmdLoad(args)

	default:
		r.println(errStyle.Render(fmt.Sprintf("Unknown command: %s. Type 'help' for available commands.", cmd)))
	}

	return true
}

func (r *REPL) printHelp() {
	help := `
Available Commands:
-------------------

LIST:
  new array|linked [v...]  Start a new list, optionally with values
  status                   Show size, generation and active sublist
  dump                     Show all elements
  sorted                   Show the elements in sorted order (list unchanged)
  json                     Show the list as JSON

EDIT:
  add <v...>               Append values
  insert <i> <v>           Insert v at position i
  get <i>                  Show the element at i
  set <i> <v>              Replace the element at i
  remove <i>               Remove the element at i
  removev <v>              Remove the first element equal to v
  indexof <v>              Show the first position of v
  clear                    Remove every element
  sort                     Sort the elements

SUBLIST:
  sublist <from> <to>      Narrow commands to [from, to)
  sublist off              Act on the whole list again

CURSOR:
  cursor [i]               Start a cursor before position i (default 0)
  next, prev               Step the cursor
  cset <v>                 Replace the last element stepped over
  cadd <v>                 Insert v at the cursor
  cremove                  Remove the last element stepped over

DEQUE (linked lists):
  push <v>, pop, peek, poll, first, last

STORAGE:
  save <name>              Save the list
  load <name>              Replace the list with a saved one

OTHER:
  help                     Show this help message
  quit, exit               Exit the REPL
`
	r.println(help)
}

func (r *REPL) cmdNew(args []string) {
	if len(args) == 0 || (args[0] != "array" && args[0] != "linked") {
		r.usage("new array|linked [v...]")
		return
	}
	r.reset(args[0])
	if len(args) > 1 {
		if _, err := r.list.AddAll(listkit.Of(args[1:]...)); err != nil {
			r.fail(err)
			return
		}
	}
	r.okf("Created %s list with %d elements", r.kind, r.list.Size())
}

func (r *REPL) cmdStatus() {
	r.println(titleStyle.Render("List Status"))
	r.println(labelStyle.Render("  Kind: ") + valueStyle.Render(r.kind))
	r.println(labelStyle.Render("  Size: ") + valueStyle.Render(strconv.Itoa(r.list.Size())))
	r.println(labelStyle.Render("  Generation: ") + valueStyle.Render(strconv.FormatUint(r.list.Generation(), 10)))
	if al, ok := r.list.(*listkit.ArrayList[string]); ok {
		r.println(labelStyle.Render("  Capacity: ") + valueStyle.Render(strconv.Itoa(al.Capacity())))
	}
	if r.view != nil {
		r.println(labelStyle.Render("  Sublist size: ") + valueStyle.Render(strconv.Itoa(r.view.Size())))
		if err := r.view.Err(); err != nil {
			r.println(errStyle.Render("  Sublist is stale: " + err.Error()))
		}
	}
	if r.cursor != nil {
		r.println(labelStyle.Render("  Cursor: ") + cursorStyle.Render(fmt.Sprintf("between %d and %d", r.cursor.PreviousIndex(), r.cursor.NextIndex())))
	}
}

func (r *REPL) cmdDump() {
	vs := r.target().Values()
	if r.view != nil && r.view.Err() != nil {
		r.fail(r.view.Err())
		return
	}
	var sb strings.Builder
	for i, v := range vs {
		if r.cursor != nil && i == r.cursor.NextIndex() {
			sb.WriteString(cursorStyle.Render("|") + " ")
		}
		sb.WriteString(labelStyle.Render(strconv.Itoa(i)+":") + valueStyle.Render(v) + " ")
	}
	if r.cursor != nil && r.cursor.NextIndex() == len(vs) {
		sb.WriteString(cursorStyle.Render("|"))
	}
	r.println(fmt.Sprintf("[%d] %s", len(vs), strings.TrimSpace(sb.String())))
}

func (r *REPL) cmdSorted() {
	c, ok := r.target().(containers.Container[string])
	if !ok {
		r.fail(errors.New("list does not support sorted values"))
		return
	}
	r.println(valueStyle.Render(strings.Join(containers.GetSortedValues(c), " ")))
}

func (r *REPL) cmdJSON() {
	s, ok := r.list.(containers.JSONSerializer)
	if !ok {
		r.fail(errors.New("list does not support JSON"))
		return
	}
	data, err := s.ToJSON()
	if err != nil {
		r.fail(err)
		return
	}
	r.println(valueStyle.Render(string(data)))
}

func (r *REPL) cmdAdd(args []string) {
	if len(args) == 0 {
		r.usage("add <v...>")
		return
	}
	if _, err := r.target().AddAll(listkit.Of(args...)); err != nil {
		r.fail(err)
		return
	}
	r.okf("Added %d, size %d", len(args), r.target().Size())
}

func (r *REPL) cmdInsert(args []string) {
	if len(args) != 2 {
		r.usage("insert <i> <v>")
		return
	}
	i, err := strconv.Atoi(args[0])
	if err != nil {
		r.fail(err)
		return
	}
	if err := r.target().Insert(i, args[1]); err != nil {
		r.fail(err)
		return
	}
	r.okf("Inserted %q at %d", args[1], i)
}

func (r *REPL) cmdGet(args []string) {
	if len(args) != 1 {
		r.usage("get <i>")
		return
	}
	i, err := strconv.Atoi(args[0])
	if err != nil {
		r.fail(err)
		return
	}
	v, err := r.target().Get(i)
	if err != nil {
		r.fail(err)
		return
	}
	r.println(valueStyle.Render(v))
}

func (r *REPL) cmdSet(args []string) {
	if len(args) != 2 {
		r.usage("set <i> <v>")
		return
	}
	i, err := strconv.Atoi(args[0])
	if err != nil {
		r.fail(err)
		return
	}
	old, err := r.target().Set(i, args[1])
	if err != nil {
		r.fail(err)
		return
	}
	r.okf("Replaced %q with %q", old, args[1])
}

func (r *REPL) cmdRemove(args []string) {
	if len(args) != 1 {
		r.usage("remove <i>")
		return
	}
	i, err := strconv.Atoi(args[0])
	if err != nil {
		r.fail(err)
		return
	}
	v, err := r.target().RemoveAt(i)
	if err != nil {
		r.fail(err)
		return
	}
	r.okf("Removed %q", v)
}

func (r *REPL) cmdRemoveValue(args []string) {
	if len(args) != 1 {
		r.usage("removev <v>")
		return
	}
	if !r.target().Remove(args[0]) {
		r.println(labelStyle.Render("Not found"))
		return
	}
	r.okf("Removed %q", args[0])
}

func (r *REPL) cmdIndexOf(args []string) {
	if len(args) != 1 {
		r.usage("indexof <v>")
		return
	}
	r.println(valueStyle.Render(strconv.Itoa(r.target().IndexOf(args[0]))))
}

func (r *REPL) cmdSort() {
	if err := r.target().Sort(strings.Compare); err != nil {
		r.fail(err)
		return
	}
	r.okf("Sorted")
}

func (r *REPL) cmdSublist(args []string) {
	if len(args) == 1 && args[0] == "off" {
		r.view = nil
		r.cursor = nil
		r.okf("Sublist off")
		return
	}
	if len(args) != 2 {
		r.usage("sublist <from> <to> | sublist off")
		return
	}
	from, err1 := strconv.Atoi(args[0])
	to, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		r.usage("sublist <from> <to> | sublist off")
		return
	}
	v, err := r.target().SubList(from, to)
	if err != nil {
		r.fail(err)
		return
	}
	r.view = v
	r.cursor = nil
	r.okf("Sublist of %d elements", v.Size())
}

func (r *REPL) cmdCursor(args []string) {
	i := 0
	if len(args) == 1 {
		var err error
		if i, err = strconv.Atoi(args[0]); err != nil {
			r.fail(err)
			return
		}
	}
	c, err := r.target().CursorAt(i)
	if err != nil {
		r.fail(err)
		return
	}
	r.cursor = c
	r.okf("Cursor before %d", i)
}

func (r *REPL) cmdStep(cmd string, args []string) {
	if r.cursor == nil {
		r.println(errStyle.Render("No cursor. Use 'cursor [i]' to start one."))
		return
	}
	c := r.cursor
	var (
		v   string
		err error
	)
	switch cmd {
	case "next":
		v, err = c.Next()
	case "prev":
		v, err = c.Previous()
	case "cset", "cadd":
		if len(args) != 1 {
			r.usage(cmd + " <v>")
			return
		}
		v = args[0]
		if cmd == "cset" {
			err = c.Set(v)
		} else {
			err = c.Add(v)
		}
	case "cremove":
		err = c.Remove()
	}
	if err != nil {
		r.fail(err)
		return
	}
	r.println(cursorStyle.Render(fmt.Sprintf("%s %q", cmd, v)) + labelStyle.Render(fmt.Sprintf(" (next index %d)", c.NextIndex())))
}

func (r *REPL) cmdDeque(cmd string, args []string) {
	d, ok := r.list.(listkit.Deque[string])
	if !ok {
		r.println(errStyle.Render("Deque commands need a linked list. Use 'new linked'."))
		return
	}
	var (
		v     string
		err   error
		found = true
	)
	switch cmd {
	case "push":
		if len(args) != 1 {
			r.usage("push <v>")
			return
		}
		d.Push(args[0])
		v = args[0]
	case "pop":
		v, err = d.Pop()
	case "peek":
		v, found = d.Peek()
	case "poll":
		v, found = d.Poll()
	case "first":
		v, err = d.GetFirst()
	case "last":
		v, err = d.GetLast()
	}
	if err != nil {
		r.fail(err)
		return
	}
	if !found {
		r.println(labelStyle.Render("(empty)"))
		return
	}
	r.println(valueStyle.Render(v))
}

func (r *REPL) cmdSave(args []string) {
	if len(args) != 1 {
		r.usage("save <name>")
		return
	}
	if err := persist.Save(r.catalog, saveFolder, args[0], persist.Source[string](r.list)); err != nil {
		r.fail(err)
		return
	}
	r.okf("Saved %d elements as %q", r.list.Size(), args[0])
}

func (r *REPL) cmdLoad(args []string) {
	if len(args) != 1 {
		r.usage("load <name>")
		return
	}
	if err := persist.Load(r.catalog, saveFolder, args[0], persist.Sink[string](r.list)); err != nil {
		r.fail(err)
		return
	}
	r.view = nil
	r.cursor = nil
	r.okf("Loaded %d elements from %q", r.list.Size(), args[0])
}
