// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pdiddy/book-selection/internal/catalog"
	"github.com/pdiddy/book-selection/internal/export"
	"github.com/pdiddy/book-selection/internal/manifest"
	"github.com/pdiddy/book-selection/internal/selection"
	"github.com/pdiddy/book-selection/internal/session"
	"github.com/pdiddy/book-selection/pkg/types"
)

const shellHelp = `Commands:
  student <id> <name...>     set the student ID and name
  search <keyword...>        search the catalog (replaces the results)
  results                    show the current results; * marks selected
  toggle <n|id>...           select or deselect results
  add                        add the selected results to the list
  list                       show the selection list
  set <no> <field> <value>   edit one field of a list entry
  remove <no>                remove a list entry
  manual <title> | <authors> | <publisher> | <year> | <isbn> | <price>
                             add a book by hand; trailing parts are optional
  recommend <text...>        set the recommendation text
  total                      show the total price
  export [dir]               write the spreadsheet
  save <path>                save the list as a YAML manifest
  help                       show this help
  quit                       leave the shell`

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Build a selection list interactively",
	Long: `Shell starts a line-oriented session: set the student details, search the
catalog, toggle results, add them to the list, edit entries, and export the
spreadsheet. Everything is kept in memory until you export or save.`,
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	layout, err := export.LayoutByName(cfg.Export.Layout)
	if err != nil {
		return err
	}

	sh := &shell{
		session: session.New(newCatalogClient(cfg), session.WithIDGenerator(uuid.NewString)),
		layout:  layout.WithDeadline(cfg.Export.Deadline),
		outDir:  cfg.Export.OutputDir,
		out:     cmd.OutOrStdout(),
	}
	fmt.Fprintf(sh.out, "book-selection %s (layout %s). Type help for commands.\n", version, layout.Name)
	return sh.run(cmd.Context(), cmd.InOrStdin())
}

// shell dispatches one command per input line to a session.
type shell struct {
	session *session.Session
	layout  export.Layout
	outDir  string
	out     io.Writer
}

var errQuit = errors.New("quit")

func (sh *shell) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(sh.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(sh.out)
			return scanner.Err()
		}
		err := sh.exec(ctx, scanner.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintln(sh.out, "error:", err)
		}
	}
}

func (sh *shell) exec(ctx context.Context, line string) error {
	name, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)
	args := strings.Fields(rest)

	switch strings.ToLower(name) {
	case "":
		return nil
	case "help", "?":
		fmt.Fprintln(sh.out, shellHelp)
	case "quit", "exit", "q":
		return errQuit
	case "student":
		if len(args) < 2 {
			return fmt.Errorf("usage: student <id> <name...>")
		}
		sh.session.SetStudent(types.StudentInfo{StudentID: args[0], Name: strings.Join(args[1:], " ")})
	case "search":
		return sh.search(ctx, rest)
	case "results":
		sh.results()
	case "toggle":
		return sh.toggle(args)
	case "add":
		added := sh.session.AddSelected()
		fmt.Fprintf(sh.out, "Added %d book(s).\n", len(added))
	case "list":
		selection.FormatTable(sh.session.Snapshot().Books, sh.session.InvalidISBNs(), sh.out)
	case "set":
		return sh.set(args)
	case "remove", "rm":
		return sh.remove(args)
	case "manual":
		return sh.manual(rest)
	case "recommend":
		sh.session.SetRecommendation(rest)
	case "total":
		fmt.Fprintf(sh.out, "Total: %d yen\n", sh.session.TotalPrice())
	case "export":
		return sh.export(rest)
	case "save":
		return sh.save(rest)
	default:
		return fmt.Errorf("unknown command %q (type help)", name)
	}
	return nil
}

func (sh *shell) search(ctx context.Context, keyword string) error {
	if keyword == "" {
		return nil
	}
	if _, err := sh.session.Search(ctx, keyword); err != nil {
		return err
	}
	if status := sh.session.Status(); status != "" {
		fmt.Fprintln(sh.out, status)
		return nil
	}
	sh.results()
	return nil
}

func (sh *shell) results() {
	snap := sh.session.Snapshot()
	catalog.FormatTable(snap.Candidates, sh.out)
	if len(snap.Selected) == 0 {
		return
	}
	selected := make(map[string]bool, len(snap.Selected))
	for _, id := range snap.Selected {
		selected[id] = true
	}
	var nos []string
	for i, c := range snap.Candidates {
		if selected[c.ID] {
			nos = append(nos, strconv.Itoa(i+1))
		}
	}
	fmt.Fprintf(sh.out, "* selected: %s\n", strings.Join(nos, ", "))
}

func (sh *shell) toggle(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: toggle <n|id>...")
	}
	candidates := sh.session.Snapshot().Candidates
	for _, arg := range args {
		id := arg
		if n, err := strconv.Atoi(arg); err == nil {
			if n < 1 || n > len(candidates) {
				return fmt.Errorf("no result %d", n)
			}
			id = candidates[n-1].ID
		}
		state := "deselected"
		if sh.session.Toggle(id) {
			state = "selected"
		}
		fmt.Fprintf(sh.out, "%s %s\n", arg, state)
	}
	return nil
}

func (sh *shell) bookByArg(arg string) (types.BookRecord, error) {
	no, err := strconv.Atoi(arg)
	if err != nil {
		return types.BookRecord{}, fmt.Errorf("invalid list number %q", arg)
	}
	b, ok := sh.session.BookByNo(no)
	if !ok {
		return types.BookRecord{}, fmt.Errorf("no list entry %d: %w", no, selection.ErrNotFound)
	}
	return b, nil
}

func (sh *shell) set(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: set <no> <field> <value...>")
	}
	b, err := sh.bookByArg(args[0])
	if err != nil {
		return err
	}
	field, err := selection.ParseField(args[1])
	if err != nil {
		return err
	}
	return sh.session.Update(b.ID, field, strings.Join(args[2:], " "))
}

func (sh *shell) remove(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: remove <no>")
	}
	b, err := sh.bookByArg(args[0])
	if err != nil {
		return err
	}
	return sh.session.Remove(b.ID)
}

// manualFields are the optional parts of a manual entry after the title.
var manualFields = []selection.Field{
	selection.FieldAuthors,
	selection.FieldPublisher,
	selection.FieldYear,
	selection.FieldISBN,
	selection.FieldPrice,
}

func (sh *shell) manual(rest string) error {
	parts := strings.Split(rest, "|")
	title := strings.TrimSpace(parts[0])
	if title == "" {
		return fmt.Errorf("usage: manual <title> | <authors> | <publisher> | <year> | <isbn> | <price>")
	}
	if len(parts)-1 > len(manualFields) {
		return fmt.Errorf("too many parts: expected at most %d", len(manualFields)+1)
	}

	rec := sh.session.AddManual(types.BookRecord{Title: title})
	for i, part := range parts[1:] {
		value := strings.TrimSpace(part)
		if value == "" {
			continue
		}
		if err := sh.session.Update(rec.ID, manualFields[i], value); err != nil {
			return err
		}
	}
	fmt.Fprintf(sh.out, "Added No.%d.\n", rec.No)
	return nil
}

func (sh *shell) export(dir string) error {
	if dir == "" {
		dir = sh.outDir
	}
	if dir == "" {
		dir = "."
	}
	if err := sh.session.CanExport(sh.layout); err != nil {
		return err
	}

	var buf bytes.Buffer
	name, err := sh.session.Export(&buf, sh.layout)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(sh.out, "Wrote %s\n", path)
	return nil
}

func (sh *shell) save(path string) error {
	if path == "" {
		return fmt.Errorf("usage: save <path>")
	}
	snap := sh.session.Snapshot()
	m := manifest.Manifest{
		Student:        snap.Student,
		Recommendation: snap.Recommendation,
		Books:          snap.Books,
	}
	if err := manifest.Save(path, m); err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "Saved %d book(s) to %s\n", len(m.Books), path)
	return nil
}
