package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"ivly-cli/internal/config"
	"ivly-cli/internal/model"
	"ivly-cli/internal/printer"
	"ivly-cli/internal/session"
	"ivly-cli/internal/tui"
)

func runCLI(t *testing.T, dir string, args ...string) (stdout []byte, stderr []byte, err error) {
	t.Helper()
	return runCLIWithInput(t, dir, "", args...)
}

func runCLIWithInput(t *testing.T, dir, input string, args ...string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetIn(strings.NewReader(input))
	cmd.SetArgs(append([]string{"--dir", dir}, args...))

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

func mustRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, errOut, err := runCLI(t, dir, args...)
	if err != nil {
		t.Fatalf("ivly %s: %v\nstderr: %s", strings.Join(args, " "), err, errOut)
	}
	return string(out)
}

func listRows(t *testing.T, dir string, args ...string) []printer.Row {
	t.Helper()
	out := mustRun(t, dir, append([]string{"list", "--format", "json"}, args...)...)
	var rows []printer.Row
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode list output: %v\n%s", err, out)
	}
	return rows
}

func descriptions(rows []printer.Row) string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Description
	}
	return strings.Join(out, ",")
}

// newTestDir isolates a test from the environment and forces plain output.
func newTestDir(t *testing.T) string {
	t.Helper()
	t.Setenv(config.EnvConfig, "")
	t.Setenv("IVLY_LOG_LEVEL", "")
	old := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = old })
	return t.TempDir()
}

func addTasks(t *testing.T, dir string, descs ...string) {
	t.Helper()
	for _, d := range descs {
		mustRun(t, dir, "add", d)
	}
}

func TestAddAndList(t *testing.T) {
	dir := newTestDir(t)

	out := mustRun(t, dir, "add", "write", "report", "+work", "-n", "due friday")
	if !strings.Contains(out, "Added new task! ID:") {
		t.Fatalf("expected add confirmation; got %q", out)
	}
	if !strings.Contains(out, "write report") {
		t.Fatalf("expected task to be printed; got %q", out)
	}

	rows := listRows(t, dir)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row; got %d", len(rows))
	}
	r := rows[0]
	if r.Description != "write report" || r.Note != "due friday" || r.Number != 1 || r.Status != printer.StatusTodo {
		t.Fatalf("unexpected row: %+v", r)
	}
	if len(r.Tags) != 1 || r.Tags[0] != "work" {
		t.Fatalf("expected tags [work]; got %v", r.Tags)
	}
	if len(r.ID) < 4 {
		t.Fatalf("expected generated id; got %q", r.ID)
	}
}

func TestAddPromptsWithoutDescription(t *testing.T) {
	dir := newTestDir(t)

	out, _, err := runCLIWithInput(t, dir, "call bob\nabout lunch\n+home +phone\n", "add")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	for _, prompt := range []string{"Task description:", "Task note:", "Tags:"} {
		if !strings.Contains(string(out), prompt) {
			t.Fatalf("expected prompt %q; got %q", prompt, out)
		}
	}

	rows := listRows(t, dir)
	if len(rows) != 1 || rows[0].Description != "call bob" || rows[0].Note != "about lunch" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
	if strings.Join(rows[0].Tags, ",") != "home,phone" {
		t.Fatalf("expected tags home,phone; got %v", rows[0].Tags)
	}
}

func TestAddPromptRejectsEmptyDescription(t *testing.T) {
	dir := newTestDir(t)

	if _, _, err := runCLIWithInput(t, dir, "\n\n\n", "add"); err == nil {
		t.Fatalf("expected error for empty description")
	}
	if rows := listRows(t, dir); len(rows) != 0 {
		t.Fatalf("expected nothing added; got %+v", rows)
	}
}

func TestRootPrintsTopTasksAndBacklog(t *testing.T) {
	dir := newTestDir(t)
	addTasks(t, dir, "t1", "t2", "t3", "t4", "t5", "t6", "t7", "t8")

	out := mustRun(t, dir)
	if !strings.Contains(out, "   6. t6") {
		t.Fatalf("expected sixth task; got %q", out)
	}
	if strings.Contains(out, "t7") {
		t.Fatalf("expected only 6 tasks; got %q", out)
	}
	if !strings.Contains(out, "2 tasks in backlog") {
		t.Fatalf("expected backlog count; got %q", out)
	}
}

func TestRootFiltersByTag(t *testing.T) {
	dir := newTestDir(t)
	mustRun(t, dir, "add", "report", "+work")
	mustRun(t, dir, "add", "groceries", "+home")
	mustRun(t, dir, "add", "deploy", "+work", "+later")

	out := mustRun(t, dir, "+work", "/later")
	if !strings.Contains(out, "report") || strings.Contains(out, "groceries") || strings.Contains(out, "deploy") {
		t.Fatalf("unexpected filtered output: %q", out)
	}

	_, _, err := runCLI(t, dir, "work")
	if err == nil || !strings.Contains(err.Error(), "filter tag must start with + or /") {
		t.Fatalf("expected filter tag error; got %v", err)
	}
}

func TestFinishDefaultsToFirstUnfinished(t *testing.T) {
	dir := newTestDir(t)
	addTasks(t, dir, "a", "b", "c")

	out := mustRun(t, dir, "finish")
	if !strings.Contains(out, "Finished 'a'") {
		t.Fatalf("expected a finished; got %q", out)
	}
	out = mustRun(t, dir, "f")
	if !strings.Contains(out, "Finished 'b'") {
		t.Fatalf("expected b finished; got %q", out)
	}

	rows := listRows(t, dir, "--open")
	want := []printer.Status{printer.StatusMarked, printer.StatusMarked, printer.StatusTodo}
	for i, r := range rows {
		if r.Status != want[i] {
			t.Fatalf("row %d: expected %s; got %s", i, want[i], r.Status)
		}
	}
}

func TestFinishRejectsOutOfRangeNumber(t *testing.T) {
	dir := newTestDir(t)
	addTasks(t, dir, "a")

	_, _, err := runCLI(t, dir, "finish", "2")
	if err == nil || !strings.Contains(err.Error(), "task number 2 is not within task range 1..=1") {
		t.Fatalf("expected range error; got %v", err)
	}
}

func TestSweepMovesFinishedTasks(t *testing.T) {
	dir := newTestDir(t)
	addTasks(t, dir, "a", "b", "c")
	mustRun(t, dir, "finish", "1", "3")

	out := mustRun(t, dir, "sweep")
	if !strings.Contains(out, "Swept finished tasks into done list") {
		t.Fatalf("unexpected sweep output: %q", out)
	}

	if got := descriptions(listRows(t, dir, "--open")); got != "b" {
		t.Fatalf("expected open list b; got %s", got)
	}
	done := listRows(t, dir, "--done")
	if len(done) != 2 {
		t.Fatalf("expected 2 done tasks; got %+v", done)
	}
	for _, r := range done {
		if r.Status != printer.StatusDone || r.Finished == 0 || r.Number != 0 {
			t.Fatalf("unexpected done row: %+v", r)
		}
	}
}

func TestBumpDedupsAndProcessesHighestFirst(t *testing.T) {
	dir := newTestDir(t)
	addTasks(t, dir, "a", "b", "c")

	mustRun(t, dir, "bump", "1", "2", "1")
	if got := descriptions(listRows(t, dir)); got != "c,b,a" {
		t.Fatalf("expected c,b,a; got %s", got)
	}

	if _, _, err := runCLI(t, dir, "bump"); err == nil {
		t.Fatalf("expected bump without numbers to fail")
	}
}

func TestMoveInFrontOf(t *testing.T) {
	dir := newTestDir(t)
	addTasks(t, dir, "a", "b", "c")

	out := mustRun(t, dir, "mv", "3", "1")
	if !strings.Contains(out, "Moved 'c' in front of 'a'") {
		t.Fatalf("unexpected move output: %q", out)
	}
	if got := descriptions(listRows(t, dir)); got != "c,a,b" {
		t.Fatalf("expected c,a,b; got %s", got)
	}

	mustRun(t, dir, "move", "1", "3")
	if got := descriptions(listRows(t, dir)); got != "a,c,b" {
		t.Fatalf("expected a,c,b; got %s", got)
	}
}

func TestMoveNeedsBothNumbers(t *testing.T) {
	dir := newTestDir(t)
	addTasks(t, dir, "a", "b")

	_, _, err := runCLI(t, dir, "move", "1")
	if !errors.Is(err, errMoveArgs) {
		t.Fatalf("expected errMoveArgs; got %v", err)
	}
}

func stubSession(t *testing.T, fn func(tasks *model.OpenTasks) session.Outcome) {
	t.Helper()
	prev := runSession
	runSession = func(ctx context.Context, tasks *model.OpenTasks, opts ...tui.Option) (session.Outcome, error) {
		return fn(tasks), nil
	}
	t.Cleanup(func() { runSession = prev })
}

func TestInteractiveSaveWritesList(t *testing.T) {
	dir := newTestDir(t)
	addTasks(t, dir, "a", "b")

	stubSession(t, func(tasks *model.OpenTasks) session.Outcome {
		if _, err := tasks.Reposition(1, 0); err != nil {
			t.Fatalf("reposition: %v", err)
		}
		return session.Save
	})

	out := mustRun(t, dir, "move")
	if !strings.Contains(out, "Saved changes") {
		t.Fatalf("expected save confirmation; got %q", out)
	}
	if got := descriptions(listRows(t, dir)); got != "b,a" {
		t.Fatalf("expected b,a; got %s", got)
	}
}

func TestInteractiveForgetLeavesListAlone(t *testing.T) {
	dir := newTestDir(t)
	addTasks(t, dir, "a", "b")

	stubSession(t, func(tasks *model.OpenTasks) session.Outcome {
		// tui.Run only writes back on save; mimic that here.
		return session.Forget
	})

	for _, args := range [][]string{{"edit"}, {"add", "-i"}, {"move"}} {
		out := mustRun(t, dir, args...)
		if !strings.Contains(out, "No changes made") {
			t.Fatalf("ivly %v: expected no-change message; got %q", args, out)
		}
	}
	if got := descriptions(listRows(t, dir)); got != "a,b" {
		t.Fatalf("expected a,b; got %s", got)
	}
}

func TestEditOpenTask(t *testing.T) {
	dir := newTestDir(t)
	mustRun(t, dir, "add", "a", "+old", "+keep")
	id := listRows(t, dir)[0].ID

	out := mustRun(t, dir, "edit", id, "-d", "renamed", "-n", "a note", "+new", "/old")
	if !strings.Contains(out, "Edited task "+id) {
		t.Fatalf("unexpected edit output: %q", out)
	}
	r := listRows(t, dir)[0]
	if r.Description != "renamed" || r.Note != "a note" {
		t.Fatalf("unexpected row: %+v", r)
	}
	if strings.Join(r.Tags, ",") != "keep,new" {
		t.Fatalf("expected tags keep,new; got %v", r.Tags)
	}
}

func TestEditDoneTaskKeepsTagsOnRemoval(t *testing.T) {
	dir := newTestDir(t)
	mustRun(t, dir, "add", "a", "+x")
	mustRun(t, dir, "finish")
	mustRun(t, dir, "sweep")
	id := listRows(t, dir, "--done")[0].ID

	_, errOut, err := runCLI(t, dir, "edit", id, "-n", "archived", "/x", "/absent", "+y")
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	r := listRows(t, dir, "--done")[0]
	if r.Note != "archived" || strings.Join(r.Tags, ",") != "x,y" {
		t.Fatalf("unexpected done row: %+v", r)
	}
	if n := strings.Count(string(errOut), "tag removal only applies to open tasks"); n != 1 {
		t.Fatalf("expected one warning for the tag the task carries; got %d in %q", n, errOut)
	}
}

func TestShowDoneTaskReportsCompletion(t *testing.T) {
	dir := newTestDir(t)
	mustRun(t, dir, "add", "a")
	mustRun(t, dir, "finish")

	id := listRows(t, dir)[0].ID
	if out := mustRun(t, dir, "show", id); !strings.Contains(out, "marked") || !strings.Contains(out, "finished") {
		t.Fatalf("expected marked task with finish age; got %q", out)
	}

	mustRun(t, dir, "sweep")
	out := mustRun(t, dir, "show", id)
	for _, want := range []string{id, "done", "created", "finished"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output; got %q", want, out)
		}
	}
}

func TestEditAndRemoveUnknownID(t *testing.T) {
	dir := newTestDir(t)
	addTasks(t, dir, "a")

	for _, args := range [][]string{{"edit", "zzzz", "-d", "x"}, {"remove", "zzzz"}, {"show", "zzzz"}} {
		_, _, err := runCLI(t, dir, args...)
		if !errors.Is(err, errNotFound) {
			t.Fatalf("ivly %v: expected not found; got %v", args, err)
		}
	}
}

func TestRemoveFromOpenAndDone(t *testing.T) {
	dir := newTestDir(t)
	addTasks(t, dir, "a", "b")
	mustRun(t, dir, "finish", "2")
	mustRun(t, dir, "sweep")

	openID := listRows(t, dir, "--open")[0].ID
	doneID := listRows(t, dir, "--done")[0].ID

	if out := mustRun(t, dir, "remove", openID); !strings.Contains(out, "from todo task list") {
		t.Fatalf("unexpected output: %q", out)
	}
	if out := mustRun(t, dir, "rm", doneID); !strings.Contains(out, "from done task list") {
		t.Fatalf("unexpected output: %q", out)
	}
	if rows := listRows(t, dir); len(rows) != 0 {
		t.Fatalf("expected no tasks; got %+v", rows)
	}
}

func TestListTableAndBadFormat(t *testing.T) {
	dir := newTestDir(t)
	mustRun(t, dir, "add", "a", "+work")

	out := mustRun(t, dir, "ls")
	for _, want := range []string{"ID", "Task#", "Description", "Status", "a", "todo", "work"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in table; got %q", want, out)
		}
	}

	if _, _, err := runCLI(t, dir, "list", "--format", "yaml"); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}

func TestTagWritesConfig(t *testing.T) {
	dir := newTestDir(t)

	out := mustRun(t, dir, "tag", "work", "--bg", "Blue")
	if !strings.Contains(out, "work") || !strings.Contains(out, "green") || !strings.Contains(out, "blue") {
		t.Fatalf("unexpected tag output: %q", out)
	}

	cfg, err := config.Load(filepath.Join(dir, "config.toml"), config.Default())
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	st, ok := cfg.TagStyle("work")
	if !ok || st.Fg != "green" || st.Bg != "blue" {
		t.Fatalf("unexpected tag style: %+v (ok=%v)", st, ok)
	}

	if _, _, err := runCLI(t, dir, "tag", "work", "--fg", "mauve"); err == nil {
		t.Fatalf("expected unknown color error")
	}
}

func TestShowRendersNoteAndCopiesID(t *testing.T) {
	dir := newTestDir(t)
	mustRun(t, dir, "add", "a", "+work", "-n", "# Heading\n\nsome **bold** text")
	id := listRows(t, dir)[0].ID

	var copied string
	prev := writeClipboard
	writeClipboard = func(s string) error {
		copied = s
		return nil
	}
	t.Cleanup(func() { writeClipboard = prev })

	out := mustRun(t, dir, "show", id, "--copy")
	for _, want := range []string{id, "todo", "Heading", "bold", "work", "Copied id to clipboard"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output; got %q", want, out)
		}
	}
	if copied != id {
		t.Fatalf("expected %q copied; got %q", id, copied)
	}
}

func TestPaths(t *testing.T) {
	dir := newTestDir(t)

	out := mustRun(t, dir, "paths")
	var got pathsOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode paths: %v\n%s", err, out)
	}
	if got.Dir != dir || got.Config != filepath.Join(dir, "config.toml") || got.Backend != string(config.BackendFile) {
		t.Fatalf("unexpected paths: %+v", got)
	}
	if len(got.Store) != 2 || got.Store[0] != filepath.Join(dir, "open.json") {
		t.Fatalf("unexpected store paths: %v", got.Store)
	}
}

func TestSQLiteBackendFromConfig(t *testing.T) {
	dir := newTestDir(t)
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[store]\nbackend = \"sqlite\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	addTasks(t, dir, "a", "b")
	mustRun(t, dir, "finish", "1")
	mustRun(t, dir, "sweep")

	if got := descriptions(listRows(t, dir, "--open")); got != "b" {
		t.Fatalf("expected b open; got %s", got)
	}
	if got := descriptions(listRows(t, dir, "--done")); got != "a" {
		t.Fatalf("expected a done; got %s", got)
	}
	if _, err := os.Stat(filepath.Join(dir, "ivly.sqlite")); err != nil {
		t.Fatalf("expected sqlite database: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "open.json")); !os.IsNotExist(err) {
		t.Fatalf("expected no json files with sqlite backend; got %v", err)
	}
}

func TestLogFileReceivesEvents(t *testing.T) {
	dir := newTestDir(t)
	logPath := filepath.Join(dir, "logs", "ivly.log")
	cfg := "[logging]\nlevel = \"debug\"\nfile = \"" + filepath.ToSlash(logPath) + "\"\n"
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	mustRun(t, dir, "add", "a")
	b, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(b), "task added") {
		t.Fatalf("expected add event in log; got %q", b)
	}
}

func TestSessionFailureGoesToLogFileOnly(t *testing.T) {
	dir := newTestDir(t)
	logPath := filepath.Join(dir, "ivly.log")
	cfg := "[logging]\nfile = \"" + filepath.ToSlash(logPath) + "\"\n"
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	addTasks(t, dir, "a")

	prev := runSession
	runSession = func(ctx context.Context, tasks *model.OpenTasks, opts ...tui.Option) (session.Outcome, error) {
		return session.Forget, errors.New("terminal gone")
	}
	t.Cleanup(func() { runSession = prev })

	_, errOut, err := runCLI(t, dir, "move")
	if err == nil || !strings.Contains(err.Error(), "terminal gone") {
		t.Fatalf("expected session error; got %v", err)
	}
	if strings.Contains(string(errOut), "interactive session failed") {
		t.Fatalf("expected console to stay quiet; got %q", errOut)
	}
	b, readErr := os.ReadFile(logPath)
	if readErr != nil {
		t.Fatalf("read log file: %v", readErr)
	}
	if !strings.Contains(string(b), "interactive session failed") || !strings.Contains(string(b), "level=error") {
		t.Fatalf("expected error event in log file; got %q", b)
	}
	if got := descriptions(listRows(t, dir)); got != "a" {
		t.Fatalf("expected list untouched; got %s", got)
	}
}

func TestInvalidLogLevelFlag(t *testing.T) {
	dir := newTestDir(t)
	if _, _, err := runCLI(t, dir, "--log-level", "loud"); err == nil {
		t.Fatalf("expected invalid log level error")
	}
}
