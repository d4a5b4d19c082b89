package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dop251/goja"
	"github.com/peterh/liner"

	"github.com/GriffinCanCode/v8goja/internal/shared/paths"
	v8 "github.com/GriffinCanCode/v8goja/internal/v8"
)

const (
	promptMain = "> "
	promptCont = "... "
)

// session is a persistent REPL context. Globals survive between lines.
type session struct {
	iso *v8.Isolate
	ctx *v8.Context
}

func newSession(params v8.CreateParams, out *console) (*session, error) {
	iso, err := v8.NewIsolate(params)
	if err != nil {
		return nil, err
	}
	ctx, err := v8.NewContext(iso)
	if err != nil {
		iso.Dispose()
		return nil, err
	}
	ctx.Enter()
	if err := installHost(ctx, out); err != nil {
		iso.Dispose()
		return nil, err
	}
	return &session{iso: iso, ctx: ctx}, nil
}

// eval runs one input and returns the display form of its completion value
func (s *session) eval(goctx context.Context, src string) (string, error) {
	ret := s.ctx.RunScript(goctx, "repl", src)
	if ret.IsNothing() {
		exc := s.iso.PendingException()
		s.iso.ClearPendingException()
		return "", &scriptError{message: exc.String()}
	}
	_, display := describe(s.ctx, ret.FromJust())
	return display, nil
}

func (s *session) close() {
	s.ctx.Exit()
	s.iso.Dispose()
}

// isIncomplete reports whether src fails to compile only because input
// ended early
func isIncomplete(src string) bool {
	_, err := goja.Compile("repl", src, false)
	return err != nil && strings.Contains(err.Error(), "Unexpected end of input")
}

func runREPL(ctx context.Context, params v8.CreateParams, stdout, stderr io.Writer) int {
	sess, err := newSession(params, newConsole(stdout, stderr))
	if err != nil {
		fmt.Fprintln(stderr, errorStyle.Render(err.Error()))
		return exitUsage
	}
	defer sess.close()

	fmt.Fprintln(stdout, titleStyle.Render("v8shim "+version))
	fmt.Fprintln(stdout, helpStyle.Render("Type :help for commands, :quit to exit"))

	histPath := paths.HistoryFile()

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for ctx.Err() == nil {
		src, ok := readInput(ln)
		if !ok {
			fmt.Fprintln(stdout)
			break
		}
		trimmed := strings.TrimSpace(src)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			if replCommand(stdout, trimmed) {
				break
			}
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		display, err := sess.eval(ctx, src)
		if err != nil {
			fmt.Fprintln(stdout, errorStyle.Render(err.Error()))
			continue
		}
		fmt.Fprintln(stdout, resultStyle.Render(display))
	}

	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
	return exitOK
}

// replCommand handles a colon command and reports whether to exit
func replCommand(w io.Writer, cmd string) bool {
	switch strings.Fields(cmd)[0] {
	case ":quit", ":q", ":exit":
		return true
	case ":help", ":h":
		fmt.Fprintln(w, helpStyle.Render(strings.Join([]string{
			":help   show this help",
			":quit   leave the REPL",
			"console.log(...), host.hash(obj), host.tag(obj, v), host.tagOf(obj)",
			"host.box(v), host.isBox(v), host.version",
		}, "\n")))
	default:
		fmt.Fprintln(w, errorStyle.Render("unknown command "+cmd))
	}
	return false
}

// readInput accumulates lines until the buffer compiles or fails for a
// reason other than early end of input
func readInput(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") || !isIncomplete(src) {
			return src, true
		}
	}
}
