package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

const prompt = "tabledb> "

// REPL reads one command per line from in and writes each result to out
// until EOF, "exit" or "quit", or ctx is cancelled.
func (s *Session) REPL(ctx context.Context, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Fprint(out, prompt)
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(sc.Text())
		switch strings.ToLower(strings.TrimSuffix(line, ";")) {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		fmt.Fprintln(out, s.Run(ctx, line))
	}
}
