package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/hamwave/cw/cw/gen"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Send Morse code interactively",
	Long: paragraph(fmt.Sprintf(
		"\nAn interactive sender: every line you type is %s as you go. Colon commands adjust the sender; %s deletes the last queued character, so a typo can be taken back before it plays.",
		keyword("keyed out"), keyword(":bs"))),
	Example: paragraph("cw repl\ncw repl --wpm 25 --backend null"),
	Args:    cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		g, err := newGenerator()
		if err != nil {
			return err
		}
		defer g.Stop() //nolint:errcheck
		return repl(g)
	},
}

func repl(g *gen.Generator) error {
	rl, err := readline.New("cw> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Println("Type text to send it. Commands: :wpm N, :tone N, :bs, :flush, :quit")

	for {
		line, err := rl.Readline()
		if err == io.EOF || err == readline.ErrInterrupt {
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ":") {
			if quit, err := replCommand(g, line); err != nil {
				fmt.Println(err)
			} else if quit {
				return nil
			}
			continue
		}

		// Queue and return to the prompt while it plays; that is
		// what makes :bs able to take back a queued character.
		if err := g.EnqueueString(line); err != nil {
			fmt.Println(err)
		}
	}
}

// replCommand handles one colon command. It reports whether the REPL
// should exit.
func replCommand(g *gen.Generator, line string) (bool, error) {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":quit", ":q":
		return true, nil
	case ":bs":
		g.Backspace()
		return false, nil
	case ":flush":
		g.Queue().Flush()
		return false, nil
	case ":wpm":
		n, err := replIntArg(fields)
		if err != nil {
			return false, err
		}
		return false, g.SetSpeed(n)
	case ":tone":
		n, err := replIntArg(fields)
		if err != nil {
			return false, err
		}
		return false, g.SetFrequency(n)
	case ":volume":
		n, err := replIntArg(fields)
		if err != nil {
			return false, err
		}
		return false, g.SetVolume(n)
	default:
		return false, fmt.Errorf("unknown command: %s", fields[0])
	}
}

func replIntArg(fields []string) (int, error) {
	if len(fields) != 2 {
		return 0, fmt.Errorf("%s: want one numeric argument", fields[0])
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, fmt.Errorf("%s: %w", fields[0], err)
	}
	return n, nil
}
