package commands

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/gridline-labs/gridline/internal/export"
	"github.com/gridline-labs/gridline/internal/session"
)

// NewEditCmd creates the interactive edit command.
func NewEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <file>",
		Short: "Edit cells interactively with undo/redo",
		Long: `Open a file in an interactive editing shell. Edits are applied
through the undo/redo history; nothing is written back until .save.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, args[0])
			if err != nil {
				return err
			}
			return runEditREPL(cmd, s, args[0])
		},
	}
}

func runEditREPL(cmd *cobra.Command, s *session.Session, path string) error {
	historyFile := filepath.Join(filepath.Dir(path), ".gridline_edit_history")

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "gridline> ",
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize editor: %w", err)
	}
	defer func() { _ = rl.Close() }()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Editing %s (%d rows, %d columns)\n", path, s.Table().RowCount(), s.Table().ColumnCount())
	fmt.Fprintln(out, "Type .help for commands, .quit to exit")
	fmt.Fprintln(out)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == ".quit" || line == ".exit" {
			return nil
		}
		if err := handleEditCommand(cmd, s, line); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
}

func handleEditCommand(cmd *cobra.Command, s *session.Session, line string) error {
	out := cmd.OutOrStdout()
	cfg := getConfig(cmd)
	fields := strings.Fields(line)

	switch fields[0] {
	case ".help":
		fmt.Fprint(out, `Commands:
  .show [n]             show the first n visible rows (default 10)
  .get <row> <col>      print a cell (1-based coordinates)
  .set <row> <col> <v>  set a cell
  .undo                 undo the last edit
  .redo                 redo the last undone edit
  .history              show undo/redo stack depths
  .save [path]          write visible rows as CSV (default: stdout)
  .quit                 exit without saving
`)
		return nil

	case ".show":
		n := 10
		if len(fields) > 1 {
			v, err := strconv.Atoi(fields[1])
			if err != nil {
				return fmt.Errorf("invalid row count %q", fields[1])
			}
			n = v
		}
		return renderVisible(out, s, "table", n, cfg.DelimiterRune())

	case ".get":
		if len(fields) != 3 {
			return fmt.Errorf("usage: .get <row> <col>")
		}
		row, col, err := parseCoordinates(fields[1], fields[2])
		if err != nil {
			return err
		}
		v, err := s.Table().Cell(row, col)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%q\n", v)
		return nil

	case ".set":
		if len(fields) < 4 {
			return fmt.Errorf("usage: .set <row> <col> <value>")
		}
		row, col, err := parseCoordinates(fields[1], fields[2])
		if err != nil {
			return err
		}
		value := strings.Join(fields[3:], " ")
		if err := s.SetCell(row, col, value); err != nil {
			return err
		}
		fmt.Fprintf(out, "set (%s,%s) = %q\n", fields[1], fields[2], value)
		return s.Refresh(cmd.Context())

	case ".undo":
		if err := s.Undo(); err != nil {
			return err
		}
		fmt.Fprintln(out, "undone")
		return s.Refresh(cmd.Context())

	case ".redo":
		if err := s.Redo(); err != nil {
			return err
		}
		fmt.Fprintln(out, "redone")
		return s.Refresh(cmd.Context())

	case ".history":
		fmt.Fprintf(out, "undo: %d, redo: %d\n", s.History().UndoDepth(), s.History().RedoDepth())
		return nil

	case ".save":
		if len(fields) > 1 {
			if err := export.SaveCSVFile(fields[1], s.Table(), s.View(), cfg.DelimiterRune()); err != nil {
				return err
			}
			fmt.Fprintf(out, "saved %s\n", fields[1])
			return nil
		}
		return export.WriteCSV(out, s.Table(), s.View(), cfg.DelimiterRune())
	}

	return fmt.Errorf("unknown command %q (try .help)", fields[0])
}

// parseCoordinates converts 1-based REPL coordinates to 0-based indices.
func parseCoordinates(rowRef, colRef string) (int, int, error) {
	row, err := strconv.Atoi(rowRef)
	if err != nil || row < 1 {
		return 0, 0, fmt.Errorf("invalid row %q", rowRef)
	}
	col, err := strconv.Atoi(colRef)
	if err != nil || col < 1 {
		return 0, 0, fmt.Errorf("invalid column %q", colRef)
	}
	return row - 1, col - 1, nil
}
