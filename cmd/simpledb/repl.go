package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"simpledb"
)

func replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive SQL session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(dbPath)
		},
	}
}

// runRepl buffers input lines until a terminating ';', then executes the
// accumulated statement. ".exit"/".quit" on an otherwise-empty line end the
// session. Kept just complete enough to drive the engine end-to-end.
func runRepl(path string) error {
	db, err := simpledb.Open(path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	log.Printf("simpledb ready (db=%s)", describePath(path))

	scanner := bufio.NewScanner(os.Stdin)
	var buf strings.Builder
	fmt.Print("simpledb> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if buf.Len() == 0 && (line == ".exit" || line == ".quit") {
			return nil
		}
		if line == "" {
			fmt.Print("simpledb> ")
			continue
		}

		buf.WriteString(line)
		buf.WriteByte(' ')
		if strings.HasSuffix(line, ";") {
			printResult(db.Exec(buf.String()))
			buf.Reset()
		}
		fmt.Print("simpledb> ")
	}
	return scanner.Err()
}

func describePath(path string) string {
	if path == "" {
		return ":memory:"
	}
	return path
}

func printResult(r simpledb.Result) {
	if !r.Success {
		fmt.Println("error:", r.Error)
		return
	}
	if r.Message != "" {
		fmt.Println(r.Message)
		return
	}
	fmt.Println(strings.Join(r.Columns, "\t"))
	for _, row := range r.Rows {
		vals := make([]string, len(r.Columns))
		for i, col := range r.Columns {
			vals[i] = row[col].String()
		}
		fmt.Println(strings.Join(vals, "\t"))
	}
	fmt.Printf("(%d row(s))\n", r.Count)
}
