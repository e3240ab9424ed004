package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"simpledb"
)

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <script>",
		Short: "Execute a semicolon-separated script file, printing one Result per statement as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(dbPath, args[0])
		},
	}
}

func runScript(path, scriptPath string) error {
	content, err := os.ReadFile(scriptPath)
	if err != nil {
		return fmt.Errorf("reading script: %w", err)
	}

	db, err := simpledb.Open(path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	enc := json.NewEncoder(os.Stdout)
	for _, stmt := range splitStatements(string(content)) {
		if err := enc.Encode(db.Exec(stmt)); err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
	}
	return nil
}

// splitStatements breaks a script on ';' delimiters, dropping fragments that
// are empty once trimmed (e.g. after a trailing semicolon). SQL comments are
// not recognized and stay part of the fragment they appear in.
func splitStatements(script string) []string {
	var out []string
	for _, raw := range strings.Split(script, ";") {
		stmt := strings.TrimSpace(raw)
		if stmt == "" {
			continue
		}
		out = append(out, stmt+";")
	}
	return out
}
