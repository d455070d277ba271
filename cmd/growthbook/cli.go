package main

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/jordanwest/growthbook/internal/book"
	"github.com/jordanwest/growthbook/internal/config"
	"github.com/jordanwest/growthbook/internal/errors"
	"github.com/jordanwest/growthbook/internal/ops"
	"github.com/jordanwest/growthbook/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config, exporter *book.Exporter) *cli.App {
	app := &cli.App{
		Name:    "growthbook",
		Usage:   "Journal today, bind it into a book later",
		Version: Version,
		Commands: []*cli.Command{
			writeCmd(db),
			showCmd(db),
			listCmd(db),
			deleteCmd(db),
			curateCmd(db),
			draftCmd(db),
			exportCmd(db, cfg, exporter),
			themesCmd(cfg),
			backupCmd(db),
			restoreCmd(db),
			serveCmd(db, cfg, exporter),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// writeCmd creates the write command.
func writeCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "write",
		Usage: "Write or update the journal entry for a date (content read from stdin when piped)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "date", Aliases: []string{"d"}, Usage: "Entry date (YYYY-MM-DD, defaults to today)"},
			&cli.StringFlag{Name: "prompt", Aliases: []string{"p"}, Usage: "The question this entry answers"},
			&cli.StringFlag{Name: "content", Aliases: []string{"c"}, Usage: "Entry body (markdown); stdin takes precedence"},
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Usage: "Reflection mode: free|growth"},
			&cli.StringFlag{Name: "excited", Usage: "Free mode: what excited you today?"},
			&cli.StringFlag{Name: "drained", Usage: "Free mode: what drained your energy?"},
			&cli.StringFlag{Name: "grateful", Usage: "Free mode: what are you grateful for?"},
			&cli.StringFlag{Name: "learned", Usage: "Growth mode: what did you learn today?"},
			&cli.StringFlag{Name: "alignment", Usage: "Growth mode: did your actions match your values?"},
			&cli.StringFlag{Name: "improve-tomorrow", Usage: "Growth mode: what can you do differently tomorrow?"},
			&cli.StringFlag{Name: "highlight", Usage: "Mark as a highlight: breakthrough|win|loss"},
			&cli.StringFlag{Name: "note", Usage: "Short note on why the highlight mattered"},
		},
		Action: func(c *cli.Context) error {
			content := c.String("content")
			if stdinHasData() {
				text, err := readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				if text != "" {
					content = text
				}
			}

			input := ops.WriteEntryInput{
				Date:            c.String("date"),
				Prompt:          c.String("prompt"),
				Content:         content,
				Mode:            c.String("mode"),
				Excited:         c.String("excited"),
				Drained:         c.String("drained"),
				Grateful:        c.String("grateful"),
				Learned:         c.String("learned"),
				Alignment:       c.String("alignment"),
				ImproveTomorrow: c.String("improve-tomorrow"),
				HighlightType:   c.String("highlight"),
				HighlightNote:   c.String("note"),
			}

			output, err := ops.WriteEntry(db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// showCmd creates the show command.
func showCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a journal entry by ID or date",
		ArgsUsage: "[id]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "date", Aliases: []string{"d"}, Usage: "Entry date (YYYY-MM-DD)"},
		},
		Action: func(c *cli.Context) error {
			input := ops.GetEntryInput{
				Date: c.String("date"),
			}
			if c.NArg() > 0 {
				input.ID = c.Args().First()
			}

			output, err := ops.GetEntry(db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List journal entries, newest first",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 20, Usage: "Maximum entries to return"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Entries to skip"},
			&cli.StringFlag{Name: "since", Usage: "Only entries on or after this date (YYYY-MM-DD)"},
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Usage: "Filter by reflection mode: free|growth"},
			&cli.BoolFlag{Name: "highlights", Usage: "Only entries marked as highlights"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ListEntriesInput{
				Limit:          c.Int("limit"),
				Offset:         c.Int("offset"),
				Since:          c.String("since"),
				Mode:           c.String("mode"),
				HighlightsOnly: c.Bool("highlights"),
			}

			output, err := ops.ListEntries(db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Soft-delete a journal entry by ID or date",
		ArgsUsage: "[id]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "date", Aliases: []string{"d"}, Usage: "Entry date (YYYY-MM-DD)"},
		},
		Action: func(c *cli.Context) error {
			input := ops.DeleteEntryInput{
				Date: c.String("date"),
			}
			if c.NArg() > 0 {
				input.ID = c.Args().First()
			}

			output, err := ops.DeleteEntry(db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// curateCmd creates the curate command.
func curateCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "curate",
		Usage: "Build and save a book draft from selection criteria",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Book title (defaults to 'My Journal')"},
			&cli.StringFlag{Name: "intent", Aliases: []string{"i"}, Usage: "Free-text 'why', rendered as the preface"},
			&cli.IntFlag{Name: "days", Usage: "Selection window in days (0 = full history)"},
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Usage: "Only entries of this reflection mode"},
			&cli.BoolFlag{Name: "include-highlights", Usage: "Also include highlighted entries outside the window"},
		},
		Action: func(c *cli.Context) error {
			input := ops.CurateInput{
				Title:             c.String("title"),
				Intent:            c.String("intent"),
				Days:              c.Int("days"),
				Mode:              c.String("mode"),
				IncludeHighlights: c.Bool("include-highlights"),
			}

			output, err := ops.Curate(db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// draftCmd creates the draft command group.
func draftCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "draft",
		Usage: "Manage book drafts",
		Subcommands: []*cli.Command{
			{
				Name:  "save",
				Usage: "Create or overwrite a draft with an explicit entry selection",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "Draft ID to overwrite (omit to create)"},
					&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Required: true, Usage: "Book title"},
					&cli.StringFlag{Name: "intent", Aliases: []string{"i"}, Usage: "Free-text 'why', rendered as the preface"},
					&cli.StringFlag{Name: "start", Usage: "Criteria start date (YYYY-MM-DD, descriptive only)"},
					&cli.StringFlag{Name: "end", Usage: "Criteria end date (YYYY-MM-DD, descriptive only)"},
					&cli.StringFlag{Name: "entries", Usage: "Comma-separated ordered entry IDs"},
				},
				Action: func(c *cli.Context) error {
					input := ops.SaveDraftInput{
						ID:               c.String("id"),
						Title:            c.String("title"),
						Intent:           c.String("intent"),
						IncludedEntryIDs: splitIDs(c.String("entries")),
					}
					input.Criteria.StartDate = c.String("start")
					input.Criteria.EndDate = c.String("end")

					output, err := ops.SaveDraft(db, input)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "show",
				Usage:     "Show a draft by ID",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					output, err := ops.GetDraft(db, ops.GetDraftInput{ID: c.Args().First()})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:  "list",
				Usage: "List all drafts, most recently updated first",
				Action: func(c *cli.Context) error {
					output, err := ops.ListDrafts(db)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "delete",
				Usage:     "Permanently delete a draft (entries are untouched)",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					output, err := ops.DeleteDraft(db, ops.DeleteDraftInput{ID: c.Args().First()})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
		},
	}
}

// exportCmd creates the export command.
func exportCmd(db *sql.DB, cfg *config.Config, exporter *book.Exporter) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Render a draft as a paginated PDF book",
		ArgsUsage: "<draft-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "theme", Aliases: []string{"t"}, Usage: "Visual theme: minimal|classic|modern|nature"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ExportBookInput{
				DraftID: c.Args().First(),
				Theme:   c.String("theme"),
			}

			output, err := ops.ExportBook(context.Background(), db, cfg, exporter, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// themesCmd creates the themes command.
func themesCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "themes",
		Usage: "List the built-in book themes",
		Action: func(c *cli.Context) error {
			return outputJSON(ops.Themes(cfg))
		},
	}
}

// backupCmd creates the backup command.
func backupCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "backup",
		Usage: "Write all entries and drafts to a JSONL backup file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Backup file path (default: ~/.growthbook/exports/backup-<timestamp>.jsonl)"},
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted entries"},
		},
		Action: func(c *cli.Context) error {
			input := ops.BackupInput{
				Path:           c.String("path"),
				IncludeDeleted: c.Bool("include-deleted"),
			}

			output, err := ops.Backup(context.Background(), db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// restoreCmd creates the restore command.
func restoreCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "restore",
		Usage: "Merge a JSONL backup into the library (conflicts resolve by last write)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Required: true, Usage: "Backup file to read"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Restore(context.Background(), db, ops.RestoreInput{Path: c.String("path")})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// serveCmd creates the serve command for the web UI.
func serveCmd(db *sql.DB, cfg *config.Config, exporter *book.Exporter) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the local web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Address to bind"},
			&cli.IntFlag{Name: "port", Value: 4810, Usage: "Port to listen on"},
		},
		Action: func(c *cli.Context) error {
			srv := web.NewServer(db, cfg, exporter, Version, c.String("bind"), c.Int("port"))
			return web.Run(srv)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	var bookErr *errors.BookError
	if stderrors.As(err, &bookErr) {
		return cli.Exit(fmt.Sprintf("[%s] %s", bookErr.Code, bookErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// splitIDs splits a comma-separated list of entry IDs.
func splitIDs(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		id := strings.TrimSpace(p)
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
