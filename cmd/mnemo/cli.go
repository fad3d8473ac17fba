package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/mnemo/internal/errors"
	"github.com/hpungsan/mnemo/internal/memory"
	"github.com/hpungsan/mnemo/internal/ops"
	"github.com/hpungsan/mnemo/internal/suggest"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(env *ops.Env) *cli.App {
	app := &cli.App{
		Name:    "mnemo",
		Usage:   "Content analysis and storage decision engine",
		Version: Version,
		Commands: []*cli.Command{
			analyzeCmd(env),
			suggestCmd(env),
			approveCmd(env),
			rejectCmd(env),
			pendingCmd(env),
			cleanupCmd(env),
			settingsCmd(env),
			insightsCmd(env),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// sampleFlags are shared by analyze and suggest.
func sampleFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "session", Aliases: []string{"s"}, Required: true, Usage: "Session identifier"},
		&cli.StringFlag{Name: "source-tool", Usage: "Tool the content came from"},
		&cli.StringFlag{Name: "project", Aliases: []string{"p"}, Usage: "Project identifier"},
	}
}

// analyzeCmd creates the analyze command.
func analyzeCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "Classify content and preview the storage decision (reads text from stdin)",
		Flags: sampleFlags(),
		Action: func(c *cli.Context) error {
			text, err := requireStdinText()
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Analyze(context.Background(), env, ops.AnalyzeInput{
				Text:       text,
				SessionID:  c.String("session"),
				SourceTool: c.String("source-tool"),
				ProjectID:  c.String("project"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// suggestCmd creates the suggest command.
func suggestCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "suggest",
		Usage: "Run the full storage pipeline on content (reads text from stdin)",
		Flags: sampleFlags(),
		Action: func(c *cli.Context) error {
			text, err := requireStdinText()
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Suggest(context.Background(), env, ops.SuggestInput{
				Text:       text,
				SessionID:  c.String("session"),
				SourceTool: c.String("source-tool"),
				ProjectID:  c.String("project"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// approveCmd creates the approve command.
func approveCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "approve",
		Usage:     "Approve a pending suggestion, storing it as a memory",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "text", Usage: "Override the stored text"},
			&cli.StringFlag{Name: "category", Usage: "Override the category"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ApproveInput{ID: c.Args().First()}

			if c.IsSet("text") || c.IsSet("category") {
				input.Edits = &suggest.Edits{
					Text:     c.String("text"),
					Category: memory.Category(c.String("category")),
				}
			}

			output, err := ops.Approve(context.Background(), env, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// rejectCmd creates the reject command.
func rejectCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "reject",
		Usage:     "Reject a pending suggestion",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "feedback", Aliases: []string{"f"}, Usage: "Why the suggestion was declined"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Reject(context.Background(), env, ops.RejectInput{
				ID:       c.Args().First(),
				Feedback: c.String("feedback"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// pendingCmd creates the pending command.
func pendingCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "pending",
		Usage: "List suggestions awaiting a decision",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "session", Aliases: []string{"s"}, Usage: "Restrict to one session"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Pending(context.Background(), env, ops.PendingInput{
				SessionID: c.String("session"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// cleanupCmd creates the cleanup command.
func cleanupCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "cleanup",
		Usage: "Expire pending suggestions older than the retention period",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "retention-days", Usage: "Override the configured retention period"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Cleanup(context.Background(), env, ops.CleanupInput{
				RetentionDays: c.Int("retention-days"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// settingsCmd creates the settings command with its subcommands.
func settingsCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "Inspect and change engine settings",
		Subcommands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "Get the effective value of one setting",
				ArgsUsage: "<key>",
				Action: func(c *cli.Context) error {
					output, err := ops.SettingsGet(context.Background(), env, ops.SettingsGetInput{
						Key: c.Args().First(),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "set",
				Usage:     "Set a setting (values are validated)",
				ArgsUsage: "<key> <value>",
				Action: func(c *cli.Context) error {
					if c.NArg() < 2 {
						return outputError(errors.NewInvalidRequest("usage: settings set <key> <value>"))
					}
					output, err := ops.SettingsSet(context.Background(), env, ops.SettingsSetInput{
						Key:   c.Args().Get(0),
						Value: c.Args().Get(1),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:  "list",
				Usage: "List every setting and its effective value",
				Action: func(c *cli.Context) error {
					output, err := ops.SettingsList(context.Background(), env)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:  "reset",
				Usage: "Restore every setting to its default",
				Action: func(c *cli.Context) error {
					output, err := ops.SettingsReset(context.Background(), env)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
		},
	}
}

// insightsCmd creates the insights command.
func insightsCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "insights",
		Usage: "Report suggestion outcomes and learned thresholds per category",
		Action: func(c *cli.Context) error {
			output, err := ops.Insights(context.Background(), env)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// Helper functions

// requireStdinText reads piped text from stdin, failing if absent.
func requireStdinText() (string, error) {
	if !stdinHasData() {
		return "", errors.NewInvalidRequest("text must be piped via stdin")
	}
	text, err := readStdin()
	if err != nil {
		return "", errors.NewInternal(err)
	}
	if text == "" {
		return "", errors.NewInvalidRequest("text is required")
	}
	return text, nil
}

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if mnemoErr, ok := err.(*errors.MnemoError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", mnemoErr.Code, mnemoErr.Message), 1)
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
