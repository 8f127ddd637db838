package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"galleryctl/internal/client/config"
	"galleryctl/internal/client/models"
	"galleryctl/internal/logging"

	"github.com/spf13/cobra"
)

// commandContext defers App construction until a command actually runs, so
// flag parsing and help output never touch the credential database.
type commandContext struct {
	addrFlag    string
	configFlag  string
	dbFlag      string
	verboseFlag bool

	app *App
}

func (c *commandContext) ensureApp(cmd *cobra.Command) (*App, error) {
	if c.app != nil {
		return c.app, nil
	}

	cfg, err := config.Load(c.configFlag)
	if err != nil {
		return nil, err
	}
	if c.addrFlag != "" {
		cfg.ServerBaseURL = c.addrFlag
	}
	if c.dbFlag != "" {
		cfg.DatabasePath = c.dbFlag
	}

	level := slog.LevelWarn
	if c.verboseFlag {
		level = slog.LevelDebug
	}
	log := logging.NewTextLogger(os.Stderr, level)

	app, err := NewApp(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := app.Start(cmd.Context()); err != nil {
		_ = app.Close()
		return nil, err
	}
	c.app = app
	return app, nil
}

func (c *commandContext) close() {
	if c.app != nil {
		_ = c.app.Close()
		c.app = nil
	}
}

func listFlags(cmd *cobra.Command, q *models.ListQuery) {
	cmd.Flags().IntVar(&q.Page, "page", 0, "Page number (1-based)")
	cmd.Flags().IntVar(&q.Size, "size", 0, "Page size")
	cmd.Flags().StringVar(&q.Type, "type", "", "Filter by type: all, image, or video")
}

func newRootCommand() (*cobra.Command, *commandContext) {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "galleryctl",
		Short:         "Command line client for the media gallery",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&ctx.addrFlag, "addr", "a", "", "Server base URL")
	rootCmd.PersistentFlags().StringVarP(&ctx.configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&ctx.dbFlag, "db", "", "Credential database path")
	rootCmd.PersistentFlags().BoolVarP(&ctx.verboseFlag, "verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(newLoginCommand(ctx))
	rootCmd.AddCommand(newRegisterCommand(ctx))
	rootCmd.AddCommand(newLogoutCommand(ctx))
	rootCmd.AddCommand(newWhoamiCommand(ctx))
	rootCmd.AddCommand(newListCommand(ctx))
	rootCmd.AddCommand(newSearchCommand(ctx))
	rootCmd.AddCommand(newShowCommand(ctx))
	rootCmd.AddCommand(newUploadCommand(ctx))
	rootCmd.AddCommand(newRemoveCommand(ctx))
	rootCmd.AddCommand(newSetTitleCommand(ctx))
	rootCmd.AddCommand(newStatsCommand(ctx))
	rootCmd.AddCommand(newDownloadCommand(ctx))
	rootCmd.AddCommand(newReplCommand(ctx))

	return rootCmd, ctx
}

func newLoginCommand(ctx *commandContext) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and persist the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := ctx.ensureApp(cmd)
			if err != nil {
				return err
			}
			return app.Login(cmd.Context(), email, password)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email (prompted when omitted)")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted when omitted)")
	return cmd
}

func newRegisterCommand(ctx *commandContext) *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := ctx.ensureApp(cmd)
			if err != nil {
				return err
			}
			return app.Register(cmd.Context(), name, email, password)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name (prompted when omitted)")
	cmd.Flags().StringVar(&email, "email", "", "Account email (prompted when omitted)")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted when omitted)")
	return cmd
}

func newLogoutCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := ctx.ensureApp(cmd)
			if err != nil {
				return err
			}
			return app.Logout(cmd.Context())
		},
	}
}

func newWhoamiCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the cached identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := ctx.ensureApp(cmd)
			if err != nil {
				return err
			}
			return app.Whoami(cmd.Context())
		},
	}
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var mine bool
	var q models.ListQuery
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List gallery files",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := ctx.ensureApp(cmd)
			if err != nil {
				return err
			}
			return app.List(cmd.Context(), mine, q)
		},
	}
	cmd.Flags().BoolVar(&mine, "mine", false, "List your own files instead of the public feed")
	listFlags(cmd, &q)
	cmd.Flags().StringVar(&q.Sort, "sort", "", "Sort key")
	cmd.Flags().StringVar(&q.Order, "order", "", "Sort order: asc or desc")
	return cmd
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var q models.ListQuery
	cmd := &cobra.Command{
		Use:   "search <text>",
		Short: "Search files by title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := ctx.ensureApp(cmd)
			if err != nil {
				return err
			}
			return app.Search(cmd.Context(), joinArgs(args), q)
		},
	}
	listFlags(cmd, &q)
	return cmd
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one file's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := ctx.ensureApp(cmd)
			if err != nil {
				return err
			}
			return app.Show(cmd.Context(), args[0])
		},
	}
}

func newUploadCommand(ctx *commandContext) *cobra.Command {
	var titles []string
	cmd := &cobra.Command{
		Use:   "upload <path> [path...]",
		Short: "Upload files in one batch",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := ctx.ensureApp(cmd)
			if err != nil {
				return err
			}
			return app.Upload(cmd.Context(), args, titles)
		},
	}
	cmd.Flags().StringArrayVar(&titles, "title", nil, "Title per file, in argument order")
	return cmd
}

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := ctx.ensureApp(cmd)
			if err != nil {
				return err
			}
			return app.Remove(cmd.Context(), args[0])
		},
	}
}

func newSetTitleCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set-title <id> <title>",
		Short: "Rename a file",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := ctx.ensureApp(cmd)
			if err != nil {
				return err
			}
			return app.SetTitle(cmd.Context(), args[0], joinArgs(args[1:]))
		},
	}
}

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show gallery counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := ctx.ensureApp(cmd)
			if err != nil {
				return err
			}
			return app.Stats(cmd.Context())
		},
	}
}

func newDownloadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "download <id> [dest]",
		Short: "Download a file",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := ctx.ensureApp(cmd)
			if err != nil {
				return err
			}
			dest := ""
			if len(args) == 2 {
				dest = args[1]
			}
			return app.Download(cmd.Context(), args[0], dest)
		},
	}
}

func newReplCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactive session",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := ctx.ensureApp(cmd)
			if err != nil {
				return err
			}
			app.Repl(cmd.Context())
			return nil
		},
	}
}

func joinArgs(args []string) string {
	return strings.Join(args, " ")
}

// Execute runs the command tree and releases App resources afterwards.
func Execute() error {
	root, cctx := newRootCommand()
	defer cctx.close()

	err := root.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}
