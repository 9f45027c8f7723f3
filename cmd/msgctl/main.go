package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"msgcore/internal/config"
	"msgcore/internal/contacts"
	"msgcore/internal/db"
	"msgcore/internal/keywords"
	"msgcore/internal/models"
	"msgcore/internal/shortcuts"
)

// services are the stores a command operates on.
type services struct {
	store    *keywords.Store
	registry *shortcuts.Registry
	close    func()
}

// openServices connects to the configured database and inventory. Tests
// replace it.
var openServices = func(ctx context.Context) (*services, error) {
	cfg := config.Load()

	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		database.Close()
		return nil, err
	}

	yamlCfg, err := config.LoadYAMLConfig(cfg.ConfigFile)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("load %s: %w", cfg.ConfigFile, err)
	}

	var inventory *shortcuts.KVInventory
	if cfg.UsesRedis() {
		inventory = shortcuts.NewRedisInventory(cfg.RedisURL, cfg.MaxShortcuts)
	} else {
		fmt.Fprintln(os.Stderr, "note: SHORTCUT_BACKEND is not redis, shortcut changes last for this command only")
		inventory = shortcuts.NewMemoryInventory(cfg.MaxShortcuts)
	}

	builder := shortcuts.NewBuilder(database, contacts.NewResolver(yamlCfg.GetPalette()))
	return &services{
		store:    keywords.NewStore(database, cfg.ExportDir),
		registry: shortcuts.NewRegistry(inventory, builder),
		close: func() {
			inventory.Close()
			database.Close()
		},
	}, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "msgctl",
		Short:        "Administer blocked keywords and conversation shortcuts",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(keywordsCmd())
	rootCmd.AddCommand(shortcutsCmd())
	return rootCmd
}

// withServices opens the services for the duration of fn.
func withServices(cmd *cobra.Command, fn func(ctx context.Context, s *services) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := openServices(ctx)
	if err != nil {
		return err
	}
	defer s.close()
	return fn(ctx, s)
}

func keywordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keywords",
		Short: "Manage blocked keywords",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List blocked keywords",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(ctx context.Context, s *services) error {
				list, err := s.store.Keywords(ctx)
				if err != nil {
					return err
				}
				for _, k := range list {
					fmt.Fprintln(cmd.OutOrStdout(), k)
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <keyword>",
		Short: "Block a keyword",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(ctx context.Context, s *services) error {
				added, err := s.store.Add(ctx, args[0])
				if err != nil {
					return err
				}
				if !added {
					fmt.Fprintf(cmd.OutOrStdout(), "already blocked: %s\n", args[0])
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "blocked: %s\n", args[0])
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <keyword>",
		Short: "Unblock a keyword",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(ctx context.Context, s *services) error {
				removed, err := s.store.Remove(ctx, args[0])
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("keyword not found: %s", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "unblocked: %s\n", args[0])
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "import <path>",
		Short: "Merge newline-separated keywords from a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(ctx context.Context, s *services) error {
				result, err := s.store.ImportFrom(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), result.Message())
				if result != models.ImportOK {
					return fmt.Errorf("import failed")
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "export <path>",
		Short: "Write blocked keywords to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(ctx context.Context, s *services) error {
				result, err := s.store.ExportToFile(ctx, args[0])
				if keywords.IsNothingToExport(err) {
					return fmt.Errorf("%s", models.NoEntriesForExportingMessage)
				}
				if err != nil {
					return fmt.Errorf("%s: %w", result.Message(), err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), result.Message())
				return nil
			})
		},
	})

	return cmd
}

func parseThreadArg(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid thread id: %s", arg)
	}
	return id, nil
}

func shortcutsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shortcuts",
		Short: "Manage conversation shortcuts",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List published shortcuts, best rank first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(ctx context.Context, s *services) error {
				list, err := s.registry.ListAll(ctx)
				if err != nil {
					return err
				}
				for _, sc := range list {
					fmt.Fprintln(cmd.OutOrStdout(), sc.String())
				}
				return nil
			})
		},
	})

	var noLookup bool
	syncCmd := &cobra.Command{
		Use:   "sync <threadID>",
		Short: "Create or update the shortcut for a thread",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			threadID, err := parseThreadArg(args[0])
			if err != nil {
				return err
			}
			return withServices(cmd, func(ctx context.Context, s *services) error {
				sc, err := s.registry.CreateOrUpdateThread(ctx, threadID, !noLookup)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), sc.String())
				return nil
			})
		},
	}
	syncCmd.Flags().BoolVar(&noLookup, "no-lookup", false, "skip conversation lookup and publish a placeholder")
	cmd.AddCommand(syncCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <threadID>",
		Short: "Remove the shortcut for a thread",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			threadID, err := parseThreadArg(args[0])
			if err != nil {
				return err
			}
			return withServices(cmd, func(ctx context.Context, s *services) error {
				removed, err := s.registry.RemoveOne(ctx, threadID)
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("no shortcut for thread %d", threadID)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed shortcut %d\n", threadID)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every shortcut",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(ctx context.Context, s *services) error {
				if err := s.registry.RemoveAll(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "removed all shortcuts")
				return nil
			})
		},
	})

	return cmd
}
