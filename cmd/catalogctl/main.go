package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"stationery-catalog/internal/config"
	"stationery-catalog/internal/database"
	"stationery-catalog/internal/logger"
	"stationery-catalog/internal/service"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	envFile    string
	storeFlag  string
	sqlitePath string
)

var rootCmd = &cobra.Command{
	Use:   "catalogctl",
	Short: "Administer the stationery catalog store",
	Long: `catalogctl runs maintenance tasks against the configured store:
- migrate: apply the server schema migrations
- seed: create the admin account and default categories
- set-password: replace the admin password
- stats: print the dashboard aggregates

Configuration is read from the environment, optionally loaded from --env-file.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Path to a .env file to load before reading configuration")
	rootCmd.PersistentFlags().StringVar(&storeFlag, "store", "", "Store driver override (postgres or sqlite)")
	rootCmd.PersistentFlags().StringVar(&sqlitePath, "sqlite-path", "", "SQLite mirror path override")

	migrateCmd.Flags().Bool("status", false, "Print migration status instead of migrating")
	setPasswordCmd.Flags().String("password", "", "New password")
	_ = setPasswordCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(setPasswordCmd)
	rootCmd.AddCommand(statsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env bundles what every command needs
type env struct {
	cfg    *config.Config
	log    *zap.Logger
	store  *database.StoreHandle
	ctx    context.Context
	cancel context.CancelFunc
}

func setup(cmd *cobra.Command) (*env, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg := config.Load()
	if storeFlag != "" {
		cfg.Store.Driver = storeFlag
	}
	if sqlitePath != "" {
		cfg.SQLite.Path = sqlitePath
	}

	log, err := logger.New(cfg.Server.Env, cfg.Server.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	store, err := database.OpenStore(ctx, cfg, log)
	if err != nil {
		cancel()
		return nil, err
	}

	return &env{cfg: cfg, log: log, store: store, ctx: ctx, cancel: cancel}, nil
}

func (e *env) close() {
	e.cancel()
	if err := e.store.Close(); err != nil {
		e.log.Error("Failed to close store", zap.Error(err))
	}
	e.log.Sync()
}

func (e *env) catalog() *service.Catalog {
	return service.NewCatalog(e.store.Store, e.log, service.Options{})
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		if status, _ := cmd.Flags().GetBool("status"); status {
			return e.store.MigrationStatus()
		}

		if err := e.store.Migrate(e.log); err != nil {
			return err
		}
		fmt.Println("● Schema is up to date")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the admin account and default categories",
	Long:  `Seed is idempotent: rows that already exist are left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		if err := e.store.Migrate(e.log); err != nil {
			return err
		}

		result, err := e.catalog().Seed(e.ctx, service.DefaultSeed(
			e.cfg.Seed.AdminUsername,
			e.cfg.Seed.AdminPassword,
			e.cfg.Seed.AdminEmail,
		))
		if err != nil {
			return err
		}

		if result.AdminCreated {
			fmt.Printf("● Created admin %q\n", e.cfg.Seed.AdminUsername)
		} else {
			fmt.Printf("• Admin %q already exists\n", e.cfg.Seed.AdminUsername)
		}
		fmt.Printf("● Created %d of %d default categories\n", result.CategoriesCreated, len(service.DefaultCategories))
		return nil
	},
}

var setPasswordCmd = &cobra.Command{
	Use:   "set-password <username>",
	Short: "Replace the admin password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		password, _ := cmd.Flags().GetString("password")
		if err := e.catalog().Admins.SetPassword(e.ctx, args[0], password); err != nil {
			return err
		}
		fmt.Printf("● Password updated for %q\n", args[0])
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print entity counts and products per category",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		stats, err := e.catalog().Stats.Compute(e.ctx)
		if err != nil {
			return err
		}

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(stats)
	},
}
