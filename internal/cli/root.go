package cli

import (
	"context"
	"crypto/cipher"
	"fmt"

	"chatbot-admin/internal/config"
	"chatbot-admin/internal/crypto"
	"chatbot-admin/internal/database"
	"chatbot-admin/internal/id"
	"chatbot-admin/internal/logging"
	"chatbot-admin/internal/store/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

// NewRootCommand assembles the command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "chatbot-admin",
		Short:         "Chatbot administration backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCommand(),
		newWorkerCommand(),
		newMigrateCommand(),
		newSeedCommand(),
		newUsersCommand(),
		newDocumentsCommand(),
	)
	return root
}

// app is the shared runtime every command except migrate builds on.
type app struct {
	cfg   *config.Config
	pool  *pgxpool.Pool
	store *postgres.PostgresStore
	aead  cipher.AEAD
}

// loadConfig reads configuration and configures the global logger and id node.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat, cfg.Env)
	if err := id.Init(cfg.NodeID); err != nil {
		return nil, fmt.Errorf("initializing id generator: %w", err)
	}
	return cfg, nil
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			return nil, err
		}
	}

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	aead, err := crypto.NewAESGCM(cfg.EncryptionKey)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating AES-GCM cipher: %w", err)
	}

	return &app{
		cfg:   cfg,
		pool:  pool,
		store: postgres.NewPostgresStore(pool),
		aead:  aead,
	}, nil
}

func (a *app) Close() {
	a.pool.Close()
}
