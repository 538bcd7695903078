package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/prodsmart/core/internal/adapters/localstore"
	"github.com/prodsmart/core/internal/adapters/remote"
	"github.com/prodsmart/core/internal/adapters/repository"
	"github.com/prodsmart/core/internal/domain/entities"
	"github.com/prodsmart/core/internal/infrastructure/config"
	"github.com/prodsmart/core/internal/infrastructure/database"
	"github.com/prodsmart/core/internal/infrastructure/logger"
	"github.com/prodsmart/core/internal/infrastructure/server"
	"github.com/prodsmart/core/internal/notify"
	"github.com/prodsmart/core/internal/ports"
	storesync "github.com/prodsmart/core/internal/sync"
	"github.com/prodsmart/core/internal/views"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the ProdSmart API server",
		Long:  "Start the ProdSmart backend API server with all configured routes and middleware",
		Run: func(cmd *cobra.Command, args []string) {
			runServer()
		},
	}
}

// NewLocalCommand creates the local dashboard command
func NewLocalCommand() *cobra.Command {
	localCmd := &cobra.Command{
		Use:   "local",
		Short: "Run the local-first dashboard",
		Long:  "Run the dashboard against the on-disk store: arms pending reminder and schedule timers, watches the store for external changes and delivers notifications to the terminal. With --remote, the collections are backed by the configured API instead of local files",
		Run: func(cmd *cobra.Command, args []string) {
			remoteMode, _ := cmd.Flags().GetBool("remote")
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			runLocal(remoteMode, email, password)
		},
	}

	localCmd.Flags().Bool("remote", false, "Back the collections with the remote API")
	localCmd.Flags().String("email", "", "Account email for --remote login")
	localCmd.Flags().String("password", "", "Account password for --remote login")
	return localCmd
}

// NewMigrateCommand creates the migrate command with subcommands
func NewMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
		Long:  "Manage database migrations (up, down, version)",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Run all up migrations",
		Run: func(cmd *cobra.Command, args []string) {
			runMigration("up")
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Run all down migrations",
		Run: func(cmd *cobra.Command, args []string) {
			runMigration("down")
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print current migration version",
		Run: func(cmd *cobra.Command, args []string) {
			showMigrationVersion()
		},
	})

	return migrateCmd
}

// NewUserCommand creates the user management command
func NewUserCommand() *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "User management commands",
		Long:  "Create and manage users in the system",
	}

	createUserCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new user",
		Run: func(cmd *cobra.Command, args []string) {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			name, _ := cmd.Flags().GetString("name")

			if email == "" || password == "" {
				log.Fatal("Email and password are required")
			}

			createUser(email, password, name)
		},
	}

	createUserCmd.Flags().String("email", "", "User email (required)")
	createUserCmd.Flags().String("password", "", "User password (required)")
	createUserCmd.Flags().String("name", "", "User display name")

	userCmd.AddCommand(createUserCmd)
	return userCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print ProdSmart version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("ProdSmart Core v1.0.0")
		},
	}
}

func runServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	db, err := database.New(cfg.Database)
	if err != nil {
		appLogger.Fatalw("Failed to connect to database", "error", err)
	}
	defer db.Close()

	bus := storesync.New(appLogger)

	// Timer delivery belongs to the local app; the backend only persists, so
	// no scheduler is wired here.
	srv, err := server.New(cfg, db, nil, bus, appLogger)
	if err != nil {
		appLogger.Fatalw("Failed to initialize server", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		appLogger.Infow("Starting ProdSmart API server",
			"port", cfg.Server.Port,
			"environment", cfg.App.Environment,
		)
		if err := srv.Start(); err != nil {
			appLogger.Errorw("Server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Errorw("Graceful shutdown failed", "error", err)
	}
}

func runLocal(remoteMode bool, email, password string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	fs, err := localstore.NewFileStore(cfg.Storage.Dir)
	if err != nil {
		appLogger.Fatalw("Failed to open local store", "error", err, "dir", cfg.Storage.Dir)
	}
	keys := localstore.Keys{Namespace: cfg.Storage.Namespace}

	bus := storesync.New(appLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		tasks         ports.TaskStore
		reminders     ports.ReminderStore
		schedules     ports.ScheduleStore
		notifications ports.NotificationStore
	)
	if remoteMode {
		auth := remote.NewAuth(remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.Timeout, nil, appLogger))
		if err := openRemoteSession(ctx, auth, fs, keys, email, password, appLogger); err != nil {
			appLogger.Fatalw("Failed to open remote session", "error", err, "base_url", cfg.Remote.BaseURL)
		}
		client := remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.Timeout, auth, appLogger)
		tasks = remote.NewTaskStore(client)
		reminders = remote.NewReminderStore(client)
		schedules = remote.NewScheduleStore(client)
		notifications = remote.NewNotificationStore(client)
	} else {
		tasks = localstore.NewTaskStore(fs, keys)
		reminders = localstore.NewReminderStore(fs, keys)
		schedules = localstore.NewScheduleStore(fs, keys)
		notifications = localstore.NewNotificationStore(fs, keys)
	}

	scheduler := notify.NewScheduler(
		notify.StaticPermission(notify.PermissionGranted),
		notify.NewConsoleSender(os.Stdout),
		notifications,
		bus,
		appLogger,
	)
	defer scheduler.Stop()

	if err := scheduler.Rearm(ctx, reminders, schedules); err != nil {
		appLogger.Warnw("Failed to rearm pending timers", "error", err)
	}

	dashboard := views.NewDashboard(tasks, reminders, schedules, notifications, appLogger)
	if err := dashboard.Attach(ctx, bus); err != nil {
		appLogger.Fatalw("Failed to attach dashboard", "error", err)
	}
	defer dashboard.Detach()

	// Only the file-backed stores have a directory to watch; the remote
	// backing reloads on demand instead.
	if !remoteMode {
		watcher, err := localstore.NewWatcher(fs, keys, bus, appLogger)
		if err != nil {
			appLogger.Fatalw("Failed to start store watcher", "error", err)
		}
		go func() {
			if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
				appLogger.Errorw("Store watcher stopped", "error", err)
			}
		}()
	}

	snapshot := dashboard.Snapshot()
	fmt.Printf("%s: %d/%d\n", snapshot.TaskProgress.Label, snapshot.TaskProgress.Completed, snapshot.TaskProgress.Total)
	fmt.Printf("%s: %d/%d\n", snapshot.LearningProgress.Label, snapshot.LearningProgress.Completed, snapshot.LearningProgress.Total)
	appLogger.Infow("Dashboard running",
		"pending_timers", scheduler.Pending(),
		"store_dir", cfg.Storage.Dir,
	)

	<-ctx.Done()
}

// openRemoteSession restores the persisted session when the backend still
// accepts it, otherwise logs in with the given credentials. The resulting
// session is persisted the same way the offline capability persists its own:
// the full session under one key, the signed-in user mirrored under another.
func openRemoteSession(ctx context.Context, auth *remote.Auth, kv ports.KeyValueStore, keys localstore.Keys, email, password string, appLogger *logger.Logger) error {
	if data, found, err := kv.Get(keys.Session()); err == nil && found {
		var session ports.Session
		if json.Unmarshal(data, &session) == nil && session.Token != "" {
			auth.Restore(&session)
			if auth.CheckAuth(ctx) {
				appLogger.Infow("Restored persisted session")
				return nil
			}
			appLogger.Infow("Persisted session no longer valid")
			auth.Restore(nil)
		}
	}

	if email == "" || password == "" {
		return fmt.Errorf("no valid session: pass --email and --password to log in")
	}
	session, err := auth.Login(ctx, email, password)
	if err != nil {
		return err
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := kv.Set(keys.Session(), data); err != nil {
		return err
	}
	user, err := json.Marshal(session.User)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	return kv.Set(keys.CurrentUser(), user)
}

func runMigration(direction string) {
	m := newMigrator()

	var err error
	switch direction {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	}

	if err != nil && err != migrate.ErrNoChange {
		log.Fatalf("Migration failed: %v", err)
	}

	if err == migrate.ErrNoChange {
		fmt.Println("No migrations to run")
	} else {
		fmt.Printf("Migration %s completed successfully\n", direction)
	}
}

func showMigrationVersion() {
	m := newMigrator()

	version, dirty, err := m.Version()
	if err != nil {
		log.Fatalf("Failed to get migration version: %v", err)
	}

	fmt.Printf("Current migration version: %d\n", version)
	fmt.Printf("Dirty: %t\n", dirty)
}

func newMigrator() *migrate.Migrate {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	var driver migratedb.Driver
	switch db.Driver() {
	case "postgres":
		driver, err = postgres.WithInstance(db.DB.DB, &postgres.Config{})
	default:
		driver, err = sqlite.WithInstance(db.DB.DB, &sqlite.Config{})
	}
	if err != nil {
		log.Fatalf("Failed to create migration driver: %v", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", db.Driver(), driver)
	if err != nil {
		log.Fatalf("Failed to create migration instance: %v", err)
	}
	return m
}

func createUser(email, password, name string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := &entities.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hashedPassword),
	}
	if err := repository.NewUserRepository(db).Create(context.Background(), user); err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Printf("User created successfully:\n")
	fmt.Printf("  ID: %s\n", user.ID)
	fmt.Printf("  Email: %s\n", user.Email)
	if name != "" {
		fmt.Printf("  Name: %s\n", user.Name)
	}
}
