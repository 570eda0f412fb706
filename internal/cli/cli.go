package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/missagar01/Housekeeping-backend-aws/internal/config"
	internal_http "github.com/missagar01/Housekeeping-backend-aws/internal/http"
	"github.com/missagar01/Housekeeping-backend-aws/internal/log"
	"github.com/missagar01/Housekeeping-backend-aws/internal/notify"
	internal_storage "github.com/missagar01/Housekeeping-backend-aws/internal/storage"
	"github.com/missagar01/Housekeeping-backend-aws/pkg/models"
	"github.com/missagar01/Housekeeping-backend-aws/pkg/service"
	"github.com/missagar01/Housekeeping-backend-aws/pkg/storage"
)

func SetupCLI(rootCmd *cobra.Command) {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the housekeeping HTTP server",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.Load()
			if port, _ := cmd.Flags().GetString("port"); port != "" {
				cfg.Port = port
			}
			store := initStore(cmd, cfg)
			defer store.Close()
			if err := internal_http.StartServer(cfg.Port, store, newNotifier(cfg)); err != nil {
				log.GetLogger().Errorf("Server stopped: %v", err)
				os.Exit(1)
			}
		},
	}
	serveCmd.Flags().String("port", "", "HTTP port (overrides PORT)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List assigned tasks",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.Load()
			store := initStore(cmd, cfg)
			defer store.Close()
			svc := service.NewTaskService(store, nil, log.GetLogger())
			department, _ := cmd.Flags().GetString("department")
			listTasks(svc, department)
		},
	}
	listCmd.Flags().String("department", "", "Filter by department")

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a single task",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.Load()
			store := initStore(cmd, cfg)
			defer store.Close()
			svc := service.NewTaskService(store, newNotifier(cfg), log.GetLogger())
			createTask(cmd, svc)
		},
	}
	createCmd.Flags().String("department", "", "Department the task belongs to")
	createCmd.Flags().String("name", "", "Assignee name")
	createCmd.Flags().String("description", "", "Task description")
	createCmd.Flags().String("start", "", "Start date (YYYY-MM-DD)")
	createCmd.Flags().String("frequency", "daily", "Frequency (daily|weekly|monthly|yearly|one-time)")

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the dashboard summary",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.Load()
			store := initStore(cmd, cfg)
			defer store.Close()
			svc := service.NewDashboardService(store, log.GetLogger())
			printStats(svc)
		},
	}

	for _, c := range []*cobra.Command{serveCmd, listCmd, createCmd, statsCmd} {
		c.Flags().String("db", "", "Database connection string (overrides DB_* env vars)")
	}
	rootCmd.AddCommand(serveCmd, listCmd, createCmd, statsCmd)
}

func newNotifier(cfg config.Config) service.Notifier {
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != 0 {
		return notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID)
	}
	return service.LogNotifier{Logger: log.GetLogger()}
}

func listTasks(svc *service.TaskService, department string) {
	tasks, err := svc.List(storage.TaskFilter{Department: department})
	if err != nil {
		log.GetLogger().Errorf("Failed to list tasks: %v", err)
		fmt.Fprintf(os.Stderr, "Error: failed to list tasks: %v\n", err)
		os.Exit(1)
	}
	if len(tasks) == 0 {
		fmt.Fprintf(os.Stdout, "No tasks found.\n")
		return
	}
	fmt.Fprintf(os.Stdout, "Tasks:\n")
	for _, t := range tasks {
		start := "-"
		if t.StartDate != nil {
			start = t.StartDate.String()
		}
		fmt.Fprintf(os.Stdout, "- ID: %d, Department: %s, Assignee: %s, Start: %s, Status: %s, Created: %s\n",
			t.ID, t.Department, t.Name, start, t.Status, t.CreatedAt.Format(time.RFC3339))
	}
}

func createTask(cmd *cobra.Command, svc *service.TaskService) {
	department, _ := cmd.Flags().GetString("department")
	name, _ := cmd.Flags().GetString("name")
	description, _ := cmd.Flags().GetString("description")
	start, _ := cmd.Flags().GetString("start")
	frequency, _ := cmd.Flags().GetString("frequency")

	task := models.Task{
		Department:  department,
		Name:        name,
		Description: description,
		Frequency:   models.Frequency(frequency),
	}
	if start != "" {
		day, err := models.ParseDate(start)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		task.StartDate = &day
	}

	created, err := svc.Create(task)
	if err != nil {
		log.GetLogger().Errorf("Failed to create task: %v", err)
		fmt.Fprintf(os.Stderr, "Error: failed to create task: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, "Created task %d for department '%s'\n", created.ID, created.Department)
}

func printStats(svc *service.DashboardService) {
	snapshot, err := svc.Summary(models.Today())
	if err != nil {
		log.GetLogger().Errorf("Failed to aggregate stats: %v", err)
		fmt.Fprintf(os.Stderr, "Error: failed to aggregate stats: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, "Total: %d\nCompleted: %d\nPending: %d\nNot done: %d\nOverdue: %d\nProgress: %d%%\n",
		snapshot.Total, snapshot.Completed, snapshot.Pending, snapshot.NotDone, snapshot.Overdue, snapshot.ProgressPercent)
}

func initStore(cmd *cobra.Command, cfg config.Config) storage.Store {
	if cfg.Storage == config.StorageMemory {
		return storage.NewMemoryStore()
	}
	connStr, _ := cmd.Flags().GetString("db")
	if connStr == "" {
		if !cfg.HasDB() {
			fmt.Fprintln(os.Stderr, "Error: --db flag or complete DB_* env vars (DB_USERNAME, DB_PASSWORD, DB_HOST, DB_PORT, DB_NAME) required")
			os.Exit(1)
		}
		connStr = cfg.DBConnStr()
	}
	store, err := internal_storage.InitStore(connStr)
	if err != nil {
		log.GetLogger().Errorf("Failed to initialize store: %v", err)
		os.Exit(1)
	}
	return store
}
