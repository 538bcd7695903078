package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/prodsmart/core/cmd/prodsmart/commands"
)

// @title ProdSmart API
// @version 1.0
// @description Personal productivity dashboard backend: tasks, reminders, learning schedules, notifications and notes.

// @contact.name ProdSmart Support
// @contact.url https://github.com/prodsmart/core

// @license.name MIT
// @license.url https://github.com/prodsmart/core/blob/main/LICENSE

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	rootCmd := &cobra.Command{
		Use:   "prodsmart",
		Short: "ProdSmart productivity dashboard",
		Long:  `ProdSmart is a personal productivity dashboard with tasks, reminders, learning schedules, notifications and notes, kept in sync across views.`,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewLocalCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewUserCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
