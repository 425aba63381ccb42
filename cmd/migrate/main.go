package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/Beikwaw/RezTek/internal/model"
	"github.com/Beikwaw/RezTek/pkg/config"
	"github.com/Beikwaw/RezTek/pkg/database"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration and seeding for the maintenance portal",
	}

	rootCmd.AddCommand(upCmd(), seedAdminCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func connect() (*config.Config, error) {
	cfg, err := config.Load("reztek-portal")
	if err != nil {
		return nil, err
	}
	if _, err := database.InitDB(&cfg.DB); err != nil {
		return nil, err
	}
	return cfg, nil
}

func upCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply schema migrations for all portal models",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := connect(); err != nil {
				return err
			}

			if err := database.MigrateModels(
				&model.Tenant{},
				&model.Admin{},
				&model.MaintenanceRequest{},
				&model.Feedback{},
				&model.StockItem{},
				&model.StockTransaction{},
			); err != nil {
				return err
			}

			fmt.Println("Migrations applied")
			return nil
		},
	}
}

func seedAdminCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the administrator account if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := connect()
			if err != nil {
				return err
			}

			if cfg.Admin.Password == "" {
				return fmt.Errorf("ADMIN_PASSWORD must be set to seed the admin account")
			}

			var count int64
			database.GetDB().Model(&model.Admin{}).Where("email = ?", cfg.Admin.Email).Count(&count)
			if count > 0 {
				fmt.Printf("Admin account %s already exists\n", cfg.Admin.Email)
				return nil
			}

			hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.Admin.Password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}

			admin := model.Admin{
				Username: cfg.Admin.Username,
				Email:    cfg.Admin.Email,
				Password: string(hashed),
				Role:     model.RoleAdmin,
			}
			if result := database.GetDB().Create(&admin); result.Error != nil {
				return result.Error
			}

			fmt.Printf("Admin account %s created\n", cfg.Admin.Email)
			return nil
		},
	}
}
