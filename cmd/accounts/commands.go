package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/solehaus/wholesale-backend/internal/buyers"
	"github.com/solehaus/wholesale-backend/pkg/config"
	"github.com/solehaus/wholesale-backend/pkg/security"
)

const generatedPasswordLength = 20

type app struct {
	passwords  config.PasswordConfig
	openBuyers func(ctx context.Context) (*buyers.Repository, func(), error)
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "accounts",
		Short:         "Manage the admin password and buyer accounts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(a.hashPasswordCmd(), a.createBuyerCmd(), a.setBuyerActiveCmd())
	return root
}

func (a *app) hashPasswordCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Print an argon2id hash for SOLEHAUS_ADMIN_PASSWORD_HASH",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			generated := password == ""
			plain, err := passwordOrGenerated(password)
			if err != nil {
				return err
			}
			hash, err := security.HashPassword(plain, a.passwords)
			if err != nil {
				return err
			}
			if generated {
				fmt.Fprintf(cmd.OutOrStdout(), "password: %s\n", plain)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "hash: %s\n", hash)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "password to hash; generated when empty")
	return cmd
}

func (a *app) createBuyerCmd() *cobra.Command {
	var (
		email, company, contact, phone, password string
	)
	cmd := &cobra.Command{
		Use:   "create-buyer",
		Short: "Create an active buyer account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(email) == "" || strings.TrimSpace(company) == "" || strings.TrimSpace(contact) == "" {
				return errors.New("--email, --company and --contact are required")
			}
			generated := password == ""
			plain, err := passwordOrGenerated(password)
			if err != nil {
				return err
			}
			hash, err := security.HashPassword(plain, a.passwords)
			if err != nil {
				return err
			}

			repo, closeFn, err := a.openBuyers(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			dto := buyers.CreateBuyerDTO{
				Email:        email,
				PasswordHash: hash,
				CompanyName:  company,
				ContactName:  contact,
			}
			if p := strings.TrimSpace(phone); p != "" {
				dto.Phone = &p
			}
			buyer, err := repo.Create(cmd.Context(), dto)
			if err != nil {
				return fmt.Errorf("create buyer: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "buyer %d created for %s\n", buyer.ID, buyer.Email)
			if generated {
				fmt.Fprintf(cmd.OutOrStdout(), "password: %s\n", plain)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&company, "company", "", "company name")
	cmd.Flags().StringVar(&contact, "contact", "", "contact name")
	cmd.Flags().StringVar(&phone, "phone", "", "contact phone")
	cmd.Flags().StringVar(&password, "password", "", "initial password; generated when empty")
	return cmd
}

func (a *app) setBuyerActiveCmd() *cobra.Command {
	var (
		id     int64
		active bool
	)
	cmd := &cobra.Command{
		Use:   "set-buyer-active",
		Short: "Activate or deactivate a buyer; inactive buyers cannot log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if id <= 0 {
				return errors.New("--id must be positive")
			}
			repo, closeFn, err := a.openBuyers(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			if err := repo.SetActive(cmd.Context(), id, active); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("buyer %d not found", id)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "buyer %d active=%t\n", id, active)
			return nil
		},
	}
	cmd.Flags().Int64Var(&id, "id", 0, "buyer id")
	cmd.Flags().BoolVar(&active, "active", true, "desired state")
	return cmd
}

func passwordOrGenerated(password string) (string, error) {
	if password != "" {
		return password, nil
	}
	return security.GeneratePassword(generatedPasswordLength)
}
