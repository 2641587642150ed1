package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/internal/repository/postgres"
	"github.com/jwalitptl/clinic-records/internal/service/auth"
	apperrors "github.com/jwalitptl/clinic-records/pkg/errors"
	"github.com/jwalitptl/clinic-records/pkg/security"
)

func initDBCmd() *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "init-db",
		Short: "Create the database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bootstrap()
			if err != nil {
				return err
			}

			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			if reset {
				log.Warn().Msg("dropping all tables")
				if err := postgres.Reset(ctx, db); err != nil {
					return err
				}
			}
			if err := postgres.Migrate(ctx, db); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Initialized the database.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "drop existing tables first")
	return cmd
}

func createUserCmd() *cobra.Command {
	var username, password, role string

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a login account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bootstrap()
			if err != nil {
				return err
			}

			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			if err := postgres.Migrate(ctx, db); err != nil {
				return err
			}

			svc := auth.NewService(postgres.NewUserRepository(db), security.NewBcryptHasher(bcrypt.DefaultCost))
			user, err := svc.CreateUser(ctx, username, password, model.Role(role))
			if apperrors.IsConflict(err) {
				fmt.Fprintf(cmd.OutOrStdout(), "User %q already exists.\n", username)
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s user %q (id %d).\n", user.Role, user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "login name")
	cmd.Flags().StringVar(&password, "password", "", "password")
	cmd.Flags().StringVar(&role, "role", string(model.RoleAdmin), "admin, doctor, nurse or clerk")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
