package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrEthical07/muhasabah"
	"github.com/MrEthical07/muhasabah/internal/database"
)

var superuser struct {
	email    string
	username string
	password string
}

var createSuperuserCmd = &cobra.Command{
	Use:   "create-superuser",
	Short: "Create an active staff superuser",
	RunE: func(cmd *cobra.Command, args []string) error {
		if superuser.email == "" || superuser.password == "" {
			return errors.New("--email and --password are required")
		}

		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close(db)

		engine, cleanup, err := buildEngine(cmd.Context(), db)
		if err != nil {
			return err
		}
		defer cleanup()

		user, err := engine.CreateSuperuser(cmd.Context(), muhasabah.NewUser{
			Email:    superuser.email,
			Username: superuser.username,
			Password: superuser.password,
		})
		if err != nil {
			var verr *muhasabah.ValidationError
			if errors.As(err, &verr) {
				return fmt.Errorf("invalid superuser: %v", verr.Fields)
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Superuser %s created (id %d)\n", user.Email, user.ID)
		return nil
	},
}

func init() {
	f := createSuperuserCmd.Flags()
	f.StringVar(&superuser.email, "email", "", "superuser email")
	f.StringVar(&superuser.username, "username", "", "superuser username")
	f.StringVar(&superuser.password, "password", "", "superuser password")
	rootCmd.AddCommand(createSuperuserCmd)
}
