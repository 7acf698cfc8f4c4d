// Command storeratectl performs administrative tasks against the database:
//
//	storeratectl migrate
//	storeratectl create-admin --name "Site Admin" --email admin@example.com --password 'Secret#123' --address "HQ"
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"storerate/internal/apperr"
	"storerate/internal/config"
	"storerate/internal/database"
	"storerate/internal/handlers"
	"storerate/internal/logging"
	"storerate/internal/models"
	"storerate/internal/repositories"
	"storerate/internal/services"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: storeratectl <migrate|create-admin> [flags]")
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		usage(out)
		return fmt.Errorf("missing command")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	switch args[0] {
	case "migrate":
		db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN, log)
		if err != nil {
			return err
		}
		defer database.Close(db)
		if err := database.Migrate(db); err != nil {
			return err
		}
		fmt.Fprintln(out, "migration complete")
		return nil

	case "create-admin":
		in, err := parseAdminFlags(args[1:])
		if err != nil {
			return err
		}
		db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN, log)
		if err != nil {
			return err
		}
		defer database.Close(db)
		if err := database.Migrate(db); err != nil {
			return err
		}
		users := services.NewUserService(
			repositories.NewGORMUserRepository(db),
			repositories.NewGORMStoreRepository(db),
			repositories.NewGORMRatingRepository(db),
			services.NewBcryptHasher(cfg.BcryptCost),
		)
		view, err := users.Create(context.Background(), in)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "created admin %s (%s)\n", view.Email, view.ID)
		return nil

	default:
		usage(out)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// adminFlags carries the rules the API applies to admin-created accounts.
type adminFlags struct {
	Name     string `json:"name" validate:"min=3,max=60"`
	Email    string `json:"email" validate:"email,max=255"`
	Password string `json:"password" validate:"min=8,max=16,strongpassword"`
	Address  string `json:"address" validate:"min=1,max=400"`
}

func parseAdminFlags(args []string) (services.CreateUserInput, error) {
	fs := pflag.NewFlagSet("create-admin", pflag.ContinueOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "login email")
	password := fs.StringP("password", "p", "", "initial password")
	address := fs.String("address", "", "postal address")
	if err := fs.Parse(args); err != nil {
		return services.CreateUserInput{}, err
	}

	in := services.CreateUserInput{
		Name:     strings.TrimSpace(*name),
		Email:    strings.ToLower(strings.TrimSpace(*email)),
		Password: *password,
		Address:  strings.TrimSpace(*address),
		Role:     models.RoleAdmin,
	}
	var missing []string
	if in.Name == "" {
		missing = append(missing, "--name")
	}
	if in.Email == "" {
		missing = append(missing, "--email")
	}
	if in.Password == "" {
		missing = append(missing, "--password")
	}
	if in.Address == "" {
		missing = append(missing, "--address")
	}
	if len(missing) > 0 {
		return in, fmt.Errorf("missing required flags: %s", strings.Join(missing, ", "))
	}

	err := handlers.NewValidator().Struct(adminFlags{
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
		Address:  in.Address,
	})
	var verr *apperr.Error
	if errors.As(err, &verr) {
		problems := make([]string, len(verr.Fields))
		for i, f := range verr.Fields {
			problems[i] = "--" + f.Field + ": " + f.Message
		}
		return in, fmt.Errorf("invalid flags: %s", strings.Join(problems, "; "))
	}
	return in, err
}
