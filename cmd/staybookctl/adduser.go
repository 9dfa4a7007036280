package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"staybook/internal/auth"
	"staybook/internal/domain"
	"staybook/internal/shared"
	mysqlrepo "staybook/internal/storage/mysql"
	"staybook/internal/validation"
)

type accountStore interface {
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	UpsertUser(ctx context.Context, u domain.User) error
}

type accountInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"oneof=admin user"`
}

// saveAccount creates the account, or updates password and role of an
// existing one while keeping its id.
func saveAccount(ctx context.Context, store accountStore, in accountInput) (domain.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validation.Struct(in); err != nil {
		return domain.User{}, err
	}

	id := uuid.NewString()
	existing, err := store.GetUserByEmail(ctx, in.Email)
	switch {
	case err == nil:
		id = existing.ID
	case !errors.Is(err, domain.ErrNotFound):
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	u := domain.User{ID: id, Email: in.Email, PasswordHash: hash, Role: in.Role}
	if err := store.UpsertUser(ctx, u); err != nil {
		return domain.User{}, fmt.Errorf("upsert user: %w", err)
	}
	return u, nil
}

// adduserCommand creates or updates a login account, e.g. to seed an admin.
func adduserCommand(cfg shared.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "adduser",
		Short: "Creates or updates a login account",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			role, _ := cmd.Flags().GetString("role")

			db, closeDB, err := openDB(cmd.Context(), cfg.MySQLDSN)
			if err != nil {
				return err
			}
			defer closeDB()

			u, err := saveAccount(cmd.Context(), mysqlrepo.New(db), accountInput{Email: email, Password: password, Role: role})
			if err != nil {
				return err
			}
			log.Info().Str("id", u.ID).Str("email", u.Email).Str("role", u.Role).Msg("user saved")
			return nil
		},
	}

	cmd.Flags().String("email", "", "Login email")
	cmd.Flags().String("password", "", "Password (min 6 characters)")
	cmd.Flags().String("role", domain.RoleUser, "Account role: admin or user")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
