package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"carta/internal/model"
	"carta/internal/repository"
	"carta/internal/service"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// NewHashPasswordCommand prints the bcrypt hash of a password read from
// the argument or, when absent, from the first line of stdin.
func NewHashPasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print the bcrypt hash of a password",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := passwordArg(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			hash, err := service.HashPassword(pw)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func passwordArg(in io.Reader, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	pw := strings.TrimRight(line, "\r\n")
	if pw == "" {
		return "", errors.New("password required")
	}
	return pw, nil
}

type seedAdminOptions struct {
	Email    string
	Nombre   string
	Password string
}

// NewSeedAdminCommand creates or promotes an admin account. It is the only
// way to bootstrap the first admin of an empty database.
func NewSeedAdminCommand(root *RootOptions) *cobra.Command {
	opts := &seedAdminOptions{}
	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create or promote an admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := root.openDB()
			if err != nil {
				return err
			}
			creado, err := SeedAdmin(cmd.Context(), repository.NewUsuarioRepository(db), opts.Email, opts.Nombre, opts.Password)
			if err != nil {
				return err
			}
			accion := "promoted"
			if creado {
				accion = "created"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin %s: %s\n", accion, strings.ToLower(opts.Email))
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.Email, "email", "", "admin email")
	cmd.Flags().StringVar(&opts.Nombre, "nombre", "Administrador", "display name")
	cmd.Flags().StringVar(&opts.Password, "password", "", "initial password (min 8 chars)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

// SeedAdmin makes email an active admin, creating the account when missing.
// An existing account keeps its password. Reports whether it was created.
func SeedAdmin(ctx context.Context, repo repository.UsuarioRepository, email, nombre, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false, errors.New("email required")
	}

	u, err := repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		u.Rol = model.RolAdmin
		u.Activo = true
		return false, repo.Update(ctx, u)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return false, err
	}

	if len(password) < 8 {
		return false, errors.New("password must have at least 8 characters")
	}
	hash, err := service.HashPassword(password)
	if err != nil {
		return false, err
	}
	return true, repo.Create(ctx, &model.Usuario{
		Email:        email,
		Nombre:       nombre,
		PasswordHash: hash,
		Rol:          model.RolAdmin,
		Activo:       true,
	})
}
