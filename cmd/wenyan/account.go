package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fwojciec/wenyan"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newLoginCmd(a *app, name, short string) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := a.readPassword()
			if err != nil {
				return err
			}
			client := a.client(newNotifier(a.stderr))
			authenticate := client.Login
			if name == "register" {
				authenticate = client.Register
			}
			auth, err := authenticate(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if err := a.saveToken(auth.Token); err != nil {
				return fmt.Errorf("save session: %w", err)
			}
			fmt.Fprintf(a.stdout, "Signed in as %s\n", displayName(auth.User))
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if err := a.saveToken(""); err != nil {
				return fmt.Errorf("save session: %w", err)
			}
			fmt.Fprintln(a.stdout, "Signed out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.whoami(cmd.Context())
		},
	}
}

func (a *app) whoami(ctx context.Context) error {
	user := wenyan.GuestUser()
	if a.cfg.Token != "" {
		u, err := a.client(newNotifier(a.stderr)).User(ctx)
		if err != nil {
			return err
		}
		user = u
	}
	if user.IsGuest() {
		fmt.Fprintln(a.stdout, "guest")
		return nil
	}
	fmt.Fprintf(a.stdout, "user     %s\n", displayName(user))
	fmt.Fprintf(a.stdout, "role     %s (%s daily coins)\n", user.Role.Name, wenyan.FormatThousands(user.Role.DailyCoins))
	fmt.Fprintf(a.stdout, "balance  %s\n", wenyan.FormatThousands(user.Balance))
	fmt.Fprintf(a.stdout, "spent    %s\n", wenyan.FormatThousands(user.TotalSpent))
	return nil
}

func newBalanceCmd(a *app) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show the balance history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.client(newNotifier(a.stderr)).BalanceDetails(cmd.Context(), page)
			if err != nil {
				return err
			}
			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("TIME", "CHANGE", "BALANCE", "REASON")
			for _, it := range p.Items {
				t.Row(it.Created, signed(it.Delta), wenyan.FormatThousands(it.Remaining), it.Reason)
			}
			fmt.Fprintln(a.stdout, t.Render())
			fmt.Fprintf(a.stdout, "page %d/%d, %d entries\n", p.Page, p.TotalPages, p.TotalItems)
			return nil
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page of the history")
	return cmd
}

// readPassword prompts without echo on a terminal and reads one line
// otherwise.
func (a *app) readPassword() (string, error) {
	if f, ok := a.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(a.stderr, "Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.stderr)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func displayName(u wenyan.User) string {
	switch {
	case u.Name != "" && u.Email != "":
		return fmt.Sprintf("%s <%s>", u.Name, u.Email)
	case u.Name != "":
		return u.Name
	default:
		return u.Email
	}
}

func signed(n int64) string {
	if n > 0 {
		return "+" + wenyan.FormatThousands(n)
	}
	return wenyan.FormatThousands(n)
}
