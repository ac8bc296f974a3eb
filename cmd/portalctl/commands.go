package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/linskybing/rfp-portal/internal/application"
	"github.com/linskybing/rfp-portal/internal/bootstrap"
	"github.com/linskybing/rfp-portal/internal/config"
	"github.com/spf13/cobra"
)

type appLoader func(ctx context.Context) (*bootstrap.App, error)

func loadApp(ctx context.Context) (*bootstrap.App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	return bootstrap.New(ctx, cfg, nil)
}

func newRootCommand(load appLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "portalctl",
		Short:         "Maintenance tasks for the RFP portal",
		SilenceUsage:  true,
	}
	cmd.AddCommand(newSweepDraftsCommand(load))
	cmd.AddCommand(newHashPasswordCommand())
	cmd.AddCommand(newResolveEmailCommand(load))
	return cmd
}

func newSweepDraftsCommand(load appLoader) *cobra.Command {
	var retention time.Duration
	cmd := &cobra.Command{
		Use:   "sweep-drafts",
		Short: "Delete drafts untouched for longer than the retention window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if retention < 0 {
				return fmt.Errorf("--retention must not be negative")
			}
			app, err := load(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			n, err := app.Services.Draft.Sweep(cmd.Context(), retention)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d stale draft(s)\n", n)
			return nil
		},
	}
	cmd.Flags().DurationVar(&retention, "retention", 0, "retention window (default DRAFT_RETENTION)")
	return cmd
}

func newHashPasswordCommand() *cobra.Command {
	var cost int
	cmd := &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash suitable for ADMIN_PASSWORD_HASH",
		Long:  "Hashes the argument, or the first line of stdin when no argument is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plain, err := passwordArg(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			digest, err := application.BcryptHasher{Cost: cost}.Hash(plain)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), digest)
			return nil
		},
	}
	cmd.Flags().IntVar(&cost, "cost", 0, "bcrypt cost (default 10)")
	return cmd
}

func passwordArg(args []string, in io.Reader) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", fmt.Errorf("password is required")
	}
	return line, nil
}

func newResolveEmailCommand(load appLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve-email <email>",
		Short: "Show how an email resolves against registered vendors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := load(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			res, err := app.Services.Identity.ResolveIdentity(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\t%s", application.NormalizeEmail(args[0]), res.Status)
			if res.Vendor != nil {
				fmt.Fprintf(out, "\t%s\t%s", res.Vendor.ID, res.Vendor.CompanyName)
			}
			fmt.Fprintln(out)
			return nil
		},
	}
}
