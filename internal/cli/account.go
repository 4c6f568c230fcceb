package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/entitlement"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/model"
)

func newCreateCmd(getApp appGetter) *cobra.Command {
	var (
		role     string
		password string
	)

	cmd := &cobra.Command{
		Use:   "create <email>",
		Short: "Create an account on a fresh trial",
		Long:  "Create an account on a fresh trial. This is the only way to create administrator accounts.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := entitlement.ParseRole(role)
			if err != nil {
				return err
			}

			var hash string
			if password != "" {
				b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
				if err != nil {
					return fmt.Errorf("hash password: %w", err)
				}
				hash = string(b)
			}

			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			account, err := app.Accounts.Create(cmd.Context(), args[0], hash, r)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "created account %s\n", account.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", string(entitlement.RoleStandard), "standard or administrator")
	cmd.Flags().StringVar(&password, "password", "", "login password; without one the account cannot log in")
	return cmd
}

func newShowCmd(getApp appGetter) *cobra.Command {
	return &cobra.Command{
		Use:   "show <account-id>",
		Short: "Show subscription, entitlements and usage of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseAccountID(args[0])
			if err != nil {
				return err
			}
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			account, err := app.Accounts.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			info, err := app.Entitlements.Entitlements(cmd.Context(), id)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			printAccount(w, account)
			_, _ = fmt.Fprintf(w, "effective:  %s\n", info.EffectivePlan)
			_, _ = fmt.Fprintf(w, "tools:      %s\n", strings.Join(info.AvailableTools, ", "))
			_, _ = fmt.Fprintf(w, "trial left: %d days\n", info.TrialDaysRemaining)
			_, _ = fmt.Fprintf(w, "period:     %d generations since %s (cap %s, resets %s)\n",
				info.Quota.PeriodGenerations, info.Quota.PeriodStart, formatCap(info.Quota.MonthlyCap), info.Quota.ResetAt)
			_, _ = fmt.Fprintf(w, "total:      %d generations\n", info.Quota.TotalGenerations)
			return nil
		},
	}
}

func newHistoryCmd(getApp appGetter) *cobra.Command {
	return &cobra.Command{
		Use:   "history <account-id>",
		Short: "List subscription changes, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseAccountID(args[0])
			if err != nil {
				return err
			}
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			changes, err := app.Accounts.History(cmd.Context(), id)
			if err != nil {
				return err
			}
			for _, c := range changes {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s/%s -> %s/%s\tactive=%t\t%s\n",
					c.CreatedAt.UTC().Format(time.RFC3339), c.Action,
					c.FromPlan, c.FromStatus, c.ToPlan, c.ToStatus, c.Active, c.Details)
			}
			return nil
		},
	}
}

func newSuspendCmd(getApp appGetter) *cobra.Command {
	return &cobra.Command{
		Use:   "suspend <account-id>",
		Short: "Suspend an account; it keeps its data but loses all tool access",
		Args:  cobra.ExactArgs(1),
		RunE: mutateRunE(getApp, func(app *App, cmd *cobra.Command, id uuid.UUID, _ []string) (*model.Account, error) {
			return app.Accounts.Suspend(cmd.Context(), id, nil)
		}),
	}
}

func newReactivateCmd(getApp appGetter) *cobra.Command {
	return &cobra.Command{
		Use:   "reactivate <account-id>",
		Short: "Lift a suspension",
		Args:  cobra.ExactArgs(1),
		RunE: mutateRunE(getApp, func(app *App, cmd *cobra.Command, id uuid.UUID, _ []string) (*model.Account, error) {
			return app.Accounts.Reactivate(cmd.Context(), id, nil)
		}),
	}
}

func newChangePlanCmd(getApp appGetter) *cobra.Command {
	return &cobra.Command{
		Use:   "change-plan <account-id> <starter|pro|agency>",
		Short: "Move an account onto a paid plan starting now",
		Args:  cobra.ExactArgs(2),
		RunE: mutateRunE(getApp, func(app *App, cmd *cobra.Command, id uuid.UUID, args []string) (*model.Account, error) {
			plan, err := entitlement.ParsePlan(args[1])
			if err != nil {
				return nil, err
			}
			return app.Accounts.ChangePlan(cmd.Context(), id, plan, nil)
		}),
	}
}

func newSetStatusCmd(getApp appGetter) *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <account-id> <active|cancelled|expired>",
		Short: "Record a billing status change",
		Args:  cobra.ExactArgs(2),
		RunE: mutateRunE(getApp, func(app *App, cmd *cobra.Command, id uuid.UUID, args []string) (*model.Account, error) {
			status, err := entitlement.ParseStatus(args[1])
			if err != nil {
				return nil, err
			}
			return app.Accounts.SetStatus(cmd.Context(), id, status, nil)
		}),
	}
}

func newExtendTrialCmd(getApp appGetter) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "extend-trial <account-id>",
		Short: "Push the trial end back",
		Args:  cobra.ExactArgs(1),
		RunE: mutateRunE(getApp, func(app *App, cmd *cobra.Command, id uuid.UUID, _ []string) (*model.Account, error) {
			return app.Accounts.ExtendTrial(cmd.Context(), id, days, nil)
		}),
	}
	cmd.Flags().IntVar(&days, "days", 0, "number of days to add")
	_ = cmd.MarkFlagRequired("days")
	return cmd
}

type mutateFunc func(app *App, cmd *cobra.Command, id uuid.UUID, args []string) (*model.Account, error)

func mutateRunE(getApp appGetter, fn mutateFunc) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		id, err := parseAccountID(args[0])
		if err != nil {
			return err
		}
		app, err := getApp(cmd)
		if err != nil {
			return err
		}

		account, err := fn(app, cmd, id, args)
		if err != nil {
			return err
		}
		printAccount(cmd.OutOrStdout(), account)
		return nil
	}
}

func parseAccountID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid account id %q: %w", s, err)
	}
	return id, nil
}

func printAccount(w io.Writer, a *model.Account) {
	_, _ = fmt.Fprintf(w, "id:         %s\n", a.ID)
	_, _ = fmt.Fprintf(w, "email:      %s\n", a.Email)
	_, _ = fmt.Fprintf(w, "role:       %s\n", a.Role)
	_, _ = fmt.Fprintf(w, "active:     %t\n", a.Active)
	_, _ = fmt.Fprintf(w, "plan:       %s\n", a.Subscription.Plan)
	_, _ = fmt.Fprintf(w, "status:     %s\n", a.Subscription.Status)
	_, _ = fmt.Fprintf(w, "trial end:  %s\n", a.Subscription.TrialEnd.UTC().Format(time.RFC3339))
	if end := a.Subscription.PaidPeriodEnd; end != nil {
		_, _ = fmt.Fprintf(w, "paid until: %s\n", end.UTC().Format(time.RFC3339))
	}
}

func formatCap(c *int64) string {
	if c == nil {
		return "unlimited"
	}
	return fmt.Sprintf("%d", *c)
}
