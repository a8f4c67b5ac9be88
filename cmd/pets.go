package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/s0up4200/tryfi/model"
	"github.com/s0up4200/tryfi/report"
	"github.com/s0up4200/tryfi/session"
)

var watchInterval time.Duration

// watchAlertAfter is the number of consecutive failed refreshes reported as a message
const watchAlertAfter = 3

// petsCmd represents the pets command
var petsCmd = &cobra.Command{
	Use:   "pets",
	Short: "List pets matching the filter criteria",
	Long: `List the pets of your account. Without --filter or --preset the default
expression from the config is used, and without one all pets are listed.

Example filters:
  Battery < 20 and not Charging
  Resting and contains(Area, "home")
  DailySteps >= StepGoal
  Charging and not baseOnline("b1")`,
	Args: cobra.NoArgs,
	RunE: runPets,
}

// petCmd represents the pet command
var petCmd = &cobra.Command{
	Use:   "pet <id>",
	Short: "Show a single pet",
	Args:  cobra.ExactArgs(1),
	RunE:  runPet,
}

// basesCmd represents the bases command
var basesCmd = &cobra.Command{
	Use:   "bases",
	Short: "List charging bases",
	Args:  cobra.NoArgs,
	RunE:  runBases,
}

// baseCmd represents the base command
var baseCmd = &cobra.Command{
	Use:   "base <id>",
	Short: "Show a single charging base",
	Args:  cobra.ExactArgs(1),
	RunE:  runBase,
}

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show an account overview",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Refresh the account periodically and print an overview",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test the connection to TryFi",
	Long:  `Log into TryFi and display basic information about the account.`,
	Args:  cobra.NoArgs,
	RunE:  runTest,
}

func init() {
	petsCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	petsCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")

	watchCmd.Flags().DurationVarP(&watchInterval, "interval", "i", time.Minute, "refresh interval")

	rootCmd.AddCommand(petsCmd, petCmd, basesCmd, baseCmd, statusCmd, watchCmd, testCmd)
}

func runPets(cmd *cobra.Command, args []string) error {
	pets, err := filterPets(client.Pets())
	if err != nil {
		return err
	}

	fmt.Print(formatter.FormatPetList(pets, formatOptions()))
	return nil
}

// filterPets applies the filter from the flags, the preset or the config default.
// Priority: command line filter > preset > default
func filterPets(pets []*model.Pet) ([]*model.Pet, error) {
	switch {
	case filterExpr != "":
		logger.Debug().Str("filter", filterExpr).Msg("Filtering pets")
		matches, err := filters.ApplyExpression(filterExpr, pets)
		if err != nil {
			return nil, fmt.Errorf("invalid filter expression: %w", err)
		}
		return matches, nil

	case preset != "":
		logger.Debug().Str("preset", preset).Msg("Filtering pets")
		return filters.ApplyPreset(preset, pets)

	case cfg.Filter.DefaultExpression != "":
		logger.Debug().Str("filter", cfg.Filter.DefaultExpression).Msg("Filtering pets with default expression")
		matches, err := filters.ApplyExpression(cfg.Filter.DefaultExpression, pets)
		if err != nil {
			return nil, fmt.Errorf("invalid default filter expression: %w", err)
		}
		return matches, nil
	}

	return pets, nil
}

func runPet(cmd *cobra.Command, args []string) error {
	pet := client.GetPet(args[0])
	if pet == nil {
		return fmt.Errorf("pet %s not found", args[0])
	}

	fmt.Print(formatter.FormatPet(pet))
	return nil
}

func runBases(cmd *cobra.Command, args []string) error {
	fmt.Print(formatter.FormatBaseList(client.Bases(), formatOptions()))
	return nil
}

func runBase(cmd *cobra.Command, args []string) error {
	base := client.GetBase(args[0])
	if base == nil {
		return fmt.Errorf("base %s not found", args[0])
	}

	fmt.Print(formatter.FormatBase(base))
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Print(formatter.FormatSummary(client.CurrentUser(), client.Pets(), client.Bases()))
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchInterval < 10*time.Second {
		return fmt.Errorf("interval must be at least 10s")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Print(formatter.FormatSummary(client.CurrentUser(), client.Pets(), client.Bases()))

	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	streak := &failureStreak{threshold: watchAlertAfter, reporter: reporter}
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Stopping watch")
			return nil
		case <-ticker.C:
			if err := refresh(ctx); err != nil {
				// keep watching on the previous snapshot
				logger.Error().Err(err).Int("failures", streak.record(err)).Msg("Failed to refresh")
				continue
			}
			streak.reset()
			fmt.Print(formatter.FormatSummary(client.CurrentUser(), client.Pets(), client.Bases()))
		}
	}
}

// failureStreak counts consecutive refresh failures and reports once when the
// threshold is reached
type failureStreak struct {
	threshold int
	reporter  report.Reporter
	count     int
}

func (s *failureStreak) record(err error) int {
	s.count++
	if s.count == s.threshold {
		s.reporter.CaptureMessage(fmt.Sprintf("watch: %d consecutive refresh failures, last: %v", s.count, err))
	}
	return s.count
}

func (s *failureStreak) reset() {
	s.count = 0
}

func refresh(ctx context.Context) error {
	start := time.Now()
	if err := client.Update(ctx); err != nil {
		return err
	}

	logger.Debug().
		Dur("took", time.Since(start)).
		Int("pets", len(client.Pets())).
		Int("bases", len(client.Bases())).
		Msg("Refreshed account")
	return nil
}

func runTest(cmd *cobra.Command, args []string) error {
	fmt.Printf("Testing connection to TryFi at %s...\n", cfg.TryFi.URL)

	// Login already happened during client creation
	fmt.Println("✓ Login successful!")

	user := client.CurrentUser()
	fmt.Printf("\nAccount:\n")
	fmt.Printf("- User: %s (%s)\n", user.FullName(), user.Email)
	fmt.Printf("- User ID: %s\n", user.UserID)
	fmt.Printf("- Pets with a collar: %d\n", len(client.Pets()))
	fmt.Printf("- Bases: %d\n", len(client.Bases()))
	fmt.Printf("- Client version: %s\n", session.Version)

	if cfg.Sentry.Enabled {
		fmt.Printf("\nError reporting: Enabled (%s)\n", cfg.Sentry.Environment)
	} else {
		fmt.Println("\nError reporting: Disabled")
	}

	return nil
}
