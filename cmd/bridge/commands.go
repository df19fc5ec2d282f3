package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/sethvargo/go-retry"
	"github.com/spf13/cobra"

	bridge "github.com/solstice-labs/bridge"
	"github.com/solstice-labs/bridge/builder"
	"github.com/solstice-labs/bridge/client"
	"github.com/solstice-labs/bridge/config"
	"github.com/solstice-labs/bridge/errors"
	"github.com/solstice-labs/bridge/indexer"
	"github.com/solstice-labs/bridge/quote"
	"github.com/solstice-labs/bridge/tracker"
)

func printJSON(a any) {
	bz, _ := json.MarshalIndent(a, "", "  ")
	fmt.Println(string(bz))
}

func CmdQuote() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote <token> <amount>",
		Short: "Estimate the receive amount and fees for a bridge transfer.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile := unwrapProfile(cmd.Context())
			jsonOutput, _ := cmd.Flags().GetBool("json")

			token, err := bridge.ParseToken(args[0])
			if err != nil {
				return err
			}
			amount, err := bridge.NewAmountHumanReadableFromStr(args[1])
			if err != nil {
				return errors.InvalidAmountf("amount: %v", err)
			}

			q, err := quote.New(profile).Quote(token, amount)
			if err != nil {
				return err
			}
			if jsonOutput {
				printJSON(q)
				return nil
			}
			fmt.Printf("Bridging %s %s\n", q.RequestedAmount, q.Token)
			fmt.Printf("  You receive:      %s %s\n", color.GreenString(q.EstimatedReceiveAmount.String()), q.Token)
			fmt.Printf("  Relay fee:        %s (native)\n", q.RelayFee)
			fmt.Printf("  Destination gas:  %s (paid by relay)\n", q.DestinationGasFee)
			fmt.Printf("  Settlement time:  ~%s\n", q.EstimatedSettlementTime)
			fmt.Printf("  Destination token: %s\n", q.DestinationTokenAddress)
			return nil
		},
	}
	return cmd
}

func CmdBuild() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build an unsigned bridge transfer transaction.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile := unwrapProfile(cmd.Context())
			jsonOutput, _ := cmd.Flags().GetBool("json")

			from, _ := cmd.Flags().GetString("from")
			to, _ := cmd.Flags().GetString("to")
			tokenRaw, _ := cmd.Flags().GetString("token")
			amountRaw, _ := cmd.Flags().GetString("amount")

			token, err := bridge.ParseToken(tokenRaw)
			if err != nil {
				return err
			}
			amount, err := bridge.NewAmountHumanReadableFromStr(amountRaw)
			if err != nil {
				return errors.InvalidAmountf("amount: %v", err)
			}
			req := bridge.TransferRequest{
				SourceAddress:      bridge.Address(from),
				DestinationAddress: to,
				Token:              token,
				Amount:             amount,
			}

			cli := client.New(profile)
			built, err := builder.New(profile, cli).Build(cmd.Context(), req)
			if err != nil {
				return err
			}
			if jsonOutput {
				printJSON(built)
				return nil
			}
			fmt.Printf("Correlation id:     %s\n", color.CyanString(built.CorrelationID))
			fmt.Printf("Estimated arrival:  %s\n", built.EstimatedArrival.Format(time.RFC3339))
			fmt.Printf("\n%s\n\n", built.Instructions)
			fmt.Println(built.SerializedTransaction)
			return nil
		},
	}
	cmd.Flags().String("from", "", "Source ledger address funding the transfer")
	cmd.Flags().String("to", "", "Destination ledger address receiving the asset")
	cmd.Flags().String("token", "", "Token to bridge (e.g. NATIVE, STABLE)")
	cmd.Flags().String("amount", "", "Decimal amount to bridge")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("token")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func CmdStatus() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <correlation-id>",
		Short: "Check the lifecycle state of a bridge transfer.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile := unwrapProfile(cmd.Context())
			jsonOutput, _ := cmd.Flags().GetBool("json")
			signature, _ := cmd.Flags().GetString("signature")
			watch, _ := cmd.Flags().GetBool("watch")

			cli := client.New(profile)
			trk := tracker.New(cli, destinationProvider(profile))

			if !watch {
				status, err := trk.Status(cmd.Context(), args[0], signature)
				if err != nil {
					return err
				}
				if jsonOutput {
					printJSON(status)
					return nil
				}
				displayStatus(status)
				return nil
			}
			if jsonOutput {
				return fmt.Errorf("watch mode does not support JSON output")
			}
			return watchStatus(cmd.Context(), trk, args[0], signature)
		},
	}
	cmd.Flags().String("signature", "", "Source ledger transaction signature, once submitted")
	cmd.Flags().BoolP("watch", "w", false, "Poll until the transfer reaches a terminal state")
	return cmd
}

// watchStatus polls with exponential backoff until the transfer is
// completed or failed. Transient network errors are retried rather than
// surfaced; anything else aborts the watch.
func watchStatus(ctx context.Context, trk *tracker.Tracker, correlationID, signature string) error {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " Waiting for transfer to settle..."
	s.Start()
	defer s.Stop()

	backoff := retry.WithCappedDuration(15*time.Second, retry.NewExponential(2*time.Second))
	var final *bridge.TransferStatus
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		status, err := trk.Status(ctx, correlationID, signature)
		if err != nil {
			if errors.IsRetryable(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		s.Suffix = fmt.Sprintf(" Transfer %s...", status.State)
		if !status.State.Terminal() {
			return retry.RetryableError(fmt.Errorf("transfer still %s", status.State))
		}
		final = status
		return nil
	})
	s.Stop()
	if err != nil {
		return err
	}
	displayStatus(final)
	return nil
}

func displayStatus(status *bridge.TransferStatus) {
	fmt.Printf("Correlation id:  %s\n", color.CyanString(status.CorrelationID))
	fmt.Printf("State:           %s\n", coloredState(status.State))
	if status.SourceSignature != "" {
		fmt.Printf("Source tx:       %s\n", status.SourceSignature)
	}
	if status.DestinationTxHash != "" {
		fmt.Printf("Destination tx:  %s\n", status.DestinationTxHash)
	}
	if status.Error != "" {
		fmt.Printf("Error:           %s\n", color.RedString(status.Error))
	}
}

func coloredState(state bridge.TransferState) string {
	switch state {
	case bridge.StateCompleted:
		return color.GreenString(string(state))
	case bridge.StateFailed:
		return color.RedString(string(state))
	default:
		return color.YellowString(string(state))
	}
}

func CmdBalances() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balances <address>",
		Short: "Show the native and token balances of a source ledger address.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile := unwrapProfile(cmd.Context())
			jsonOutput, _ := cmd.Flags().GetBool("json")

			balances, err := client.New(profile).Balances(cmd.Context(), bridge.Address(args[0]))
			if err != nil {
				return err
			}
			if jsonOutput {
				printJSON(balances)
				return nil
			}
			fmt.Printf("Balances for %s\n", color.CyanString(args[0]))
			fmt.Printf("  %-8s %s\n", bridge.TokenNative, balances.Native)
			for token, amount := range balances.Tokens {
				fmt.Printf("  %-8s %s\n", token, amount)
			}
			return nil
		},
	}
	return cmd
}

// destinationProvider returns the indexer-backed status provider, or a
// nil interface when the profile has no indexer endpoint. tracker.New
// treats nil as "source ledger only".
func destinationProvider(profile *config.NetworkProfile) tracker.DestinationStatusProvider {
	if idx := indexer.New(profile); idx != nil {
		return idx
	}
	return nil
}
