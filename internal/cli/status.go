package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/linknk/satellite-payments/internal/poller"
)

var statusCmd = &cobra.Command{
	Use:   "status [checkout-request-id]",
	Short: "Wait for a payment to complete",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().Bool("once", false, "Check the status once instead of waiting")
}

func runStatus(cmd *cobra.Command, args []string) error {
	client := poller.NewStatusClient(baseURL, timeout)
	checkoutRequestID := args[0]

	once, _ := cmd.Flags().GetBool("once")
	if once {
		status, err := client.FetchStatus(cmd.Context(), checkoutRequestID)
		if err != nil {
			return err
		}
		printStatus(cmd.OutOrStdout(), *status)
		return nil
	}

	return follow(cmd, client, checkoutRequestID)
}

func follow(cmd *cobra.Command, client poller.StatusFetcher, checkoutRequestID string) error {
	fmt.Fprintf(cmd.OutOrStdout(), "Waiting for M-Pesa confirmation of %s...\n", checkoutRequestID)

	result, err := newPoller(client).Poll(cmd.Context(), checkoutRequestID)
	if err != nil {
		return err
	}

	printStatus(cmd.OutOrStdout(), result.Status)
	if result.TimedOut {
		return fmt.Errorf("payment not confirmed within %s", deadline)
	}
	if result.Failed() {
		return fmt.Errorf("payment failed: %s", result.Status.ResultDesc)
	}
	return nil
}

func printStatus(w io.Writer, s poller.Status) {
	fmt.Fprintf(w, "Status:  %s\n", s.Status)
	if s.MpesaReceiptNumber != "" {
		fmt.Fprintf(w, "Receipt: %s\n", s.MpesaReceiptNumber)
	}
	if s.Amount != 0 {
		fmt.Fprintf(w, "Amount:  KSH %d\n", s.Amount)
	}
	if s.PhoneNumber != "" {
		fmt.Fprintf(w, "Phone:   %s\n", s.PhoneNumber)
	}
	if s.ResultDesc != "" {
		fmt.Fprintf(w, "Detail:  %s\n", s.ResultDesc)
	}
}
