package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/linknk/satellite-payments/internal/poller"
)

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Send an STK push and wait for the payment",
	RunE:  runPush,
}

func init() {
	pushCmd.Flags().String("phone", "", "Customer phone number (07..., +254..., 254...)")
	pushCmd.Flags().Float64("amount", 0, "Amount in KSH (0 uses the bundle price)")
	pushCmd.Flags().Bool("no-wait", false, "Return after the push is sent")
	_ = pushCmd.MarkFlagRequired("phone")
}

func runPush(cmd *cobra.Command, args []string) error {
	phone, _ := cmd.Flags().GetString("phone")
	amount, _ := cmd.Flags().GetFloat64("amount")
	noWait, _ := cmd.Flags().GetBool("no-wait")

	client := poller.NewStatusClient(baseURL, timeout)
	checkoutRequestID, err := client.Initiate(cmd.Context(), phone, amount)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "STK push sent. Checkout request: %s\n", checkoutRequestID)

	if noWait {
		return nil
	}
	return follow(cmd, client, checkoutRequestID)
}
