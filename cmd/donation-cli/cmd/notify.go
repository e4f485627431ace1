package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	notifySender string
	notifyAmount string
	notifyMemo   string
)

// notifyCmd 模拟代币合约在转账后回调托管账户; --account 是代币身份
var notifyCmd = &cobra.Command{
	Use:     "notify",
	Short:   "发送一条代币入账通知",
	Example: `  donation-cli notify --account usdc.token.near --sender alice --amount 5000000 --memo don1:campaign:water-2024:null:9.98`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if account == "" {
			return fmt.Errorf("--account (token identity) is required")
		}
		data, err := post("/api/v1/custody/transfers", map[string]string{
			"sender_id": notifySender,
			"amount":    notifyAmount,
			"msg":       notifyMemo,
		})
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	notifyCmd.Flags().StringVar(&notifySender, "sender", "", "donor account")
	notifyCmd.Flags().StringVar(&notifyAmount, "amount", "", "amount in smallest units")
	notifyCmd.Flags().StringVar(&notifyMemo, "memo", "", "donation memo")
	_ = notifyCmd.MarkFlagRequired("sender")
	_ = notifyCmd.MarkFlagRequired("amount")
	rootCmd.AddCommand(notifyCmd)
}
