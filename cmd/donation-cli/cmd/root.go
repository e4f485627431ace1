package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	serverURL string
	account   string
)

// rootCmd 代表基础命令，没有子命令时直接调用
var rootCmd = &cobra.Command{
	Use:   "donation-cli",
	Short: "捐款账本命令行工具",
	Long: `构造/解析转账 memo，模拟代币合约发送入账通知，以及投票。
notify 与 vote 通过 HTTP 调用 donation-server。`,
}

// Execute 将所有子命令添加到根命令并设置标志
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "donation-server base URL")
	rootCmd.PersistentFlags().StringVar(&account, "account", "", "caller identity sent as X-Account-ID")
}
