package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"donation-core/internal/model"
)

var (
	voteKind    string
	votePartner string
)

var voteCmd = &cobra.Command{
	Use:     "vote [target id]",
	Short:   "以 --account 身份给候选伙伴投票",
	Args:    cobra.ExactArgs(1),
	Example: `  donation-cli vote water-2024 --kind campaign --partner RedCross --account alice`,
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := model.ParseTargetKind(voteKind)
		if err != nil || !kind.Votable() {
			return fmt.Errorf("--kind must be event or campaign")
		}
		if account == "" {
			return fmt.Errorf("--account (voter) is required")
		}
		data, err := post(fmt.Sprintf("/api/v1/%ss/%s/votes", kind, args[0]), map[string]string{"partner_id": votePartner})
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	voteCmd.Flags().StringVar(&voteKind, "kind", "campaign", "target kind: event or campaign")
	voteCmd.Flags().StringVar(&votePartner, "partner", "", "candidate partner id")
	_ = voteCmd.MarkFlagRequired("partner")
	rootCmd.AddCommand(voteCmd)
}
