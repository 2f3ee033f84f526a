package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/killallgit/mull/pkg/config"
	"github.com/killallgit/mull/pkg/store"
)

const conversationListLimit = 50

var conversationsCmd = &cobra.Command{
	Use:   "conversations",
	Short: "List persisted conversations",
	Long: `Lists recent conversations from the configured database, newest
first. Pass an ID to --resume to continue one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		if cfg.Database.URL == "" {
			return fmt.Errorf("no database configured: set database.url or MULL_DATABASE_URL")
		}

		st, err := store.Connect(cmd.Context(), cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("failed to connect store: %w", err)
		}
		defer st.Close()

		convs, err := st.ListConversationsForUser(cmd.Context(), "", conversationListLimit, 0)
		if err != nil {
			return err
		}
		if len(convs) == 0 {
			fmt.Println("no conversations yet")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tUPDATED\tTITLE")
		for _, conv := range convs {
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				conv.ID, conv.UpdatedAt.Format("2006-01-02 15:04"), conv.Title)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(conversationsCmd)
}
