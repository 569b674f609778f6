package main

import (
	"fmt"
	"net/url"

	"github.com/PedroAlbaladejoLopez/Face-recognition/internal/entity"
	websocketPkg "github.com/PedroAlbaladejoLopez/Face-recognition/pkg/websocket"
	"github.com/spf13/cobra"
)

var (
	eventsServer  string
	eventsSession string
)

var eventsCmd = &cobra.Command{
	Use:   "eventos",
	Short: "Follow the view events of a console session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		wsURL := fmt.Sprintf("%s/api/v1/eventos/ws?session=%s", eventsServer, url.QueryEscape(eventsSession))

		return websocketPkg.Listen(cmd.Context(), wsURL, func(event entity.ViewEvent) error {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %-28s session=%s\n", event.At.Local().Format("15:04:05"), event.Type, event.Session)
			return nil
		})
	},
}

func init() {
	eventsCmd.Flags().StringVar(&eventsServer, "server", "ws://localhost:3000", "console server websocket root")
	eventsCmd.Flags().StringVar(&eventsSession, "session", entity.AllSessions, "session to follow, * for all")

	rootCmd.AddCommand(eventsCmd)
}
