package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"chat-relay/internal/client"
)

var token string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "chat-relay-client",
		Short: "Terminal client for the chat relay server",
		Run:   runClient,
	}

	cobra.OnInitialize(client.LoadConfig)

	rootCmd.Flags().StringVarP(&token, "token", "t", "", "identity token for the handshake")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runClient(cmd *cobra.Command, args []string) {
	serverURL := client.Cfg.Server.URL
	if token == "" {
		token = client.Cfg.Token
	}

	netClient := client.NewClient()
	if err := netClient.Connect(serverURL, token); err != nil {
		log.Fatalf("Failed to connect to server: %v", err)
	}

	// Blocks forever reading terminal input.
	netClient.HandleStdin()
}
