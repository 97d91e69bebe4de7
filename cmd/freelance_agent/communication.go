package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/freelance-agent/internal/types"
)

var suggestReplyCmd = &cobra.Command{
	Use:   "suggest-reply",
	Short: "Draft a reply to a client message",
	Long:  "Draft a reply to a client message. Pass --message - to read the message from stdin.",
	Args:  cobra.NoArgs,
	RunE:  runSuggestReply,
}

var (
	replyType      string
	replyMessage   string
	replyProjectID int64
)

func init() {
	suggestReplyCmd.Flags().StringVar(&replyType, "type", "followup", "Message type: proposal, negotiation, update, followup or other")
	suggestReplyCmd.Flags().StringVar(&replyMessage, "message", "", "Client message, or - for stdin (required)")
	suggestReplyCmd.Flags().Int64Var(&replyProjectID, "project-id", 0, "Project the conversation is about")
	_ = suggestReplyCmd.MarkFlagRequired("message")

	rootCmd.AddCommand(suggestReplyCmd)
}

func runSuggestReply(cmd *cobra.Command, _ []string) error {
	a := current
	user, err := a.requireUser()
	if err != nil {
		return err
	}

	message := replyMessage
	if message == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read message from stdin: %w", err)
		}
		message = string(data)
	}

	req := &types.CommunicationRequest{
		UserID:        user.ID,
		MessageType:   replyType,
		ClientMessage: strings.TrimSpace(message),
	}
	if replyProjectID > 0 {
		req.ProjectID = &replyProjectID
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid message: %w", err)
	}

	resp, err := a.client.SuggestCommunication(cmd.Context(), req)
	if err != nil {
		return err
	}
	a.printer.PrintCommunication(resp)
	return nil
}
