package command

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Comment commands",
	Long:  `List, post and delete comments on a review.`,
}

var listCommentsCmd = &cobra.Command{
	Use:   "list [title-id] [review-id]",
	Short: "List comments on a review",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}

		comments, err := getClient().ListComments(ids[0], ids[1])
		if err != nil {
			return fmt.Errorf("failed to get comments: %w", err)
		}
		if len(comments) == 0 {
			fmt.Println("No comments yet.")
			return nil
		}
		for _, c := range comments {
			fmt.Printf("[%d] %s (%s): %s\n", c.ID, c.Author, c.PubDate.Format("2006-01-02 15:04:05"), c.Text)
		}
		return nil
	},
}

var addCommentCmd = &cobra.Command{
	Use:   "add [title-id] [review-id] [text]",
	Short: "Comment on a review",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args[:2])
		if err != nil {
			return err
		}
		text := strings.Join(args[2:], " ")

		httpClient, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		result, err := httpClient.CreateComment(ids[0], ids[1], text)
		if err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}

		success("Comment %d created", result.ID)
		return nil
	},
}

var deleteCommentCmd = &cobra.Command{
	Use:   "delete [title-id] [review-id] [comment-id]",
	Short: "Delete a comment",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		httpClient, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		if err := httpClient.DeleteComment(ids[0], ids[1], ids[2]); err != nil {
			return fmt.Errorf("failed to delete comment: %w", err)
		}
		success("Comment %d deleted", ids[2])
		return nil
	},
}

func init() {
	commentCmd.AddCommand(listCommentsCmd)
	commentCmd.AddCommand(addCommentCmd)
	commentCmd.AddCommand(deleteCommentCmd)
}
