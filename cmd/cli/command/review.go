package command

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"yamdb/cmd/cli/dto"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review commands",
	Long:  `List the reviews of a title, post your own review, or delete one.`,
}

var listReviewsCmd = &cobra.Command{
	Use:   "list [title-id]",
	Short: "List the reviews of a title",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		titleID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid title ID: %w", err)
		}

		reviews, err := getClient().ListReviews(titleID)
		if err != nil {
			return fmt.Errorf("failed to get reviews: %w", err)
		}
		if len(reviews) == 0 {
			fmt.Println("No reviews yet.")
			return nil
		}
		for _, r := range reviews {
			fmt.Printf("[%d] %s rated %d/10 on %s\n", r.ID, r.Author, r.Score, r.PubDate.Format("2006-01-02"))
			fmt.Println(r.Text)
			printSeparator()
		}
		return nil
	},
}

var addReviewCmd = &cobra.Command{
	Use:   "add [title-id]",
	Short: "Review a title (once per title)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		titleID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid title ID: %w", err)
		}

		var req dto.CreateReviewRequest
		req.Text, _ = cmd.Flags().GetString("text")
		req.Score, _ = cmd.Flags().GetInt("score")

		httpClient, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		review, err := httpClient.CreateReview(titleID, &req)
		if err != nil {
			return fmt.Errorf("failed to post review: %w", err)
		}
		success("Review %d posted with score %d", review.ID, review.Score)
		return nil
	},
}

var deleteReviewCmd = &cobra.Command{
	Use:   "delete [title-id] [review-id]",
	Short: "Delete a review",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		httpClient, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		if err := httpClient.DeleteReview(ids[0], ids[1]); err != nil {
			return fmt.Errorf("failed to delete review: %w", err)
		}
		success("Review %d deleted", ids[1])
		return nil
	},
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ID %q: %w", a, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func init() {
	reviewCmd.AddCommand(listReviewsCmd)
	reviewCmd.AddCommand(addReviewCmd)
	reviewCmd.AddCommand(deleteReviewCmd)

	addReviewCmd.Flags().StringP("text", "t", "", "Review text")
	addReviewCmd.Flags().IntP("score", "s", 0, "Score from 1 to 10")
	addReviewCmd.MarkFlagRequired("text")
	addReviewCmd.MarkFlagRequired("score")
}
