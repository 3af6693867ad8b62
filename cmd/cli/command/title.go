package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"yamdb/cmd/cli/dto"
)

var titleCmd = &cobra.Command{
	Use:   "title",
	Short: "Browse titles",
}

var listTitlesCmd = &cobra.Command{
	Use:   "list",
	Short: "List all titles",
	RunE: func(cmd *cobra.Command, args []string) error {
		titles, err := getClient().ListTitles()
		if err != nil {
			return fmt.Errorf("failed to get title list: %w", err)
		}
		if len(titles) == 0 {
			fmt.Println("No titles found.")
			return nil
		}

		fmt.Printf("Found %d titles:\n\n", len(titles))
		for i := range titles {
			printTitle(&titles[i])
			printSeparator()
		}
		return nil
	},
}

var getTitleCmd = &cobra.Command{
	Use:   "get [title-id]",
	Short: "Show one title",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid title ID: %w", err)
		}
		title, err := getClient().GetTitle(id)
		if err != nil {
			return fmt.Errorf("failed to get title: %w", err)
		}
		printTitle(title)
		if title.Description != nil && *title.Description != "" {
			fmt.Printf("\n%s\n", *title.Description)
		}
		return nil
	},
}

var categoryCmd = &cobra.Command{
	Use:   "categories",
	Short: "List categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		categories, err := getClient().ListCategories()
		if err != nil {
			return err
		}
		for _, c := range categories {
			fmt.Printf("%-20s %s\n", c.Slug, c.Name)
		}
		return nil
	},
}

var genreCmd = &cobra.Command{
	Use:   "genres",
	Short: "List genres",
	RunE: func(cmd *cobra.Command, args []string) error {
		genres, err := getClient().ListGenres()
		if err != nil {
			return err
		}
		for _, g := range genres {
			fmt.Printf("%-20s %s\n", g.Slug, g.Name)
		}
		return nil
	},
}

func printTitle(t *dto.TitleResponse) {
	color.New(color.Bold).Printf("[%d] %s (%d)\n", t.ID, t.Name, t.Year)
	fmt.Printf("Rating: %s\n", formatRating(t.Rating))
	if t.Category != nil {
		fmt.Printf("Category: %s\n", t.Category.Name)
	}
	if len(t.Genre) > 0 {
		names := make([]string, 0, len(t.Genre))
		for _, g := range t.Genre {
			names = append(names, g.Name)
		}
		fmt.Printf("Genres: %s\n", strings.Join(names, ", "))
	}
}

func formatRating(rating *float64) string {
	if rating == nil {
		return color.HiBlackString("not rated")
	}
	return color.YellowString("%.1f", *rating)
}

func init() {
	titleCmd.AddCommand(listTitlesCmd)
	titleCmd.AddCommand(getTitleCmd)
}
