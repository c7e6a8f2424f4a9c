package cmd

import (
	"context"
	"fmt"
	"time"

	"voice-of-kalki/internal/ai"
	"voice-of-kalki/internal/app"
	"voice-of-kalki/internal/model"

	"github.com/spf13/cobra"
)

var (
	fetchLang  string
	fetchScope string
	fetchCity  string
	fetchGenre string
)

// fetchCmd runs one feed load through the controller and prints the visible
// list, bypassing the redis cache.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch a news feed once and print it",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg.OpenAI.APIKey == "" {
			return fmt.Errorf("openai.api_key is required")
		}
		fetcher := ai.NewClient(ai.Config{
			APIKey:  cfg.OpenAI.APIKey,
			Model:   cfg.OpenAI.Model,
			BaseURL: cfg.OpenAI.BaseURL,
		})

		city := fetchCity
		if city == "" {
			city = cfg.News.DefaultCity
		}
		ctrl := app.NewController(fetcher, nil, nil)
		ctrl.SetScope(
			model.Language(fetchLang),
			model.Region(fetchScope),
			city,
			model.Genre(fetchGenre),
		)

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
		defer cancel()
		ctrl.Refresh(ctx)
		if ctrl.LastError() == app.ErrQuota {
			return fmt.Errorf("content service quota exhausted, try again later")
		}

		items := ctrl.Visible()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%d stories\n", len(items))
		for i, it := range items {
			verified := " "
			if it.IsVerified {
				verified = "✓"
			}
			urgent := ""
			if it.IsUrgent {
				urgent = " [URGENT]"
			}
			fmt.Fprintf(out, "%2d. %s %s%s\n    %s - %s\n", i+1, verified, it.Title, urgent, it.Source, it.Summary)
		}
		return nil
	},
}

func init() {
	fetchCmd.Flags().StringVar(&fetchLang, "lang", string(model.LanguageEnglish), "feed language (en, kn)")
	fetchCmd.Flags().StringVar(&fetchScope, "region", string(model.RegionCountry), "feed region scope")
	fetchCmd.Flags().StringVar(&fetchCity, "city", "", "city for the local scope")
	fetchCmd.Flags().StringVar(&fetchGenre, "genre", string(model.GenreAll), "genre filter")
	rootCmd.AddCommand(fetchCmd)
}
