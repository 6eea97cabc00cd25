package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/alimgiray/ghstats/internal/githubapi"
	"github.com/alimgiray/ghstats/internal/services"
	"github.com/alimgiray/ghstats/pkg/config"
	"github.com/alimgiray/ghstats/pkg/logger"
	"github.com/google/go-github/v57/github"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
)

var (
	templatePath string
	outputPath   string
	login        string
)

var rootCmd = &cobra.Command{
	Use:   "ghstats",
	Short: "Regenerate a profile README from GitHub statistics",
	Long: `ghstats queries the GitHub GraphQL API for aggregate statistics
(lifetime commit contributions, total stars across owned repositories,
follower count) and substitutes them into {{ NAME }} placeholders in a
markdown template, writing the result to the output file.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&templatePath, "template", "TEMPLATE.md", "path to the template file")
	rootCmd.Flags().StringVar(&outputPath, "output", "README.md", "path to the rendered output file")
	rootCmd.Flags().StringVar(&login, "login", "", "GitHub login to compute statistics for (default $GITHUB_REPOSITORY_OWNER)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(login)
	if err != nil {
		return err
	}
	logger.Init(cfg.Log.Level)

	log := logger.WithFields(logrus.Fields{
		"run_id": uuid.New().String(),
		"login":  cfg.GitHub.Login,
	})

	template, err := os.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to read template: %w", err)
	}

	client := githubapi.NewClient(cfg.GitHub.Token)
	statsService := services.NewStatsService(client, newRESTClient(cfg.GitHub.Token), cfg.GitHub.Login)

	stats, err := statsService.ProfileStats(cmd.Context())
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"stars":     stats.Stars,
		"commits":   stats.Commits,
		"followers": stats.Followers,
	}).Info("Computed profile statistics")

	rendered := services.NewRenderService().Render(string(template), map[string]string{
		"STARS":      strconv.Itoa(stats.Stars),
		"COMMITS":    strconv.Itoa(stats.Commits),
		"FOLLOWERS":  strconv.Itoa(stats.Followers),
		"UPDATED_AT": time.Now().UTC().Format("2006-01-02 15:04 MST"),
	})

	if err := os.WriteFile(outputPath, []byte(rendered), 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	log.WithField("output", outputPath).Info("README updated")
	return nil
}

// newRESTClient creates a REST API client with the provided token
func newRESTClient(token string) *github.Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(context.Background(), ts)
	return github.NewClient(tc)
}
