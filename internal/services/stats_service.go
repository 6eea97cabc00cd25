package services

import (
	"context"
	"fmt"
	"time"

	"github.com/alimgiray/ghstats/internal/githubapi"
	"github.com/alimgiray/ghstats/pkg/logger"
	"github.com/google/go-github/v57/github"
	"github.com/sirupsen/logrus"
)

const repositoryPageSize = 100

const createdAtQuery = `
query($login: String!) {
  user(login: $login) {
    createdAt
  }
}`

const commitContributionsQuery = `
query($login: String!, $from: DateTime!, $to: DateTime!) {
  user(login: $login) {
    contributionsCollection(from: $from, to: $to) {
      totalCommitContributions
    }
  }
}`

const repositoryStarsQuery = `
query($login: String!, $first: Int!, $cursor: String) {
  user(login: $login) {
    repositories(first: $first, ownerAffiliations: OWNER, isFork: false, orderBy: {field: UPDATED_AT, direction: DESC}, after: $cursor) {
      nodes {
        stargazerCount
      }
      pageInfo {
        hasNextPage
        endCursor
      }
    }
  }
}`

// ProfileStats holds the aggregate numbers substituted into the template.
type ProfileStats struct {
	Stars     int
	Commits   int
	Followers int
}

type StatsService struct {
	client     *githubapi.Client
	restClient *github.Client
	login      string
}

func NewStatsService(client *githubapi.Client, restClient *github.Client, login string) *StatsService {
	return &StatsService{
		client:     client,
		restClient: restClient,
		login:      login,
	}
}

// ProfileStats computes all statistics for the configured login.
func (s *StatsService) ProfileStats(ctx context.Context) (*ProfileStats, error) {
	commits, err := s.TotalCommits(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count commits: %w", err)
	}

	stars, err := s.TotalStars(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count stars: %w", err)
	}

	followers, err := s.Followers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count followers: %w", err)
	}

	return &ProfileStats{Stars: stars, Commits: commits, Followers: followers}, nil
}

// AccountCreatedAt fetches the account's creation timestamp.
func (s *StatsService) AccountCreatedAt(ctx context.Context) (time.Time, error) {
	var resp struct {
		User *struct {
			CreatedAt time.Time `json:"createdAt"`
		} `json:"user"`
	}
	err := s.client.Query(ctx, createdAtQuery, map[string]interface{}{
		"login": s.login,
	}, &resp)
	if err != nil {
		return time.Time{}, err
	}
	if resp.User == nil {
		return time.Time{}, &githubapi.NotFoundError{Login: s.login}
	}
	return resp.User.CreatedAt, nil
}

// TotalCommits sums commit contributions over year-aligned windows covering
// the whole interval from account creation to now. The contributions API only
// aggregates over bounded ranges, so consecutive non-overlapping windows are
// queried and summed.
func (s *StatsService) TotalCommits(ctx context.Context) (int, error) {
	createdAt, err := s.AccountCreatedAt(ctx)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, w := range contributionWindows(createdAt, time.Now()) {
		var resp struct {
			User *struct {
				ContributionsCollection struct {
					TotalCommitContributions int `json:"totalCommitContributions"`
				} `json:"contributionsCollection"`
			} `json:"user"`
		}
		err := s.client.Query(ctx, commitContributionsQuery, map[string]interface{}{
			"login": s.login,
			"from":  w.from.Format(time.RFC3339),
			"to":    w.to.Format(time.RFC3339),
		}, &resp)
		if err != nil {
			return 0, err
		}
		if resp.User == nil {
			return 0, &githubapi.NotFoundError{Login: s.login}
		}

		count := resp.User.ContributionsCollection.TotalCommitContributions
		logger.WithFields(logrus.Fields{
			"from":    w.from,
			"to":      w.to,
			"commits": count,
		}).Debug("Fetched contribution window")
		total += count
	}
	return total, nil
}

// TotalStars sums stargazer counts across every page of the account's owned,
// non-fork repositories.
func (s *StatsService) TotalStars(ctx context.Context) (int, error) {
	total := 0
	var cursor string

	for {
		variables := map[string]interface{}{
			"login": s.login,
			"first": repositoryPageSize,
		}
		if cursor != "" {
			variables["cursor"] = cursor
		}

		var resp struct {
			User *struct {
				Repositories struct {
					Nodes []struct {
						StargazerCount int `json:"stargazerCount"`
					} `json:"nodes"`
					PageInfo struct {
						HasNextPage bool   `json:"hasNextPage"`
						EndCursor   string `json:"endCursor"`
					} `json:"pageInfo"`
				} `json:"repositories"`
			} `json:"user"`
		}
		if err := s.client.Query(ctx, repositoryStarsQuery, variables, &resp); err != nil {
			return 0, err
		}
		if resp.User == nil {
			return 0, &githubapi.NotFoundError{Login: s.login}
		}

		for _, node := range resp.User.Repositories.Nodes {
			total += node.StargazerCount
		}
		logger.WithFields(logrus.Fields{
			"repositories": len(resp.User.Repositories.Nodes),
			"stars":        total,
		}).Debug("Fetched repository page")

		if !resp.User.Repositories.PageInfo.HasNextPage {
			break
		}
		cursor = resp.User.Repositories.PageInfo.EndCursor
	}
	return total, nil
}

// Followers fetches the account's follower count via the REST API.
func (s *StatsService) Followers(ctx context.Context) (int, error) {
	user, _, err := s.restClient.Users.Get(ctx, s.login)
	if err != nil {
		return 0, fmt.Errorf("failed to get user: %w", err)
	}
	return user.GetFollowers(), nil
}

type window struct {
	from time.Time
	to   time.Time
}

// contributionWindows partitions [start, now] into consecutive windows whose
// boundaries fall on January 1st, in start's timezone. Each window begins
// where the previous one ends, so the full interval is covered exactly once.
// A start in the future yields no windows.
func contributionWindows(start, now time.Time) []window {
	var windows []window
	for start.Before(now) {
		end := time.Date(start.Year()+1, time.January, 1, 0, 0, 0, 0, start.Location())
		if end.After(now) {
			end = now
		}
		windows = append(windows, window{from: start, to: end})
		start = end
	}
	return windows
}
