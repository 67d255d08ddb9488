package service

import (
	"context"

	"github.com/dukerupert/homehub/internal/chore"
	"github.com/dukerupert/homehub/internal/model"
	"golang.org/x/sync/errgroup"
)

// Dashboard gathers the household summary. The independent reads run
// concurrently; the first failure cancels the rest.
func (s *Service) Dashboard(ctx context.Context, householdID string) (*model.Dashboard, error) {
	var (
		d        model.Dashboard
		upcoming []model.Task
		members  []model.Member
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		total, completed, err := s.tasks.Counts(gctx, householdID)
		if err != nil {
			return backend(err)
		}
		d.TotalTasks, d.CompletedTasks = total, completed
		return nil
	})
	g.Go(func() error {
		tasks, err := s.tasks.List(gctx, householdID)
		if err != nil {
			return backend(err)
		}
		d.OverdueTasks = chore.CountOverdue(tasks, s.now())
		return nil
	})
	g.Go(func() error {
		var err error
		upcoming, err = s.tasks.Upcoming(gctx, householdID, UpcomingLimit)
		if err != nil {
			return backend(err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		members, err = s.Leaderboard(gctx, householdID)
		return err
	})
	g.Go(func() error {
		n, err := s.rewards.Count(gctx, householdID)
		if err != nil {
			return backend(err)
		}
		d.RewardCount = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d.PendingTasks = d.TotalTasks - d.CompletedTasks
	if d.TotalTasks > 0 {
		d.CompletionRate = float64(d.CompletedTasks) / float64(d.TotalTasks)
	}

	d.Upcoming = upcoming
	if d.Upcoming == nil {
		d.Upcoming = []model.Task{}
	}

	d.MemberCount = len(members)
	for _, m := range members {
		d.TotalPoints += m.Points
	}
	if len(members) > 0 {
		top := members[0]
		d.TopMember = &top
	}
	return &d, nil
}
