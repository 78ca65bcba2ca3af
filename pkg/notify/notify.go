// Package notify matches fresh records against user watchlists on a cron schedule and
// delivers each matched link to a user at most once.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/newspulse/pkg/domain"
)

//go:generate moq -out mocks/source.go -pkg mocks -skip-ensure -fmt goimports . Source
//go:generate moq -out mocks/sent_store.go -pkg mocks -skip-ensure -fmt goimports . SentStore
//go:generate moq -out mocks/notifier.go -pkg mocks -skip-ensure -fmt goimports . Notifier

// Source provides raw records with full content
type Source interface {
	GetLatestRaw(ctx context.Context) []domain.NewsRecord
}

// SentStore keeps links already delivered per user
type SentStore interface {
	SentLinks(ctx context.Context, user string, links []string) (map[string]bool, error)
	MarkSent(ctx context.Context, user string, links []string) error
	Cleanup(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Notifier delivers matched records to a user
type Notifier interface {
	Notify(ctx context.Context, user string, records []domain.NewsRecord) error
}

// Params defines dependencies and settings of the Service
type Params struct {
	Source    Source
	Store     SentStore
	Notifier  Notifier
	Watchlist []domain.Watch

	Schedule      string        // cron spec of the check, default every minute
	Workers       int           // parallel users, default 4
	SentRetention time.Duration // sent-log entries older than this are removed daily, default 30 days
}

// Service runs watchlist checks
type Service struct {
	Params
	matchers map[string]*Matcher
	cron     *cron.Cron
}

// NewService makes a notification service, users with empty watchlists are skipped
func NewService(params Params) *Service {
	if params.Schedule == "" {
		params.Schedule = "@every 1m"
	}
	if params.Workers <= 0 {
		params.Workers = 4
	}
	if params.SentRetention <= 0 {
		params.SentRetention = 30 * 24 * time.Hour
	}
	res := &Service{Params: params, matchers: make(map[string]*Matcher)}
	for _, w := range params.Watchlist {
		m := NewMatcher(w)
		if w.User == "" || m.Empty() {
			lgr.Printf("[WARN] skipping watchlist entry for %q, nothing to match", w.User)
			continue
		}
		res.matchers[w.User] = m
	}
	return res
}

// Start schedules the check and the daily sent-log cleanup. Overlapping runs are skipped.
func (s *Service) Start(ctx context.Context) error {
	logger := cron.PrintfLogger(cronLogger{})
	s.cron = cron.New(cron.WithLogger(logger), cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)))

	if _, err := s.cron.AddFunc(s.Schedule, func() {
		if err := s.Check(ctx); err != nil {
			lgr.Printf("[WARN] notification check: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("schedule notification check %q: %w", s.Schedule, err)
	}

	if _, err := s.cron.AddFunc("@daily", func() {
		removed, err := s.Store.Cleanup(ctx, s.SentRetention)
		if err != nil {
			lgr.Printf("[WARN] %v", err)
			return
		}
		lgr.Printf("[DEBUG] removed %d old sent notifications", removed)
	}); err != nil {
		return fmt.Errorf("schedule sent-log cleanup: %w", err)
	}

	s.cron.Start()
	lgr.Printf("[INFO] notifications started for %d users, schedule %q", len(s.matchers), s.Schedule)
	return nil
}

// Stop stops scheduling and waits for running jobs
func (s *Service) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	lgr.Printf("[INFO] notifications stopped")
}

// Check runs one pass over all watchlists. A failure of one user doesn't affect others,
// the returned error reports the number of failed users.
func (s *Service) Check(ctx context.Context) error {
	if len(s.matchers) == 0 {
		return nil
	}
	records := s.Source.GetLatestRaw(ctx)
	if len(records) == 0 {
		lgr.Printf("[DEBUG] no records to check for notifications")
		return nil
	}

	users := make([]string, 0, len(s.matchers))
	for u := range s.matchers {
		users = append(users, u)
	}
	errs := make([]error, len(users))

	var g errgroup.Group
	g.SetLimit(s.Workers)
	for i, user := range users {
		g.Go(func() error {
			errs[i] = s.checkUser(ctx, user, records)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for i, err := range errs {
		if err != nil {
			lgr.Printf("[WARN] notification for %s: %v", users[i], err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d users failed", failed, len(users))
	}
	return nil
}

// checkUser delivers not yet sent matches to the user, links are marked sent only after delivery
func (s *Service) checkUser(ctx context.Context, user string, records []domain.NewsRecord) error {
	m := s.matchers[user]
	var matched []domain.NewsRecord
	for _, r := range records {
		if r.Link != "" && m.Match(r) {
			matched = append(matched, r)
		}
	}
	if len(matched) == 0 {
		return nil
	}

	links := make([]string, len(matched))
	for i, r := range matched {
		links[i] = r.Link
	}
	sent, err := s.Store.SentLinks(ctx, user, links)
	if err != nil {
		return fmt.Errorf("get sent links: %w", err)
	}

	fresh := matched[:0]
	for _, r := range matched {
		if !sent[r.Link] {
			fresh = append(fresh, r)
		}
	}
	if len(fresh) == 0 {
		return nil
	}

	if err := s.Notifier.Notify(ctx, user, fresh); err != nil {
		return fmt.Errorf("deliver %d records: %w", len(fresh), err)
	}
	freshLinks := make([]string, len(fresh))
	for i, r := range fresh {
		freshLinks[i] = r.Link
	}
	if err := s.Store.MarkSent(ctx, user, freshLinks); err != nil {
		return fmt.Errorf("mark sent: %w", err)
	}
	lgr.Printf("[INFO] notified %s about %d articles", user, len(fresh))
	return nil
}

// cronLogger routes cron's own messages to lgr
type cronLogger struct{}

func (cronLogger) Printf(format string, args ...any) {
	lgr.Printf("[DEBUG] cron: "+format, args...)
}
