package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"styledeco/internal/domain"
	"styledeco/internal/modules/identity"
	"styledeco/internal/pkg/cache"
	"styledeco/internal/repository"
)

const keyPrefix = "analytics:"

// Service serves dashboard aggregates. Results are snapshots and may lag
// writes by up to the cache TTL.
type Service struct {
	repo  Repository
	cache cache.Client
	ttl   time.Duration
	log   *zap.Logger
}

func NewService(repo Repository, c cache.Client, ttl time.Duration, log *zap.Logger) *Service {
	return &Service{repo: repo, cache: c, ttl: ttl, log: log}
}

// cached returns the value under key, loading and storing it on a miss. Cache
// errors only cost a database round trip.
func cached[T any](ctx context.Context, s *Service, key string, load func(context.Context) (T, error)) (T, error) {
	var out T
	if s.cache != nil && s.ttl > 0 {
		err := cache.GetJSON(ctx, s.cache, keyPrefix+key, &out)
		if err == nil {
			return out, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.Warn("analytics cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	out, err := load(ctx)
	if err != nil {
		return out, err
	}

	if s.cache != nil && s.ttl > 0 {
		if err := cache.SetJSON(ctx, s.cache, keyPrefix+key, out, s.ttl); err != nil {
			s.log.Warn("analytics cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return out, nil
}

func (s *Service) RevenueByService(ctx context.Context, p domain.Principal) ([]repository.ServiceRevenue, error) {
	if err := identity.Authorize(p, identity.ActionReadAnalytics, identity.Resource{}); err != nil {
		return nil, err
	}
	return cached(ctx, s, "revenue", func(ctx context.Context) ([]repository.ServiceRevenue, error) {
		return s.repo.RevenueByService(ctx, "")
	})
}

func (s *Service) BookingCountByUser(ctx context.Context, p domain.Principal) ([]repository.KeyCount, error) {
	if err := identity.Authorize(p, identity.ActionReadAnalytics, identity.Resource{}); err != nil {
		return nil, err
	}
	return cached(ctx, s, "bookings-by-user", s.repo.BookingCountByUser)
}

func (s *Service) BookingCountByService(ctx context.Context, p domain.Principal) ([]repository.KeyCount, error) {
	if err := identity.Authorize(p, identity.ActionReadAnalytics, identity.Resource{}); err != nil {
		return nil, err
	}
	return cached(ctx, s, "bookings-by-service", s.repo.BookingCountByService)
}

// AssignmentRatio is computed over paid bookings only.
func (s *Service) AssignmentRatio(ctx context.Context, p domain.Principal) (AssignmentRatio, error) {
	if err := identity.Authorize(p, identity.ActionReadAnalytics, identity.Resource{}); err != nil {
		return AssignmentRatio{}, err
	}
	return cached(ctx, s, "assignments", func(ctx context.Context) (AssignmentRatio, error) {
		assigned, err := s.repo.CountPaidBookings(ctx, true)
		if err != nil {
			return AssignmentRatio{}, err
		}
		unassigned, err := s.repo.CountPaidBookings(ctx, false)
		if err != nil {
			return AssignmentRatio{}, err
		}
		return AssignmentRatio{
			Assigned:   assigned,
			Unassigned: unassigned,
			Ratio:      ratio(assigned, assigned+unassigned),
		}, nil
	})
}

func (s *Service) PaymentStatusRatio(ctx context.Context, p domain.Principal) (PaymentStatusRatio, error) {
	if err := identity.Authorize(p, identity.ActionReadAnalytics, identity.Resource{}); err != nil {
		return PaymentStatusRatio{}, err
	}
	return cached(ctx, s, "payments", func(ctx context.Context) (PaymentStatusRatio, error) {
		counts, err := s.repo.PaymentCountByStatus(ctx)
		if err != nil {
			return PaymentStatusRatio{}, err
		}

		var out PaymentStatusRatio
		for _, c := range counts {
			switch domain.PaymentStatus(c.Key) {
			case domain.PaymentPaid:
				out.Paid = c.Count
			case domain.PaymentCancelled:
				out.Cancelled = c.Count
			}
		}
		out.PaidRatio = ratio(out.Paid, out.Paid+out.Cancelled)
		return out, nil
	})
}

// DecoratorEarnings totals paid payments for bookings assigned to the
// decorator.
func (s *Service) DecoratorEarnings(ctx context.Context, p domain.Principal) (Earnings, error) {
	if p.Role != domain.RoleDecorator {
		return Earnings{}, fmt.Errorf("%w: earnings are tracked for decorators only", domain.ErrForbidden)
	}
	if err := identity.Authorize(p, identity.ActionReadEarnings, identity.Resource{DecoratorEmail: p.ID}); err != nil {
		return Earnings{}, err
	}

	return cached(ctx, s, "earnings:"+p.ID, func(ctx context.Context) (Earnings, error) {
		rows, err := s.repo.RevenueByService(ctx, p.ID)
		if err != nil {
			return Earnings{}, err
		}

		out := Earnings{DecoratorEmail: p.ID, Total: decimal.Zero, ByService: rows}
		for _, r := range rows {
			out.Total = out.Total.Add(r.Revenue)
			out.Payments += r.Payments
		}
		return out, nil
	})
}

func ratio(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total)
}
