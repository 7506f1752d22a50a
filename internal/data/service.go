// ABOUTME: Typed bindings between the query cache and the API client
// ABOUTME: One method per screen query plus mutations with their invalidations

package data

import (
	"context"
	"time"

	"github.com/adokuru/affordaily-cli/internal/client"
	"github.com/adokuru/affordaily-cli/internal/query"
)

// Staleness windows and refetch cadences per query. Active bookings
// and dashboard stats poll while on screen; rates barely change.
const (
	bookingsStale  = 2 * time.Minute
	activeStale    = 1 * time.Minute
	activeRefetch  = 30 * time.Second
	statsStale     = 1 * time.Minute
	statsRefetch   = 30 * time.Second
	occupancyStale = 2 * time.Minute
	occupancyPoll  = time.Minute
	availableStale = 1 * time.Minute
	ratesStale     = 10 * time.Minute
	guestStale     = 5 * time.Minute
	guestGC        = 10 * time.Minute
	profileStale   = 10 * time.Minute
)

// Service feeds screens from the cache and routes mutations through
// the API client, invalidating affected keys afterwards.
type Service struct {
	api       *client.Client
	cache     *query.Cache
	refetchOn bool
}

// New creates the data service. refetchOn gates background interval
// refetches (disabled for one-shot CLI commands).
func New(api *client.Client, cache *query.Cache, refetchOn bool) *Service {
	return &Service{api: api, cache: cache, refetchOn: refetchOn}
}

// API exposes the underlying client for auth state checks.
func (s *Service) API() *client.Client {
	return s.api
}

// Invalidate marks cached entries under prefix as stale. Used by
// screens with a manual refresh action.
func (s *Service) Invalidate(prefix query.Key) {
	s.cache.Invalidate(prefix)
}

func (s *Service) interval(d time.Duration) time.Duration {
	if !s.refetchOn {
		return 0
	}
	return d
}

// Bookings returns all bookings.
func (s *Service) Bookings(ctx context.Context) ([]client.Booking, error) {
	v, err := s.cache.Fetch(ctx, BookingsKey(), func(ctx context.Context) (any, error) {
		return s.api.Bookings(ctx)
	}, query.Options{StaleTime: bookingsStale})
	if err != nil {
		return nil, err
	}
	b, _ := v.([]client.Booking)
	return b, nil
}

// ActiveBookings returns currently checked-in bookings.
func (s *Service) ActiveBookings(ctx context.Context) ([]client.Booking, error) {
	v, err := s.cache.Fetch(ctx, ActiveBookingsKey(), s.fetchActive, query.Options{StaleTime: activeStale})
	if err != nil {
		return nil, err
	}
	b, _ := v.([]client.Booking)
	return b, nil
}

// WatchActiveBookings subscribes to the active bookings list with a
// 30-second background refresh while on screen.
func (s *Service) WatchActiveBookings() *query.Subscription {
	return s.cache.Subscribe(ActiveBookingsKey(), s.fetchActive, query.Options{
		StaleTime:       activeStale,
		RefetchInterval: s.interval(activeRefetch),
	})
}

func (s *Service) fetchActive(ctx context.Context) (any, error) {
	return s.api.ActiveBookings(ctx)
}

// Stats returns the dashboard counters.
func (s *Service) Stats(ctx context.Context) (*client.DashboardStats, error) {
	v, err := s.cache.Fetch(ctx, StatsKey(), s.fetchStats, query.Options{StaleTime: statsStale})
	if err != nil {
		return nil, err
	}
	st, _ := v.(*client.DashboardStats)
	return st, nil
}

// WatchStats subscribes to dashboard counters with background refresh.
func (s *Service) WatchStats() *query.Subscription {
	return s.cache.Subscribe(StatsKey(), s.fetchStats, query.Options{
		StaleTime:       statsStale,
		RefetchInterval: s.interval(statsRefetch),
	})
}

func (s *Service) fetchStats(ctx context.Context) (any, error) {
	return s.api.DashboardStats(ctx)
}

// Occupancy returns room counts by status.
func (s *Service) Occupancy(ctx context.Context) (*client.RoomOccupancy, error) {
	v, err := s.cache.Fetch(ctx, OccupancyKey(), s.fetchOccupancy, query.Options{StaleTime: occupancyStale})
	if err != nil {
		return nil, err
	}
	occ, _ := v.(*client.RoomOccupancy)
	return occ, nil
}

// WatchOccupancy subscribes to room counts with a one-minute poll
// while the rooms screen is up.
func (s *Service) WatchOccupancy() *query.Subscription {
	return s.cache.Subscribe(OccupancyKey(), s.fetchOccupancy, query.Options{
		StaleTime:       occupancyStale,
		RefetchInterval: s.interval(occupancyPoll),
	})
}

func (s *Service) fetchOccupancy(ctx context.Context) (any, error) {
	return s.api.RoomOccupancy(ctx)
}

// AvailableRooms returns the free rooms list.
func (s *Service) AvailableRooms(ctx context.Context) ([]client.Room, error) {
	v, err := s.cache.Fetch(ctx, AvailableRoomsKey(), func(ctx context.Context) (any, error) {
		return s.api.AvailableRooms(ctx)
	}, query.Options{StaleTime: availableStale})
	if err != nil {
		return nil, err
	}
	rooms, _ := v.([]client.Room)
	return rooms, nil
}

// Rates returns the nightly rates per bed-space type.
func (s *Service) Rates(ctx context.Context) (*client.RoomRates, error) {
	v, err := s.cache.Fetch(ctx, RatesKey(), func(ctx context.Context) (any, error) {
		return s.api.RoomRates(ctx)
	}, query.Options{StaleTime: ratesStale})
	if err != nil {
		return nil, err
	}
	rates, _ := v.(*client.RoomRates)
	return rates, nil
}

// SearchGuest looks up a guest by phone. The query is disabled for an
// empty phone and retries once at most, matching search semantics.
func (s *Service) SearchGuest(ctx context.Context, phone string) (*client.Guest, error) {
	v, err := s.cache.Fetch(ctx, GuestSearchKey(phone), func(ctx context.Context) (any, error) {
		return s.api.SearchGuestByPhone(ctx, phone)
	}, query.Options{
		StaleTime: guestStale,
		GCTime:    guestGC,
		Retries:   1,
		Disabled:  phone == "" || !s.api.IsAuthenticated(),
	})
	if err != nil {
		return nil, err
	}
	g, _ := v.(*client.Guest)
	return g, nil
}

// Profile returns the logged-in operator, disabled when there is no
// token.
func (s *Service) Profile(ctx context.Context) (*client.User, error) {
	v, err := s.cache.Fetch(ctx, UserKey(), func(ctx context.Context) (any, error) {
		return s.api.Profile(ctx)
	}, query.Options{
		StaleTime: profileStale,
		Disabled:  !s.api.IsAuthenticated(),
	})
	if err != nil {
		return nil, err
	}
	u, _ := v.(*client.User)
	return u, nil
}

// Login authenticates and primes the auth queries.
func (s *Service) Login(ctx context.Context, email, password string) (*client.User, error) {
	v, err := s.cache.Mutate(ctx, func(ctx context.Context) (any, error) {
		return s.api.Login(ctx, email, password)
	}, query.MutationOptions{})
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(AuthPrefix())
	result := v.(*client.LoginResult)
	return &result.User, nil
}

// Logout ends the session. The token and every cached entry are
// dropped even when the server-side call fails.
func (s *Service) Logout(ctx context.Context) {
	s.api.Logout(ctx)
	s.cache.Clear()
}

// CheckIn creates a booking and refreshes the booking lists.
func (s *Service) CheckIn(ctx context.Context, input client.CreateBookingInput) (*client.Booking, error) {
	v, err := s.cache.Mutate(ctx, func(ctx context.Context) (any, error) {
		return s.api.CreateBooking(ctx, input)
	}, query.MutationOptions{})
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(BookingsPrefix())
	s.cache.Invalidate(StatsKey())
	s.cache.Invalidate(query.K("rooms"))
	return v.(*client.Booking), nil
}

// Checkout finalizes a stay and refreshes the booking lists.
func (s *Service) Checkout(ctx context.Context, bookingID int, input client.CheckoutInput) (*client.Booking, error) {
	v, err := s.cache.Mutate(ctx, func(ctx context.Context) (any, error) {
		return s.api.CheckoutBooking(ctx, bookingID, input)
	}, query.MutationOptions{})
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(BookingsPrefix())
	s.cache.Invalidate(StatsKey())
	s.cache.Invalidate(query.K("rooms"))
	return v.(*client.Booking), nil
}

// Extend adds nights to a stay and refreshes the booking lists.
func (s *Service) Extend(ctx context.Context, bookingID, nights int) (*client.Booking, error) {
	v, err := s.cache.Mutate(ctx, func(ctx context.Context) (any, error) {
		return s.api.ExtendBooking(ctx, bookingID, nights)
	}, query.MutationOptions{})
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(BookingsPrefix())
	return v.(*client.Booking), nil
}
