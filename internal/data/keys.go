// ABOUTME: Canonical query keys for the Affordaily data layer
// ABOUTME: Key builders keep invalidation prefixes consistent across screens

package data

import "github.com/adokuru/affordaily-cli/internal/query"

func BookingsKey() query.Key { return query.K("bookings", "list") }

func ActiveBookingsKey() query.Key { return query.K("bookings", "active") }

func BookingsPrefix() query.Key { return query.K("bookings") }

func StatsKey() query.Key { return query.K("dashboard", "stats") }

func OccupancyKey() query.Key { return query.K("rooms", "occupancy") }

func AvailableRoomsKey() query.Key { return query.K("rooms", "available") }

func RatesKey() query.Key { return query.K("rooms", "rates") }

func UserKey() query.Key { return query.K("auth", "user") }

func AuthPrefix() query.Key { return query.K("auth") }

func GuestSearchKey(phone string) query.Key {
	return query.K("guests", "search", phone)
}
