package jobs

import (
	"context"
	"fmt"

	"gearup-backend/internal/logger"
	"gearup-backend/internal/utils"
)

// ExpireStaleBookings rejects pending bookings whose start date has already
// passed. An owner who never responded can no longer confirm a rental that
// was supposed to have started.
func (jr *JobRunner) ExpireStaleBookings() {
	jr.runWithRecovery("ExpireStaleBookings", func() {
		ctx := context.Background()

		query := `
			UPDATE bookings
			SET status = 'REJECTED',
			    updated_on = NOW()
			WHERE status = 'PENDING'
			  AND start_date < $1
			RETURNING id, renter_id, equipment_name
		`

		rows, err := jr.db.QueryContext(ctx, query, utils.Today())
		if err != nil {
			logger.Error("Failed to expire stale bookings", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var (
				bookingID     int32
				renterID      int32
				equipmentName string
			)
			if err := rows.Scan(&bookingID, &renterID, &equipmentName); err != nil {
				logger.Error("Failed to scan expired booking", "error", err)
				continue
			}
			count++
			jr.notifier.Emit(ctx, renterID,
				fmt.Sprintf("Your request for %s expired before the owner responded.", equipmentName),
				"/dashboard")
			logger.Debug("Expired stale booking", "booking_id", bookingID, "renter_id", renterID)
		}
		if err := rows.Err(); err != nil {
			logger.Error("Error iterating expired bookings", "error", err)
			return
		}

		logger.Info("Expired stale pending bookings", "count", count)
	})
}

// RemindPendingRequests nudges owners who still have undecided booking
// requests waiting on them.
func (jr *JobRunner) RemindPendingRequests() {
	jr.runWithRecovery("RemindPendingRequests", func() {
		ctx := context.Background()

		query := `
			SELECT owner_id, count(*)
			FROM bookings
			WHERE status = 'PENDING'
			  AND start_date >= $1
			  AND created_on < NOW() - make_interval(days => $2)
			GROUP BY owner_id
		`

		rows, err := jr.db.QueryContext(ctx, query, utils.Today(), jr.config.Scheduler.ReminderMinAgeDays)
		if err != nil {
			logger.Error("Failed to query pending requests", "error", err)
			return
		}
		defer rows.Close()

		owners := 0
		for rows.Next() {
			var (
				ownerID int32
				pending int32
			)
			if err := rows.Scan(&ownerID, &pending); err != nil {
				logger.Error("Failed to scan pending request count", "error", err)
				continue
			}
			owners++
			message := fmt.Sprintf("You have %d booking requests waiting for a decision.", pending)
			if pending == 1 {
				message = "You have 1 booking request waiting for a decision."
			}
			jr.notifier.Emit(ctx, ownerID, message, "/owner/requests")
		}
		if err := rows.Err(); err != nil {
			logger.Error("Error iterating pending request counts", "error", err)
			return
		}

		logger.Info("Sent pending request reminders", "owners", owners)
	})
}
