package db

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Seed inserts demo campaigns into the market-ads database.
func Seed(ctx context.Context, db *pgxpool.Pool) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	slotTypes := []string{"leaderboard", "top_sidebar", "right_sidebar_top", "right_sidebar_middle", "right_sidebar_bottom"}
	rates := map[string]int64{
		"leaderboard": 60000, "top_sidebar": 45000, "right_sidebar_top": 30000,
		"right_sidebar_middle": 25000, "right_sidebar_bottom": 20000,
	}
	durations := []int{1, 3, 6, 12}
	discounts := map[int]int{1: 0, 3: 10, 6: 15, 12: 20}

	for i := 1; i <= 10; i++ {
		owner := fmt.Sprintf("shop-%d", i)
		adType := slotTypes[r.Intn(len(slotTypes))]
		slot := r.Intn(6) + 1
		months := durations[r.Intn(len(durations))]
		base := rates[adType]
		discount := discounts[months]
		total := (base*int64(months)*int64(100-discount) + 50) / 100

		start := time.Now().AddDate(0, 0, -r.Intn(20))
		end := start.AddDate(0, months, 0)
		views := int64(r.Intn(5000))
		clicks := int64(0)
		ctr := float64(0)
		if views > 0 {
			clicks = int64(r.Intn(int(views)/10 + 1))
			ctr = float64(clicks) / float64(views) * 100
		}

		_, err := db.Exec(ctx, `INSERT INTO campaigns
    (id, owner_id, ad_type, slot_number, duration_months,
     base_price, discount_percent, total_price,
     status, payment_status, start_date, end_date, auto_renew,
     views, clicks, click_through_rate, expiry_warning_emailed,
     title, description, media_url, media_public_id, link_target,
     created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,'active','completed',$9,$10,$11,$12,$13,$14,false,$15,$16,$17,$18,$19,now(),now())
ON CONFLICT DO NOTHING`,
			uuid.NewString(), owner, adType, slot, months,
			base, discount, total, start, end, r.Intn(2) == 0,
			views, clicks, ctr,
			fmt.Sprintf("Demo campaign %d", i),
			"Seeded demo campaign",
			fmt.Sprintf("https://media.example.com/demo/%d.png", i),
			fmt.Sprintf("demo-%d", i),
			fmt.Sprintf("https://shop.example.com/%s", owner))
		if err != nil {
			return err
		}
	}
	return nil
}
