// Package main implements a standalone seed script that populates a
// development database with demo homestay data: extra rooms beyond the
// base catalog, a demo guest account, and a handful of orders and
// favorites for that account. It writes directly with SQL so it can run
// before the API server is up.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// --------------------------------------------------------------------------
// Configuration helpers
// --------------------------------------------------------------------------

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func databaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		getEnv("POSTGRES_USER", "postgres"),
		getEnv("POSTGRES_PASSWORD", "postgres"),
		getEnv("POSTGRES_HOST", "localhost"),
		getEnv("POSTGRES_PORT", "5432"),
		getEnv("POSTGRES_DB", "homestay"),
	)
}

// --------------------------------------------------------------------------
// Seed data definitions
// --------------------------------------------------------------------------

type roomDef struct {
	id           int
	name         string
	price        float64
	description  string
	tags         []string
	rating       float64
	location     string
	facilities   []string
	checkInTime  string
	checkOutTime string
}

var extraRooms = []roomDef{
	{
		id: 5, name: "拾光·田园风光标间", price: 288,
		description: "推窗即见稻田与远山，体验地道的渔村生活。",
		tags:        []string{"田园", "标间", "实惠"},
		rating:      4.7, location: "湄洲岛环岛路12号",
		facilities:  []string{"WiFi", "空调", "电视"},
		checkInTime: "14:00", checkOutTime: "12:00",
	},
	{
		id: 6, name: "观澜·海景亲子套房", price: 598,
		description: "一线海景，带独立儿童房和游戏角，全家出游首选。",
		tags:        []string{"海景", "亲子", "套房", "含早"},
		rating:      4.9, location: "湄洲岛环岛路150号",
		facilities:  []string{"WiFi", "空调", "儿童设施", "厨房", "停车位"},
		checkInTime: "14:00", checkOutTime: "12:00",
	},
	{
		id: 7, name: "栖迟·日式榻榻米房", price: 358,
		description: "原木榻榻米与障子门，茶香伴着海风入眠。",
		tags:        []string{"日式", "榻榻米", "静谧"},
		rating:      4.8, location: "湄洲岛环岛路36号",
		facilities:  []string{"WiFi", "空调", "茶具", "投影仪"},
		checkInTime: "15:00", checkOutTime: "11:00",
	},
}

const demoOpenID = "demo-openid-0001"

// --------------------------------------------------------------------------
// Seeding
// --------------------------------------------------------------------------

func seedRooms(ctx context.Context, pool *pgxpool.Pool) error {
	for _, r := range extraRooms {
		_, err := pool.Exec(ctx, `
			INSERT INTO rooms (id, name, price, description, image, tags, rating, location, facilities, check_in_time, check_out_time)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (id) DO NOTHING`,
			r.id, r.name, r.price, r.description,
			fmt.Sprintf("https://picsum.photos/800/1200?random=%d", r.id),
			r.tags, r.rating, r.location, r.facilities, r.checkInTime, r.checkOutTime,
		)
		if err != nil {
			return fmt.Errorf("insert room %d: %w", r.id, err)
		}
		log.Printf("room %d (%s) seeded", r.id, r.name)
	}
	return nil
}

func seedDemoUser(ctx context.Context, pool *pgxpool.Pool) (string, error) {
	id := uuid.New().String()
	_, err := pool.Exec(ctx, `
		INSERT INTO users (id, openid, user_name, avatar, phone, points, coupons, vip_level, register_time, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		ON CONFLICT (openid) DO NOTHING`,
		id, demoOpenID, "演示用户", "https://picsum.photos/200?random=99",
		"13800138000", 120, 2, "normal",
	)
	if err != nil {
		return "", fmt.Errorf("insert demo user: %w", err)
	}

	// Re-read so re-runs pick up the previously created account.
	row := pool.QueryRow(ctx, `SELECT id FROM users WHERE openid = $1`, demoOpenID)
	if err := row.Scan(&id); err != nil {
		return "", fmt.Errorf("read demo user: %w", err)
	}
	log.Printf("demo user %s ready", id)
	return id, nil
}

func seedOrders(ctx context.Context, pool *pgxpool.Pool, userID string) error {
	type orderDef struct {
		roomID   int
		nights   int
		daysAgo  int
		status   string
		cancelAt *time.Time
	}

	now := time.Now().UTC()
	cancelled := now.AddDate(0, 0, -5)
	orders := []orderDef{
		{roomID: 1, nights: 2, daysAgo: 30, status: "confirmed"},
		{roomID: 3, nights: 1, daysAgo: 10, status: "confirmed"},
		{roomID: 2, nights: 3, daysAgo: 7, status: "cancelled", cancelAt: &cancelled},
	}

	for _, o := range orders {
		var name string
		var price float64
		row := pool.QueryRow(ctx, `SELECT name, price FROM rooms WHERE id = $1`, o.roomID)
		if err := row.Scan(&name, &price); err != nil {
			return fmt.Errorf("read room %d: %w", o.roomID, err)
		}

		checkIn := now.AddDate(0, 0, -o.daysAgo)
		id := "ORDSEED" + uuid.New().String()[:8] + fmt.Sprintf("%d", o.roomID)
		_, err := pool.Exec(ctx, `
			INSERT INTO orders (id, user_id, room_id, room_name, room_image, check_in_date, check_out_date,
			                    nights, guest_name, guest_phone, total_price, status, payment_status,
			                    payment_method, create_time, cancel_time)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 'paid', 'wechat', $13, $14)
			ON CONFLICT (id) DO NOTHING`,
			id, userID, o.roomID, name,
			fmt.Sprintf("https://picsum.photos/800/1200?random=%d", o.roomID),
			checkIn, checkIn.AddDate(0, 0, o.nights),
			o.nights, "演示用户", "13800138000",
			price*float64(o.nights), o.status,
			checkIn.AddDate(0, 0, -1), o.cancelAt,
		)
		if err != nil {
			return fmt.Errorf("insert order %s: %w", id, err)
		}
		log.Printf("order %s (%s, room %d) seeded", id, o.status, o.roomID)
	}
	return nil
}

func seedFavorites(ctx context.Context, pool *pgxpool.Pool, userID string) error {
	for _, roomID := range []int{1, 4} {
		var name string
		var price float64
		row := pool.QueryRow(ctx, `SELECT name, price FROM rooms WHERE id = $1`, roomID)
		if err := row.Scan(&name, &price); err != nil {
			return fmt.Errorf("read room %d: %w", roomID, err)
		}

		_, err := pool.Exec(ctx, `
			INSERT INTO favorites (user_id, room_id, room_name, room_price, room_image, favorite_time)
			VALUES ($1, $2, $3, $4, $5, NOW())
			ON CONFLICT (user_id, room_id) DO NOTHING`,
			userID, roomID, name, price,
			fmt.Sprintf("https://picsum.photos/800/1200?random=%d", roomID),
		)
		if err != nil {
			return fmt.Errorf("insert favorite for room %d: %w", roomID, err)
		}
		log.Printf("favorite for room %d seeded", roomID)
	}
	return nil
}

// --------------------------------------------------------------------------
// Entry point
// --------------------------------------------------------------------------

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, databaseURL())
	if err != nil {
		log.Fatalf("connect to postgres: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("ping postgres: %v", err)
	}

	if err := seedRooms(ctx, pool); err != nil {
		log.Fatalf("seed rooms: %v", err)
	}
	userID, err := seedDemoUser(ctx, pool)
	if err != nil {
		log.Fatalf("seed demo user: %v", err)
	}
	if err := seedOrders(ctx, pool, userID); err != nil {
		log.Fatalf("seed orders: %v", err)
	}
	if err := seedFavorites(ctx, pool, userID); err != nil {
		log.Fatalf("seed favorites: %v", err)
	}

	log.Println("seed complete")
}
