// Command seed fills the database with demo users, skills and swaps.
package main

import (
	"context"
	"flag"
	"log"

	"skillswap/internal/bootstrap"
	"skillswap/internal/config"
	"skillswap/internal/database"
	"skillswap/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numSwaps := flag.Int("swaps", 40, "Number of swaps to create")
	shouldClean := flag.Bool("clean", false, "Delete existing rows before seeding")
	randSeed := flag.Int64("seed", 0, "Random seed for reproducible data (0 = random)")
	flag.Parse()

	log.Printf("Target: %d users, %d swaps, clean=%v", *numUsers, *numSwaps, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, _, err := bootstrap.InitRuntime(context.Background(), cfg, bootstrap.Options{})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}
	defer func() { _ = database.Close(db) }()

	res, err := seed.Seed(db, seed.Options{
		NumUsers:    *numUsers,
		NumSwaps:    *numSwaps,
		ShouldClean: *shouldClean,
		Seed:        *randSeed,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Created %d users, %d skills, %d swaps", len(res.Users), len(res.Skills), len(res.Swaps))
	log.Printf("All seeded users have the password: %s", seed.DefaultPassword)
}
