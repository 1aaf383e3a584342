package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/bolao/internal/app"
	"github.com/shrimpsizemoose/bolao/internal/store"
)

const usage = `Usage: admin [-config config.toml] <command>

Commands:
  hash-password <password>  print a bcrypt hash for admin.password_hash
  list                      list submitters with their picks, newest first
  delete <id>               delete a submitter and all of its picks
  stats                     print submitter and pick counts`

func main() {
	var configPath = flag.String("config", "config.toml", "Path to config file")
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if args[0] == "hash-password" {
		if len(args) != 2 {
			flag.Usage()
			os.Exit(2)
		}
		hash, err := app.HashPassword(args[1])
		if err != nil {
			logger.Error.Fatalf("Failed to hash password: %v", err)
		}
		fmt.Println(hash)
		return
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Error.Fatalf("Failed to load .env: %v", err)
	}

	config, err := app.LoadConfig(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}

	s, err := app.NewStore(config.Database.DSN, config.Database.MigrationsDir)
	if err != nil {
		logger.Error.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	switch args[0] {
	case "list":
		err = listSubmitters(s)
	case "delete":
		if len(args) != 2 {
			flag.Usage()
			os.Exit(2)
		}
		err = deleteSubmitter(s, args[1])
	case "stats":
		err = printStats(s)
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		logger.Error.Fatalf("%s failed: %v", args[0], err)
	}
}

func listSubmitters(s store.TicketStore) error {
	submitters, err := s.ListSubmitters()
	if err != nil {
		return err
	}

	for _, sub := range submitters {
		fmt.Printf("#%d %s (%s)\n", sub.ID, sub.FullName, sub.CreatedAt.Format("2006-01-02 15:04"))
		for _, pick := range sub.Picks {
			fmt.Printf("    %s\n", strings.ReplaceAll(pick.Numbers, ",", " "))
		}
	}
	return nil
}

func deleteSubmitter(s store.TicketStore, rawID string) error {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q: %w", rawID, err)
	}

	if err := s.DeleteSubmitter(id); err != nil {
		return err
	}
	logger.Info.Printf("Deleted submitter %d", id)
	return nil
}

func printStats(s store.TicketStore) error {
	stats, err := s.FetchStats()
	if err != nil {
		return err
	}
	fmt.Printf("submitters: %d\npicks: %d\n", stats.Submitters, stats.Picks)
	return nil
}
