package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/pullerize/my-main-tasks-sub000/pkg"
	"github.com/pullerize/my-main-tasks-sub000/src"
	"github.com/pullerize/my-main-tasks-sub000/src/catalog"
	"github.com/pullerize/my-main-tasks-sub000/src/datastore"
	"github.com/pullerize/my-main-tasks-sub000/src/logger"
	"github.com/pullerize/my-main-tasks-sub000/src/session"
	"github.com/pullerize/my-main-tasks-sub000/src/wizard"
)

// consoleNotifier prints executor notifications instead of delivering them
type consoleNotifier struct{}

func (consoleNotifier) Notify(ctx context.Context, chatID int64, text string, action string) error {
	fmt.Printf("\n🔔 notify chat %d: %s [%s]\n", chatID, text, action)
	return nil
}

// The dev console drives the wizard engine from stdin against the in-memory
// Data Store. In production the host dispatcher calls Start/OnUserEvent for
// real chat events instead.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: no .env file loaded: %v", err)
	}

	config, err := src.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.InitLogger(config.Log); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	vocab, err := src.LoadVocabulary("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load vocabulary: %v", err)
	}

	ctx := context.Background()

	var store session.Store
	if config.Session.RedisURL != "" {
		redisStore, err := session.NewRedisStore(ctx, config.Session.RedisURL, config.Session.TTLSeconds)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer redisStore.Close()
		store = redisStore
		logger.Info().Msg("using redis session store")
	} else {
		store = session.NewMemoryStore(config.Session.TTLSeconds)
		logger.Info().Msg("using in-memory session store")
	}

	data := datastore.NewMemory()
	provider := catalog.NewProvider(data, data, vocab, config.Lookup.TimeoutSeconds)
	committer := wizard.NewCommitter(data, consoleNotifier{}, vocab, config.Lookup.TimeoutSeconds)
	resolver := wizard.NewDeadlineResolver(config.Deadline.DefaultHour)
	engine := wizard.NewEngine(store, provider, committer, vocab, resolver)

	fmt.Println("Task wizard dev console.")
	fmt.Println("  /new [role]  start a wizard (role pins the executor role)")
	fmt.Println("  /quit        exit")
	fmt.Println("Anything else is delivered to the wizard as a user event.")

	userID := int64(1)
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())

		var instr pkg.RenderInstruction
		switch {
		case line == "":
			continue
		case line == "/quit":
			return
		case strings.HasPrefix(line, "/new"):
			role := strings.TrimSpace(strings.TrimPrefix(line, "/new"))
			instr, err = engine.Start(ctx, userID, role)
		default:
			instr, err = engine.OnUserEvent(ctx, userID, line)
		}
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}

		render(instr)
	}
}

func render(instr pkg.RenderInstruction) {
	fmt.Println(instr.Text)
	for _, button := range instr.Buttons {
		fmt.Printf("  [%s]\n", button)
	}
}
