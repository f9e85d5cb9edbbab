package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pior/eventhub"
)

func main() {
	host := flag.String("host", "localhost:5671", "broker address")
	hub := flag.String("hub", "default", "hub name")
	keyName := flag.String("key-name", "root", "shared access key name")
	key := flag.String("key", "", "shared access key")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	if *key == "" {
		fmt.Println("a shared access key is required (-key)")
		os.Exit(1)
	}

	config := eventhub.Config{
		Credential: &eventhub.SharedAccessCredential{
			KeyName: *keyName,
			Key:     []byte(*key),
		},
	}
	if *verbose {
		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		config.Logger = &logger
	}

	client, err := eventhub.NewClient(*host, *hub, config)
	if err != nil {
		fmt.Printf("Failed to create client: %v\n", err)
		os.Exit(1)
	}
	defer client.Close(context.Background())

	fmt.Println("Event Hub CLI")
	fmt.Println("=============")
	fmt.Println("Commands: props, partition <id>, stats, quit")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		parts := strings.Fields(strings.TrimSpace(scanner.Text()))
		if len(parts) == 0 {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

		switch strings.ToLower(parts[0]) {
		case "props":
			props, err := client.GetProperties(ctx, nil)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				break
			}
			fmt.Printf("Hub: %s\n", props.Name)
			fmt.Printf("Created: %s\n", props.CreatedAt.Format(time.RFC3339))
			fmt.Printf("Partitions: %s\n", strings.Join(props.PartitionIDs, ", "))

		case "partition":
			if len(parts) < 2 {
				fmt.Println("Usage: partition <id>")
				break
			}
			props, err := client.GetPartitionProperties(ctx, parts[1], nil)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				break
			}
			fmt.Printf("Partition: %s\n", props.PartitionID)
			fmt.Printf("Sequence: %d .. %d\n", props.BeginningSequenceNumber, props.LastSequenceNumber)
			fmt.Printf("Last offset: %s\n", props.LastOffset)
			if !props.LastEnqueuedAt.IsZero() {
				fmt.Printf("Last enqueued: %s\n", props.LastEnqueuedAt.Format(time.RFC3339))
			}
			fmt.Printf("Empty: %v\n", props.IsEmpty)

		case "stats":
			stats := client.Stats()
			fmt.Printf("Operations: %d\n", stats.Operations)
			fmt.Printf("Retries: %d\n", stats.Retries)
			fmt.Printf("Token refreshes: %d\n", stats.TokenRefreshes)
			fmt.Printf("Links created: %d\n", stats.LinksCreated)
			fmt.Printf("Errors: %d\n", stats.Errors)

		case "quit", "exit":
			cancel()
			return

		default:
			fmt.Printf("Unknown command: %s\n", parts[0])
		}

		cancel()
	}
}
