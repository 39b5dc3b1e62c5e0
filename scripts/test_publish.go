//go:build ignore

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/geohash-service/internal/domain"
)

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	streamIn := flag.String("in", "stream:geohash:convert", "request stream")
	streamOut := flag.String("out", "stream:geohash:done", "result stream")
	length := flag.Int("length", 7, "geohash length")
	flag.Parse()

	client := redis.NewClient(&redis.Options{
		Addr: *redisAddr,
	})
	defer client.Close()

	ctx := context.Background()

	// Проверка подключения
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Барселона, Мадрид, Валенсия
	event := domain.ConversionRequestEvent{
		RequestID:  uuid.New(),
		Operation:  domain.OperationEncode,
		Longitudes: []float64{2.1599563, -3.7037902, -0.3762881},
		Latitudes:  []float64{41.4027042, 40.4167754, 39.4699075},
		Length:     *length,
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	// Публикация в стрим
	result, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: *streamIn,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}

	fmt.Printf("Event published\n")
	fmt.Printf("   Stream: %s\n", *streamIn)
	fmt.Printf("   Message ID: %s\n", result)
	fmt.Printf("   Request ID: %s\n", event.RequestID)
	fmt.Printf("   Points: %d, length %d\n", len(event.Longitudes), event.Length)

	fmt.Printf("\nWaiting for response in %s...\n", *streamOut)

	timeout := time.After(30 * time.Second)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			fmt.Println("Timeout waiting for response")
			return
		case <-ticker.C:
			results, err := client.XRead(ctx, &redis.XReadArgs{
				Streams: []string{*streamOut, "0"},
				Count:   100,
				Block:   -1,
			}).Result()
			if err != nil && !errors.Is(err, redis.Nil) {
				continue
			}

			for _, stream := range results {
				for _, msg := range stream.Messages {
					dataStr, ok := msg.Values["data"].(string)
					if !ok {
						continue
					}

					var done domain.ConversionDoneEvent
					if err := json.Unmarshal([]byte(dataStr), &done); err != nil {
						continue
					}
					if done.RequestID != event.RequestID {
						continue
					}

					fmt.Printf("\nResponse received\n")
					prettyJSON, _ := json.MarshalIndent(done, "", "  ")
					fmt.Printf("%s\n", prettyJSON)
					return
				}
			}
		}
	}
}
