// Load bot for the user management service: registers a batch of citizens
// and fires civic events at the internal endpoint at a fixed rate.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"
)

var httpClient *http.Client

type Config struct {
	BaseURL     string
	RequestRate time.Duration
	UserCount   int
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type RegisterResponse struct {
	UserID uint   `json:"user_id"`
	Token  string `json:"token"`
}

type EventRequest struct {
	UserID    uint   `json:"user_id"`
	EventType string `json:"event_type"`
}

type BotUser struct {
	ID   uint
	Name string
}

var eventTypes = []string{"new_report", "confirm_issue", "report_resolved"}

var firstNames = []string{
	"Ada", "Bruno", "Carmen", "Dmitri", "Elena", "Farid", "Grace", "Hugo",
	"Ines", "Jonas", "Kira", "Luis", "Mira", "Noor", "Otto", "Priya",
	"Quentin", "Rosa", "Sven", "Tara", "Umar", "Vera", "Wendell", "Yuki",
}

var lastNames = []string{
	"Alvarez", "Bergmann", "Costa", "Dubois", "Eriksen", "Fischer", "Gupta",
	"Haddad", "Ivanov", "Jensen", "Khan", "Lindqvist", "Moreau", "Nakamura",
	"Okafor", "Petrov", "Quiroga", "Rossi", "Schmidt", "Tanaka",
}

func initHTTPClient() {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		MaxConnsPerHost:     100,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ResponseHeaderTimeout: 10 * time.Second,
	}
	httpClient = &http.Client{
		Transport: transport,
		Timeout:   30 * time.Second,
	}
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	initHTTPClient()
	config := loadConfig()

	users, err := registerUsers(config.BaseURL, config.UserCount)
	if err != nil {
		slog.Error("Failed to register users", "error", err)
		os.Exit(1)
	}
	slog.Info("Successfully registered users", "count", len(users))

	slog.Info("Starting to emit events",
		"user_count", len(users),
		"request_rate", config.RequestRate.String(),
		"event_types", eventTypes)
	runBots(config.BaseURL, users, config.RequestRate)
}

func loadConfig() Config {
	config := Config{
		BaseURL:     "http://localhost:8000",
		RequestRate: 1 * time.Second,
		UserCount:   10,
	}

	if baseURL := os.Getenv("BOT_BASE_URL"); baseURL != "" {
		config.BaseURL = baseURL
	}
	if rateStr := os.Getenv("BOT_REQUEST_RATE_MS"); rateStr != "" {
		if rateMs, err := strconv.Atoi(rateStr); err == nil {
			config.RequestRate = time.Duration(rateMs) * time.Millisecond
		} else {
			slog.Warn("Invalid BOT_REQUEST_RATE_MS value, using default",
				"value", rateStr,
				"default", config.RequestRate.String())
		}
	}
	if userCountStr := os.Getenv("BOT_USER_COUNT"); userCountStr != "" {
		if userCount, err := strconv.Atoi(userCountStr); err == nil && userCount > 0 {
			config.UserCount = userCount
		} else {
			slog.Warn("Invalid BOT_USER_COUNT value, using default",
				"value", userCountStr,
				"default", config.UserCount)
		}
	}

	slog.Info("Configuration loaded",
		"base_url", config.BaseURL,
		"request_rate", config.RequestRate.String(),
		"user_count", config.UserCount)
	return config
}

func registerUsers(baseURL string, userCount int) ([]BotUser, error) {
	var users []BotUser
	var wg sync.WaitGroup
	var mu sync.Mutex

	errChan := make(chan error, userCount)

	for i := 0; i < userCount; i++ {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()

			name := fmt.Sprintf("%s %s",
				firstNames[rand.Intn(len(firstNames))],
				lastNames[rand.Intn(len(lastNames))])
			email := fmt.Sprintf("bot%d-%d@civic.test", index, rand.Intn(100000))

			userID, err := registerUser(baseURL, name, email)
			if err != nil {
				errChan <- fmt.Errorf("failed to register user %s: %w", email, err)
				return
			}

			mu.Lock()
			users = append(users, BotUser{ID: userID, Name: name})
			mu.Unlock()

			slog.Info("Successfully registered user", "name", name, "user_id", userID)
		}(i)
	}

	wg.Wait()
	close(errChan)

	for err := range errChan {
		if err != nil {
			return nil, err
		}
	}
	return users, nil
}

func registerUser(baseURL, name, email string) (uint, error) {
	body, err := json.Marshal(RegisterRequest{
		Name:     name,
		Email:    email,
		Password: "bot-password",
		Role:     "Citizen",
	})
	if err != nil {
		return 0, err
	}

	resp, err := httpClient.Post(baseURL+"/api/v1/register", "application/json", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		payload, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, payload)
	}

	registerResp := RegisterResponse{}
	if err := json.NewDecoder(resp.Body).Decode(&registerResp); err != nil {
		return 0, err
	}
	return registerResp.UserID, nil
}

func runBots(baseURL string, users []BotUser, rate time.Duration) {
	var wg sync.WaitGroup
	for _, user := range users {
		wg.Add(1)
		go func(user BotUser) {
			defer wg.Done()
			ticker := time.NewTicker(rate)
			defer ticker.Stop()
			for range ticker.C {
				eventType := eventTypes[rand.Intn(len(eventTypes))]
				if err := sendEvent(baseURL, user.ID, eventType); err != nil {
					slog.Error("Failed to send event", "user_id", user.ID, "error", err)
				}
			}
		}(user)
	}
	wg.Wait()
}

func sendEvent(baseURL string, userID uint, eventType string) error {
	body, err := json.Marshal(EventRequest{UserID: userID, EventType: eventType})
	if err != nil {
		return err
	}

	resp, err := httpClient.Post(baseURL+"/internal/events", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, payload)
	}
	return nil
}
