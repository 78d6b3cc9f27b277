package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

const defaultBaseURL = "http://localhost:8000"

const sampleText = "The new line of trail running shoes uses a recycled foam midsole, " +
	"a grippy lugged outsole for wet rock, and a breathable mesh upper. " +
	"Reviewers praised the cushioning on long descents but noted the toe box runs narrow."

type chatResponse struct {
	Data struct {
		Message string `json:"message"`
		Model   string `json:"model"`
	} `json:"data"`
}

func main() {
	baseURL := os.Getenv("GATEWAY_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	fmt.Println("🚀 Starting gateway smoke test against", baseURL)

	if err := checkHealth(baseURL); err != nil {
		log.Fatalf("Health check failed: %v", err)
	}

	if err := chat(baseURL); err != nil {
		log.Fatalf("Chat failed: %v", err)
	}

	out := "summary_audio.mp3"
	if len(os.Args) > 1 {
		out = os.Args[1]
	}
	if err := listen(baseURL, out); err != nil {
		log.Fatalf("Listen failed: %v", err)
	}

	fmt.Println("✅ Smoke test completed successfully!")
}

func checkHealth(baseURL string) error {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	fmt.Printf("💓 Health: %s\n", strings.TrimSpace(string(body)))
	return nil
}

func chat(baseURL string) error {
	payload, err := json.Marshal(map[string]string{"message": "Hello! What can you do?"})
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Post(baseURL+"/api/chat", "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	var out chatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	fmt.Printf("💬 %s replied: %s\n", out.Data.Model, out.Data.Message)
	return nil
}

func listen(baseURL, path string) error {
	payload, err := json.Marshal(map[string]string{"message": sampleText})
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: 120 * time.Second}
	fmt.Println("📤 Requesting spoken summary...")

	start := time.Now()
	resp, err := client.Post(baseURL+"/api/listen", "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}
	fmt.Printf("⏱️  First byte after %v (%s)\n", time.Since(start), resp.Header.Get("Content-Type"))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	n, err := io.Copy(f, resp.Body)
	if err != nil {
		return fmt.Errorf("stream interrupted after %d bytes: %w", n, err)
	}
	fmt.Printf("🔊 Saved %d bytes to %s in %v\n", n, path, time.Since(start))
	return nil
}
