// Seeder posts sample prediction payloads to a running API instance,
// one structured and one legacy, for local end-to-end checks.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

type structuredPrediction struct {
	ExternalID   string `json:"externalId"`
	Source       string `json:"source"`
	HomeTeamName string `json:"homeTeamName"`
	AwayTeamName string `json:"awayTeamName"`
	LeagueName   string `json:"leagueName"`
	MarketLabel  string `json:"marketLabel"`
	RawText      string `json:"rawText"`
}

type legacyPrediction struct {
	ID         int64  `json:"id"`
	Date       string `json:"date"`
	Prediction string `json:"prediction"`
}

func main() {
	apiURL := flag.String("url", "http://localhost:8080/api/v1/ingest/predictions", "ingest endpoint")
	apiKey := flag.String("key", "", "ingest API key (structured payloads only)")
	flag.Parse()

	structured := []structuredPrediction{
		{
			ExternalID:   fmt.Sprintf("seed-%d", time.Now().Unix()),
			Source:       "seeder",
			HomeTeamName: "Porto",
			AwayTeamName: "Benfica",
			LeagueName:   "Primeira Liga",
			MarketLabel:  "2.5 ÜST",
		},
		{
			ExternalID:   fmt.Sprintf("seed-%d-2", time.Now().Unix()),
			Source:       "seeder",
			HomeTeamName: "Galatasaray",
			AwayTeamName: "Fenerbahçe",
			LeagueName:   "Süper Lig",
			MarketLabel:  "KG VAR",
		},
	}

	legacy := legacyPrediction{
		ID:         time.Now().Unix(),
		Date:       time.Now().Format("2006-01-02 15:04:05"),
		Prediction: "🏆 Süper Lig\n[Trabzonspor - Beşiktaş] (1-0)\n38' IY 0.5 ÜST",
	}

	post(*apiURL, *apiKey, structured)
	post(*apiURL, "", legacy)
}

func post(url, key string, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Fatalf("marshal: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		log.Fatalf("request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("post: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	fmt.Printf("%s -> %d %s\n", url, res.StatusCode, respBody)
}
