package server

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"strconv"
)

var chatAvatars = []string{"👨‍💼", "👩‍💼", "👨‍💻", "👩‍🔬", "👨‍🎨", "👩‍🎨", "👨‍🏫", "👩‍🏫"}

var chatUsers = []string{"John D.", "Sarah M.", "Mike R.", "Emma W.", "David L.", "Lisa K.", "Tom B.", "Anna S."}

var sampleChatQueries = []string{
	"What's the status of invoice #12345?",
	"Can you approve my expense report?",
	"Show me pending invoices for this month",
	"How do I submit a new invoice?",
	"What's the approval workflow?",
	"Check vendor payment status",
	"Update invoice details",
	"Generate financial report",
	"This is great! Thank you for the help",
	"I love how easy this is to use",
	"The system is not working properly",
	"This is terrible, I can't find anything",
	"Perfect! Exactly what I needed",
	"The interface is slow and buggy",
}

var sampleMetricQueries = []string{
	"What's the status of invoice #12345?",
	"Can you approve my expense report?",
	"Show me pending invoices for this month",
	"How do I submit a new invoice?",
	"This is great! Thank you for the help",
	"I love how easy this is to use",
	"The system is not working properly",
	"This is terrible, I can't find anything",
	"Perfect! Exactly what I needed",
	"The interface is slow and buggy",
	"What's the approval workflow?",
	"Check vendor payment status",
}

type chatEntry struct {
	ID           int     `json:"id"`
	User         string  `json:"user"`
	Avatar       string  `json:"avatar"`
	Query        string  `json:"query"`
	Timestamp    string  `json:"timestamp"`
	ResponseTime float64 `json:"responseTime"`
	Sentiment    string  `json:"sentiment"`
}

type timePoint struct {
	Time         string  `json:"time"`
	ResponseTime float64 `json:"responseTime"`
}

type volumePoint struct {
	Hour    string `json:"hour"`
	Queries int    `json:"queries"`
}

// handleChatHistory serves mock chat history with sentiment derived from
// each query's text.
func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}
	if limit < 0 {
		limit = 0
	}
	if limit > len(sampleChatQueries) {
		limit = len(sampleChatQueries)
	}

	chats := make([]chatEntry, 0, limit)
	for i := 0; i < limit; i++ {
		query := sampleChatQueries[i%len(sampleChatQueries)]
		chats = append(chats, chatEntry{
			ID:           i + 1,
			User:         chatUsers[rand.Intn(len(chatUsers))],
			Avatar:       chatAvatars[rand.Intn(len(chatAvatars))],
			Query:        query,
			Timestamp:    fmt.Sprintf("%d min ago", rand.Intn(30)+1),
			ResponseTime: math.Round((rand.Float64()*2.5+0.5)*10) / 10,
			Sentiment:    AnalyzeSentiment(query),
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"chats": chats})
}

// handleChatMetrics serves mock response time and volume series plus
// sentiment percentages computed over a fixed query sample.
func (s *Server) handleChatMetrics(w http.ResponseWriter, r *http.Request) {
	responseTimes := []timePoint{
		{Time: "9 AM", ResponseTime: 1.5},
		{Time: "10 AM", ResponseTime: 1.3},
		{Time: "11 AM", ResponseTime: 1.1},
		{Time: "12 PM", ResponseTime: 1.0},
		{Time: "1 PM", ResponseTime: 1.2},
		{Time: "2 PM", ResponseTime: 0.9},
	}

	volumes := []volumePoint{
		{Hour: "9 AM", Queries: 45},
		{Hour: "10 AM", Queries: 67},
		{Hour: "11 AM", Queries: 89},
		{Hour: "12 PM", Queries: 56},
		{Hour: "1 PM", Queries: 78},
		{Hour: "2 PM", Queries: 92},
	}

	var positive, neutral, negative int
	for _, query := range sampleMetricQueries {
		switch AnalyzeSentiment(query) {
		case "positive":
			positive++
		case "negative":
			negative++
		default:
			neutral++
		}
	}
	total := float64(len(sampleMetricQueries))

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"avgResponseTime":  1.2,
		"responseTimeData": responseTimes,
		"queryVolumeData":  volumes,
		"sentimentPercentages": map[string]float64{
			"positive": math.Round(float64(positive)/total*1000) / 10,
			"neutral":  math.Round(float64(neutral)/total*1000) / 10,
			"negative": math.Round(float64(negative)/total*1000) / 10,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
