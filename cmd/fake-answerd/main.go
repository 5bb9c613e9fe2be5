// ABOUTME: Minimal fake answer service for local development and E2E testing.
// ABOUTME: Usage: fake-answerd [-addr localhost:8000] [-replies replies.toml] [-fail]
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/BurntSushi/toml"
)

// repliesFile is the TOML shape for canned replies: an answer is picked by
// substring match against the incoming message, first match wins.
type repliesFile struct {
	Replies []cannedReply `toml:"replies"`
}

type cannedReply struct {
	Contains string `toml:"contains"`
	Reply    string `toml:"reply"`
}

type askRequest struct {
	Message string `json:"message"`
}

type askResponse struct {
	Reply string `json:"reply,omitempty"`
	Error string `json:"error,omitempty"`
}

func main() {
	addr := flag.String("addr", "localhost:8000", "listen address")
	repliesPath := flag.String("replies", "", "optional TOML file of canned replies")
	fail := flag.Bool("fail", false, "return an error payload for every request")
	flag.Parse()

	var canned []cannedReply
	if *repliesPath != "" {
		var rf repliesFile
		if _, err := toml.DecodeFile(*repliesPath, &rf); err != nil {
			log.Fatalf("loading replies file: %v", err)
		}
		canned = rf.Replies
		log.Printf("loaded %d canned replies from %s", len(canned), *repliesPath)
	}

	http.HandleFunc("POST /api/chat", func(w http.ResponseWriter, r *http.Request) {
		var req askRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")

		if *fail {
			json.NewEncoder(w).Encode(askResponse{Error: "simulated failure"})
			return
		}

		for _, c := range canned {
			if strings.Contains(req.Message, c.Contains) {
				json.NewEncoder(w).Encode(askResponse{Reply: c.Reply})
				return
			}
		}

		reply := fmt.Sprintf("You asked: %q. A real answer service would respond here.", req.Message)
		json.NewEncoder(w).Encode(askResponse{Reply: reply})
	})

	log.Printf("fake-answerd listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, nil))
}
