package main

import (
	_ "embed"
	"encoding/json"
	"html/template"
	"net"
	"net/http"
	"os"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/tomz197/lander/internal/config"
	"github.com/tomz197/lander/internal/storage"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = 8080
)

//go:embed index.html
var htmlPage string

var page = template.Must(template.New("index").
	Funcs(template.FuncMap{"rank": func(i int) int { return i + 1 }}).
	Parse(htmlPage))

// pageData fills index.html.
type pageData struct {
	SSHHost    string
	HighScores []storage.HighScore
}

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "web",
	})

	settings, err := config.Load(config.GetEnv("LANDER_CONFIG_DIR", "."))
	if err != nil {
		logger.Fatal("failed to load config", "err", err)
	}
	if level, err := log.ParseLevel(settings.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := strconv.Itoa(config.GetEnvPort("WEB_PORT", defaultPort))
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")

	kv, err := storage.OpenSQLite(settings.StorePath)
	if err != nil {
		logger.Fatal("failed to open store", "err", err)
	}
	defer kv.Close()

	addr := net.JoinHostPort(host, port)
	logger.Info("Starting web server", "addr", "http://"+addr, "store", settings.StorePath)
	if err := http.ListenAndServe(addr, newHandler(storage.NewStore(kv, logger), sshHost, logger)); err != nil {
		logger.Fatal("server error", "err", err)
	}
}

// newHandler serves the landing page and the leaderboard API.
func newHandler(store *storage.Store, sshHost string, logger *log.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		data := pageData{SSHHost: sshHost, HighScores: store.LoadHighScores()}
		if err := page.Execute(w, data); err != nil {
			logger.Error("rendering page", "err", err)
		}
	})

	mux.HandleFunc("GET /api/highscores", func(w http.ResponseWriter, r *http.Request) {
		scores := store.LoadHighScores()
		if scores == nil {
			scores = []storage.HighScore{}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(scores); err != nil {
			logger.Error("encoding high scores", "err", err)
		}
	})

	return mux
}
