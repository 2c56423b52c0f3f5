package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"papertldr/internal/cache"
	"papertldr/internal/client"
	"papertldr/internal/config"
	"papertldr/internal/models"
	"papertldr/internal/poller"
	"papertldr/internal/qa"
	"papertldr/internal/upload"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")
	cfg := config.Load()
	if len(os.Args) < 2 {
		log.Fatal("usage: papertldr <paper.pdf>")
	}
	path := os.Args[1]
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	c := client.New(cfg)
	if latency, err := c.Ping(ctx); err != nil {
		log.Printf("papertldr api %s offline: %v", cfg.APIBase, err)
	} else {
		log.Printf("papertldr api %s online (%dms)", cfg.APIBase, latency.Milliseconds())
	}

	doc, err := upload.Submit(ctx, c, filepath.Base(path), data)
	if err != nil {
		log.Fatalf("upload failed: %v", err)
	}
	log.Printf("uploaded %s document_id=%s sections=%d", doc.Filename, doc.DocumentID, len(doc.Sections))

	store := cache.New()
	w := poller.NewWatcher(c, store)
	w.Interval = time.Duration(cfg.PollIntervalMillis) * time.Millisecond
	updates := make(chan models.DocumentState, 16)
	w.OnUpdate = func(st models.DocumentState) {
		updates <- st
	}
	sid := w.Start(doc)
	log.Printf("polling session %s started", sid)

	reader := bufio.NewReader(os.Stdin)
	final, ok := watchUntilDone(w, updates, reader)
	if !ok {
		w.Reset()
		os.Exit(1)
	}
	printSummaries(final)

	h := qa.NewHistory(c, final.DocumentID)
	fmt.Println("ask questions about the paper (empty line to quit):")
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			break
		}
		q := strings.TrimSpace(line)
		if q == "" {
			break
		}
		entry, err := h.Ask(ctx, q)
		if err != nil {
			fmt.Printf("error: %s\n", entry.Err)
			continue
		}
		fmt.Println(entry.Answer)
	}
	w.Reset()
}

// watchUntilDone renders progress until the session reaches a sink state,
// offering a retry on terminal failure.
func watchUntilDone(w *poller.Watcher, updates <-chan models.DocumentState, reader *bufio.Reader) (models.DocumentState, bool) {
	for st := range updates {
		switch st.ProcessingStatus {
		case models.StatusCompleted:
			return st, true
		case models.StatusError:
			fmt.Printf("processing failed: %s\nretry? [y/N]: ", st.Error)
			line, err := reader.ReadString('\n')
			if err != nil || !strings.EqualFold(strings.TrimSpace(line), "y") {
				return st, false
			}
			if err := w.Retry(); err != nil {
				log.Printf("retry failed: %v", err)
				return st, false
			}
		default:
			log.Printf("processing %d/%d sections", st.CompletedSections(), len(st.Sections))
		}
	}
	return models.DocumentState{}, false
}

func printSummaries(doc models.DocumentState) {
	fmt.Printf("\n%s — %d sections\n", doc.Filename, len(doc.Sections))
	for i, s := range doc.Sections {
		fmt.Printf("\n%d. %s [%s]\n", i+1, s.Title, s.SectionType)
		if s.TLDR == nil {
			continue
		}
		fmt.Println(s.TLDR.Text)
		if s.TLDR.Visualization.VizType != "" && s.TLDR.Visualization.VizType != models.VizNone {
			fmt.Printf("suggested visualization (%s): %s\n", s.TLDR.Visualization.VizType, s.TLDR.Visualization.Explanation)
		}
	}
}
