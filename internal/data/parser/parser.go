package parser

import (
	"fmt"
	"sync"
	"time"

	"github.com/logflix/logflix/internal/core/cast"
	"github.com/logflix/logflix/internal/util"
)

// Parser loads cast files into documents, caching by path so repeated
// lookups from the list views and the server do not re-read the disk.
type Parser struct {
	concurrency int
	mu          sync.Mutex
	cache       map[string]*cast.Document
}

// ParseResult represents the result of parsing a single file.
type ParseResult struct {
	File     string
	Document *cast.Document
	Error    error
}

// NewParser creates a new Parser instance.
func NewParser(concurrency int) *Parser {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Parser{
		concurrency: concurrency,
		cache:       make(map[string]*cast.Document),
	}
}

// ParseFile parses the cast file at the specified path, serving repeated
// calls from the in-memory cache.
func (p *Parser) ParseFile(path string) (*cast.Document, error) {
	p.mu.Lock()
	if cached, ok := p.cache[path]; ok {
		p.mu.Unlock()
		return cached, nil
	}
	p.mu.Unlock()

	util.LogDebug(fmt.Sprintf("Start parsing file: %s", path))

	doc, err := cast.ParseFile(path)
	if err != nil {
		util.LogDebug(fmt.Sprintf("Failed to parse file: %s - %v", path, err))
		return nil, err
	}

	p.mu.Lock()
	p.cache[path] = doc
	p.mu.Unlock()

	return doc, nil
}

// Invalidate drops the cached document for a path. The watcher calls this
// when the file changes so the next ParseFile re-reads the disk.
func (p *Parser) Invalidate(path string) {
	p.mu.Lock()
	delete(p.cache, path)
	p.mu.Unlock()
}

// ParseFiles parses multiple files concurrently and returns a channel of ParseResult.
func (p *Parser) ParseFiles(files []string) <-chan ParseResult {
	start := time.Now()
	results := make(chan ParseResult, len(files))
	var wg sync.WaitGroup

	util.LogDebug(fmt.Sprintf("Start concurrent parsing of %d files, concurrency: %d", len(files), p.concurrency))

	semaphore := make(chan struct{}, p.concurrency)

	for _, file := range files {
		wg.Add(1)
		go func(f string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			fileStart := time.Now()
			doc, err := p.ParseFile(f)
			fileDuration := time.Since(fileStart)

			if err != nil {
				util.LogDebug(fmt.Sprintf("File parsing failed: %s, duration %v - %v", f, fileDuration, err))
			}

			results <- ParseResult{
				File:     f,
				Document: doc,
				Error:    err,
			}
		}(file)
	}

	go func() {
		wg.Wait()
		close(results)

		totalDuration := time.Since(start)
		util.LogDebug(fmt.Sprintf("Concurrent parsing finished, total duration: %v", totalDuration))
	}()

	return results
}
