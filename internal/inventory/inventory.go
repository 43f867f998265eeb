package inventory

import (
	"fmt"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/logflix/logflix/internal/core/model"
	"github.com/logflix/logflix/internal/data/cache"
	"github.com/logflix/logflix/internal/data/parser"
	"github.com/logflix/logflix/internal/data/scanner"
	"github.com/logflix/logflix/internal/data/summarize"
	"github.com/logflix/logflix/internal/presentation/formatter"
	"github.com/logflix/logflix/internal/presentation/interaction"
	"github.com/logflix/logflix/internal/util"
)

type Config struct {
	RunsDir      string
	CacheDir     string
	OutputFormat string
	Timezone     string
	TimeFormat   string
	Project      string
	Duration     string
	GroupBy      string
	SortBy       string
	Ascending    bool
	Limit        int
	Concurrency  int
}

// Inventory builds the session listing for a runs directory: cached
// summaries are reused when the backing cast file is unchanged, everything
// else is re-parsed and re-cached.
type Inventory struct {
	config  *Config
	cache   cache.Cache
	scanner *scanner.FileScanner
	parser  *parser.Parser
	sorter  *interaction.SessionSorter
}

func New(config *Config) *Inventory {
	if config.Concurrency == 0 {
		config.Concurrency = runtime.NumCPU()
	}

	fileCache, _ := cache.NewFileCache(config.CacheDir)

	sorter := interaction.NewSessionSorter().
		WithField(interaction.ParseSortField(config.SortBy))
	if config.Ascending {
		sorter.WithOrder(interaction.SortAscending)
	}

	return &Inventory{
		config:  config,
		cache:   fileCache,
		scanner: scanner.NewFileScanner(config.RunsDir),
		parser:  parser.NewParser(config.Concurrency),
		sorter:  sorter,
	}
}

// Collect returns one summary per readable cast file, filtered, sorted and
// limited per the config. An empty runs directory yields an empty slice,
// not an error, so callers can treat it as an empty inventory.
func (inv *Inventory) Collect() ([]*model.SessionSummary, error) {
	// Phase 1: Preload cache into memory
	preloadStart := time.Now()
	if err := inv.cache.Preload(); err != nil {
		util.LogWarn(fmt.Sprintf("Cache preload failed: %v", err))
	}
	util.LogDebug(fmt.Sprintf("Phase 1 - Cache preload duration: %v", time.Since(preloadStart)))

	// Phase 2: Scan for cast files
	scanStart := time.Now()
	files, err := inv.scanner.Scan()
	if err != nil {
		return nil, fmt.Errorf("Failed to scan runs directory: %w", err)
	}
	util.LogDebug(fmt.Sprintf("Phase 2 - File scan duration: %v, found %d files", time.Since(scanStart), len(files)))

	if len(files) == 0 {
		return nil, nil
	}

	// Phase 3: Batch validate cache and process files
	processStart := time.Now()
	stats := NewScanStats()

	sessionIdMap := make(map[string]string, len(files))
	sessionIds := make([]string, 0, len(files))
	for _, file := range files {
		sessionId := summarize.ExtractSessionID(file)
		sessionIdMap[file] = sessionId
		sessionIds = append(sessionIds, sessionId)
	}

	batchStart := time.Now()
	validCache := inv.cache.BatchValidate(sessionIds)
	util.LogDebug(fmt.Sprintf("Batch cache validation duration: %v", time.Since(batchStart)))

	var filesToParse []string
	var cachedFiles []string
	fileMissReasons := make(map[string]cache.CacheMissReason)

	for _, file := range files {
		sessionId := sessionIdMap[file]
		validateResult := validCache[sessionId]
		if validateResult.Valid {
			cachedFiles = append(cachedFiles, file)
		} else {
			filesToParse = append(filesToParse, file)
			fileMissReasons[file] = validateResult.MissReason
		}
	}

	util.LogDebug(fmt.Sprintf("Cache hit for %d files, need to parse %d files",
		len(cachedFiles), len(filesToParse)))

	summaries := make([]*model.SessionSummary, 0, len(files))

	for _, file := range cachedFiles {
		sessionId := sessionIdMap[file]
		cacheResult := inv.cache.Get(sessionId)
		if cacheResult.Found && cacheResult.Data != nil {
			stats.RecordHit()
			summary := cacheResult.Data.Summary
			summaries = append(summaries, &summary)
		} else {
			// Validation passed moments ago but the entry is gone;
			// treat it like any other miss.
			filesToParse = append(filesToParse, file)
			fileMissReasons[file] = cacheResult.MissReason
		}
	}

	if len(filesToParse) > 0 {
		parseStart := time.Now()
		parseResults := inv.parser.ParseFiles(filesToParse)

		processed := int64(len(cachedFiles))

		for result := range parseResults {
			processed++

			if result.Error != nil {
				stats.RecordFailure()
				util.LogWarn(fmt.Sprintf("Failed to parse file %s: %v", result.File, result.Error))
				continue
			}

			sessionId := sessionIdMap[result.File]
			stats.RecordMiss(result.File, fileMissReasons[result.File])

			summary := summarize.Summarize(result.File, result.Document)
			if err := inv.cache.Set(sessionId, &cache.CachedSummary{Summary: summary}); err != nil {
				util.LogWarn(fmt.Sprintf("Failed to save cache for %s: %v", result.File, err))
			}
			summaries = append(summaries, &summary)

			if processed%100 == 0 {
				stats.LogProgress(processed)
			}
		}

		util.LogDebug(fmt.Sprintf("File parsing duration: %v", time.Since(parseStart)))
	}

	util.LogDebug(fmt.Sprintf("Phase 3 - Processing duration: %v, sessions: %d", time.Since(processStart), len(summaries)))
	stats.LogFinal()

	// Phase 4: Filter, sort and trim for display
	summaries = inv.filterByProject(summaries)
	summaries = inv.filterByDuration(summaries)
	inv.sorter.Sort(summaries)
	if inv.config.Limit > 0 && len(summaries) > inv.config.Limit {
		util.LogDebug(fmt.Sprintf("Applying result limit: %d -> %d", len(summaries), inv.config.Limit))
		summaries = summaries[:inv.config.Limit]
	}

	return summaries, nil
}

// Run builds the inventory and writes it to stdout in the configured format.
func (inv *Inventory) Run() error {
	startTime := time.Now()
	util.LogInfo("Building session inventory...")

	summaries, err := inv.Collect()
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		return fmt.Errorf("No cast sessions found under %s", inv.config.RunsDir)
	}

	layout := model.LayoutParam{
		Timezone:   inv.config.Timezone,
		TimeFormat: inv.config.TimeFormat,
	}
	rows := formatter.BuildRows(summaries, layout)

	outputStart := time.Now()
	err = inv.formatAndOutput(rows)
	util.LogDebug(fmt.Sprintf("Formatting and output duration: %v", time.Since(outputStart)))

	util.LogDebug(fmt.Sprintf("Total duration: %v", time.Since(startTime)))
	return err
}

func (inv *Inventory) filterByProject(summaries []*model.SessionSummary) []*model.SessionSummary {
	if inv.config.Project == "" {
		return summaries
	}

	needle := strings.ToLower(inv.config.Project)
	filtered := summaries[:0]
	for _, s := range summaries {
		if strings.Contains(strings.ToLower(s.Project), needle) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// filterByDuration keeps sessions recorded inside the lookback window. An
// unparseable duration is logged and ignored rather than failing the listing.
func (inv *Inventory) filterByDuration(summaries []*model.SessionSummary) []*model.SessionSummary {
	if inv.config.Duration == "" {
		return summaries
	}

	loc, _ := time.LoadLocation(inv.config.Timezone)
	fromTime, err := parseDuration(inv.config.Duration, loc)
	if err != nil {
		util.LogError(fmt.Sprintf("Failed to parse duration: %v", err))
		return summaries
	}

	toTime := time.Now().In(loc)

	filtered := summaries[:0]
	for _, s := range summaries {
		recorded := time.Unix(s.RecordedAt, 0).In(loc)
		if !recorded.Before(fromTime) && !recorded.After(toTime) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// parseDuration turns a lookback like "7d", "24h" or "1w2d" into the start
// of the window. Months and years are approximated as 30 and 365 days.
func parseDuration(durationStr string, loc *time.Location) (time.Time, error) {
	if durationStr == "" {
		return time.Time{}, nil
	}
	if loc == nil {
		loc = time.Local
	}

	now := time.Now().In(loc)

	re := regexp.MustCompile(`(\d+)([hymwd])`)
	matches := re.FindAllStringSubmatch(durationStr, -1)

	if len(matches) == 0 {
		return time.Time{}, fmt.Errorf("invalid duration format: %s", durationStr)
	}

	var totalDuration time.Duration

	for _, match := range matches {
		value, err := strconv.Atoi(match[1])
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid number in duration: %s", match[1])
		}

		switch match[2] {
		case "h":
			totalDuration += time.Duration(value) * time.Hour
		case "d":
			totalDuration += time.Duration(value) * 24 * time.Hour
		case "w":
			totalDuration += time.Duration(value) * 7 * 24 * time.Hour
		case "m":
			totalDuration += time.Duration(value) * 30 * 24 * time.Hour
		case "y":
			totalDuration += time.Duration(value) * 365 * 24 * time.Hour
		default:
			return time.Time{}, fmt.Errorf("unsupported time unit: %s", match[2])
		}
	}

	return now.Add(-totalDuration), nil
}

func (inv *Inventory) formatAndOutput(rows []formatter.SessionRow) error {
	switch inv.config.OutputFormat {
	case model.FormatJSON:
		return formatter.NewJSONFormatter().Format(rows)
	case model.FormatCSV:
		return formatter.NewCSVFormatter().Format(rows)
	case model.FormatSummary:
		return formatter.NewSummaryFormatter().WithGroupBy(inv.config.GroupBy).Format(rows)
	default:
		return formatter.NewTableFormatter().Format(rows)
	}
}
