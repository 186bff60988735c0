package batch

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/handiism/addprompt/internal/caption"
	"github.com/handiism/addprompt/internal/compose"
	"github.com/handiism/addprompt/internal/config"
	"github.com/handiism/addprompt/internal/http"
	ioutils "github.com/handiism/addprompt/internal/io"
	"github.com/handiism/addprompt/internal/model"
	"github.com/handiism/addprompt/internal/text"
	"golang.org/x/sync/errgroup"
)

// ErrBatchFailed is returned by Run when folders failed and the run was
// allowed to continue past them.
var ErrBatchFailed = errors.New("batch failed")

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a batch progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
	// Folder is the item directory the event is about, if any.
	Folder string
}

// CaptionRenderer renders caption bands and exposes the laid out text.
type CaptionRenderer interface {
	compose.CaptionRenderer
	Layout(caption string) string
}

// Deps carries the collaborators of a Manager. Nil fields get defaults.
type Deps struct {
	Images   *ioutils.ImageService
	Fonts    *caption.FontLoader
	HTTP     *http.Client
	Renderer CaptionRenderer
}

// Manager coordinates captioning of every item folder under a base path.
type Manager struct {
	settings  *config.Settings
	folderCfg *model.FolderConfig

	images     *ioutils.ImageService
	fonts      *caption.FontLoader
	httpClient *http.Client
	renderer   CaptionRenderer
	compositor *compose.Compositor

	folders []*model.Folder
	results []Result
	total   int32
	done    int32

	onProgress func(ProgressEvent)
	mu         sync.Mutex
}

// NewManager creates a new batch Manager. onProgress may be called from
// several goroutines when more than one folder runs at a time.
func NewManager(settings *config.Settings, deps Deps, onProgress func(ProgressEvent)) *Manager {
	if deps.Images == nil {
		deps.Images = ioutils.NewImageService()
	}
	if deps.Fonts == nil {
		deps.Fonts = caption.NewFontLoader(settings.FontDirs...)
	}
	if deps.HTTP == nil {
		deps.HTTP = http.NewClient()
	}

	return &Manager{
		settings:   settings,
		folderCfg:  settings.ToFolderConfig(),
		images:     deps.Images,
		fonts:      deps.Fonts,
		httpClient: deps.HTTP,
		renderer:   deps.Renderer,
		onProgress: onProgress,
	}
}

// Initialize prepares the renderer and enumerates the item folders of
// basePath. Configuration problems, a missing font and an unreadable base
// path are reported here, before any folder is touched.
func (m *Manager) Initialize(ctx context.Context, basePath string) error {
	if err := m.settings.Validate(); err != nil {
		return err
	}

	if m.renderer == nil {
		style, err := m.settings.ToStyle("")
		if err != nil {
			return err
		}
		hy, err := m.loadHyphenator(ctx, style)
		if err != nil {
			return err
		}
		r, err := caption.NewRenderer(style, m.fonts, hy)
		if err != nil {
			return err
		}
		m.renderer = r
		m.progress(ProgressEvent{Message: fmt.Sprintf("Using preset %s", style.Name), Level: LevelVerbose})
	}
	m.compositor = compose.NewCompositor(m.renderer, m.images, m.settings.BandRatio)

	paths, err := ioutils.ListFolders(basePath)
	if err != nil {
		return fmt.Errorf("list folders: %w", err)
	}

	m.folders = make([]*model.Folder, len(paths))
	m.results = make([]Result, len(paths))
	for i, p := range paths {
		m.folders[i] = model.NewFolder(p, m.folderCfg)
		m.results[i] = Result{Folder: m.folders[i]}
	}
	m.total = int32(len(paths))
	atomic.StoreInt32(&m.done, 0)

	m.progress(ProgressEvent{Message: fmt.Sprintf("Found %d folders in %s", len(paths), basePath), Level: LevelInfo})
	return nil
}

// Folders returns the folders found by Initialize.
func (m *Manager) Folders() []*model.Folder {
	return m.folders
}

// Run processes every folder.
//
// By default the first failing folder stops the run and its error is
// returned; outputs already written stay. With ContinueOnError every
// folder is attempted and ErrBatchFailed is returned if any failed.
func (m *Manager) Run(ctx context.Context) error {
	if m.compositor == nil {
		return errors.New("batch: Run called before Initialize")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.settings.MaxConcurrentFolders)

	for i, folder := range m.folders {
		if gctx.Err() != nil {
			break
		}
		i, folder := i, folder
		g.Go(func() error {
			res := m.processFolder(gctx, folder)
			m.record(i, res)
			if res.Status == StatusFailed && !m.settings.ContinueOnError {
				return res.Err
			}
			return nil
		})
	}

	err := g.Wait()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return err
	}

	report := m.Report()
	if report.Failed > 0 {
		return fmt.Errorf("%w: %d of %d folders", ErrBatchFailed, report.Failed, len(report.Results))
	}
	m.progress(ProgressEvent{Message: "Finished: " + report.Summary(), Level: LevelSuccess})
	return nil
}

// DryRun reports the caption that would be drawn for every folder
// without writing anything.
func (m *Manager) DryRun(ctx context.Context) error {
	if m.renderer == nil {
		return errors.New("batch: DryRun called before Initialize")
	}
	for _, folder := range m.folders {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !m.settings.Force && ioutils.FileExists(folder.OutputPath) {
			m.progress(ProgressEvent{Message: skipMessage(folder), Level: LevelInfo, Folder: folder.Path})
			continue
		}
		prompt, err := ioutils.ReadTextFile(folder.PromptPath)
		if err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Cannot read %s: %v", folder.PromptPath, err), Level: LevelWarning, Folder: folder.Path})
			continue
		}
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("%s:\n%s", folder.Name(), m.renderer.Layout(prompt)),
			Level:   LevelInfo,
			Folder:  folder.Path,
		})
	}
	return nil
}

// GetProgress returns the number of folders finished and the total.
func (m *Manager) GetProgress() (done, total int32) {
	return atomic.LoadInt32(&m.done), m.total
}

func (m *Manager) processFolder(ctx context.Context, folder *model.Folder) Result {
	res := Result{Folder: folder}
	if ctx.Err() != nil {
		return res
	}
	defer atomic.AddInt32(&m.done, 1)

	if !m.settings.Force && ioutils.FileExists(folder.OutputPath) {
		m.progress(ProgressEvent{Message: skipMessage(folder), Level: LevelInfo, Folder: folder.Path})
		res.Status = StatusSkipped
		return res
	}

	prompt, err := ioutils.ReadTextFile(folder.PromptPath)
	if err == nil {
		err = m.compositor.CombineFile(ctx, folder.ImagePath, prompt, folder.OutputPath)
	}
	if err != nil {
		res.Status = StatusFailed
		res.Err = fmt.Errorf("folder %s: %w", folder.Path, err)
		m.progress(ProgressEvent{Message: res.Err.Error(), Level: LevelError, Folder: folder.Path})
		return res
	}

	res.Status = StatusDone
	m.progress(ProgressEvent{Message: fmt.Sprintf("Created %s", folder.OutputPath), Level: LevelVerbose, Folder: folder.Path})
	return res
}

func skipMessage(folder *model.Folder) string {
	return fmt.Sprintf("Skipping %s as it already exists. Use --force to override.", folder.OutputPath)
}

func (m *Manager) record(i int, res Result) {
	m.mu.Lock()
	m.results[i] = res
	m.mu.Unlock()
}

// loadHyphenator returns the hyphenator for style. When a dictionary path
// is configured but missing and a URL is set, the dictionary is fetched
// first.
func (m *Manager) loadHyphenator(ctx context.Context, style model.Style) (text.Hyphenator, error) {
	if !style.Hyphenate {
		return nil, nil
	}

	dict := m.settings.HyphenationDictionary
	if dict != "" && !ioutils.FileExists(dict) && m.settings.HyphenationDictionaryURL != "" {
		if err := m.fetchDictionary(ctx, m.settings.HyphenationDictionaryURL, dict); err != nil {
			return nil, fmt.Errorf("hyphenation dictionary: %w", err)
		}
	}

	return text.NewHyphenator(style.Locale, dict)
}

func (m *Manager) fetchDictionary(ctx context.Context, url, dest string) error {
	m.progress(ProgressEvent{Message: fmt.Sprintf("Downloading hyphenation dictionary %s", url), Level: LevelInfo})

	tries := m.settings.DownloadMaxRetries
	if tries < 1 {
		tries = 1
	}

	var (
		err     error
		written int64
	)
	for i := 0; i < tries; i++ {
		err = m.httpClient.DownloadFile(ctx, url, dest, func(n, _ int64) { written = n })
		if err == nil {
			break
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if i < tries-1 {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Retry %d/%d for %s", i+1, tries, filepath.Base(dest)), Level: LevelWarning})
			m.waitForRetry(ctx, i)
		}
	}
	if err != nil {
		return err
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Saved dictionary to %s (%d bytes)", dest, written), Level: LevelVerbose})
	return nil
}

func (m *Manager) waitForRetry(ctx context.Context, tries int) {
	cooldown := m.settings.DownloadRetryCooldown * math.Pow(m.settings.DownloadRetryExponent, float64(tries))
	select {
	case <-ctx.Done():
	case <-time.After(time.Duration(cooldown * float64(time.Second))):
	}
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
