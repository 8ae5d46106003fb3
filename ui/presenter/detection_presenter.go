package presenter

import (
	"errors"
	"image"
	"image/color"
	"log/slog"
	"sync"
	"time"

	"github.com/soocke/griddle-bot-go/config"
	"github.com/soocke/griddle-bot-go/domain/capture"
	"github.com/soocke/griddle-bot-go/domain/cooking"
	"github.com/soocke/griddle-bot-go/ui/images"
	"github.com/soocke/griddle-bot-go/ui/model"
)

// FrameSource supplies the most recent frame captured from the griddle camera.
type FrameSource interface {
	Running() bool
	LatestFrame() capture.FrameSnapshot
}

// RegionHuer measures the dominant hue of a region crop.
type RegionHuer interface {
	RegionHue(img image.Image) float64
}

// DetectionView describes the UI surface updated by the presenter.
type DetectionView interface {
	UpdateCapture(img image.Image)
	SetRegions(regions []model.Region)
}

// References returns the current reference classification, possibly empty.
type References func() []cooking.Classification

var boxColor = color.RGBA{0x00, 0xFF, 0x00, 0xFF}

type detectionTask struct {
	generation uint64
	snapshot   capture.FrameSnapshot
	band       cooking.Band
	minArea    int
}

type detectedRegion struct {
	rect image.Rectangle
	hue  float64
}

type detectionResult struct {
	generation uint64
	sequence   uint64
	frame      *image.RGBA
	regions    []detectedRegion
	err        error
	duration   time.Duration
}

// DetectionPresenter polls the camera, finds browned regions on a worker
// goroutine and labels them against the reference classification on the UI
// thread.
type DetectionPresenter struct {
	Source  FrameSource
	Huer    RegionHuer
	Refs    References
	View    DetectionView
	Model   *model.RegionsModel
	Matcher *cooking.RegionMatcher
	Config  *config.Config
	logger  *slog.Logger

	workerOnce sync.Once
	workCh     chan detectionTask
	resultCh   chan detectionResult

	lastSeq    uint64
	generation uint64
}

// NewDetectionPresenter constructs a detection presenter.
func NewDetectionPresenter(source FrameSource, huer RegionHuer, refs References, view DetectionView, cfg *config.Config, m *model.RegionsModel, logger *slog.Logger) *DetectionPresenter {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &DetectionPresenter{
		Source:   source,
		Huer:     huer,
		Refs:     refs,
		View:     view,
		Model:    m,
		Matcher:  cooking.NewRegionMatcher(float64(cfg.MatchDistancePx), cfg.MatchMaxMisses),
		Config:   cfg,
		logger:   logger,
		workCh:   make(chan detectionTask, 1),
		resultCh: make(chan detectionResult, 1),
	}
}

// ProcessFrame handles finished worker results and dispatches the latest
// frame when it has not been processed yet.
func (p *DetectionPresenter) ProcessFrame() {
	if p == nil || p.Source == nil || p.View == nil {
		return
	}
	p.ensureWorker()

	for drained := false; !drained; {
		select {
		case res := <-p.resultCh:
			p.handleResult(res)
		default:
			drained = true
		}
	}

	if !p.Source.Running() {
		return
	}
	snapshot := p.Source.LatestFrame()
	if snapshot.Image == nil || snapshot.Sequence == 0 || snapshot.Sequence == p.lastSeq {
		return
	}
	p.lastSeq = snapshot.Sequence
	p.dispatch(detectionTask{
		generation: p.generation,
		snapshot:   snapshot,
		band:       cooking.BandFromConfig(p.Config),
		minArea:    p.Config.MinRegionArea,
	})
}

// Reset forgets tracked regions, for example when the camera is released.
// Results of frames dispatched before Reset are discarded.
func (p *DetectionPresenter) Reset() {
	if p == nil {
		return
	}
	p.generation++
	p.lastSeq = 0
	select {
	case <-p.resultCh:
	default:
	}
	if p.Matcher != nil {
		p.Matcher.Reset()
	}
	p.Model.Clear()
}

func (p *DetectionPresenter) ensureWorker() {
	p.workerOnce.Do(func() {
		go p.runWorker()
	})
}

func (p *DetectionPresenter) runWorker() {
	for task := range p.workCh {
		res := p.execute(task)
		select {
		case p.resultCh <- res:
		default:
			select {
			case <-p.resultCh:
			default:
			}
			select {
			case p.resultCh <- res:
			default:
			}
		}
	}
}

// dispatch hands task to the worker, replacing a task still waiting.
func (p *DetectionPresenter) dispatch(task detectionTask) {
	select {
	case p.workCh <- task:
	default:
		select {
		case <-p.workCh:
		default:
		}
		select {
		case p.workCh <- task:
		default:
		}
	}
}

func (p *DetectionPresenter) execute(task detectionTask) (res detectionResult) {
	res = detectionResult{generation: task.generation, sequence: task.snapshot.Sequence, frame: task.snapshot.Image}
	defer func() {
		if r := recover(); r != nil {
			res.err = errors.New("detection worker panic")
		}
	}()
	if task.snapshot.Image == nil {
		res.err = errors.New("nil frame")
		return res
	}
	start := time.Now()
	boxes := task.band.Detect(task.snapshot.Image, task.minArea)
	for _, b := range boxes {
		r := detectedRegion{rect: b}
		if p.Huer != nil {
			if crop, _, err := images.ExtractRegion(task.snapshot.Image, b, 0); err == nil {
				r.hue = p.Huer.RegionHue(crop)
			}
		}
		res.regions = append(res.regions, r)
	}
	res.duration = time.Since(start)
	return res
}

func (p *DetectionPresenter) handleResult(res detectionResult) {
	if res.generation != p.generation {
		return
	}
	if res.err != nil {
		if p.logger != nil {
			p.logger.Error("detection", "error", res.err)
		}
		return
	}
	boxes := make([]image.Rectangle, len(res.regions))
	for i, r := range res.regions {
		boxes[i] = r.rect
	}
	tracks := p.Matcher.Update(boxes, time.Now())

	var refs []cooking.Classification
	if p.Refs != nil {
		refs = p.Refs()
	}
	regions := make([]model.Region, len(res.regions))
	overlay := make([]images.Box, len(res.regions))
	for i, r := range res.regions {
		label := ""
		if c, ok := cooking.Nearest(r.hue, refs); ok {
			label = c.Label
		}
		regions[i] = model.Region{TrackID: tracks[i].ID.String(), Rect: r.rect, Hue: r.hue, Label: label}
		overlay[i] = images.Box{Rect: r.rect, Color: boxColor, Label: label}
	}
	if p.Model != nil && !p.Model.Set(res.sequence, regions) {
		return
	}
	if p.logger != nil && len(regions) > 0 {
		p.logger.Debug("regions detected", "count", len(regions), "seq", res.sequence, "took", res.duration)
	}
	p.View.SetRegions(regions)
	p.View.UpdateCapture(images.DrawBoxes(res.frame, overlay))
}
