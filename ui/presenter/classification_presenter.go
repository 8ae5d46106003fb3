package presenter

import (
	"sync/atomic"

	"github.com/soocke/griddle-bot-go/domain/cooking"
)

// ReferenceClassifier classifies the three reference images.
type ReferenceClassifier interface {
	ClassifyFiles(paths [3]string) []cooking.Classification
	LastError() error
}

// ClassificationView shows reference swatches and labels.
type ClassificationView interface {
	ShowClassification(results []cooking.Classification)
	ShowClassificationError(msg string)
}

// ClassificationPresenter keeps the reference classification current and
// shares it with the detection presenter.
type ClassificationPresenter struct {
	classifier ReferenceClassifier
	paths      func() [3]string
	view       ClassificationView
	results    []cooking.Classification
	stale      atomic.Bool
}

func NewClassificationPresenter(c ReferenceClassifier, paths func() [3]string, view ClassificationView) *ClassificationPresenter {
	return &ClassificationPresenter{classifier: c, paths: paths, view: view}
}

// Refresh re-runs the classification and updates the view. A failure clears
// the results and shows the diagnostic.
func (p *ClassificationPresenter) Refresh() {
	if p == nil || p.classifier == nil || p.paths == nil {
		return
	}
	p.results = p.classifier.ClassifyFiles(p.paths())
	if p.view == nil {
		return
	}
	if len(p.results) == 0 {
		msg := "Reference images unavailable"
		if err := p.classifier.LastError(); err != nil {
			msg = err.Error()
		}
		p.view.ShowClassificationError(msg)
		return
	}
	p.view.ShowClassification(p.results)
}

// Results returns the latest classification, empty when unavailable.
func (p *ClassificationPresenter) Results() []cooking.Classification {
	if p == nil {
		return nil
	}
	return p.results
}

// MarkStale requests a refresh on the next RefreshIfStale. Safe to call from
// any goroutine.
func (p *ClassificationPresenter) MarkStale() {
	if p == nil {
		return
	}
	p.stale.Store(true)
}

// RefreshIfStale refreshes when MarkStale was called since the last refresh.
func (p *ClassificationPresenter) RefreshIfStale() {
	if p == nil || !p.stale.CompareAndSwap(true, false) {
		return
	}
	p.Refresh()
}
