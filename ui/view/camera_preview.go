package view

import (
	"fmt"
	"image"
	"strings"

	"github.com/soocke/griddle-bot-go/ui/images"
	"github.com/soocke/griddle-bot-go/ui/model"
	"github.com/soocke/griddle-bot-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

const (
	maxPreviewW = 640
	maxPreviewH = 360
)

// CameraPreview shows the annotated camera frame, the camera status and the
// list of tracked regions. State survives screen rebuilds.
type CameraPreview struct {
	onToggle func()

	statusLbl  *LabelWidget
	frameLbl   *LabelWidget
	regionsLbl *LabelWidget
	photo      *Img

	status  string
	last    image.Image
	regions []model.Region
}

func NewCameraPreview(onToggle func()) *CameraPreview {
	return &CameraPreview{onToggle: onToggle, status: "Camera released"}
}

// Build lays the preview out in parent starting at startRow.
func (v *CameraPreview) Build(parent *Window, startRow int) int {
	p := theme.Current()
	row := startRow
	v.statusLbl = parent.Label(Txt(v.status), Anchor("w"), Borderwidth(1), Relief("ridge"), Background(p.Surface), Foreground(p.Text))
	Grid(v.statusLbl, Row(row), Column(0), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	toggle := parent.TButton(Txt("Toggle Camera"), Style(theme.StylePrimaryButton), Command(func() {
		if v.onToggle != nil {
			v.onToggle()
		}
	}))
	Grid(toggle, Row(row), Column(1), Sticky("e"), Padx("0.4m"), Pady("0.3m"))
	row++
	v.frameLbl = parent.Label(Borderwidth(1), Relief("sunken"))
	Grid(v.frameLbl, Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.4m"))
	row++
	v.regionsLbl = parent.Label(Anchor("nw"), Background(p.AppBg), Foreground(p.Text))
	Grid(v.regionsLbl, Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"))
	row++
	if v.last != nil {
		v.UpdateCapture(v.last)
	} else {
		v.PreviewReset()
	}
	v.SetRegions(v.regions)
	return row
}

// Detach forgets widgets destroyed with their screen.
func (v *CameraPreview) Detach() {
	v.statusLbl, v.frameLbl, v.regionsLbl = nil, nil, nil
	if v.photo != nil {
		v.photo.Delete()
		v.photo = nil
	}
}

func (v *CameraPreview) SetCameraStatus(status string) {
	v.status = status
	if v.statusLbl != nil {
		v.statusLbl.Configure(Txt(status))
	}
}

func (v *CameraPreview) UpdateCapture(img image.Image) {
	if img == nil {
		return
	}
	v.last = img
	if v.frameLbl == nil {
		return
	}
	v.setPhoto(images.ScaleToFit(img, maxPreviewW, maxPreviewH))
}

func (v *CameraPreview) PreviewReset() {
	v.last = nil
	v.regions = nil
	if v.frameLbl != nil {
		v.setPhoto(image.NewRGBA(image.Rect(0, 0, 320, 180)))
	}
	if v.regionsLbl != nil {
		v.regionsLbl.Configure(Txt(""))
	}
}

func (v *CameraPreview) SetRegions(regions []model.Region) {
	v.regions = regions
	if v.regionsLbl == nil {
		return
	}
	var b strings.Builder
	for _, r := range regions {
		fmt.Fprintf(&b, "%s  %v  hue %.0f  %s\n", shortID(r.TrackID), r.Rect, r.Hue, r.Label)
	}
	v.regionsLbl.Configure(Txt(strings.TrimRight(b.String(), "\n")))
}

func (v *CameraPreview) setPhoto(img image.Image) {
	if v.photo != nil {
		v.photo.Delete()
	}
	v.photo = NewPhoto(Data(images.EncodePNG(img)))
	v.frameLbl.Configure(Image(v.photo))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
