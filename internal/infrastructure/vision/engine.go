//go:build gocv
// +build gocv

package vision

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"plant-phenotyper/internal/domain/entity"
)

var (
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	black = color.RGBA{A: 255}
)

// GoCVEngine finds and filters plant objects with OpenCV contours.
type GoCVEngine struct {
	// Segmentation settings for RGB images, see Segment.
	LabThreshold    float32
	ErodeKernel     int
	ErodeIterations int
	MedianSize      int
}

// NewGoCVEngine returns an engine with the thermal tray segmentation settings.
func NewGoCVEngine() *GoCVEngine {
	return &GoCVEngine{
		LabThreshold:    118,
		ErodeKernel:     3,
		ErodeIterations: 4,
		MedianSize:      13,
	}
}

func (e *GoCVEngine) Name() string {
	return "gocv"
}

// FindObjects extracts two-level (outer boundary, hole) contours and rasterizes
// each outer boundary minus its holes into a pixel list, so a blob lying inside
// another blob's hole stays a separate object as in the pure-Go engine.
func (e *GoCVEngine) FindObjects(ctx context.Context, mask *entity.Mask) (*entity.ObjectSet, error) {
	_ = ctx
	if mask.Empty() {
		return nil, entity.ErrEmptyMask
	}
	src, err := maskToMat(mask)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	hierarchy := gocv.NewMat()
	defer hierarchy.Close()
	contours := gocv.FindContoursWithParams(src, &hierarchy, gocv.RetrievalCComp, gocv.ChainApproxSimple)
	defer contours.Close()

	set := &entity.ObjectSet{Width: mask.Width, Height: mask.Height}
	for i := 0; i < contours.Size(); i++ {
		// hierarchy entries are [next, previous, first child, parent].
		if hierarchy.GetVeciAt(0, i)[3] != -1 {
			continue
		}
		filled := gocv.Zeros(mask.Height, mask.Width, gocv.MatTypeCV8U)
		gocv.DrawContours(&filled, contours, i, white, -1)
		for child := int(hierarchy.GetVeciAt(0, i)[2]); child != -1; child = int(hierarchy.GetVeciAt(0, child)[0]) {
			// Hole contours run over object pixels: clear the inside, keep the rim.
			gocv.DrawContours(&filled, contours, child, black, -1)
			gocv.DrawContours(&filled, contours, child, white, 1)
		}
		// Drawn contours include pixels the mask does not; keep the intersection.
		gocv.BitwiseAnd(filled, src, &filled)
		obj := objectFromMat(filled)
		filled.Close()
		if obj.Area() == 0 {
			continue
		}
		obj.ID = len(set.Objects)
		set.Objects = append(set.Objects, obj)
	}
	return set, nil
}

// FilterObjects draws the ROI as a filled mask and intersects it with each object.
func (e *GoCVEngine) FilterObjects(ctx context.Context, objects *entity.ObjectSet, roi entity.ROI, mode entity.FilterMode) (*entity.FilteredObject, error) {
	_ = ctx
	bounds := image.Rect(0, 0, objects.Width, objects.Height)
	if err := roi.Shape.Validate(bounds); err != nil {
		return nil, fmt.Errorf("roi %q: %w", roi.Label, err)
	}

	switch mode {
	case entity.ModeCutTo, entity.ModePartial, entity.ModeLargest:
	default:
		return nil, fmt.Errorf("roi %q mode %q: %w", roi.Label, mode, entity.ErrUnknownMode)
	}

	roiMat := gocv.Zeros(objects.Height, objects.Width, gocv.MatTypeCV8U)
	defer roiMat.Close()
	switch roi.Shape.Kind {
	case entity.ShapeCircle:
		gocv.Circle(&roiMat, roi.Shape.Center, roi.Shape.Radius, white, -1)
	case entity.ShapeRectangle:
		r := roi.Shape.Rect
		// Rectangle's max corner is inclusive in OpenCV.
		gocv.Rectangle(&roiMat, image.Rect(r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1), white, -1)
	}

	var kept []entity.Object
	for _, o := range objects.Objects {
		objMat := objectToMat(o, objects.Width, objects.Height)
		inside := gocv.NewMat()
		gocv.BitwiseAnd(objMat, roiMat, &inside)
		overlap := gocv.CountNonZero(inside)
		switch {
		case overlap == 0:
		case mode == entity.ModeCutTo:
			clipped := objectFromMat(inside)
			clipped.ID = o.ID
			kept = append(kept, clipped)
		default:
			kept = append(kept, o)
		}
		objMat.Close()
		inside.Close()
	}
	if mode == entity.ModeLargest && len(kept) > 1 {
		best := kept[0]
		for _, o := range kept[1:] {
			if o.Area() > best.Area() {
				best = o
			}
		}
		kept = []entity.Object{best}
	}

	mask := entity.NewMask(objects.Width, objects.Height)
	for _, o := range kept {
		for _, p := range o.Pixels {
			mask.Set(p.X, p.Y, true)
		}
	}
	return &entity.FilteredObject{Label: roi.Label, Objects: kept, Mask: mask, Area: mask.Area()}, nil
}

// Segment builds a plant mask from an RGB image: threshold of the LAB a channel
// (plants darker than threshold), erosion, median blur and hole filling.
func (e *GoCVEngine) Segment(ctx context.Context, img image.Image) (*entity.Mask, error) {
	_ = ctx
	bgr, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("convert image: %w", err)
	}
	defer bgr.Close()
	if bgr.Empty() {
		return nil, errors.New("empty image")
	}

	lab := gocv.NewMat()
	defer lab.Close()
	gocv.CvtColor(bgr, &lab, gocv.ColorBGRToLab)
	channels := gocv.Split(lab)
	for i := range channels {
		defer channels[i].Close()
	}
	if len(channels) < 3 {
		return nil, errors.New("invalid lab channels")
	}

	bin := gocv.NewMat()
	defer bin.Close()
	gocv.Threshold(channels[1], &bin, e.LabThreshold, 255, gocv.ThresholdBinaryInv)

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(e.ErodeKernel, e.ErodeKernel))
	defer kernel.Close()
	for i := 0; i < e.ErodeIterations; i++ {
		gocv.Erode(bin, &bin, kernel)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.MedianBlur(bin, &blurred, e.MedianSize)

	filled := fillHoles(blurred)
	defer filled.Close()
	return matToMask(filled), nil
}

// OtsuSegmenter masks a grayscale (chlorophyll) frame with Otsu's threshold,
// fills holes and erodes.
type OtsuSegmenter struct {
	ErodeKernel     int
	ErodeIterations int
}

// NewChlorophyllSegmenter returns the settings for chlorophyll fluorescence frames.
func NewChlorophyllSegmenter() *OtsuSegmenter {
	return &OtsuSegmenter{ErodeKernel: 3, ErodeIterations: 1}
}

func (s *OtsuSegmenter) Segment(ctx context.Context, img image.Image) (*entity.Mask, error) {
	_ = ctx
	gray, err := grayMat(img)
	if err != nil {
		return nil, err
	}
	defer gray.Close()

	bin := gocv.NewMat()
	defer bin.Close()
	gocv.Threshold(gray, &bin, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)

	filled := fillHoles(bin)
	defer filled.Close()

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(s.ErodeKernel, s.ErodeKernel))
	defer kernel.Close()
	for i := 0; i < s.ErodeIterations; i++ {
		gocv.Erode(filled, &filled, kernel)
	}
	return matToMask(filled), nil
}

func grayMat(img image.Image) (gocv.Mat, error) {
	if g, ok := img.(*image.Gray); ok {
		mat, err := gocv.ImageGrayToMatGray(g)
		if err != nil {
			return gocv.NewMat(), fmt.Errorf("convert image: %w", err)
		}
		return mat, nil
	}
	bgr, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("convert image: %w", err)
	}
	defer bgr.Close()
	if bgr.Empty() {
		return gocv.NewMat(), errors.New("empty image")
	}
	gray := gocv.NewMat()
	gocv.CvtColor(bgr, &gray, gocv.ColorBGRToGray)
	return gray, nil
}

// fillHoles fills every external contour of bin. The caller closes the result.
func fillHoles(bin gocv.Mat) gocv.Mat {
	contours := gocv.FindContours(bin, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()
	filled := gocv.Zeros(bin.Rows(), bin.Cols(), gocv.MatTypeCV8U)
	if contours.Size() > 0 {
		gocv.FillPoly(&filled, contours, white)
	}
	return filled
}

func maskToMat(mask *entity.Mask) (gocv.Mat, error) {
	mat, err := gocv.NewMatFromBytes(mask.Height, mask.Width, gocv.MatTypeCV8U, mask.Pix)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("mask to mat: %w", err)
	}
	return mat, nil
}

func matToMask(mat gocv.Mat) *entity.Mask {
	m := entity.NewMask(mat.Cols(), mat.Rows())
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if mat.GetUCharAt(y, x) != 0 {
				m.Pix[y*m.Width+x] = 255
			}
		}
	}
	return m
}

func objectFromMat(mat gocv.Mat) entity.Object {
	var (
		pixels []image.Point
		box    image.Rectangle
	)
	for y := 0; y < mat.Rows(); y++ {
		for x := 0; x < mat.Cols(); x++ {
			if mat.GetUCharAt(y, x) == 0 {
				continue
			}
			pixels = append(pixels, image.Pt(x, y))
			box = box.Union(image.Rect(x, y, x+1, y+1))
		}
	}
	return entity.Object{Pixels: pixels, Bounds: box}
}

func objectToMat(o entity.Object, width, height int) gocv.Mat {
	mat := gocv.Zeros(height, width, gocv.MatTypeCV8U)
	for _, p := range o.Pixels {
		mat.SetUCharAt(p.Y, p.X, 255)
	}
	return mat
}
