package proctor

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"time"

	pigo "github.com/esimov/pigo/core"
)

const (
	minFaceSize = 60
	// faceQualityThreshold filters low-confidence cascade detections.
	faceQualityThreshold = 5.0
	puplocPerturbs       = 50
)

// CascadeDetector classifies frames with pigo's frontal-face cascade plus a
// pupil localizer for the eye condition. The loaded cascades are read-only,
// so one detector is shared by all sessions.
type CascadeDetector struct {
	face   *pigo.Pigo
	puploc *pigo.PuplocCascade
}

func NewCascadeDetector(faceCascadePath, puplocCascadePath string) (*CascadeDetector, error) {
	faceCascade, err := os.ReadFile(faceCascadePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read face cascade: %w", err)
	}

	face, err := pigo.NewPigo().Unpack(faceCascade)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack face cascade: %w", err)
	}

	puplocCascade, err := os.ReadFile(puplocCascadePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read puploc cascade: %w", err)
	}

	puploc, err := pigo.NewPuplocCascade().UnpackCascade(puplocCascade)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack puploc cascade: %w", err)
	}

	return &CascadeDetector{face: face, puploc: puploc}, nil
}

func (d *CascadeDetector) Classify(frame []byte) (Classification, error) {
	img, _, err := image.Decode(bytes.NewReader(frame))
	if err != nil {
		return Classification{}, ErrDecode
	}

	bounds := img.Bounds()
	rows, cols := bounds.Dy(), bounds.Dx()
	if rows == 0 || cols == 0 {
		return Classification{}, ErrDecode
	}

	imgParams := pigo.ImageParams{
		Pixels: pigo.RgbToGrayscale(img),
		Rows:   rows,
		Cols:   cols,
		Dim:    cols,
	}

	maxSize := rows
	if cols < rows {
		maxSize = cols
	}

	dets := d.face.RunCascade(pigo.CascadeParams{
		MinSize:     minFaceSize,
		MaxSize:     maxSize,
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,
		ImageParams: imgParams,
	}, 0.0)
	dets = d.face.ClusterDetections(dets, 0.2)

	result := Classification{At: time.Now().UTC()}

	best := bestFace(dets)
	if best == nil {
		return result, nil
	}
	result.FacePresent = true
	result.EyesPresent = d.eyesPresent(*best, imgParams)

	return result, nil
}

func bestFace(dets []pigo.Detection) *pigo.Detection {
	var best *pigo.Detection
	for i := range dets {
		if dets[i].Q < faceQualityThreshold {
			continue
		}
		if best == nil || dets[i].Q > best.Q {
			best = &dets[i]
		}
	}
	return best
}

// eyesPresent runs the pupil localizer over both eye regions of a detected
// face. One localized pupil is enough to count the eyes as present,
// matching the loose eye-region check of the cascade pipeline.
func (d *CascadeDetector) eyesPresent(face pigo.Detection, imgParams pigo.ImageParams) bool {
	scale := float32(face.Scale)

	left := pigo.Puploc{
		Row:      face.Row - int(0.075*scale),
		Col:      face.Col - int(0.175*scale),
		Scale:    scale * 0.25,
		Perturbs: puplocPerturbs,
	}
	if eye := d.puploc.RunDetector(left, imgParams, 0.0, false); eye != nil && eye.Row > 0 && eye.Col > 0 {
		return true
	}

	right := pigo.Puploc{
		Row:      face.Row - int(0.075*scale),
		Col:      face.Col + int(0.185*scale),
		Scale:    scale * 0.25,
		Perturbs: puplocPerturbs,
	}
	if eye := d.puploc.RunDetector(right, imgParams, 0.0, false); eye != nil && eye.Row > 0 && eye.Col > 0 {
		return true
	}

	return false
}
