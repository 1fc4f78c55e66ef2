// Package dlib encodes faces with dlib's HOG detector and ResNet
// descriptor model through go-face.
package dlib

import (
	"context"
	"image"
	"sync"

	goface "github.com/Kagami/go-face"
	pkgerrors "github.com/pkg/errors"

	"github.com/GharsallahDev/memory-palace/internal/face"
	"github.com/GharsallahDev/memory-palace/internal/imaging"
)

// Encoder wraps a go-face recognizer. The underlying dlib models are not
// safe for concurrent use, so calls are serialized.
type Encoder struct {
	mu  sync.Mutex
	rec *goface.Recognizer
}

var _ face.Encoder = (*Encoder)(nil)

// New loads shape_predictor_5_face_landmarks.dat,
// dlib_face_recognition_resnet_model_v1.dat and
// mmod_human_face_detector.dat from modelDir.
func New(modelDir string) (*Encoder, error) {
	rec, err := goface.NewRecognizer(modelDir)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "load dlib models from %s", modelDir)
	}
	return &Encoder{rec: rec}, nil
}

func (e *Encoder) Encode(_ context.Context, img *image.RGBA) ([]face.Descriptor, error) {
	// go-face only accepts JPEG input.
	jpg, err := imaging.EncodeJPEG(img, 95)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	faces, err := e.rec.Recognize(jpg)
	e.mu.Unlock()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "recognize faces")
	}

	out := make([]face.Descriptor, 0, len(faces))
	for _, f := range faces {
		out = append(out, face.Descriptor(f.Descriptor))
	}
	return out, nil
}

func (e *Encoder) Close() {
	e.rec.Close()
}
