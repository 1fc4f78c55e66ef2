// Package face matches the faces in a probe photo against per-request
// reference avatars.
package face

import (
	"context"
	"errors"
	"image"
	"math"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/GharsallahDev/memory-palace/internal/imaging"
	"github.com/GharsallahDev/memory-palace/internal/metrics"
)

const componentName = "face_recognition"

// DefaultTolerance is the largest Euclidean distance still considered the
// same person.
const DefaultTolerance = 0.6

var ErrNotReady = errors.New("face recognition service is not ready")

// Descriptor is a 128-dimensional face encoding.
type Descriptor [128]float32

// Encoder locates every face in img and returns one descriptor per face.
type Encoder interface {
	Encode(ctx context.Context, img *image.RGBA) ([]Descriptor, error)
}

type KnownFace struct {
	PersonID     int64  `json:"person_id"`
	Name         string `json:"name"`
	AvatarBase64 string `json:"avatar_base_64"`
}

type Person struct {
	PersonID int64  `json:"person_id"`
	Name     string `json:"name"`
}

type Service struct {
	encoder   Encoder
	tolerance float64
	log       zerolog.Logger
}

func NewService(encoder Encoder, tolerance float64, log zerolog.Logger) *Service {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	if encoder == nil {
		log.Error().Msg("face: no encoder configured")
	} else {
		log.Info().Float64("tolerance", tolerance).Msg("face recognition service ready")
	}
	return &Service{encoder: encoder, tolerance: tolerance, log: log}
}

func (s *Service) Name() string  { return componentName }
func (s *Service) IsReady() bool { return s.encoder != nil }

type reference struct {
	person     Person
	descriptor Descriptor
}

// Identify returns the known people whose reference face appears in the
// probe. Each probe face takes the first reference within tolerance, in
// the order given; a person is reported at most once.
func (s *Service) Identify(ctx context.Context, probeBase64 string, known []KnownFace) ([]Person, error) {
	if s.encoder == nil {
		return nil, ErrNotReady
	}
	people := []Person{}
	if len(known) == 0 {
		return people, nil
	}

	refs := s.encodeReferences(ctx, known)
	if len(refs) == 0 {
		s.log.Warn().Int("known_faces", len(known)).Msg("no reference face could be encoded")
		return people, nil
	}

	// A probe that cannot be decoded or encoded yields no matches.
	probe, err := imaging.DecodeBase64(probeBase64)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to decode probe photo")
		return people, nil
	}
	faces, err := s.encoder.Encode(ctx, probe)
	metrics.ObserveModelCall(componentName, err)
	if err != nil {
		s.log.Error().Stack().Err(pkgerrors.Wrap(err, "encode probe photo")).Msg("failed to locate faces in probe photo")
		return people, nil
	}

	seen := make(map[int64]bool)
	for _, f := range faces {
		for _, ref := range refs {
			if Distance(f, ref.descriptor) > s.tolerance {
				continue
			}
			if !seen[ref.person.PersonID] {
				seen[ref.person.PersonID] = true
				people = append(people, ref.person)
			}
			break
		}
	}

	s.log.Info().
		Int("probe_faces", len(faces)).
		Int("references", len(refs)).
		Int("recognized", len(people)).
		Msg("face recognition complete")
	return people, nil
}

// encodeReferences keeps the first face of every decodable avatar.
func (s *Service) encodeReferences(ctx context.Context, known []KnownFace) []reference {
	refs := make([]reference, 0, len(known))
	for _, k := range known {
		l := s.log.With().Int64("person_id", k.PersonID).Logger()

		img, err := imaging.DecodeBase64(k.AvatarBase64)
		if err != nil {
			l.Warn().Err(err).Msg("skipping undecodable reference avatar")
			continue
		}
		descs, err := s.encoder.Encode(ctx, img)
		metrics.ObserveModelCall(componentName, err)
		if err != nil {
			l.Warn().Err(err).Msg("skipping reference avatar that failed to encode")
			continue
		}
		if len(descs) == 0 {
			l.Warn().Msg("no face found in reference avatar")
			continue
		}
		refs = append(refs, reference{
			person:     Person{PersonID: k.PersonID, Name: k.Name},
			descriptor: descs[0],
		})
	}
	return refs
}

// Distance is the Euclidean distance between two descriptors.
func Distance(a, b Descriptor) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
