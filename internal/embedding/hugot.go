package embedding

import (
	"context"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
	pkgerrors "github.com/pkg/errors"
)

// HugotEncoder runs a sentence-transformer ONNX export (all-MiniLM-L6-v2)
// through hugot's pure-Go feature-extraction pipeline.
type HugotEncoder struct {
	session  *hugot.Session
	pipeline *pipelines.FeatureExtractionPipeline
}

var _ Encoder = (*HugotEncoder)(nil)

func NewHugotEncoder(modelPath string) (*HugotEncoder, error) {
	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "create hugot session")
	}

	pipeline, err := hugot.NewPipeline(session, hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      "palace-embedding",
	})
	if err != nil {
		_ = session.Destroy()
		return nil, pkgerrors.Wrapf(err, "load embedding model from %s", modelPath)
	}
	return &HugotEncoder{session: session, pipeline: pipeline}, nil
}

// Encode returns the pipeline's pooled sentence vector as a single token.
func (e *HugotEncoder) Encode(_ context.Context, text string) ([][]float32, []int, error) {
	out, err := e.pipeline.RunPipeline([]string{text})
	if err != nil {
		return nil, nil, err
	}
	if len(out.Embeddings) == 0 {
		return nil, nil, ErrNoTokens
	}
	return [][]float32{out.Embeddings[0]}, []int{1}, nil
}

func (e *HugotEncoder) Close() error {
	return e.session.Destroy()
}
