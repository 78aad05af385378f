package port

import (
	"context"
	"image"
	"io"

	"plant-phenotyper/internal/domain/entity"
)

// ResultsWriter serializes accumulated results once at the end of a run.
type ResultsWriter interface {
	Write(ctx context.Context, path string, results *entity.Results) error
}

// ImageWriter stores visualization or debug images under a file name.
type ImageWriter interface {
	WriteImage(ctx context.Context, name string, img image.Image) error
}

// Notifier reports a finished run, optionally with a preview image.
type Notifier interface {
	Notify(ctx context.Context, summary entity.RunSummary, preview image.Image) error
}

// SourceOpener opens an input location, local path or remote object.
type SourceOpener interface {
	Open(ctx context.Context, location string) (io.ReadCloser, error)
}
