package app

import (
	"context"
	"strings"

	"plant-phenotyper/internal/domain/entity"
	"plant-phenotyper/internal/domain/port"
)

// writeDebugImages stores the plant mask and the filtered mask of every ROI.
func writeDebugImages(ctx context.Context, w port.ImageWriter, base string, mask *entity.Mask, outcomes []ROIOutcome) error {
	if err := w.WriteImage(ctx, base+"_mask.png", mask.ToGray()); err != nil {
		return err
	}
	for _, o := range outcomes {
		if o.Filtered == nil || o.Filtered.Mask == nil {
			continue
		}
		name := base + "_roi_" + fileSafe(o.ROI.Label) + ".png"
		if err := w.WriteImage(ctx, name, o.Filtered.Mask.ToGray()); err != nil {
			return err
		}
	}
	return nil
}

var unsafeChars = strings.NewReplacer("/", "_", "\\", "_", " ", "_", "'", "")

func fileSafe(s string) string {
	return unsafeChars.Replace(s)
}
