package services

import (
	"errors"
	"fmt"

	"github.com/askdoc-labs/askdoc/internal/core/ports/driven"
	"github.com/askdoc-labs/askdoc/internal/logger"
)

// ReleaseModels drops the lazily initialised model clients so a
// long-running process can shed memory between requests. The services
// stay usable; the next call re-initialises. Nil services are ignored.
func ReleaseModels(embedding driven.EmbeddingService, generation driven.GenerationService) error {
	var errs []error

	if embedding != nil {
		if err := embedding.Release(); err != nil {
			errs = append(errs, fmt.Errorf("release embedding model: %w", err))
		}
	}
	if generation != nil {
		if err := generation.Release(); err != nil {
			errs = append(errs, fmt.Errorf("release generation model: %w", err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	logger.Debug("Model clients released")
	return nil
}
