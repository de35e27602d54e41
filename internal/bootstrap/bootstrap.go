// Package bootstrap builds the real service graph from configuration
// and injects it into the CLI. Provider and backend selection happens
// here; everything below works against ports.
package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/time/rate"

	"github.com/askdoc-labs/askdoc/internal/adapters/driven/blobstore/azureblob"
	"github.com/askdoc-labs/askdoc/internal/adapters/driven/blobstore/azurefiles"
	"github.com/askdoc-labs/askdoc/internal/adapters/driven/blobstore/filesystem"
	"github.com/askdoc-labs/askdoc/internal/adapters/driven/config/file"
	geminiembed "github.com/askdoc-labs/askdoc/internal/adapters/driven/embedding/gemini"
	openaiembed "github.com/askdoc-labs/askdoc/internal/adapters/driven/embedding/openai"
	"github.com/askdoc-labs/askdoc/internal/adapters/driven/index/chromem"
	geminillm "github.com/askdoc-labs/askdoc/internal/adapters/driven/llm/gemini"
	openaillm "github.com/askdoc-labs/askdoc/internal/adapters/driven/llm/openai"
	"github.com/askdoc-labs/askdoc/internal/adapters/driven/storage/memory"
	"github.com/askdoc-labs/askdoc/internal/adapters/driven/storage/sqlite"
	"github.com/askdoc-labs/askdoc/internal/adapters/driving/cli"
	"github.com/askdoc-labs/askdoc/internal/chunker"
	"github.com/askdoc-labs/askdoc/internal/core/domain"
	"github.com/askdoc-labs/askdoc/internal/core/ports/driven"
	"github.com/askdoc-labs/askdoc/internal/core/ports/driving"
	"github.com/askdoc-labs/askdoc/internal/core/services"
	"github.com/askdoc-labs/askdoc/internal/extractors"
	"github.com/askdoc-labs/askdoc/internal/extractors/pdf"
	"github.com/askdoc-labs/askdoc/internal/extractors/pptx"
	"github.com/askdoc-labs/askdoc/internal/logger"
)

// Setup reads configuration and wires the full service graph into the
// CLI. Called once after flag parsing, before any command runs.
func Setup() error {
	store, err := file.NewConfigStore(cli.ConfigDir())
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	baseDir := filepath.Dir(store.Path())

	embedding, err := buildEmbedding(store)
	if err != nil {
		return err
	}
	generation, err := buildGeneration(store)
	if err != nil {
		return err
	}

	index, registry, err := buildStorage(store, baseDir)
	if err != nil {
		return err
	}

	splitter := chunker.New(
		chunker.WithChunkSize(store.GetInt("chunker.size")),
		chunker.WithOverlap(store.GetInt("chunker.overlap")),
	)
	formats := extractors.NewRegistry(pdf.New(), pptx.New())

	batcherOpts := []services.BatcherOption{
		services.WithBatchSize(store.GetInt("embedding.batch_size")),
	}
	if rpm := store.GetInt("embedding.requests_per_minute"); rpm > 0 {
		limiter := rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1)
		batcherOpts = append(batcherOpts, services.WithRateLimiter(limiter))
	}
	batcher := services.NewBatcher(embedding, batcherOpts...)

	ingest := services.NewIngestPipeline(formats, splitter, batcher, index, registry)
	chat := services.NewChat(batcher, index, generation, chatOptions(store, baseDir)...)

	syncFactory := func(source string) (driving.SyncService, error) {
		return buildSyncer(store, baseDir, source, ingest, registry)
	}
	release := func() error {
		return services.ReleaseModels(embedding, generation)
	}

	cli.Configure(ingest, chat, syncFactory, store, release)
	return nil
}

// buildEmbedding selects the embedding provider. API keys fall back to
// the conventional environment variables.
func buildEmbedding(store driven.ConfigStore) (driven.EmbeddingService, error) {
	provider := store.GetString("provider.embedding")
	if provider == "" {
		provider = "openai"
	}

	switch provider {
	case "openai":
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey: apiKey(store, "openai.api_key", "OPENAI_API_KEY"),
			Model:  store.GetString("openai.embedding_model"),
		})
	case "gemini":
		return geminiembed.NewEmbeddingService(geminiembed.Config{
			APIKey: apiKey(store, "gemini.api_key", "GEMINI_API_KEY"),
			Model:  store.GetString("gemini.embedding_model"),
		})
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", provider)
	}
}

// buildGeneration selects the generation provider.
func buildGeneration(store driven.ConfigStore) (driven.GenerationService, error) {
	provider := store.GetString("provider.generation")
	if provider == "" {
		provider = store.GetString("provider.embedding")
	}
	if provider == "" {
		provider = "openai"
	}

	switch provider {
	case "openai":
		return openaillm.NewGenerationService(openaillm.Config{
			APIKey: apiKey(store, "openai.api_key", "OPENAI_API_KEY"),
			Model:  store.GetString("openai.generation_model"),
		})
	case "gemini":
		return geminillm.NewGenerationService(geminillm.Config{
			APIKey: apiKey(store, "gemini.api_key", "GEMINI_API_KEY"),
			Model:  store.GetString("gemini.generation_model"),
		})
	default:
		return nil, fmt.Errorf("unknown generation provider %q", provider)
	}
}

// buildStorage selects the vector index backend. The document registry
// is always SQLite-backed except in memory mode; the chromem backend
// keeps its vectors in chromem and its registry in SQLite.
func buildStorage(store driven.ConfigStore, baseDir string) (driven.VectorIndex, driven.DocumentRegistry, error) {
	backend := store.GetString("index.backend")
	if backend == "" {
		backend = "sqlite"
	}

	switch backend {
	case "sqlite":
		st, err := sqlite.NewStore(filepath.Join(baseDir, "data"))
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return st.VectorIndex(), st.DocumentRegistry(), nil

	case "chromem":
		st, err := sqlite.NewStore(filepath.Join(baseDir, "data"))
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		index, err := chromem.NewIndex(filepath.Join(baseDir, "data", "chromem"))
		if err != nil {
			return nil, nil, fmt.Errorf("open chromem index: %w", err)
		}
		return index, st.DocumentRegistry(), nil

	case "memory":
		logger.Warn("Using in-memory index; documents are lost on exit")
		return memory.NewVectorIndex(), memory.NewDocumentRegistry(), nil

	default:
		return nil, nil, fmt.Errorf("unknown index backend %q", backend)
	}
}

// chatOptions assembles chat tuning from configuration, including the
// user-editable answer prompt.
func chatOptions(store driven.ConfigStore, baseDir string) []services.ChatOption {
	opts := []services.ChatOption{
		services.WithTopK(store.GetInt("chat.top_k")),
		services.WithContextBudget(store.GetInt("chat.context_budget")),
	}

	maxTokens := store.GetInt("chat.max_tokens")
	temperature := -1.0
	if _, ok := store.Get("chat.temperature"); ok {
		temperature = store.GetFloat64("chat.temperature")
	}
	if maxTokens > 0 || temperature >= 0 {
		opts = append(opts, services.WithGenerateOptions(maxTokens, temperature))
	}

	prompts, err := file.NewPromptStore(filepath.Join(baseDir, "prompts"))
	if err == nil {
		if template, loadErr := prompts.Load(driven.PromptAnswer); loadErr == nil {
			opts = append(opts, services.WithPromptTemplate(template))
		}
	}

	return opts
}

// buildSyncer creates the sync service for the requested source.
func buildSyncer(store driven.ConfigStore, baseDir, source string, ingest driving.IngestService, registry driven.DocumentRegistry) (driving.SyncService, error) {
	if source == "" {
		source = store.GetString("sync.source")
	}
	if source == "" {
		source = "dir"
	}

	switch source {
	case "dir":
		dir := store.GetString("sync.dir")
		if dir == "" {
			dir = filepath.Join(baseDir, "inbox")
		}
		blobs, err := filesystem.NewStore(dir)
		if err != nil {
			return nil, err
		}
		return services.NewSyncer(blobs, ingest, registry, domain.OriginUpload), nil

	case "azure-blob":
		sasURL := store.GetString("sync.azure_blob.sas_url")
		if sasURL == "" {
			return nil, fmt.Errorf("sync.azure_blob.sas_url is not configured")
		}
		blobs, err := azureblob.NewStore(sasURL, 0)
		if err != nil {
			return nil, err
		}
		return services.NewSyncer(blobs, ingest, registry, domain.OriginAzureBlob), nil

	case "azure-files":
		sasURL := store.GetString("sync.azure_files.sas_url")
		if sasURL == "" {
			return nil, fmt.Errorf("sync.azure_files.sas_url is not configured")
		}
		blobs, err := azurefiles.NewStore(sasURL, 0)
		if err != nil {
			return nil, err
		}
		return services.NewSyncer(blobs, ingest, registry, domain.OriginAzureFiles), nil

	default:
		return nil, fmt.Errorf("unknown sync source %q (expected azure-blob, azure-files, or dir)", source)
	}
}

func apiKey(store driven.ConfigStore, configKey, envVar string) string {
	if key := store.GetString(configKey); key != "" {
		return key
	}
	return os.Getenv(envVar)
}
