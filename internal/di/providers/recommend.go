package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/listenupapp/bookrec/internal/config"
	"github.com/listenupapp/bookrec/internal/recommend"
	"github.com/listenupapp/bookrec/internal/search"
	"github.com/listenupapp/bookrec/internal/service"
)

// ProvideRecommender builds the genre matrix over the loaded catalog.
func ProvideRecommender(i do.Injector) (*recommend.Recommender, error) {
	loaded := do.MustInvoke[*service.Loaded](i)
	return recommend.New(loaded.Catalog, loaded.Vocabulary)
}

// TitleIndexHandle wraps the title index with Shutdownable.
type TitleIndexHandle struct {
	*search.TitleIndex
}

// Shutdown implements do.Shutdownable.
func (h *TitleIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideTitleIndex builds the in-memory title index.
func ProvideTitleIndex(i do.Injector) (*TitleIndexHandle, error) {
	loaded := do.MustInvoke[*service.Loaded](i)
	log := do.MustInvoke[*slog.Logger](i)

	index, err := search.FromCatalog(loaded.Catalog, search.Options{Logger: log})
	if err != nil {
		return nil, err
	}
	return &TitleIndexHandle{TitleIndex: index}, nil
}

// ProvideRecommendService provides the query front end.
func ProvideRecommendService(i do.Injector) (*service.RecommendService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	rec := do.MustInvoke[*recommend.Recommender](i)
	indexHandle := do.MustInvoke[*TitleIndexHandle](i)
	log := do.MustInvoke[*slog.Logger](i)

	return service.NewRecommendService(rec, indexHandle.TitleIndex, service.RecommendConfig{
		DefaultTopN:   cfg.Recommend.DefaultTopN,
		MaxTopN:       cfg.Recommend.MaxTopN,
		MaxCandidates: cfg.Recommend.MaxCandidates,
	}, log), nil
}
