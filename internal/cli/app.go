// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cli

import (
	"context"
	"fmt"

	"hostpress/internal/config"
	"hostpress/internal/content"
	"hostpress/internal/handlers"
	"hostpress/internal/models"
	"hostpress/internal/storage"
	"hostpress/internal/store"
)

// app holds the opened backend and one collection per logical name.
type app struct {
	cfg     *config.Config
	backend *storage.Backend

	posts        storage.Collection[models.Content]
	articles     storage.Collection[models.Content]
	categories   storage.Collection[models.Category]
	kbCategories storage.Collection[models.Category]
	authors      storage.Collection[models.Author]
	partners     storage.Collection[models.Partner]
}

// openApp opens the configured storage backend and its collections.
func openApp(ctx context.Context, cfg *config.Config) (*app, error) {
	backend, err := storage.Open(ctx, storage.Options{
		Mode:            cfg.StorageMode,
		DataDir:         cfg.DataDir,
		Timeout:         cfg.StorageTimeout,
		CollectionNames: cfg.CollectionNames,
		MongoURI:        cfg.MongoURI,
		MongoDB:         cfg.MongoDB,
		PostgresDSN:     cfg.DSN(),
	})
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	return &app{
		cfg:          cfg,
		backend:      backend,
		posts:        storage.NewCollection[models.Content](backend, "posts"),
		articles:     storage.NewCollection[models.Content](backend, "articles"),
		categories:   storage.NewCollection[models.Category](backend, "categories"),
		kbCategories: storage.NewCollection[models.Category](backend, "kb_categories"),
		authors:      storage.NewCollection[models.Author](backend, "authors"),
		partners:     storage.NewCollection[models.Partner](backend, "partners"),
	}, nil
}

func (a *app) close(ctx context.Context) {
	a.backend.Close(ctx)
}

// stores wraps the collections in their repositories.
func (a *app) stores() handlers.AdminStores {
	return handlers.AdminStores{
		Posts:        store.NewContentStore(a.posts, models.ContentTypePost),
		Articles:     store.NewContentStore(a.articles, models.ContentTypeArticle),
		Categories:   store.NewCategoryStore(a.categories),
		KBCategories: store.NewCategoryStore(a.kbCategories),
		Authors:      store.NewAuthorStore(a.authors, a.cfg.DefaultAuthorSlug),
		Partners:     store.NewPartnerStore(a.partners),
	}
}

// engine builds the content query engine over s.
func (a *app) engine(s handlers.AdminStores) *content.Engine {
	return content.NewEngine(content.Sources{
		Posts:          s.Posts,
		BlogCategories: s.Categories,
		Articles:       s.Articles,
		KBCategories:   s.KBCategories,
		Authors:        s.Authors,
		Partners:       s.Partners,
	}, a.cfg.DefaultAuthorSlug)
}

// initFiles creates the missing collection files in file mode and returns
// the names it created. Other modes have nothing to create.
func (a *app) initFiles(ctx context.Context) ([]string, error) {
	var created []string
	steps := []func(context.Context) (string, error){
		initFile(a.posts),
		initFile(a.articles),
		initFile(a.categories),
		initFile(a.kbCategories),
		initFile(a.authors),
		initFile(a.partners),
	}
	for _, step := range steps {
		name, err := step(ctx)
		if err != nil {
			return created, err
		}
		if name != "" {
			created = append(created, name)
		}
	}
	return created, nil
}

func initFile[T storage.Record](c storage.Collection[T]) func(context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		fc, ok := c.(*storage.FileCollection[T])
		if !ok {
			return "", nil
		}
		created, err := fc.Init(ctx)
		if err != nil || !created {
			return "", err
		}
		return fc.Name(), nil
	}
}
