package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/learnhub-backend/internal/app"
	"github.com/yungbote/learnhub-backend/internal/platform/apierr"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
	"github.com/yungbote/learnhub-backend/internal/services"
)

type seedCatalog struct {
	Categories []seedCategory `yaml:"categories"`
	Languages  []seedLanguage `yaml:"languages"`

	dir string
}

type seedCategory struct {
	Title string   `yaml:"title"`
	Tags  []string `yaml:"tags"`
}

type seedLanguage struct {
	Name string `yaml:"name"`
	// Flag is an image path, relative to the catalog file.
	Flag string `yaml:"flag"`
}

type seedResult struct {
	Created int
	Skipped int
}

func loadSeedCatalog(path string) (seedCatalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return seedCatalog{}, fmt.Errorf("read seed file: %w", err)
	}
	var out seedCatalog
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return seedCatalog{}, fmt.Errorf("parse seed file: %w", err)
	}
	out.dir = filepath.Dir(path)
	return out, nil
}

// applySeed creates every category and language that does not exist yet.
// Existing titles and names are skipped, so a catalog can be applied twice.
func applySeed(ctx context.Context, log *logger.Logger, categories services.CategoryService, languages services.LanguageService, sc seedCatalog) (seedResult, error) {
	var res seedResult
	for _, c := range sc.Categories {
		_, err := categories.AddCategory(ctx, c.Title, c.Tags)
		switch {
		case err == nil:
			res.Created++
		case apierr.Is(err, apierr.ECDuplicated):
			res.Skipped++
		default:
			return res, fmt.Errorf("category %q: %w", c.Title, err)
		}
	}
	for _, l := range sc.Languages {
		var flag *services.UploadFile
		if l.Flag != "" {
			p := l.Flag
			if !filepath.IsAbs(p) {
				p = filepath.Join(sc.dir, p)
			}
			data, err := os.ReadFile(p)
			if err != nil {
				return res, fmt.Errorf("language %q flag: %w", l.Name, err)
			}
			flag = &services.UploadFile{Name: filepath.Base(p), Data: data}
		}
		_, err := languages.AddLanguage(ctx, l.Name, flag)
		switch {
		case err == nil:
			res.Created++
		case apierr.Is(err, apierr.ECDuplicated):
			res.Skipped++
		default:
			return res, fmt.Errorf("language %q: %w", l.Name, err)
		}
	}
	log.Info("seed applied", "created", res.Created, "skipped", res.Skipped)
	return res, nil
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load categories and languages from a YAML catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		sc, err := loadSeedCatalog(file)
		if err != nil {
			return err
		}

		log, err := newLogger(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()

		a, err := app.New(cmd.Context(), log, true)
		if err != nil {
			return err
		}
		defer a.Close()

		_, err = applySeed(cmd.Context(), log, a.Services.Categories, a.Services.Languages, sc)
		return err
	},
}

func init() {
	seedCmd.Flags().StringP("file", "f", "catalog.yaml", "Seed catalog file")
}
