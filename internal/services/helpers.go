package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	rediscache "github.com/yungbote/learnhub-backend/internal/clients/redis"
	"github.com/yungbote/learnhub-backend/internal/observability"
	"github.com/yungbote/learnhub-backend/internal/platform/apierr"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
	maxPageSize     = 100
)

// Cache namespaces. Catalog writes bump both.
const (
	cacheNamespaceCatalog   = "catalog"
	cacheNamespaceRecommend = "recommend"
)

// normalizePage applies defaults to zero values and clamps both to valid ranges.
func normalizePage(page, pageSize int) (int, int) {
	if page == 0 {
		page = defaultPage
	}
	if pageSize == 0 {
		pageSize = defaultPageSize
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

func totalPages(total int64, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

func requireID(id uuid.UUID, field string) error {
	if id == uuid.Nil {
		return apierr.Invalid(field + " is invalid")
	}
	return nil
}

func requireText(v, field string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", apierr.Missing(field + " is required")
	}
	return v, nil
}

// inTx runs fn inside a transaction unless dbc already carries one.
func inTx(dbc dbctx.Context, db *gorm.DB, fn func(inner dbctx.Context) error) error {
	if dbc.Tx != nil {
		return fn(dbc)
	}
	ctx, span := observability.StartSpan(dbc.Ctx, "db.transaction")
	defer span.End()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
	var expected *apierr.Error
	if err != nil && (!errors.As(err, &expected) || expected.Status >= 500) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transaction failed")
	}
	return err
}

func invalidateCatalog(ctx context.Context, cache rediscache.Cache, log *logger.Logger) {
	for _, ns := range []string{cacheNamespaceCatalog, cacheNamespaceRecommend} {
		if err := cache.Invalidate(ctx, ns); err != nil {
			log.Warn("cache invalidate failed (ignored)", "namespace", ns, "error", err)
		}
	}
}

func dedupeStrings(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func mergeStrings(existing, add []string) []string {
	return dedupeStrings(append(append([]string{}, existing...), add...))
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}
