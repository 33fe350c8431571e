package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/learnhub-backend/internal/data/repos"
	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/platform/apierr"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

// PurchasedCourse is the course detail attached to a course purchase.
type PurchasedCourse struct {
	ID          uuid.UUID   `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Price       float64     `json:"price"`
	Poster      types.Media `json:"poster"`
}

// PurchasedItem is a ledger entry resolved against the table its tag names.
// The concrete types are CourseItem and VipItem.
type PurchasedItem interface {
	ItemType() types.PurchasedItemType
}

type CourseItem struct {
	Type        types.PurchasedItemType `json:"type"`
	ItemID      uuid.UUID               `json:"itemId"`
	PurchasedAt time.Time               `json:"purchasedAt"`
	Course      *PurchasedCourse        `json:"course"`
}

func (CourseItem) ItemType() types.PurchasedItemType { return types.ItemTypeCourse }

type VipItem struct {
	Type        types.PurchasedItemType `json:"type"`
	ItemID      uuid.UUID               `json:"itemId"`
	PurchasedAt time.Time               `json:"purchasedAt"`
	Plan        *types.VipPlan          `json:"plan"`
}

func (VipItem) ItemType() types.PurchasedItemType { return types.ItemTypeVip }

type PurchaseService interface {
	PurchaseCourse(ctx context.Context, userID, courseID uuid.UUID) error
	PurchaseVip(ctx context.Context, userID, planID uuid.UUID) error
	ListPurchases(ctx context.Context, userID uuid.UUID) ([]*PurchasedCourse, error)
	// ListPurchasedItems resolves entries of itemType, or of every type when empty.
	ListPurchasedItems(ctx context.Context, userID uuid.UUID, itemType types.PurchasedItemType) ([]PurchasedItem, error)
	ListVipPlans(ctx context.Context) ([]*types.VipPlan, error)
}

type purchaseService struct {
	db      *gorm.DB
	log     *logger.Logger
	repos   repos.Set
	catalog CatalogService
}

func NewPurchaseService(db *gorm.DB, log *logger.Logger, rs repos.Set, catalog CatalogService) PurchaseService {
	return &purchaseService{
		db:      db,
		log:     log.With("service", "PurchaseService"),
		repos:   rs,
		catalog: catalog,
	}
}

func (ps *purchaseService) requireUser(dbc dbctx.Context, userID uuid.UUID) error {
	u, err := ps.repos.Users.GetByID(dbc, userID)
	if err != nil {
		return wrap("get user", err)
	}
	if u == nil {
		return apierr.NotFound("user not found")
	}
	return nil
}

func (ps *purchaseService) PurchaseCourse(ctx context.Context, userID, courseID uuid.UUID) error {
	if err := requireID(userID, "userId"); err != nil {
		return err
	}
	if err := requireID(courseID, "courseId"); err != nil {
		return err
	}
	err := inTx(dbctx.New(ctx), ps.db, func(dbc dbctx.Context) error {
		if err := ps.requireUser(dbc, userID); err != nil {
			return err
		}
		course, err := ps.repos.Courses.GetByID(dbc, courseID)
		if err != nil {
			return wrap("get course", err)
		}
		if course == nil {
			return apierr.NotFound("course not found")
		}
		inserted, err := ps.repos.Purchases.Insert(dbc, userID, types.ItemTypeCourse, courseID)
		if err != nil {
			return wrap("insert purchase", err)
		}
		if !inserted {
			return apierr.Duplicated("course already purchased")
		}
		return wrap("increment enrollment", ps.repos.Courses.IncrementEnrollment(dbc, courseID, 1))
	})
	if err != nil {
		return err
	}
	ps.catalog.Invalidate(ctx)
	ps.log.Info("course purchased", "user_id", userID, "course_id", courseID)
	return nil
}

func (ps *purchaseService) PurchaseVip(ctx context.Context, userID, planID uuid.UUID) error {
	if err := requireID(userID, "userId"); err != nil {
		return err
	}
	if err := requireID(planID, "planId"); err != nil {
		return err
	}
	return inTx(dbctx.New(ctx), ps.db, func(dbc dbctx.Context) error {
		if err := ps.requireUser(dbc, userID); err != nil {
			return err
		}
		plan, err := ps.repos.VipPlans.GetByID(dbc, planID)
		if err != nil {
			return wrap("get vip plan", err)
		}
		if plan == nil {
			return apierr.NotFound("vip plan not found")
		}
		inserted, err := ps.repos.Purchases.Insert(dbc, userID, types.ItemTypeVip, planID)
		if err != nil {
			return wrap("insert purchase", err)
		}
		if !inserted {
			return apierr.Duplicated("vip plan already purchased")
		}
		return nil
	})
}

func (ps *purchaseService) ListPurchases(ctx context.Context, userID uuid.UUID) ([]*PurchasedCourse, error) {
	items, err := ps.ListPurchasedItems(ctx, userID, types.ItemTypeCourse)
	if err != nil {
		return nil, err
	}
	out := make([]*PurchasedCourse, 0, len(items))
	for _, it := range items {
		if ci, ok := it.(*CourseItem); ok && ci.Course != nil {
			out = append(out, ci.Course)
		}
	}
	return out, nil
}

func (ps *purchaseService) ListPurchasedItems(ctx context.Context, userID uuid.UUID, itemType types.PurchasedItemType) ([]PurchasedItem, error) {
	if err := requireID(userID, "userId"); err != nil {
		return nil, err
	}
	if itemType != "" && !itemType.Valid() {
		return nil, apierr.Invalid("type must be Course or Vip")
	}
	dbc := dbctx.New(ctx)
	if err := ps.requireUser(dbc, userID); err != nil {
		return nil, err
	}
	entries, err := ps.repos.Purchases.ListByUser(dbc, userID, itemType)
	if err != nil {
		return nil, wrap("list purchases", err)
	}

	idsByType := map[types.PurchasedItemType][]uuid.UUID{}
	for _, e := range entries {
		idsByType[e.ItemType] = append(idsByType[e.ItemType], e.ItemID)
	}
	courses, err := ps.repos.Courses.GetByIDs(dbc, idsByType[types.ItemTypeCourse])
	if err != nil {
		return nil, wrap("load purchased courses", err)
	}
	plans, err := ps.repos.VipPlans.GetByIDs(dbc, idsByType[types.ItemTypeVip])
	if err != nil {
		return nil, wrap("load purchased plans", err)
	}
	courseByID := indexByID(courses, func(c *types.Course) uuid.UUID { return c.ID })
	planByID := indexByID(plans, func(p *types.VipPlan) uuid.UUID { return p.ID })

	out := make([]PurchasedItem, 0, len(entries))
	for _, e := range entries {
		switch e.ItemType {
		case types.ItemTypeCourse:
			c, ok := courseByID[e.ItemID]
			if !ok {
				continue
			}
			out = append(out, &CourseItem{
				Type:        e.ItemType,
				ItemID:      e.ItemID,
				PurchasedAt: e.CreatedAt,
				Course: &PurchasedCourse{
					ID:          c.ID,
					Title:       c.Title,
					Description: c.Description,
					Price:       c.Price,
					Poster:      c.Poster,
				},
			})
		case types.ItemTypeVip:
			p, ok := planByID[e.ItemID]
			if !ok {
				continue
			}
			out = append(out, &VipItem{Type: e.ItemType, ItemID: e.ItemID, PurchasedAt: e.CreatedAt, Plan: p})
		default:
			ps.log.Warn("unknown purchased item type", "type", string(e.ItemType), "item_id", e.ItemID)
		}
	}
	return out, nil
}

func (ps *purchaseService) ListVipPlans(ctx context.Context) ([]*types.VipPlan, error) {
	plans, err := ps.repos.VipPlans.List(dbctx.New(ctx))
	if err != nil {
		return nil, wrap("list vip plans", err)
	}
	return plans, nil
}
