package service

import (
	"context"
	"io"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/openshelf/stockroom/internal/actorcontext"
	"github.com/openshelf/stockroom/internal/clock"
	logdomain "github.com/openshelf/stockroom/internal/inventorylog/domain"
	"github.com/openshelf/stockroom/internal/product/csv"
	"github.com/openshelf/stockroom/internal/product/domain"
	"github.com/openshelf/stockroom/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    domain.Repository
	LogRepo logdomain.Repository
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	logRepo logdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("product.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		logRepo: p.LogRepo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	stock := 0
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, domain.ErrInvalidStock
		}
		stock = *req.Stock
	}

	now := s.clock.Now()
	p := &domain.Product{
		ID:        s.genID.Generate().Int64(),
		Name:      name,
		Unit:      strings.TrimSpace(req.Unit),
		Category:  strings.TrimSpace(req.Category),
		Brand:     strings.TrimSpace(req.Brand),
		Stock:     stock,
		Status:    domain.StatusForStock(stock),
		Image:     strings.TrimSpace(req.Image),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, s.db, p); err != nil {
		return nil, err
	}

	resp := toResponse(p)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (*domain.ListResponse, error) {
	page := pagination.Pagination{Page: req.Page, Size: req.Size}.Normalize()

	items, total, err := s.repo.List(ctx, s.db, domain.ListFilter{
		Name:     strings.TrimSpace(req.Name),
		Category: strings.TrimSpace(req.Category),
		SortBy:   strings.TrimSpace(req.SortBy),
		OrderBy:  strings.TrimSpace(req.OrderBy),
		Offset:   page.Offset(),
		Limit:    page.Size,
	})
	if err != nil {
		return nil, err
	}

	resp := &domain.ListResponse{
		Items: make([]domain.Response, 0, len(items)),
		Total: total,
	}
	for i := range items {
		resp.Items = append(resp.Items, toResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	productID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.FindByID(ctx, s.db, productID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	resp := toResponse(item)
	return &resp, nil
}

// Update applies a partial update and, when the request changed the stock
// quantity, appends one inventory log entry. The old quantity is captured
// before any mutation and compared against the incoming value, so updates
// that touch other fields alongside stock cannot mask a change. The log
// insert is sequenced strictly after the product write: a failed persist
// writes no entry, while a failed entry after a committed persist is logged
// and swallowed since no cross-store transaction exists.
func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	productID, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.FindByID(ctx, s.db, productID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	oldQuantity := item.Stock

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		item.Name = name
	}
	if req.Unit != nil {
		item.Unit = strings.TrimSpace(*req.Unit)
	}
	if req.Category != nil {
		item.Category = strings.TrimSpace(*req.Category)
	}
	if req.Brand != nil {
		item.Brand = strings.TrimSpace(*req.Brand)
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, domain.ErrInvalidStock
		}
		item.Stock = *req.Stock
	}
	if req.Image != nil {
		item.Image = strings.TrimSpace(*req.Image)
	}

	item.Status = domain.StatusForStock(item.Stock)
	item.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return nil, err
	}

	if req.Stock != nil && *req.Stock != oldQuantity {
		entry := &logdomain.Entry{
			ID:          s.genID.Generate().Int64(),
			ProductID:   item.ID,
			OldQuantity: oldQuantity,
			NewQuantity: *req.Stock,
			Delta:       *req.Stock - oldQuantity,
			Actor:       s.resolveActor(ctx),
			CreatedAt:   s.clock.Now(),
		}
		if err := s.logRepo.Insert(ctx, s.db, entry); err != nil {
			s.log.Warn("failed to write inventory log entry",
				zap.Int64("product_id", item.ID),
				zap.Int("delta", entry.Delta),
				zap.Error(err),
			)
		}
	}

	resp := toResponse(item)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	productID, err := parseID(id)
	if err != nil {
		return err
	}

	item, err := s.repo.FindByID(ctx, s.db, productID)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}

	// Hard delete of the product only; its inventory log entries remain.
	return s.repo.Delete(ctx, s.db, productID)
}

// History lists a product's stock changes newest first. It does not require
// the product to still exist, so the audit trail of a deleted product stays
// reachable.
func (s *Service) History(ctx context.Context, id string) ([]domain.HistoryEntry, error) {
	productID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	entries, err := s.logRepo.ListByProduct(ctx, s.db, productID)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, domain.HistoryEntry{
			ID:          snowflake.ID(e.ID).String(),
			ProductID:   snowflake.ID(e.ProductID).String(),
			OldQuantity: e.OldQuantity,
			NewQuantity: e.NewQuantity,
			Delta:       e.Delta,
			Actor:       e.Actor,
			CreatedAt:   e.CreatedAt,
		})
	}
	return resp, nil
}

// Import bulk-creates one product per CSV row. Rows are normalized
// independently, so bad cells degrade to defaults, but a persistence failure
// aborts the remainder of the batch. Import never writes inventory log
// entries; logging belongs to the update path.
func (s *Service) Import(ctx context.Context, r io.Reader) (int, error) {
	rows, err := csv.ReadRows(r)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, row := range rows {
		n := row.Normalize()
		now := s.clock.Now()
		p := &domain.Product{
			ID:        s.genID.Generate().Int64(),
			Name:      n.Name,
			Category:  n.Category,
			Stock:     n.Stock,
			Status:    domain.StatusForStock(n.Stock),
			Image:     n.Image,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.repo.Create(ctx, s.db, p); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func (s *Service) Export(ctx context.Context, w io.Writer) error {
	items, err := s.repo.FindAll(ctx, s.db)
	if err != nil {
		return err
	}

	rows := make([]csv.ExportRow, 0, len(items))
	for _, p := range items {
		rows = append(rows, csv.ExportRow{
			Name:     p.Name,
			Unit:     p.Unit,
			Category: p.Category,
			Brand:    p.Brand,
			Stock:    p.Stock,
			Status:   p.Status,
			Image:    p.Image,
		})
	}
	return csv.WriteRows(w, rows)
}

func (s *Service) resolveActor(ctx context.Context) string {
	if actor, ok := actorcontext.ActorFromContext(ctx); ok {
		return actor
	}
	return logdomain.DefaultActor
}

func parseID(id string) (int64, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return 0, domain.ErrInvalidID
	}
	return parsed.Int64(), nil
}

func toResponse(p *domain.Product) domain.Response {
	return domain.Response{
		ID:        snowflake.ID(p.ID).String(),
		Name:      p.Name,
		Unit:      p.Unit,
		Category:  p.Category,
		Brand:     p.Brand,
		Stock:     p.Stock,
		Status:    p.Status,
		Image:     p.Image,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
