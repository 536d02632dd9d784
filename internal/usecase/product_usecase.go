package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"comanda/internal/domain/model"
	"comanda/internal/events"
	repo "comanda/internal/repository"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// 商品カタログの業務ロジック。
// 商品編集は既存明細のスナップショットに影響しない
type ProductUsecase struct {
	productRepo repo.ProductRepository
	ev          events.Publisher
}

// DI
func NewProductUsecase(productRepo repo.ProductRepository, ev events.Publisher) *ProductUsecase {
	if ev == nil {
		ev = events.NopPublisher{}
	}
	return &ProductUsecase{
		productRepo: productRepo,
		ev:          ev,
	}
}

type ProductExtraInput struct {
	Name  string
	Price int64
}

type SaveProductInput struct {
	Name   string
	Price  int64
	Extras []ProductExtraInput
}

// name/price/extrasを検証して正規化する。書き込み前に必ず通す
func validateProductInput(in SaveProductInput) (model.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if len(name) > 255 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "name too long")
	}
	if in.Price < 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}

	extras := make([]model.ProductExtra, 0, len(in.Extras))
	seen := make(map[string]bool, len(in.Extras))

	for _, ex := range in.Extras {
		exName := strings.TrimSpace(ex.Name)
		if exName == "" {
			return model.Product{}, NewHTTPError(http.StatusBadRequest, "extra name is required")
		}
		if seen[exName] {
			return model.Product{}, NewHTTPError(http.StatusBadRequest, "duplicate extra name: "+exName)
		}
		if ex.Price < 0 {
			return model.Product{}, NewHTTPError(http.StatusBadRequest, "extra price must be >= 0")
		}
		seen[exName] = true
		extras = append(extras, model.ProductExtra{Name: exName, Price: ex.Price})
	}

	return model.Product{
		Name:   name,
		Price:  in.Price,
		Extras: extras,
	}, nil
}

func (u *ProductUsecase) ListProducts(ctx context.Context) ([]model.Product, error) {
	products, err := u.productRepo.List(ctx)
	if err != nil {
		return []model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return products, nil
}

func (u *ProductUsecase) GetProduct(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

func (u *ProductUsecase) CreateProduct(ctx context.Context, in SaveProductInput) (model.Product, error) {
	p, err := validateProductInput(in)
	if err != nil {
		return model.Product{}, err
	}

	created, err := u.productRepo.Create(ctx, p)
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.ev.Publish(events.Event{Entity: events.EntityProduct, Action: events.ActionCreated, ID: created.ID, At: time.Now()})
	return created, nil
}

func (u *ProductUsecase) UpdateProduct(ctx context.Context, productID int64, in SaveProductInput) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := validateProductInput(in)
	if err != nil {
		return model.Product{}, err
	}
	p.ID = productID

	if err := u.productRepo.Update(ctx, p); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	updated, err := u.productRepo.FindByID(ctx, productID)
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.ev.Publish(events.Event{Entity: events.EntityProduct, Action: events.ActionUpdated, ID: productID, At: time.Now()})
	return updated, nil
}

// 論理削除。明細はスナップショットを持つので参照が残っても壊れない
func (u *ProductUsecase) DeleteProduct(ctx context.Context, productID int64) error {
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	if err := u.productRepo.SoftDelete(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.ev.Publish(events.Event{Entity: events.EntityProduct, Action: events.ActionDeleted, ID: productID, At: time.Now()})
	return nil
}
