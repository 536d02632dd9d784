package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"comanda/internal/domain/model"
	"comanda/internal/events"
	repo "comanda/internal/repository"
)

// OrderUsecase は注文エンジン。
// 卓のライフサイクルと注文のライフサイクル、totalの再計算を一手に持つ。
// 各コマンドは1トランザクションで実行し、失敗したら部分状態を残さない
type OrderUsecase struct {
	tx repo.TransactionManager
	ev events.Publisher
}

func NewOrderUsecase(tx repo.TransactionManager, ev events.Publisher) *OrderUsecase {
	if ev == nil {
		ev = events.NopPublisher{}
	}
	return &OrderUsecase{tx: tx, ev: ev}
}

type OrderItemOutput struct {
	ID               int64                 `json:"id"`
	ProductID        int64                 `json:"product_id"`
	Quantity         int64                 `json:"quantity"`
	SelectedExtras   []model.SelectedExtra `json:"selected_extras"`
	BasePriceAtOrder int64                 `json:"base_price_at_order"`
	UnitPrice        int64                 `json:"unit_price"`
	TotalPrice       int64                 `json:"total_price"`
	Notes            string                `json:"notes"`
}

type OrderOutput struct {
	ID        int64             `json:"id"`
	TableID   int64             `json:"table_id"`
	Status    string            `json:"status"`
	Total     int64             `json:"total"`
	CreatedAt time.Time         `json:"created_at"`
	Items     []OrderItemOutput `json:"items"`
}

type AddItemInput struct {
	ProductID  int64
	Quantity   int64
	ExtraNames []string
	Notes      string
}

// 数量変更の結果。0以下まで減らすと明細ごと消える
type ItemChangeOutput struct {
	Removed    bool             `json:"removed"`
	Item       *OrderItemOutput `json:"item,omitempty"`
	OrderTotal int64            `json:"order_total"`
}

// OpenTable は卓を開けてアクティブな注文を返す。
// open|paidの注文が既にあればそれを返すだけ（冪等）
func (u *OrderUsecase) OpenTable(ctx context.Context, tableID int64) (OrderOutput, error) {
	if tableID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid table id")
	}

	var out OrderOutput
	var pending []events.Event

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		t, err := r.Tables().FindByID(ctx, tableID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// 行ロック付きでアクティブ注文を検索
		existing, found, err := r.Orders().FindActiveByTableID(ctx, tableID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if found {
			items, err := r.OrderItems().ListByOrderID(ctx, existing.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			out = toOrderOutput(existing, items)
			return nil
		}

		now := time.Now()
		orderID, err := r.Orders().Create(ctx, model.Order{
			TableID:   tableID,
			Status:    model.OrderStatusOpen,
			Total:     0,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if t.Status != model.TableStatusInService {
			if err := r.Tables().UpdateStatus(ctx, tableID, model.TableStatusInService); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		out = toOrderOutput(model.Order{
			ID:        orderID,
			TableID:   tableID,
			Status:    model.OrderStatusOpen,
			Total:     0,
			CreatedAt: now,
		}, nil)

		pending = append(pending,
			events.Event{Entity: events.EntityOrder, Action: events.ActionCreated, ID: orderID},
			events.Event{Entity: events.EntityTable, Action: events.ActionUpdated, ID: tableID},
		)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}

	u.emit(pending)
	return out, nil
}

// AddItem はopenな注文に明細を足す。
// 価格とトッピングは追加時点の値で固定する（以後の商品編集は無関係）
func (u *OrderUsecase) AddItem(ctx context.Context, orderID int64, in AddItemInput) (OrderItemOutput, error) {
	if orderID <= 0 {
		return OrderItemOutput{}, NewHTTPError(http.StatusBadRequest, "invalid order id")
	}
	if in.ProductID <= 0 {
		return OrderItemOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if in.Quantity < 1 {
		return OrderItemOutput{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}
	notes := strings.TrimSpace(in.Notes)

	var out OrderItemOutput
	var pending []events.Event

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.Status != model.OrderStatusOpen {
			return NewHTTPError(http.StatusConflict, "order is not open")
		}

		p, err := r.Products().FindByID(ctx, in.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "product not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// 選択トッピングを名前で解決して値コピーする
		selected, err := resolveExtras(p, in.ExtraNames)
		if err != nil {
			return err
		}

		unitPrice := p.Price
		for _, ex := range selected {
			unitPrice += ex.Price
		}
		totalPrice := unitPrice * in.Quantity

		now := time.Now()
		item, err := r.OrderItems().Create(ctx, model.OrderItem{
			OrderID:          orderID,
			ProductID:        p.ID,
			Quantity:         in.Quantity,
			SelectedExtras:   selected,
			BasePriceAtOrder: p.Price,
			UnitPrice:        unitPrice,
			TotalPrice:       totalPrice,
			Notes:            notes,
			CreatedAt:        now,
			UpdatedAt:        now,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// totalは明細変更と同じTxで即時再計算
		if _, err := recomputeOrderTotal(ctx, r, orderID); err != nil {
			return err
		}

		out = toItemOutput(item)
		pending = append(pending,
			events.Event{Entity: events.EntityOrderItem, Action: events.ActionCreated, ID: item.ID},
			events.Event{Entity: events.EntityOrder, Action: events.ActionUpdated, ID: orderID},
		)
		return nil
	})

	if err != nil {
		return OrderItemOutput{}, err
	}

	u.emit(pending)
	return out, nil
}

// ChangeItemQuantity は数量をdeltaだけ増減する。
// 新しい数量が0以下なら明細を削除する（エラーではない）
func (u *OrderUsecase) ChangeItemQuantity(ctx context.Context, itemID int64, delta int64) (ItemChangeOutput, error) {
	if itemID <= 0 {
		return ItemChangeOutput{}, NewHTTPError(http.StatusBadRequest, "invalid item id")
	}
	if delta == 0 {
		return ItemChangeOutput{}, NewHTTPError(http.StatusBadRequest, "delta must not be 0")
	}

	var out ItemChangeOutput
	var pending []events.Event

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		item, err := r.OrderItems().FindByID(ctx, itemID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		o, err := r.Orders().FindByID(ctx, item.OrderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.Status != model.OrderStatusOpen {
			return NewHTTPError(http.StatusConflict, "order is not open")
		}

		newQty := item.Quantity + delta
		if newQty <= 0 {
			if err := r.OrderItems().DeleteByID(ctx, itemID); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			out = ItemChangeOutput{Removed: true}
			pending = append(pending, events.Event{Entity: events.EntityOrderItem, Action: events.ActionDeleted, ID: itemID})
		} else {
			// unit_priceは作成時に確定済み。そこからtotal_priceを出す
			newTotal := item.UnitPrice * newQty
			if err := r.OrderItems().UpdateQuantity(ctx, itemID, newQty, newTotal); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			item.Quantity = newQty
			item.TotalPrice = newTotal
			itemOut := toItemOutput(item)
			out = ItemChangeOutput{Item: &itemOut}
			pending = append(pending, events.Event{Entity: events.EntityOrderItem, Action: events.ActionUpdated, ID: itemID})
		}

		total, err := recomputeOrderTotal(ctx, r, item.OrderID)
		if err != nil {
			return err
		}
		out.OrderTotal = total

		pending = append(pending, events.Event{Entity: events.EntityOrder, Action: events.ActionUpdated, ID: item.OrderID})
		return nil
	})

	if err != nil {
		return ItemChangeOutput{}, err
	}

	u.emit(pending)
	return out, nil
}

func (u *OrderUsecase) RemoveItem(ctx context.Context, itemID int64) error {
	if itemID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid item id")
	}

	var pending []events.Event

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		item, err := r.OrderItems().FindByID(ctx, itemID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		o, err := r.Orders().FindByID(ctx, item.OrderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.Status != model.OrderStatusOpen {
			return NewHTTPError(http.StatusConflict, "order is not open")
		}

		if err := r.OrderItems().DeleteByID(ctx, itemID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if _, err := recomputeOrderTotal(ctx, r, item.OrderID); err != nil {
			return err
		}

		pending = append(pending,
			events.Event{Entity: events.EntityOrderItem, Action: events.ActionDeleted, ID: itemID},
			events.Event{Entity: events.EntityOrder, Action: events.ActionUpdated, ID: item.OrderID},
		)
		return nil
	})

	if err != nil {
		return err
	}

	u.emit(pending)
	return nil
}

// MarkPaid はopen→paid。
// 明細ゼロの注文はUI側でも弾くが、エンジンでも必ず拒否する
func (u *OrderUsecase) MarkPaid(ctx context.Context, orderID int64) (OrderOutput, error) {
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	var out OrderOutput
	var pending []events.Event

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.Status != model.OrderStatusOpen {
			return NewHTTPError(http.StatusConflict, "order is not open")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(items) == 0 {
			return NewHTTPError(http.StatusConflict, "order has no items")
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, model.OrderStatusPaid); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		o.Status = model.OrderStatusPaid
		out = toOrderOutput(o, items)
		pending = append(pending, events.Event{Entity: events.EntityOrder, Action: events.ActionUpdated, ID: orderID})
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}

	u.emit(pending)
	return out, nil
}

// Finalize はpaid→closed。同じTxで卓をavailableへ戻す。
// closedは終端で、以後の明細操作は全て拒否される
func (u *OrderUsecase) Finalize(ctx context.Context, orderID int64) (OrderOutput, error) {
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	var out OrderOutput
	var pending []events.Event

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.Status != model.OrderStatusPaid {
			return NewHTTPError(http.StatusConflict, "order is not paid")
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, model.OrderStatusClosed); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Tables().UpdateStatus(ctx, o.TableID, model.TableStatusAvailable); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		o.Status = model.OrderStatusClosed
		out = toOrderOutput(o, items)
		pending = append(pending,
			events.Event{Entity: events.EntityOrder, Action: events.ActionUpdated, ID: orderID},
			events.Event{Entity: events.EntityTable, Action: events.ActionUpdated, ID: o.TableID},
		)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}

	u.emit(pending)
	return out, nil
}

func (u *OrderUsecase) GetOrder(ctx context.Context, orderID int64) (OrderOutput, error) {
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 卓の注文履歴（closed含む）
func (u *OrderUsecase) ListOrdersByTable(ctx context.Context, tableID int64) ([]OrderOutput, error) {
	if tableID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid table id")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Tables().FindByID(ctx, tableID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		orders, err := r.Orders().ListByTableID(ctx, tableID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

// =====================
// helpers
// =====================

// 選択された名前をProduct.Extrasと突き合わせて値コピーを返す
func resolveExtras(p model.Product, names []string) ([]model.SelectedExtra, error) {
	selected := make([]model.SelectedExtra, 0, len(names))

	for _, name := range names {
		found := false
		for _, ex := range p.Extras {
			if ex.Name == name {
				selected = append(selected, model.SelectedExtra{Name: ex.Name, Price: ex.Price})
				found = true
				break
			}
		}
		if !found {
			return nil, NewHTTPError(http.StatusUnprocessableEntity, "unknown extra: "+name)
		}
	}

	return selected, nil
}

// order.total = Σ item.total_price を同じTx内で永続化する
func recomputeOrderTotal(ctx context.Context, r repo.TxRepos, orderID int64) (int64, error) {
	items, err := r.OrderItems().ListByOrderID(ctx, orderID)
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	var total int64 = 0
	for _, it := range items {
		total += it.TotalPrice
	}

	if err := r.Orders().UpdateTotal(ctx, orderID, total); err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return total, nil
}

func (u *OrderUsecase) emit(pending []events.Event) {
	for _, ev := range pending {
		u.ev.Publish(ev)
	}
}

func toItemOutput(it model.OrderItem) OrderItemOutput {
	return OrderItemOutput{
		ID:               it.ID,
		ProductID:        it.ProductID,
		Quantity:         it.Quantity,
		SelectedExtras:   it.SelectedExtras,
		BasePriceAtOrder: it.BasePriceAtOrder,
		UnitPrice:        it.UnitPrice,
		TotalPrice:       it.TotalPrice,
		Notes:            it.Notes,
	}
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, toItemOutput(it))
	}

	return OrderOutput{
		ID:        o.ID,
		TableID:   o.TableID,
		Status:    string(o.Status),
		Total:     o.Total,
		CreatedAt: o.CreatedAt,
		Items:     outItems,
	}
}
