package shipping

import (
	"github.com/qlbh/backend/internal/domain/order"
)

// StatusMapping translates a carrier status code into the order status
// it implies and a human label for the order history.
type StatusMapping struct {
	OrderStatus order.Status
	Label       string
}

// viettelPostStatuses maps Viettel Post status codes to order statuses.
// Codes outside the table fall back to shipping with a generic label.
var viettelPostStatuses = map[int]StatusMapping{
	100: {order.StatusShipping, "Đã tiếp nhận"},
	101: {order.StatusShipping, "Đang lấy hàng"},
	102: {order.StatusShipping, "Đã lấy hàng"},
	103: {order.StatusShipping, "Đang vận chuyển"},
	104: {order.StatusShipping, "Đang giao hàng"},
	105: {order.StatusShipping, "Chuyển hoàn"},
	200: {order.StatusDelivered, "Giao thành công"},
	201: {order.StatusDelivered, "Đã đối soát"},
	202: {order.StatusCompleted, "Đã thanh toán COD"},
	500: {order.StatusShipping, "Giao thất bại - đang chuyển hoàn"},
	501: {order.StatusReturned, "Đã hoàn hàng"},
	502: {order.StatusCancelled, "Đã hủy"},
}

// MapViettelPostStatus resolves a Viettel Post status code. Unknown
// codes keep the order in shipping so updates are never lost.
func MapViettelPostStatus(code int) StatusMapping {
	if m, ok := viettelPostStatuses[code]; ok {
		return m
	}
	return StatusMapping{order.StatusShipping, "Đang xử lý"}
}
