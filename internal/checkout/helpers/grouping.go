package helpers

import (
	"github.com/google/uuid"

	"github.com/dmarquezf/bazaar-backend/pkg/db/models"
)

// VendorPartition is one vendor's share of a cart.
type VendorPartition struct {
	VendorID      uuid.UUID
	Items         []models.CartItem
	SubtotalCents int
}

// PartitionByVendor splits cart items into one partition per distinct vendor,
// ordered by each vendor's first appearance in the cart.
func PartitionByVendor(items []models.CartItem) []VendorPartition {
	index := make(map[uuid.UUID]int, len(items))
	partitions := make([]VendorPartition, 0, len(items))
	for _, item := range items {
		at, seen := index[item.VendorID]
		if !seen {
			at = len(partitions)
			index[item.VendorID] = at
			partitions = append(partitions, VendorPartition{VendorID: item.VendorID})
		}
		partitions[at].Items = append(partitions[at].Items, item)
		partitions[at].SubtotalCents += item.LineTotalCents
	}
	return partitions
}

// SumQuantitiesByProduct folds cart lines into per-product totals. Carts hold
// one line per product, but the decrement step must not depend on that.
func SumQuantitiesByProduct(items []models.CartItem) map[uuid.UUID]int {
	sums := make(map[uuid.UUID]int, len(items))
	for _, item := range items {
		sums[item.ProductID] += item.Quantity
	}
	return sums
}

// CartTotalCents sums every line total in the cart.
func CartTotalCents(items []models.CartItem) int {
	total := 0
	for _, item := range items {
		total += item.LineTotalCents
	}
	return total
}
