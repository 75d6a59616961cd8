package entitlements

import (
	"github.com/prismify-app/prismify/internal/pkg/aisdk"
)

// Credit prices per generation category. Video work is an order of magnitude
// more expensive upstream than stills or text, and the prices reflect that.
const (
	costTextToImage      int64 = 10
	costImageToImage     int64 = 10
	costTextToVideo      int64 = 150
	costImageToVideo     int64 = 150
	costTextToText       int64 = 2
	costRemoveBackground int64 = 5
)

// CreditCost returns the credit price of one generation in a category.
func CreditCost(category aisdk.Category) int64 {
	switch category {
	case aisdk.CategoryTextToImage:
		return costTextToImage
	case aisdk.CategoryImageToImage:
		return costImageToImage
	case aisdk.CategoryTextToVideo:
		return costTextToVideo
	case aisdk.CategoryImageToVideo:
		return costImageToVideo
	case aisdk.CategoryTextToText:
		return costTextToText
	case aisdk.CategoryRemoveBackground:
		return costRemoveBackground
	default:
		return costTextToImage
	}
}

// CanAfford reports whether a balance covers one generation in a category.
func CanAfford(balance int64, category aisdk.Category) bool {
	return balance >= CreditCost(category)
}
