package bundles

// MinProducts is the smallest selection that can become a bundle.
const MinProducts = 2

// Tier maps the number of selected products to a discount percentage.
func Tier(n int) int {
	switch {
	case n <= 1:
		return 0
	case n == 2:
		return 5
	case n == 3:
		return 10
	case n == 4:
		return 15
	default:
		return 20
	}
}
