//go:build !race

package admin

func passwordHashCost() int {
	return 14
}
