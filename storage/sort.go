package storage

import (
	"cmp"
	"slices"
	"strings"

	"mingsmenu/models"
)

// bucket ranks a lowercase name: veg first, then chicken, then prawn(s),
// then everything else.
func bucket(name string) int {
	switch {
	case strings.HasPrefix(name, "veg"):
		return 1
	case strings.HasPrefix(name, "chicken"):
		return 2
	case strings.HasPrefix(name, "prawns"), strings.HasPrefix(name, "prawn"):
		return 3
	default:
		return 4
	}
}

// compareNames orders names by (bucket, lowercase name).
func compareNames(a, b string) int {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if c := cmp.Compare(bucket(a), bucket(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// SortMenuItems sorts items in place into presentation order and returns them.
func SortMenuItems(items []models.MenuItem) []models.MenuItem {
	slices.SortStableFunc(items, func(x, y models.MenuItem) int {
		return compareNames(x.Name, y.Name)
	})
	return items
}
