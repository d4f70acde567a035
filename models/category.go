package models

// Category is one of the fixed menu groupings. Every category is stored in
// its own collection.
type Category string

const (
	CategorySoups           Category = "soups"
	CategoryVegStarter      Category = "vegstarter"
	CategoryChickenStarter  Category = "chickenstarter"
	CategoryPrawnsStarter   Category = "prawnsstarter"
	CategorySeafood         Category = "seafood"
	CategorySpringRolls     Category = "springrolls"
	CategoryMomos           Category = "momos"
	CategoryGravies         Category = "gravies"
	CategoryPotRice         Category = "potrice"
	CategoryRice            Category = "rice"
	CategoryRiceWithGravy   Category = "ricewithgravy"
	CategoryNoodle          Category = "noodle"
	CategoryNoodleWithGravy Category = "noodlewithgravy"
	CategoryThai            Category = "thai"
	CategoryChopSuey        Category = "chopsuey"
	CategoryDesserts        Category = "desserts"
	CategoryBeverages       Category = "beverages"
	CategoryExtra           Category = "extra"
)

// categories is in display order.
var categories = []Category{
	CategorySoups,
	CategoryVegStarter,
	CategoryChickenStarter,
	CategoryPrawnsStarter,
	CategorySeafood,
	CategorySpringRolls,
	CategoryMomos,
	CategoryGravies,
	CategoryPotRice,
	CategoryRice,
	CategoryRiceWithGravy,
	CategoryNoodle,
	CategoryNoodleWithGravy,
	CategoryThai,
	CategoryChopSuey,
	CategoryDesserts,
	CategoryBeverages,
	CategoryExtra,
}

// collectionNames is the only place a category is mapped to physical storage.
var collectionNames = map[Category]string{
	CategorySoups:           "soups",
	CategoryVegStarter:      "vegstarter",
	CategoryChickenStarter:  "chickenstarter",
	CategoryPrawnsStarter:   "prawnsstarter",
	CategorySeafood:         "seafood",
	CategorySpringRolls:     "springrolls",
	CategoryMomos:           "momos",
	CategoryGravies:         "gravies",
	CategoryPotRice:         "potrice",
	CategoryRice:            "rice",
	CategoryRiceWithGravy:   "ricewithgravy",
	CategoryNoodle:          "noodle",
	CategoryNoodleWithGravy: "noodlewithgravy",
	CategoryThai:            "thai",
	CategoryChopSuey:        "chopsuey",
	CategoryDesserts:        "desserts",
	CategoryBeverages:       "beverages",
	CategoryExtra:           "extra",
}

// Categories returns a copy of the category list in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// ParseCategory resolves untrusted input. Matching is exact.
func ParseCategory(s string) (Category, bool) {
	c := Category(s)
	_, ok := collectionNames[c]
	return c, ok
}

func (c Category) Valid() bool {
	_, ok := collectionNames[c]
	return ok
}

// CollectionName returns the collection holding the category's items, or ""
// for an unknown category.
func (c Category) CollectionName() string {
	return collectionNames[c]
}

func (c Category) String() string { return string(c) }
