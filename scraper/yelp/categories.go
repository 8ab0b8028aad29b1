package yelp

import "math/rand"

// restaurantTypes is the full Yelp restaurant-category list, used for the
// unweighted draw.
var restaurantTypes = []string{
	"Afghan", "African", "Senegalese", "South African", "American (New)", "American (Traditional)",
	"Arabian", "Armenian", "Asian Fusion", "Australian", "Austrian", "Bangladeshi", "Barbeque", "Basque", "Bavarian",
	"Beer Garden", "Beer Hall", "Beisl", "Belgian", "Flemish", "Bistros", "Black Sea",
	"Brasseries", "Brazilian", "Brazilian Empanadas", "Central Brazilian", "Northeastern Brazilian",
	"Northern Brazilian", "Rodizios", "Breakfast & Brunch", "Pancakes", "British", "Buffets",
	"Bulgarian", "Burgers", "Burmese", "Cafes", "Themed Cafes", "Cafeteria", "Cajun/Creole",
	"Cambodian", "Canadian (New)", "Canteen", "Caribbean", "Dominican", "Haitian", "Puerto Rican",
	"Trinidadian", "Catalan", "Cheesesteaks", "Chicken Shop", "Chicken Wings", "Chilean",
	"Chinese", "Cantonese", "Congee", "Dim Sum", "Fuzhou", "Hainan", "Hakka", "Henghwa",
	"Hokkien", "Hunan", "Pekinese", "Shanghainese", "Szechuan", "Teochew", "Comfort Food",
	"Corsican", "Creperies", "Cuban", "Curry Sausage", "Cypriot", "Czech", "Czech/Slovakian",
	"Danish", "Delis", "Diners", "Dinner Theater", "Dumplings", "Eastern European", "Eritrean",
	"Ethiopian", "Fast Food", "Filipino", "Fish & Chips", "Flatbread",
	"Fondue", "Food Court", "Food Stands", "Freiduria", "French", "Alsatian", "Auvergnat",
	"Galician", "Game Meat", "Gastropubs", "Georgian", "German", "Baden", "Eastern German",
	"Gluten-Free", "Greek", "Guamanian", "Halal", "Hawaiian",
	"Honduran", "Hong Kong Style Cafe", "Hot Dogs", "Hot Pot", "Hungarian", "Iberian", "Indian",
	"Indonesian", "International", "Irish", "Israeli", "Italian", "Abruzzese",
	"Altoatesine", "Apulian", "Calabrian", "Cucina Campana", "Emilian", "Friulan", "Ligurian",
	"Lumbard", "Napoletana", "Piemonte", "Roman", "Sardinian", "Sicilian", "Tuscan", "Venetian",
	"Japanese", "Blowfish", "Conveyor Belt Sushi", "Donburi", "Gyudon", "Oyakodon", "Hand Rolls",
	"Horumon", "Izakaya", "Japanese Curry", "Kaiseki", "Kushikatsu", "Oden", "Okinawan", "Okonomiyaki",
	"Onigiri", "Ramen", "Robatayaki", "Soba", "Sukiyaki", "Takoyaki", "Tempura", "Teppanyaki",
	"Tonkatsu", "Udon", "Unagi", "Western Style Japanese Food", "Yakiniku", "Yakitori", "Jewish",
	"Kebab", "Kopitiam", "Korean", "Kosher", "Kurdish", "Laos", "Laotian", "Latin American",
	"Colombian", "Salvadoran", "Venezuelan", "Live/Raw Food", "Lyonnais", "Malaysian", "Mamak",
	"Nyonya", "Meatballs", "Mediterranean", "Falafel", "Mexican", "Eastern Mexican", "Jaliscan",
	"Northern Mexican", "Oaxacan", "Pueblan", "Tacos", "Tamales", "Yucatan", "Middle Eastern",
	"Egyptian", "Lebanese", "Modern European", "Mongolian",
	"Moroccan", "New Zealand", "Night Food", "Nikkei", "Noodles",
	"Norcinerie", "Open Sandwiches", "Oriental", "Pakistani", "Pan Asian", "Parent Cafes", "Parma",
	"Persian/Iranian", "Peruvian", "PF/Comercial", "Pita", "Pizza", "Polish", "Pierogis", "Polynesian",
	"Pop-Up Restaurants", "Portuguese", "Alentejo", "Algarve", "Azores", "Beira", "Fado Houses",
	"Madeira", "Minho", "Ribatejo", "Tras-os-Montes", "Potatoes", "Poutineries", "Pub Food", "Rice",
	"Romanian", "Russian", "Salad", "Sandwiches", "Scandinavian",
	"Scottish", "Seafood", "Serbo Croatian", "Signature Cuisine", "Singaporean", "Slovakian", "Somali",
	"Soul Food", "Soup", "Southern", "Spanish", "Arroceria/Paella", "Sri Lankan", "Steakhouses",
	"Supper Clubs", "Sushi Bars", "Swabian", "Swedish", "Swiss Food", "Syrian", "Taiwanese",
	"Tapas Bars", "Tapas/Small Plates", "Tavola Calda", "Tex-Mex", "Thai", "Traditional Norwegian",
	"Traditional Swedish", "Turkish", "Homemade Food",
	"Turkish Ravioli", "Ukrainian", "Uzbek", "Vegan", "Vegetarian", "Venison",
	"Vietnamese", "Waffles", "Wok", "Wraps",
}

// WeightedCategory pairs a favorite category with its sampling weight.
type WeightedCategory struct {
	Name   string
	Weight int
}

// favoriteTypes is the weighted pool. Weights are relative; a weighted draw
// picks each entry with probability weight / total.
var favoriteTypes = []WeightedCategory{
	{"Bagels", 40},
	{"Japanese", 5},
	{"Italian", 10},
	{"Cafe", 30},
	{"Thai", 35},
	{"American", 25},
	{"Sushi", 10},
	{"Chinese", 25},
	{"Vietnamese", 50},
	{"Korean", 24},
	{"Breakfast & Brunch", 50},
	{"Healthy", 20},
	{"French", 16},
	{"Bakery", 16},
	{"Mediterranean", 16},
	{"Cocktail Bars", 15},
	{"Dim Sum", 9},
	{"Cantonese", 7},
	{"Omakase", 10},
	{"Indian", 6},
	{"Mexican", 6},
	{"Pizza", 4},
}

// CategoryPicker chooses a query category per iteration. With probability
// 1/3 it draws from the weighted favorites pool, otherwise uniformly from
// the full category list. Independently, with probability 1/4, it flags the
// query for the "hot_and_new" attribute filter.
type CategoryPicker struct {
	rng         *rand.Rand
	weighted    []WeightedCategory
	unweighted  []string
	totalWeight int
}

// NewCategoryPicker creates a picker over the default pools using rng.
func NewCategoryPicker(rng *rand.Rand) *CategoryPicker {
	return newCategoryPicker(rng, favoriteTypes, restaurantTypes)
}

func newCategoryPicker(rng *rand.Rand, weighted []WeightedCategory, unweighted []string) *CategoryPicker {
	total := 0
	for _, w := range weighted {
		total += w.Weight
	}
	return &CategoryPicker{
		rng:         rng,
		weighted:    weighted,
		unweighted:  unweighted,
		totalWeight: total,
	}
}

// Next returns the category for the next query.
func (p *CategoryPicker) Next() string {
	if p.rng.Intn(3) == 0 {
		return p.weightedDraw()
	}
	return p.unweighted[p.rng.Intn(len(p.unweighted))]
}

// HotAndNew reports whether the next query should carry the hot_and_new
// attribute filter.
func (p *CategoryPicker) HotAndNew() bool {
	return p.rng.Intn(4) == 0
}

func (p *CategoryPicker) weightedDraw() string {
	n := p.rng.Intn(p.totalWeight)
	for _, w := range p.weighted {
		n -= w.Weight
		if n < 0 {
			return w.Name
		}
	}
	// Unreachable while totalWeight matches the pool.
	return p.weighted[len(p.weighted)-1].Name
}
