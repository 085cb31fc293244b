package domain

type SpiceLevel string

const (
	SpiceMild     SpiceLevel = "Mild"
	SpiceMedium   SpiceLevel = "Medium"
	SpiceHot      SpiceLevel = "Hot"
	SpiceExtraHot SpiceLevel = "Extra Hot"
)

type MenuCategory struct {
	ID    string     `yaml:"id"`
	Name  string     `yaml:"name"`
	Icon  string     `yaml:"icon"`
	Items []MenuItem `yaml:"items"`
}

type MenuItem struct {
	ID           string     `yaml:"id"`
	Name         string     `yaml:"name"`
	Description  string     `yaml:"description"`
	Price        float64    `yaml:"price"`
	IsVegetarian bool       `yaml:"vegetarian"`
	SpiceLevel   SpiceLevel `yaml:"spice"`
	IsPopular    bool       `yaml:"popular"`
}
