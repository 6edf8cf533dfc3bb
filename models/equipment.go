package models

type Category string

const (
	CategorySports             Category = "Sports"
	CategoryLabEquipment       Category = "Lab Equipment"
	CategoryElectronics        Category = "Electronics"
	CategoryMusicalInstruments Category = "Musical Instruments"
	CategoryProjectMaterials   Category = "Project Materials"
	CategoryOther              Category = "Other"
)

var Categories = []Category{
	CategorySports,
	CategoryLabEquipment,
	CategoryElectronics,
	CategoryMusicalInstruments,
	CategoryProjectMaterials,
	CategoryOther,
}

type Condition string

const (
	ConditionExcellent Condition = "Excellent"
	ConditionGood      Condition = "Good"
	ConditionFair      Condition = "Fair"
	ConditionPoor      Condition = "Poor"
)

var Conditions = []Condition{ConditionExcellent, ConditionGood, ConditionFair, ConditionPoor}

type Equipment struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Category    Category  `json:"category"`
	Condition   Condition `json:"condition"`
	Quantity    int       `json:"quantity"`
	Available   int       `json:"available"`
	Description string    `json:"description,omitempty"`
}

// OnLoan is the number of units currently committed to approved requests.
func (e Equipment) OnLoan() int {
	return e.Quantity - e.Available
}

// Clamp forces 0 <= Available <= Quantity and reports whether a change was needed.
func (e *Equipment) Clamp() bool {
	switch {
	case e.Available < 0:
		e.Available = 0
		return true
	case e.Available > e.Quantity:
		e.Available = e.Quantity
		return true
	}
	return false
}
