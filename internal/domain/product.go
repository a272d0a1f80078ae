package domain

// Product is a catalog record. Prices are stored in the reference
// currency; conversion happens only at display time.
type Product struct {
	ID               string   `json:"id" bson:"_id"`
	Name             string   `json:"name" bson:"name"`
	Price            float64  `json:"price" bson:"price"`
	Description      string   `json:"description" bson:"description"`
	Category         string   `json:"category" bson:"category"`
	Images           []string `json:"images" bson:"images"`
	CareInstructions string   `json:"careInstructions" bson:"care_instructions"`
}
