package sweep

// Load is one building's position at a clearing price.
type Load struct {
	Name string `json:"name"`
	// Quantity is the building's demand at the clearing price (kW).
	Quantity float64 `json:"quantity"`
	// Response is the building's response attribute at Quantity.
	Response float64 `json:"response"`
}

// Row is one offer of a sweep.
type Row struct {
	Offer     float64 `json:"offer"`
	Price     float64 `json:"price"`
	Loads     []Load  `json:"loads"`
	TotalLoad float64 `json:"total_load"`
}

type Result struct {
	Range     Range    `json:"range"`
	Buildings []string `json:"buildings"`
	Rows      []Row    `json:"rows"`
	// MaxTotalLoad is the largest TotalLoad over all rows.
	MaxTotalLoad float64 `json:"max_total_load"`
}
