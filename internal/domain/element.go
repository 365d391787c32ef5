package domain

// Element is a static periodic-table record that cards are based on.
type Element struct {
	AtomicNumber int    `json:"atomic_number"`
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	Period       int    `json:"period"`
	Group        int    `json:"group"`
	Color        string `json:"color"`
}

// Elements is the fixed reference set: hydrogen through calcium.
// Immutable for the process lifetime.
var Elements = []Element{
	{AtomicNumber: 1, Symbol: "H", Name: "Hydrogen", Period: 1, Group: 1, Color: "#FF6B6B"},
	{AtomicNumber: 2, Symbol: "He", Name: "Helium", Period: 1, Group: 18, Color: "#4ECDC4"},
	{AtomicNumber: 3, Symbol: "Li", Name: "Lithium", Period: 2, Group: 1, Color: "#FF6B6B"},
	{AtomicNumber: 4, Symbol: "Be", Name: "Beryllium", Period: 2, Group: 2, Color: "#45B7D1"},
	{AtomicNumber: 5, Symbol: "B", Name: "Boron", Period: 2, Group: 13, Color: "#96CEB4"},
	{AtomicNumber: 6, Symbol: "C", Name: "Carbon", Period: 2, Group: 14, Color: "#FFEAA7"},
	{AtomicNumber: 7, Symbol: "N", Name: "Nitrogen", Period: 2, Group: 15, Color: "#DDA0DD"},
	{AtomicNumber: 8, Symbol: "O", Name: "Oxygen", Period: 2, Group: 16, Color: "#FFB6C1"},
	{AtomicNumber: 9, Symbol: "F", Name: "Fluorine", Period: 2, Group: 17, Color: "#98FB98"},
	{AtomicNumber: 10, Symbol: "Ne", Name: "Neon", Period: 2, Group: 18, Color: "#4ECDC4"},
	{AtomicNumber: 11, Symbol: "Na", Name: "Sodium", Period: 3, Group: 1, Color: "#FF6B6B"},
	{AtomicNumber: 12, Symbol: "Mg", Name: "Magnesium", Period: 3, Group: 2, Color: "#45B7D1"},
	{AtomicNumber: 13, Symbol: "Al", Name: "Aluminium", Period: 3, Group: 13, Color: "#96CEB4"},
	{AtomicNumber: 14, Symbol: "Si", Name: "Silicon", Period: 3, Group: 14, Color: "#FFEAA7"},
	{AtomicNumber: 15, Symbol: "P", Name: "Phosphorus", Period: 3, Group: 15, Color: "#DDA0DD"},
	{AtomicNumber: 16, Symbol: "S", Name: "Sulfur", Period: 3, Group: 16, Color: "#FFB6C1"},
	{AtomicNumber: 17, Symbol: "Cl", Name: "Chlorine", Period: 3, Group: 17, Color: "#98FB98"},
	{AtomicNumber: 18, Symbol: "Ar", Name: "Argon", Period: 3, Group: 18, Color: "#4ECDC4"},
	{AtomicNumber: 19, Symbol: "K", Name: "Potassium", Period: 4, Group: 1, Color: "#FF6B6B"},
	{AtomicNumber: 20, Symbol: "Ca", Name: "Calcium", Period: 4, Group: 2, Color: "#45B7D1"},
}

// ElementBySymbol returns the element with the given symbol, or false if unknown.
func ElementBySymbol(symbol string) (Element, bool) {
	for _, el := range Elements {
		if el.Symbol == symbol {
			return el, true
		}
	}
	return Element{}, false
}

// ElementByAtomicNumber returns the element with the given atomic number, or false if unknown.
func ElementByAtomicNumber(atomicNumber int) (Element, bool) {
	for _, el := range Elements {
		if el.AtomicNumber == atomicNumber {
			return el, true
		}
	}
	return Element{}, false
}
