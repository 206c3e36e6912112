// internal/content/content.go
package content

import "strings"

// AnswerMarker separates the displayable question text from the inline
// answer annotation. Everything from the marker onward is host-only.
const AnswerMarker = "(A:"

// Category is one board column: a name plus its dollar values, lowest first.
type Category struct {
	Name  string
	Clues []int
}

// FinalQuestion is one entry in the Final Jeopardy pool.
type FinalQuestion struct {
	Category string `json:"category"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

var categories = []Category{
	{Name: "Food Safety", Clues: []int{200, 400, 600, 800, 1000}},
	{Name: "GMPs", Clues: []int{200, 400, 600, 800, 1000}},
	{Name: "FSMA", Clues: []int{200, 400, 600, 800, 1000}},
	{Name: "Allergens", Clues: []int{200, 400, 600, 800, 1000}},
	{Name: "HACCP", Clues: []int{200, 400, 600, 800, 1000}},
	{Name: "Chocolate", Clues: []int{200, 400, 600, 800, 1000}},
}

// questionBank maps a category name to its clue texts, one per row, lowest
// value first. The raw text keeps the "(A: ...)" annotation; callers use
// SplitAnswer before showing anything to players.
var questionBank = map[string][]string{
	"Food Safety": {
		"The temperature danger zone for potentially hazardous foods is generally recognized as being between 41°F and what upper temperature? (A: 135°F)",
		"This common practice involves cooling cooked food rapidly through the temperature danger zone. (A: Two-stage cooling)",
		"What is the minimum internal cooking temperature required for poultry? (A: 165°F)",
		"Cross-contamination can be prevented by using separate cutting boards for raw meat and this type of food. (A: Ready-to-eat foods)",
		"The \"Big 9\" refers to the major food ________ recognized by the US FDA that must be declared on labels. (A: Allergens)",
	},
	"GMPs": {
		"What does GMP stand for? (A: Good Manufacturing Practices)",
		"Employees must wash their _______ thoroughly before starting work, after using the restroom, and after handling raw materials. (A: Hands)",
		"This type of clothing, including hairnets and beard nets, must be worn to prevent physical contamination. (A: Protective clothing/uniforms/coverings)",
		"GMPs require maintaining clean and __________ facilities, including floors, walls, and equipment. (A: Sanitized)",
		"Proper storage practices under GMPs include keeping raw and cooked foods _________. (A: Separate)",
	},
	"FSMA": {
		"FSMA, signed into law in 2011, stands for the Food Safety ____________ Act. (A: Modernization)",
		"This key rule under FSMA requires food facilities to develop and implement a written Food Safety Plan based on hazard analysis. (A: Preventive Controls for Human Food Rule)",
		"A PCQI is a Preventive Controls _________ Individual, required to oversee the Food Safety Plan. (A: Qualified)",
		"FSMA shifted the focus of food safety from responding to contamination to ___________ it. (A: Preventing)",
		"This FSMA rule focuses on ensuring the safety of fresh fruits and vegetables during growing, harvesting, packing, and holding. (A: Produce Safety Rule)",
	},
	"Allergens": {
		"Besides Tree Nuts, Peanuts, Milk, Eggs, Soy, Wheat, Fish, and Crustacean Shellfish, what is the 9th major allergen added in 2023? (A: Sesame)",
		"FALCPA requires allergen declarations to be in clear, plain language, often using the word \"Contains\" followed by the allergen name(s). What does FALCPA stand for? (A: Food Allergen Labeling and Consumer Protection Act)",
		"An effective Allergen Control Plan includes preventing this, the unintentional incorporation of an allergen into a food. (A: Cross-contact)",
		"Cleaning procedures must be validated to ensure they effectively remove allergen ________ from shared equipment. (A: Residues)",
		"\"May contain...\" or \"Processed in a facility that also handles...\" are examples of what type of non-mandatory labeling? (A: Precautionary Allergen Labeling / PAL / Advisory Statements)",
	},
	"HACCP": {
		"What does HACCP stand for? (A: Hazard Analysis and Critical Control Point)",
		"How many principles are there in a HACCP system? (A: Seven)",
		"Principle 1 involves conducting a ________ analysis to identify potential biological, chemical, or physical risks. (A: Hazard)",
		"A point in the process where control can be applied and is essential to prevent or eliminate a food safety hazard is called a ______. (A: Critical Control Point / CCP)",
		"Establishing critical limits, monitoring procedures, corrective actions, verification, and record-keeping are the remaining principles after Hazard Analysis and determining CCPs. Which principle involves defining the maximum or minimum value a CCP must meet? (A: Establishing Critical Limits)",
	},
	"Chocolate": {
		"Chocolate liquor, cocoa butter, and sugar are the main ingredients in this type of chocolate. (A: Dark Chocolate)",
		"This process involves heating and cooling chocolate to specific temperatures to stabilize the cocoa butter crystals, giving it a smooth texture and sheen. (A: Tempering)",
		"Originating from the beans of the Theobroma cacao tree, chocolate production primarily occurs in regions near this imaginary line circling the Earth. (A: Equator)",
		"The \"bloom\" seen on old chocolate is often caused by migration of either fat or ______ to the surface. (A: Sugar)",
		"This type of chocolate contains milk solids and typically has a milder flavor than dark chocolate. (A: Milk Chocolate)",
	},
}

var finalQuestions = []FinalQuestion{
	{
		Category: "Food Safety Final",
		Question: "This federal agency is primarily responsible for regulating meat, poultry, and processed egg products in the US.",
		Answer:   "USDA-FSIS",
	},
	{
		Category: "GMP Final",
		Question: "What does the acronym 'PIC' often stand for in the context of food safety management?",
		Answer:   "Person In Charge",
	},
	{
		Category: "FSMA Final",
		Question: "This FSMA rule requires domestic and foreign facilities to establish and implement a food defense plan.",
		Answer:   "Mitigation Strategies to Protect Food Against Intentional Adulteration or 'Food Defense Rule'",
	},
}

// Categories returns the board layout. The returned slice must not be mutated.
func Categories() []Category { return categories }

// NumCategories reports the number of board columns.
func NumCategories() int { return len(categories) }

// NumRows reports the number of clue rows per category.
func NumRows() int {
	if len(categories) == 0 {
		return 0
	}
	return len(categories[0].Clues)
}

// CategoryName returns the name of the category at catIndex.
func CategoryName(catIndex int) (string, bool) {
	if catIndex < 0 || catIndex >= len(categories) {
		return "", false
	}
	return categories[catIndex].Name, true
}

// Value returns the face value of the clue at (catIndex, rowIndex).
func Value(catIndex, rowIndex int) (int, bool) {
	if catIndex < 0 || catIndex >= len(categories) {
		return 0, false
	}
	clues := categories[catIndex].Clues
	if rowIndex < 0 || rowIndex >= len(clues) {
		return 0, false
	}
	return clues[rowIndex], true
}

// Question returns the raw clue text (answer annotation included) at
// (catIndex, rowIndex).
func Question(catIndex, rowIndex int) (string, bool) {
	name, ok := CategoryName(catIndex)
	if !ok {
		return "", false
	}
	qs, ok := questionBank[name]
	if !ok || rowIndex < 0 || rowIndex >= len(qs) {
		return "", false
	}
	return qs[rowIndex], true
}

// FinalQuestions returns the Final Jeopardy pool. The returned slice must not
// be mutated.
func FinalQuestions() []FinalQuestion { return finalQuestions }

// SplitAnswer separates a raw clue into the text shown to players and the
// host-only answer. Without a marker the whole text is displayable and the
// answer is empty.
func SplitAnswer(raw string) (display, answer string) {
	idx := strings.Index(raw, AnswerMarker)
	if idx == -1 {
		return strings.TrimSpace(raw), ""
	}
	display = strings.TrimSpace(raw[:idx])
	answer = strings.TrimSpace(raw[idx+len(AnswerMarker):])
	answer = strings.TrimSuffix(answer, ")")
	return display, strings.TrimSpace(answer)
}
