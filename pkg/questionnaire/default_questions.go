package questionnaire

import "pdq-assistant-be/internal/entity"

// DefaultQuestions is the built-in product development request form, used
// when no questions file is present.
func DefaultQuestions() []entity.Question {
	return []entity.Question{
		{
			Id:      "product_development_type",
			Section: "Product Development Request",
			Text:    "What type of product development is being requested?",
			Kind:    entity.AnswerKindChoice,
			Options: []string{
				"New Development", "Modify Existing", "Formulate to Benchmark",
				"Line Extension", "PDR Revision", "Formula Redirect", "Tech Transfer",
			},
		},
		{
			Id:      "request_date",
			Section: "Product Development Request",
			Text:    "What is the date of this request?",
			Kind:    entity.AnswerKindDate,
		},
		{
			Id:      "customer_company",
			Section: "Customer Profile",
			Text:    "What is the name of the company or brand?",
			Kind:    entity.AnswerKindText,
		},
		{
			Id:      "customer_contact",
			Section: "Customer Profile",
			Text:    "Who is the primary contact for this project?",
			Kind:    entity.AnswerKindText,
		},
		{
			Id:      "product_category",
			Section: "Product Details",
			Text:    "Which product category does this fall under?",
			Kind:    entity.AnswerKindChoice,
			Options: []string{"Skin Care", "Hair Care", "Body Care", "Color Cosmetics", "Fragrance", "Other"},
		},
		{
			Id:      "product_description",
			Section: "Product Details",
			Text:    "Describe the desired product, including texture, claims and benchmark references.",
			Kind:    entity.AnswerKindText,
		},
		{
			Id:      "target_retail_price",
			Section: "Product Details",
			Text:    "What is the target retail price?",
			Kind:    entity.AnswerKindNumber,
		},
		{
			Id:      "annual_volume",
			Section: "Timeline & Volume",
			Text:    "What is the estimated annual volume in units?",
			Kind:    entity.AnswerKindNumber,
		},
		{
			Id:      "launch_date",
			Section: "Timeline & Volume",
			Text:    "What is the target launch date?",
			Kind:    entity.AnswerKindDate,
		},
		{
			Id:      "regulatory_markets",
			Section: "Regulatory",
			Text:    "Which markets must the product comply with (e.g. EU, US, ASEAN)?",
			Kind:    entity.AnswerKindText,
		},
	}
}
