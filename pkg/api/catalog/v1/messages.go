package catalogv1

type GetItemRequest struct {
	Id string `json:"id"`
}

type Item struct {
	Id          string    `json:"id"`
	Name        string    `json:"name"`
	Brand       string    `json:"brand"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	Sizes       []float64 `json:"sizes"`
	Category    string    `json:"category"`
	Colors      []string  `json:"colors"`
	InStock     bool      `json:"inStock"`
	Images      []string  `json:"images"`
	IsDeleted   bool      `json:"isDeleted"`
}

type GetItemResponse struct {
	Item *Item `json:"item"`
}

type SuggestRequest struct {
	Query string `json:"query"`
}

type Suggestion struct {
	Id    string `json:"id"`
	Name  string `json:"name"`
	Brand string `json:"brand"`
}

type SuggestResponse struct {
	Suggestions []*Suggestion `json:"suggestions"`
}
