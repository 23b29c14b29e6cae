package dto

type CreatePostRequest struct {
	Text     string `json:"text" binding:"required,max=1000"`
	ImageURL string `json:"imageUrl" binding:"omitempty,url"`
}

type SortRequest struct {
	Mode string `json:"mode" binding:"required,oneof=latest oldest liked"`
}

type SearchRequest struct {
	Q string `json:"q"`
}
