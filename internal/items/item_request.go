package items

type ItemQuery struct {
	Code         string `form:"code"`
	Category     string `form:"category"`
	Location     string `form:"location"`
	Search       string `form:"search"`
	ShortageOnly bool   `form:"shortage"`
}

type CreateItemRequest struct {
	Code         string  `json:"code" binding:"required"`
	Name         string  `json:"name" binding:"required"`
	Category     string  `json:"category"`
	Manufacturer string  `json:"manufacturer"`
	Stock        int     `json:"stock" binding:"gte=0"`
	MinStock     int     `json:"minStock" binding:"gte=0"`
	Unit         string  `json:"unit"`
	Location     *string `json:"location"`
	BoxSize      *int    `json:"boxSize"`
}

type PatchItemRequest struct {
	Name         *string `json:"name"`
	Category     *string `json:"category"`
	Manufacturer *string `json:"manufacturer"`
	MinStock     *int    `json:"minStock" binding:"omitempty,gte=0"`
	Unit         *string `json:"unit"`
	BoxSize      *int    `json:"boxSize"`
}

type RelocateItemRequest struct {
	Location *string `json:"location"`
}
